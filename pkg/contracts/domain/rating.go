package domain

import "strings"

// RatingCategory groups rating codes into audience bands
type RatingCategory string

const (
	RatingKids      RatingCategory = "Kids"
	RatingOlderKids RatingCategory = "Older Kids"
	RatingTeen      RatingCategory = "Teen"
	RatingAdult     RatingCategory = "Adult"
	RatingOther     RatingCategory = "Other"
)

// RatingCategories lists every category in display order.
var RatingCategories = []RatingCategory{
	RatingKids,
	RatingOlderKids,
	RatingTeen,
	RatingAdult,
	RatingOther,
}

// IsValid reports whether c is one of the five known categories
func (c RatingCategory) IsValid() bool {
	for _, known := range RatingCategories {
		if c == known {
			return true
		}
	}
	return false
}

// RatingMap maps a rating code (e.g. "TV-MA") to its category.
type RatingMap map[string]RatingCategory

// DefaultRatingMap returns a fresh copy of the standard rating table.
func DefaultRatingMap() RatingMap {
	return RatingMap{
		"TV-MA":    RatingAdult,
		"R":        RatingAdult,
		"NC-17":    RatingAdult,
		"NR":       RatingAdult,
		"UR":       RatingAdult,
		"TV-14":    RatingTeen,
		"PG-13":    RatingTeen,
		"TV-PG":    RatingOlderKids,
		"PG":       RatingOlderKids,
		"TV-Y7":    RatingOlderKids,
		"TV-Y7-FV": RatingOlderKids,
		"G":        RatingKids,
		"TV-Y":     RatingKids,
	}
}

// Categorize maps a code to its category. Unknown or empty codes, and
// codes mapped to an invalid category, fall back to Other.
func (m RatingMap) Categorize(code string) RatingCategory {
	code = strings.TrimSpace(code)
	if code == "" {
		return RatingOther
	}
	if cat, ok := m[code]; ok && cat.IsValid() {
		return cat
	}
	return RatingOther
}
