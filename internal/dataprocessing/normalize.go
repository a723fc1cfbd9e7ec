package dataprocessing

import (
	"math"
	"strconv"
	"strings"
	"time"

	"catalogcli/pkg/contracts/domain"
)

// dateLayouts are tried in order against the trimmed date text.
var dateLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"2006-01-02",
	"1/2/2006",
	"1/2/06",
	"2-Jan-06",
	time.RFC3339,
}

// Normalize derives the typed form of one source row. It never fails:
// values that cannot be read become absent.
func Normalize(raw domain.RawTitle, ratings domain.RatingMap) domain.Title {
	if ratings == nil {
		ratings = domain.DefaultRatingMap()
	}

	code := strings.TrimSpace(raw.Rating)
	return domain.Title{
		Source:         raw,
		ShowID:         strings.TrimSpace(raw.ShowID),
		Type:           domain.ContentType(strings.TrimSpace(raw.Type)),
		Name:           strings.TrimSpace(raw.Title),
		ReleaseYear:    ParseYear(raw.ReleaseYear),
		DateAdded:      ParseDate(raw.DateAdded),
		Country:        ExtractCountry(raw.Country),
		Duration:       ParseDuration(raw.Duration),
		Genres:         SplitList(raw.ListedIn),
		Directors:      SplitList(raw.Director),
		Actors:         SplitList(raw.Cast),
		RatingCode:     code,
		RatingCategory: ratings.Categorize(code),
	}
}

// NormalizeAll normalizes rows in order.
func NormalizeAll(raws []domain.RawTitle, ratings domain.RatingMap) []domain.Title {
	if ratings == nil {
		ratings = domain.DefaultRatingMap()
	}
	titles := make([]domain.Title, len(raws))
	for i, raw := range raws {
		titles[i] = Normalize(raw, ratings)
	}
	return titles
}

// ParseDate returns nil when text matches none of the accepted layouts.
func ParseDate(text string) *time.Time {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return &t
		}
	}
	return nil
}

// ParseYear returns 0 for missing, non-integral or non-positive years.
// Spreadsheet exports sometimes carry years as "2019.0", which is accepted.
func ParseYear(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	if year, err := strconv.Atoi(text); err == nil {
		if year > 0 {
			return year
		}
		return 0
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f != math.Trunc(f) || f <= 0 || f > math.MaxInt32 {
		return 0
	}
	return int(f)
}

// ExtractCountry keeps the first comma separated country.
func ExtractCountry(text string) string {
	first, _, _ := strings.Cut(text, ",")
	first = strings.TrimSpace(first)
	if first == "" {
		return domain.UnknownCountry
	}
	return first
}

// ParseDuration reads "90 min" as minutes and "2 Seasons" / "1 Season" as
// seasons. Any other shape yields an unknown duration.
func ParseDuration(text string) domain.Duration {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return domain.Duration{}
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 0 {
		return domain.Duration{}
	}
	for _, token := range fields[1:] {
		switch token {
		case "min":
			return domain.MinutesDuration(n)
		case "Season", "Seasons":
			return domain.SeasonsDuration(n)
		}
	}
	return domain.Duration{}
}

// SplitList splits comma separated text into trimmed, non-empty items.
// The result is never nil.
func SplitList(text string) []string {
	items := []string{}
	for _, part := range strings.Split(text, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}
