package domain

import (
	"time"
)

// ContentType is the catalog's title kind as it appears in the source ("Movie", "TV Show").
type ContentType string

const (
	ContentTypeMovie  ContentType = "Movie"
	ContentTypeTVShow ContentType = "TV Show"
)

// UnknownCountry is the sentinel used when a title has no country.
const UnknownCountry = "Unknown"

// RawTitle is one source row, kept as text exactly as read.
// An empty string means the cell was missing.
type RawTitle struct {
	ShowID      string `json:"show_id,omitempty" csv:"show_id"`
	Type        string `json:"type" csv:"type"`
	Title       string `json:"title" csv:"title"`
	Director    string `json:"director" csv:"director"`
	Cast        string `json:"cast" csv:"cast"`
	Country     string `json:"country" csv:"country"`
	DateAdded   string `json:"date_added" csv:"date_added"`
	ReleaseYear string `json:"release_year" csv:"release_year"`
	Rating      string `json:"rating" csv:"rating"`
	Duration    string `json:"duration" csv:"duration"`
	ListedIn    string `json:"listed_in" csv:"listed_in"`
	Description string `json:"description,omitempty" csv:"description"`
}

// Title is the normalized form of a catalog entry. It is derived once per run
// and must not be mutated afterwards.
type Title struct {
	Source RawTitle `json:"-"`

	ShowID         string         `json:"show_id,omitempty"`
	Type           ContentType    `json:"type"`
	Name           string         `json:"title"`
	ReleaseYear    int            `json:"release_year,omitempty"` // 0 when missing
	DateAdded      *time.Time     `json:"date_added,omitempty"`
	Country        string         `json:"country"`
	Duration       Duration       `json:"duration"`
	Genres         []string       `json:"genres"`
	Directors      []string       `json:"directors"`
	Actors         []string       `json:"actors"`
	RatingCode     string         `json:"rating,omitempty"`
	RatingCategory RatingCategory `json:"rating_category"`
}

// HasReleaseYear reports whether the release year could be read.
func (t Title) HasReleaseYear() bool {
	return t.ReleaseYear > 0
}

// YearAdded returns the calendar year the title was added.
func (t Title) YearAdded() (int, bool) {
	if t.DateAdded == nil {
		return 0, false
	}
	return t.DateAdded.Year(), true
}

// MonthAdded returns the calendar month the title was added.
func (t Title) MonthAdded() (time.Month, bool) {
	if t.DateAdded == nil {
		return 0, false
	}
	return t.DateAdded.Month(), true
}

// ContentAge is the number of years between release and addition to the catalog.
func (t Title) ContentAge() (int, bool) {
	year, ok := t.YearAdded()
	if !ok || !t.HasReleaseYear() {
		return 0, false
	}
	return year - t.ReleaseYear, true
}
