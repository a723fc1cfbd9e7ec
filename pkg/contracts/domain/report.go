package domain

import (
	"time"
)

// Share is a value with its absolute count and its proportion of the whole.
type Share struct {
	Value      string  `json:"value"`
	Count      int     `json:"count"`
	Proportion float64 `json:"proportion"`
}

// FieldMissing reports how many records lack a value for one field.
type FieldMissing struct {
	Field   string `json:"field"`
	Missing int    `json:"missing"`
}

// LabelCount is one entry of a frequency table.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// DescriptiveSummary holds the headline statistics of a catalog.
// Pointer fields are nil when no record carries the underlying value.
type DescriptiveSummary struct {
	TotalTitles         int            `json:"total_titles"`
	ReleaseYearMin      *int           `json:"release_year_min,omitempty"`
	ReleaseYearMax      *int           `json:"release_year_max,omitempty"`
	LatestAddition      *time.Time     `json:"latest_addition,omitempty"`
	TypeDistribution    []Share        `json:"type_distribution"`
	MissingValues       []FieldMissing `json:"missing_values"`
	ModeYearAdded       *int           `json:"mode_year_added,omitempty"`
	ModeReleaseYear     *int           `json:"mode_release_year,omitempty"`
	MeanDurationMinutes *float64       `json:"mean_duration_minutes,omitempty"`
	MeanDurationSeasons *float64       `json:"mean_duration_seasons,omitempty"`
	RatingDistribution  []Share        `json:"rating_distribution"`
	TopCountries        []LabelCount   `json:"top_countries"`
	TopDirectors        []LabelCount   `json:"top_directors"`
	TopActors           []LabelCount   `json:"top_actors"`
}

// YearTypeRow counts titles per type for one release year.
type YearTypeRow struct {
	Year   int                 `json:"year"`
	Counts map[ContentType]int `json:"counts"`
	Total  int                 `json:"total"`
}

// MonthTypeRow counts titles per type for one calendar month of addition.
type MonthTypeRow struct {
	Month  time.Month          `json:"month"`
	Counts map[ContentType]int `json:"counts"`
	Total  int                 `json:"total"`
}

// YearTotal is the number of titles added in a year, with the running total.
type YearTotal struct {
	Year       int `json:"year"`
	Count      int `json:"count"`
	Cumulative int `json:"cumulative"`
}

// AgeStats describes the distribution of content age for one type.
type AgeStats struct {
	Type   ContentType `json:"type"`
	Count  int         `json:"count"`
	Mean   float64     `json:"mean"`
	Std    float64     `json:"std"`
	Min    float64     `json:"min"`
	Q25    float64     `json:"q25"`
	Median float64     `json:"median"`
	Q75    float64     `json:"q75"`
	Max    float64     `json:"max"`
}

// TemporalAggregates groups the catalog over time.
type TemporalAggregates struct {
	Types             []ContentType  `json:"types"`
	ReleaseYearByType []YearTypeRow  `json:"release_year_by_type"`
	MonthAddedByType  []MonthTypeRow `json:"month_added_by_type"`
	AdditionsByYear   []YearTotal    `json:"additions_by_year"`
	ContentAge        []AgeStats     `json:"content_age"`
}

// GrowthPoint is one year of the densified addition series.
// GrowthRate and RollingMean are percentages, nil where undefined.
type GrowthPoint struct {
	Year        int      `json:"year"`
	Total       int      `json:"total"`
	GrowthRate  *float64 `json:"growth_rate,omitempty"`
	RollingMean *float64 `json:"rolling_mean,omitempty"`
}

// ForecastPoint is a projected catalog size for a future year.
type ForecastPoint struct {
	Step  int     `json:"step"`
	Year  int     `json:"year"`
	Total float64 `json:"total"`
}

// Forecast is a constant-rate geometric extrapolation of yearly additions.
type Forecast struct {
	History   []GrowthPoint   `json:"history"`
	BaseYear  int             `json:"base_year"`
	BaseTotal int             `json:"base_total"`
	Rate      float64         `json:"rate"`
	Horizon   int             `json:"horizon"`
	Points    []ForecastPoint `json:"points"`
}

// CatalogReport bundles every structure a run produces for presentation.
type CatalogReport struct {
	RunID       string              `json:"run_id"`
	Source      string              `json:"source"`
	GeneratedAt time.Time           `json:"generated_at"`
	Titles      []Title             `json:"titles,omitempty"`
	Summary     *DescriptiveSummary `json:"summary,omitempty"`
	Genres      []LabelCount        `json:"genres,omitempty"`
	TopGenres   []LabelCount        `json:"top_genres,omitempty"`
	Temporal    *TemporalAggregates `json:"temporal,omitempty"`
	Forecast    *Forecast           `json:"forecast,omitempty"`
	Skipped     map[string]string   `json:"skipped,omitempty"`
}
