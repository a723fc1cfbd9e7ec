package operations

import (
	"time"

	"catalogcli/internal/config"
	"catalogcli/internal/forecast"
	"catalogcli/pkg/contracts/domain"
)

// Step identifiers, in execution order
const (
	StepIDLoad      = "load"
	StepIDSummarize = "summarize"
	StepIDGenres    = "genres"
	StepIDTemporal  = "temporal"
	StepIDForecast  = "forecast"
	StepIDExport    = "export"
)

const (
	// DefaultStageTimeout bounds a stage without its own timeout
	DefaultStageTimeout = 2 * time.Minute
	// DefaultLoadTimeout allows large workbooks to be read
	DefaultLoadTimeout = 5 * time.Minute
	// DefaultTopGenreCount is the size of the top-genre list
	DefaultTopGenreCount = 10
)

// Config represents the pipeline configuration
type Config struct {
	// Step-specific timeouts
	StageTimeouts map[string]time.Duration `json:"stage_timeouts"`

	// Rating code table applied while normalizing
	RatingMap domain.RatingMap `json:"rating_map,omitempty"`

	// Workbook sheet to read, empty for automatic discovery
	Sheet string `json:"sheet,omitempty"`

	// Number of genres in the top list
	TopGenreCount int `json:"top_genre_count"`

	// Number of projected years
	ForecastHorizon int `json:"forecast_horizon"`
}

// NewConfig returns the default pipeline configuration
func NewConfig() *Config {
	return &Config{
		StageTimeouts: map[string]time.Duration{
			StepIDLoad: DefaultLoadTimeout,
		},
		RatingMap:       domain.DefaultRatingMap(),
		TopGenreCount:   DefaultTopGenreCount,
		ForecastHorizon: forecast.DefaultHorizon,
	}
}

// ConfigFromApp builds the pipeline configuration from the application config
func ConfigFromApp(cfg *config.Config) *Config {
	c := NewConfig()
	if cfg == nil {
		return c
	}
	c.RatingMap = cfg.Analysis.Ratings()
	c.Sheet = cfg.Paths.Sheet
	c.TopGenreCount = cfg.Analysis.TopGenreCount
	c.ForecastHorizon = cfg.Analysis.ForecastHorizonYears
	return c
}

// GetStageTimeout returns the timeout for a specific Step
func (c *Config) GetStageTimeout(stepID string) time.Duration {
	if timeout, ok := c.StageTimeouts[stepID]; ok && timeout > 0 {
		return timeout
	}
	return DefaultStageTimeout
}

// SetStageTimeout sets the timeout for a specific Step
func (c *Config) SetStageTimeout(stepID string, timeout time.Duration) {
	if c.StageTimeouts == nil {
		c.StageTimeouts = make(map[string]time.Duration)
	}
	c.StageTimeouts[stepID] = timeout
}
