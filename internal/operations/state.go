package operations

import (
	"sync"
	"time"

	"catalogcli/internal/analytics"
	"catalogcli/internal/dataprocessing"
	"catalogcli/pkg/contracts/domain"
)

// RunStatus represents the overall run status
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)

// RunState is the state of one pipeline run. Each stage reads the results of
// the stages before it and stores its own; stored results are never mutated.
type RunState struct {
	mu sync.RWMutex

	ID        string     `json:"id"`
	Input     string     `json:"input"`
	Status    RunStatus  `json:"status"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Error     error      `json:"-"`

	steps map[string]*StepState
	order []string

	catalog  *dataprocessing.Catalog
	summary  *domain.DescriptiveSummary
	genres   *analytics.FrequencyTable
	temporal *domain.TemporalAggregates
	forecast *domain.Forecast
	outputs  []string
}

// NewRunState creates a new run state for the given input file
func NewRunState(id, input string) *RunState {
	return &RunState{
		ID:        id,
		Input:     input,
		Status:    RunStatusPending,
		StartTime: time.Now(),
		steps:     make(map[string]*StepState),
	}
}

// Start marks the run as running
func (r *RunState) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Status = RunStatusRunning
	r.StartTime = time.Now()
}

// Complete marks the run as completed
func (r *RunState) Complete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.EndTime = &now
	r.Status = RunStatusCompleted
}

// Fail marks the run as failed
func (r *RunState) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.EndTime = &now
	r.Status = RunStatusFailed
	r.Error = err
}

// Cancel marks the run as cancelled
func (r *RunState) Cancel(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.EndTime = &now
	r.Status = RunStatusCancelled
	r.Error = err
}

// Duration returns the duration of the run
func (r *RunState) Duration() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.EndTime != nil {
		return r.EndTime.Sub(r.StartTime)
	}
	return time.Since(r.StartTime)
}

func (r *RunState) addStep(state *StepState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.steps[state.ID]; !ok {
		r.order = append(r.order, state.ID)
	}
	r.steps[state.ID] = state
}

// GetStep returns the state of a specific Step
func (r *RunState) GetStep(id string) *StepState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.steps[id]
}

// Steps returns the step states in execution order
func (r *RunState) Steps() []*StepState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	steps := make([]*StepState, 0, len(r.order))
	for _, id := range r.order {
		steps = append(steps, r.steps[id])
	}
	return steps
}

// Skipped maps each skipped step to its reason
func (r *RunState) Skipped() map[string]string {
	skipped := make(map[string]string)
	for _, s := range r.Steps() {
		s.mu.RLock()
		if s.Status == StepStatusSkipped {
			skipped[s.ID] = s.Message
		}
		s.mu.RUnlock()
	}
	return skipped
}

// HasFailures returns true if any Step has failed
func (r *RunState) HasFailures() bool {
	for _, s := range r.Steps() {
		if s.GetStatus() == StepStatusFailed {
			return true
		}
	}
	return false
}

// Catalog returns the loaded catalog, nil before the load stage ran
func (r *RunState) Catalog() *dataprocessing.Catalog {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.catalog
}

// SetCatalog stores the loaded catalog
func (r *RunState) SetCatalog(c *dataprocessing.Catalog) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.catalog = c
}

// Titles returns the normalized titles, empty before the load stage ran
func (r *RunState) Titles() []domain.Title {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.catalog == nil {
		return nil
	}
	return r.catalog.Titles
}

// Summary returns the descriptive summary, nil when unavailable
func (r *RunState) Summary() *domain.DescriptiveSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.summary
}

// SetSummary stores the descriptive summary
func (r *RunState) SetSummary(s *domain.DescriptiveSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summary = s
}

// Genres returns the genre frequency table, nil when unavailable
func (r *RunState) Genres() *analytics.FrequencyTable {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.genres
}

// SetGenres stores the genre frequency table
func (r *RunState) SetGenres(ft *analytics.FrequencyTable) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.genres = ft
}

// Temporal returns the temporal aggregates, nil when unavailable
func (r *RunState) Temporal() *domain.TemporalAggregates {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.temporal
}

// SetTemporal stores the temporal aggregates
func (r *RunState) SetTemporal(t *domain.TemporalAggregates) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.temporal = t
}

// Forecast returns the forecast, nil when unavailable
func (r *RunState) Forecast() *domain.Forecast {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.forecast
}

// SetForecast stores the forecast
func (r *RunState) SetForecast(f *domain.Forecast) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.forecast = f
}

// Outputs lists the files written by the export stage
func (r *RunState) Outputs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.outputs...)
}

// SetOutputs records the files written by the export stage
func (r *RunState) SetOutputs(paths []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outputs = append([]string(nil), paths...)
}

// Report assembles everything computed so far into a presentation report.
// topGenres bounds the TopGenres list; non-positive values keep every genre.
func (r *RunState) Report(topGenres int) *domain.CatalogReport {
	report := &domain.CatalogReport{
		RunID:       r.ID,
		Source:      r.Input,
		GeneratedAt: time.Now().UTC(),
		Titles:      r.Titles(),
		Summary:     r.Summary(),
		Temporal:    r.Temporal(),
		Forecast:    r.Forecast(),
	}
	if ft := r.Genres(); ft != nil {
		report.Genres = ft.Entries()
		if topGenres > 0 {
			report.TopGenres = ft.Top(topGenres)
		} else {
			report.TopGenres = report.Genres
		}
	}
	if skipped := r.Skipped(); len(skipped) > 0 {
		report.Skipped = skipped
	}
	return report
}
