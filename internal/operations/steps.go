package operations

import (
	"context"
	"log/slog"
	"time"

	"catalogcli/internal/analytics"
	"catalogcli/internal/dataprocessing"
	"catalogcli/internal/forecast"
)

// LoadStep reads and normalizes the catalog file
type LoadStep struct {
	BaseStage
	config *Config
	tracer *PipelineTracer
	logger *slog.Logger
}

// NewLoadStep creates the load step
func NewLoadStep(config *Config, tracer *PipelineTracer, logger *slog.Logger) *LoadStep {
	return &LoadStep{
		BaseStage: NewBaseStage(StepIDLoad, "Load Catalog"),
		config:    config,
		tracer:    tracer,
		logger:    logger,
	}
}

// Execute loads the catalog named by the run input
func (s *LoadStep) Execute(ctx context.Context, state *RunState) error {
	start := time.Now()
	catalog, err := dataprocessing.LoadCatalog(ctx, state.Input, dataprocessing.LoadOptions{
		RatingMap: s.config.RatingMap,
		Sheet:     s.config.Sheet,
		Logger:    s.logger,
	})
	if err != nil {
		return err
	}

	state.SetCatalog(catalog)
	if st := state.GetStep(s.ID()); st != nil {
		st.SetMetadata("rows", catalog.Stats.Rows)
		st.SetMetadata("degraded_rows", catalog.Stats.DegradedRows)
		st.SetMetadata("malformed_rows", catalog.Stats.MalformedRows)
		st.SetMetadata("format", catalog.Stats.Format)
	}
	if s.tracer != nil {
		s.tracer.RecordLoad(ctx, catalog.Stats.Format, catalog.Stats.Rows, catalog.Stats.DegradedRows, time.Since(start))
	}
	return nil
}

// SummarizeStep computes the descriptive summary
type SummarizeStep struct {
	BaseStage
	summarizer *analytics.Summarizer
}

// NewSummarizeStep creates the summarize step
func NewSummarizeStep(summarizer *analytics.Summarizer) *SummarizeStep {
	return &SummarizeStep{
		BaseStage:  NewBaseStage(StepIDSummarize, "Descriptive Summary"),
		summarizer: summarizer,
	}
}

// Execute summarizes the loaded titles
func (s *SummarizeStep) Execute(ctx context.Context, state *RunState) error {
	summary, err := s.summarizer.Summarize(ctx, state.Titles())
	if err != nil {
		return err
	}
	state.SetSummary(summary)
	return nil
}

// GenresStep expands genre lists into a frequency table
type GenresStep struct {
	BaseStage
}

// NewGenresStep creates the genres step
func NewGenresStep() *GenresStep {
	return &GenresStep{BaseStage: NewBaseStage(StepIDGenres, "Genre Expansion")}
}

// Execute counts genres over the loaded titles
func (s *GenresStep) Execute(ctx context.Context, state *RunState) error {
	ft := analytics.ExpandGenres(state.Titles())
	state.SetGenres(ft)
	if st := state.GetStep(s.ID()); st != nil {
		st.SetMetadata("distinct_genres", ft.Len())
	}
	return nil
}

// TemporalStep builds the time-based aggregates
type TemporalStep struct {
	BaseStage
}

// NewTemporalStep creates the temporal step
func NewTemporalStep() *TemporalStep {
	return &TemporalStep{BaseStage: NewBaseStage(StepIDTemporal, "Temporal Aggregation")}
}

// Execute aggregates the loaded titles over time
func (s *TemporalStep) Execute(ctx context.Context, state *RunState) error {
	state.SetTemporal(analytics.Aggregate(state.Titles()))
	return nil
}

// ForecastStep projects yearly additions forward
type ForecastStep struct {
	BaseStage
	horizon int
}

// NewForecastStep creates the forecast step
func NewForecastStep(horizon int) *ForecastStep {
	return &ForecastStep{
		BaseStage: NewBaseStage(StepIDForecast, "Growth Forecast"),
		horizon:   horizon,
	}
}

// Execute forecasts from the additions-by-year series of the temporal stage,
// aggregating directly when that stage did not run
func (s *ForecastStep) Execute(ctx context.Context, state *RunState) error {
	temporal := state.Temporal()
	if temporal == nil {
		temporal = analytics.Aggregate(state.Titles())
	}
	fc, err := forecast.Forecast(temporal.AdditionsByYear, s.horizon)
	if err != nil {
		return err
	}
	state.SetForecast(fc)
	return nil
}

// ExportStep hands the assembled report to a writer
type ExportStep struct {
	BaseStage
	writer    ReportWriter
	topGenres int
}

// NewExportStep creates the export step
func NewExportStep(writer ReportWriter, topGenres int) *ExportStep {
	return &ExportStep{
		BaseStage: NewBaseStage(StepIDExport, "Export Report"),
		writer:    writer,
		topGenres: topGenres,
	}
}

// Execute writes the report built from the results so far
func (s *ExportStep) Execute(ctx context.Context, state *RunState) error {
	paths, err := s.writer.Write(ctx, state.Report(s.topGenres))
	if err != nil {
		return err
	}
	state.SetOutputs(paths)
	if st := state.GetStep(s.ID()); st != nil {
		st.SetMetadata("files", len(paths))
	}
	return nil
}
