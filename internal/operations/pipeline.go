package operations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"catalogcli/internal/analytics"
	apperrors "catalogcli/internal/errors"
	"catalogcli/internal/infrastructure"
)

// Pipeline runs its steps sequentially over one catalog snapshot
type Pipeline struct {
	steps    []Step
	config   *Config
	tracer   *PipelineTracer
	logger   *slog.Logger
	observer StepObserver
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithObserver registers an observer for step transitions
func WithObserver(o StepObserver) Option {
	return func(p *Pipeline) { p.observer = o }
}

// WithMetrics records spans and metrics into the given pipeline metrics
func WithMetrics(m *infrastructure.PipelineMetrics) Option {
	return func(p *Pipeline) { p.tracer = NewPipelineTracer(m) }
}

// NewPipeline creates an empty pipeline. A nil config uses NewConfig and a
// nil logger falls back to the default.
func NewPipeline(config *Config, logger *slog.Logger, opts ...Option) *Pipeline {
	if config == nil {
		config = NewConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pipeline{
		config: config,
		logger: logger.With(slog.String("component", "pipeline")),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.tracer == nil {
		p.tracer = NewPipelineTracer(nil)
	}
	return p
}

// NewCatalogPipeline wires the standard load, summarize, genres, temporal and
// forecast steps, followed by an export step when writer is non-nil.
func NewCatalogPipeline(config *Config, logger *slog.Logger, writer ReportWriter, opts ...Option) *Pipeline {
	p := NewPipeline(config, logger, opts...)
	summarizer := analytics.NewSummarizer(logger, analytics.SummarizerConfig{TopN: p.config.TopGenreCount})

	p.Register(NewLoadStep(p.config, p.tracer, logger))
	p.Register(NewSummarizeStep(summarizer))
	p.Register(NewGenresStep())
	p.Register(NewTemporalStep())
	p.Register(NewForecastStep(p.config.ForecastHorizon))
	if writer != nil {
		p.Register(NewExportStep(writer, p.config.TopGenreCount))
	}
	return p
}

// Register appends a step. Steps run in registration order.
func (p *Pipeline) Register(step Step) {
	p.steps = append(p.steps, step)
}

// Steps returns the registered step IDs in order
func (p *Pipeline) Steps() []string {
	ids := make([]string, len(p.steps))
	for i, s := range p.steps {
		ids[i] = s.ID()
	}
	return ids
}

// Run executes every step against the catalog at input. Steps failing with a
// recoverable error are skipped and the run continues; any other failure
// aborts the run. The returned state is never nil.
func (p *Pipeline) Run(ctx context.Context, input string) (*RunState, error) {
	runID := infrastructure.NewRunID()
	ctx = infrastructure.WithRunID(ctx, runID)

	state := NewRunState(runID, input)
	for _, step := range p.steps {
		state.addStep(NewStepState(step.ID(), step.Name()))
	}

	ctx, span := p.tracer.TraceRun(ctx, runID, input)
	if traceID := infrastructure.TraceIDFromContext(ctx); traceID != "" {
		ctx = infrastructure.WithTraceID(ctx, traceID)
	}

	state.Start()
	p.logger.InfoContext(ctx, "pipeline run started",
		slog.String("input", input),
		slog.Int("step_count", len(p.steps)))

	err := p.executeSequential(ctx, state)
	switch {
	case err == nil:
		state.Complete()
		p.logger.InfoContext(ctx, "pipeline run completed",
			slog.Duration("duration", state.Duration()),
			slog.Int("skipped", len(state.Skipped())))
	case GetErrorType(err) == ErrorTypeCancellation:
		state.Cancel(err)
		p.logger.WarnContext(ctx, "pipeline run cancelled", slog.String("error", err.Error()))
	default:
		state.Fail(err)
		p.logger.ErrorContext(ctx, "pipeline run failed", slog.String("error", err.Error()))
	}

	p.tracer.RecordRun(ctx, span, state, err)
	return state, err
}

func (p *Pipeline) executeSequential(ctx context.Context, state *RunState) error {
	for i, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.skipRemaining(state, i, "run cancelled")
			return NewCancellationError(step.ID(), err)
		}

		p.logger.DebugContext(ctx, "executing step",
			slog.String("step", step.ID()),
			slog.Int("step_number", i+1),
			slog.Int("total_steps", len(p.steps)))

		if err := p.executeStep(ctx, state, step); err != nil {
			p.skipRemaining(state, i+1, fmt.Sprintf("step %s did not complete", step.ID()))
			return err
		}
	}
	return nil
}

// executeStep runs one step inside its own span and timeout. A recoverable
// error marks the step skipped and is swallowed.
func (p *Pipeline) executeStep(ctx context.Context, state *RunState, step Step) error {
	stepState := state.GetStep(step.ID())
	if stepState == nil {
		return NewFatalError("step state not found", fmt.Errorf("step %s", step.ID()))
	}

	timeout := p.config.GetStageTimeout(step.ID())
	stepCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	stepCtx, span := p.tracer.TraceStep(stepCtx, state.ID, step.ID())

	stepState.Start()
	p.notifyStarted(state.ID, stepState)

	err := step.Execute(stepCtx, state)
	logger := p.logger.With(slog.String("step", step.ID()))

	switch {
	case err == nil:
		stepState.Complete()
		logger.InfoContext(ctx, "step completed", slog.Duration("duration", stepState.Duration()))
	case apperrors.IsRecoverable(err):
		stepState.Skip(err.Error())
		logger.WarnContext(ctx, "step skipped", slog.String("reason", err.Error()))
		err = nil
	default:
		err = p.classify(ctx, step.ID(), timeout, err)
		stepState.Fail(err)
		logger.ErrorContext(ctx, "step failed",
			slog.String("error", err.Error()),
			slog.String("error_type", string(apperrors.TypeOf(err))))
	}

	p.tracer.RecordStep(stepCtx, span, stepState)
	p.notifyFinished(state.ID, stepState)
	return err
}

// classify keeps domain errors as they are and tags context errors with the
// step that observed them
func (p *Pipeline) classify(ctx context.Context, stepID string, timeout time.Duration, err error) error {
	switch {
	case ctx.Err() != nil:
		return NewCancellationError(stepID, err)
	case errors.Is(err, context.DeadlineExceeded):
		return NewTimeoutError(stepID, timeout.String(), err)
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return NewExecutionError(stepID, err)
}

func (p *Pipeline) skipRemaining(state *RunState, from int, reason string) {
	for _, step := range p.steps[from:] {
		if st := state.GetStep(step.ID()); st != nil && st.GetStatus() == StepStatusPending {
			st.Skip(reason)
		}
	}
}

func (p *Pipeline) notifyStarted(runID string, st *StepState) {
	if p.observer != nil {
		p.observer.StepStarted(runID, st)
	}
}

func (p *Pipeline) notifyFinished(runID string, st *StepState) {
	if p.observer != nil {
		p.observer.StepFinished(runID, st)
	}
}
