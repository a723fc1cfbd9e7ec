package operations

import (
	"context"
	"fmt"
	"time"

	"catalogcli/internal/infrastructure"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	TracerName = "catalogcli.pipeline"
)

// PipelineTracer provides OpenTelemetry instrumentation for pipeline runs
type PipelineTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
}

// NewPipelineTracer creates a tracer recording into the given metrics.
// A nil metrics value records spans only.
func NewPipelineTracer(metrics *infrastructure.PipelineMetrics) *PipelineTracer {
	return &PipelineTracer{
		tracer:  otel.Tracer(TracerName),
		metrics: metrics,
	}
}

// TraceRun creates a span for a whole run
func (pt *PipelineTracer) TraceRun(ctx context.Context, runID, input string) (context.Context, trace.Span) {
	return pt.tracer.Start(ctx, "pipeline.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("run.input", input),
		),
	)
}

// TraceStep creates a span for an individual step
func (pt *PipelineTracer) TraceStep(ctx context.Context, runID, stepID string) (context.Context, trace.Span) {
	return pt.tracer.Start(ctx, fmt.Sprintf("pipeline.step.%s", stepID),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("step.id", stepID),
		),
	)
}

// RecordStep closes a step span and records its outcome
func (pt *PipelineTracer) RecordStep(ctx context.Context, span trace.Span, step *StepState) {
	status := step.GetStatus()
	duration := step.Duration()

	span.SetAttributes(
		attribute.String("step.status", string(status)),
		attribute.Float64("step.duration_seconds", duration.Seconds()),
	)

	switch status {
	case StepStatusFailed:
		if step.Error != nil {
			span.RecordError(step.Error)
		}
		span.SetStatus(codes.Error, step.Message)
	case StepStatusSkipped:
		span.AddEvent("step.skipped", trace.WithAttributes(attribute.String("reason", step.Message)))
		span.SetStatus(codes.Ok, "step skipped")
	default:
		span.SetStatus(codes.Ok, "step completed")
	}
	span.End()

	pt.metrics.RecordStage(ctx, step.ID, string(status), duration)
}

// RecordRun closes a run span and records its outcome
func (pt *PipelineTracer) RecordRun(ctx context.Context, span trace.Span, state *RunState, err error) {
	duration := state.Duration()
	span.SetAttributes(
		attribute.String("run.status", string(state.Status)),
		attribute.Float64("run.duration_seconds", duration.Seconds()),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "run completed")
	}
	span.End()

	pt.metrics.RecordRun(ctx, state.Input, duration, err)
}

// RecordLoad records load statistics on the current span and in metrics
func (pt *PipelineTracer) RecordLoad(ctx context.Context, format string, rows, degraded int, elapsed time.Duration) {
	infrastructure.AddSpanEvent(ctx, "catalog.loaded", map[string]interface{}{
		"format":   format,
		"rows":     rows,
		"degraded": degraded,
		"elapsed":  elapsed.Seconds(),
	})
	pt.metrics.RecordLoad(ctx, format, rows, degraded)
}
