// Package operations runs the catalog analytics as a sequence of steps over
// one immutable snapshot of the catalog.
//
// Core Components:
//
// Pipeline: executes registered steps in order. Each run gets a run id that is
// carried in the context, each step gets its own OpenTelemetry span and
// timeout, and step and run outcomes are recorded as metrics.
//
// Step: a unit of work reading earlier results from RunState and storing its
// own. The standard steps are load, summarize, genres, temporal, forecast and
// export.
//
// RunState: tracks the run and its StepStates, and holds the stage results.
//
// Error policy:
//
// A step returning an empty-dataset or insufficient-history error is marked
// skipped and the run continues. Any other error, including missing files and
// missing columns, fails the step and aborts the run.
//
// Example usage:
//
//	p := operations.NewCatalogPipeline(operations.ConfigFromApp(cfg), logger, writer,
//		operations.WithMetrics(metrics))
//	state, err := p.Run(ctx, cfg.Paths.InputFile)
//	if err != nil {
//		return err
//	}
//	report := state.Report(cfg.Analysis.TopGenreCount)
package operations
