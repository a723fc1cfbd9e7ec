// Package app wires the catalog components together for the command line
// drivers.
//
// # Runtime
//
// NewRuntime turns a loaded configuration into the shared infrastructure:
// the JSON logger, resolved and created directories, OpenTelemetry providers
// and the pipeline metrics. RunPipeline builds the standard catalog pipeline
// on top of it, optionally exporting the report.
//
// # Application
//
// Application serves one completed report through a chi router with the
// middleware chain RequestID, RealIP, OTel, StructuredLogger, Recoverer and
// SecurityHeaders. The report API sits behind the rate limiter; /healthz and
// /metrics do not.
//
// # Usage
//
//	rt, err := app.NewRuntime(cfg, nil)
//	state, err := rt.RunPipeline(ctx, "", nil, nil)
//	application, err := app.NewApplication(rt, state.Report(cfg.Analysis.TopGenreCount))
//	err = application.Run(ctx)
//
// # Graceful Shutdown
//
// Run handles SIGINT and SIGTERM: active requests complete within the
// configured shutdown timeout and telemetry is flushed. Errors are returned
// to the caller; the package never calls os.Exit.
package app
