package app

import (
	"context"
	"fmt"
	"log/slog"

	"catalogcli/internal/config"
	"catalogcli/internal/exporter"
	"catalogcli/internal/files"
	"catalogcli/internal/infrastructure"
	"catalogcli/internal/operations"
	"catalogcli/internal/validation"
)

// Runtime holds the infrastructure shared by the command line drivers:
// configuration, resolved paths, the logger and telemetry
type Runtime struct {
	Config        *config.Config
	Paths         *config.Paths
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.PipelineMetrics
}

// NewRuntime validates cfg and initializes logging, directories and
// OpenTelemetry. A nil logger initializes the global one from cfg.Logging.
func NewRuntime(cfg *config.Config, logger *slog.Logger) (*Runtime, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if logger == nil {
		var err error
		if logger, err = infrastructure.InitializeLogger(cfg.Logging); err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
	}

	paths, err := cfg.Paths.GetPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	paths.LogPathResolution(logger)
	if err := validation.NewFileValidator(logger).ValidateOutputDirectory(paths.ReportsDir); err != nil {
		return nil, err
	}

	providers, err := infrastructure.InitializeOTel(infrastructure.NewOTelConfig(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}
	metrics, err := infrastructure.CreatePipelineMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	return &Runtime{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: providers,
		Metrics:       metrics,
	}, nil
}

// RunPipeline runs the catalog pipeline over input, or the configured input
// file when input is empty. A directory input resolves to its newest catalog
// file. With formats set the report is exported under the reports directory.
// The run state is returned even when the run fails.
func (rt *Runtime) RunPipeline(ctx context.Context, input string, formats []exporter.Format, observer operations.StepObserver) (*operations.RunState, error) {
	if input == "" {
		input = rt.Paths.InputFile
	}
	// Unresolvable inputs are left for the load step to report
	if resolved, err := files.NewDiscovery("").ResolveInput(input); err == nil {
		input = resolved
	}

	var writer operations.ReportWriter
	if len(formats) > 0 {
		writer = exporter.NewExporter(rt.Paths, formats, rt.Logger)
	}

	opts := []operations.Option{operations.WithMetrics(rt.Metrics)}
	if observer != nil {
		opts = append(opts, operations.WithObserver(observer))
	}

	pipeline := operations.NewCatalogPipeline(operations.ConfigFromApp(rt.Config), rt.Logger, writer, opts...)
	return pipeline.Run(ctx, input)
}

// Shutdown flushes telemetry and closes the log file
func (rt *Runtime) Shutdown(ctx context.Context) error {
	var err error
	if rt.OTelProviders != nil {
		err = rt.OTelProviders.Shutdown(ctx)
	}
	if cerr := infrastructure.CloseLogFile(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
