package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"catalogcli/internal/app"
	"catalogcli/internal/config"
	"catalogcli/internal/exporter"
	"catalogcli/pkg/contracts/domain"
)

func main() {
	configFile := flag.String("config", "", "config file (defaults to catalog.yaml, configs/catalog.yaml or $CATALOG_CONFIG)")
	input := flag.String("in", "", "catalog CSV or xlsx file (defaults to paths.input_file)")
	port := flag.Int("port", 0, "listen port (defaults to server.port)")
	formats := flag.String("export", "", "also export the report in these formats, e.g. csv,json")
	flag.Parse()

	if err := serve(*configFile, *input, *port, *formats); err != nil {
		slog.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// serve runs the pipeline once and serves the resulting report until
// interrupted. A run that fails still starts the server so /healthz can
// report the degraded state.
func serve(configFile, input string, port int, exportFormats string) error {
	var cfg *config.Config
	var err error
	if configFile != "" {
		cfg, err = config.LoadFrom(configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if port != 0 {
		cfg.Server.Port = port
	}

	var formats []exporter.Format
	if exportFormats != "" {
		if formats, err = exporter.ParseFormats(exportFormats); err != nil {
			return err
		}
	}

	rt, err := app.NewRuntime(cfg, nil)
	if err != nil {
		return fmt.Errorf("failed to initialize runtime: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var report *domain.CatalogReport
	state, err := rt.RunPipeline(ctx, input, formats, nil)
	if err != nil {
		rt.Logger.WarnContext(ctx, "Pipeline run failed, serving without a report",
			slog.String("error", err.Error()))
	} else {
		report = state.Report(cfg.Analysis.TopGenreCount)
	}

	application, err := app.NewApplication(rt, report)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return application.Run(ctx)
}
