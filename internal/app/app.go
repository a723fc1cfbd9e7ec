package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "catalogcli/internal/errors"
	customMiddleware "catalogcli/internal/middleware"
	"catalogcli/internal/services"
	handlers "catalogcli/internal/transport/http"
	"catalogcli/pkg/contracts"
	"catalogcli/pkg/contracts/domain"
)

// AppName is the human readable application name
const AppName = "Catalog Pulse"

// Application serves one completed catalog report over HTTP
type Application struct {
	Runtime       *Runtime
	Router        *chi.Mux
	Server        *http.Server
	ReportService *services.ReportService
	HealthService *services.HealthService
	Logger        *slog.Logger
}

// NewApplication wires the report view for report. A nil report still
// serves health and metrics; every report route answers 404.
func NewApplication(rt *Runtime, report *domain.CatalogReport) (*Application, error) {
	if rt == nil || rt.Config == nil {
		return nil, fmt.Errorf("runtime is required")
	}
	logger := rt.Logger
	if logger == nil {
		logger = slog.Default()
	}

	reports := services.NewReportService(report, logger)
	app := &Application{
		Runtime:       rt,
		ReportService: reports,
		HealthService: services.NewHealthService(contracts.Version, reports, logger),
		Logger:        logger,
	}

	app.setupRouter()
	app.createServer()
	return app, nil
}

// setupRouter assembles middleware and routes.
// Order: RequestID → OTel → Logger → Recoverer → SecurityHeaders → RateLimit
func (a *Application) setupRouter() {
	r := chi.NewRouter()
	errorHandler := apperrors.NewErrorHandler(a.Logger, false)

	r.Use(customMiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(customMiddleware.NewOTelMiddleware(a.Runtime.Metrics, a.Logger).Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(errorHandler.Recoverer)
	r.Use(customMiddleware.SecurityHeaders)

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
	r.Get("/healthz", healthHandler.HealthCheck)
	r.Get("/healthz/live", healthHandler.LivenessCheck)

	r.Group(func(r chi.Router) {
		limit := a.Runtime.Config.Server.RateLimit
		if limit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(limit.RPS, limit.Burst, a.Logger).Handler)
		}

		r.Get("/api/version", healthHandler.Version)
		r.Mount("/api/report", handlers.NewReportHandler(a.ReportService, a.Logger, errorHandler).Routes())
	})

	// Metrics stay outside the rate limited group so scrapes are never refused
	metricsHandler := promhttp.Handler()
	if a.Runtime.OTelProviders != nil && a.Runtime.OTelProviders.PrometheusHTTP != nil {
		metricsHandler = a.Runtime.OTelProviders.PrometheusHTTP
	}
	r.Handle("/metrics", metricsHandler)

	a.Router = r
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	cfg := a.Runtime.Config.Server
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      a.Router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in the background. A listen failure calls
// cancel so Run can shut down.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", AppName),
		slog.String("version", contracts.Version),
		slog.Int("port", a.Runtime.Config.Server.Port))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Runtime.Config.Server.Port)))
	return nil
}

// Stop gracefully stops the server and flushes telemetry
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Runtime.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	if err := a.Runtime.Shutdown(shutdownCtx); err != nil {
		a.Logger.ErrorContext(ctx, "Error shutting down telemetry", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run serves until ctx is cancelled or the process receives an interrupt
func (a *Application) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal")
	case <-ctx.Done():
	}

	return a.Stop(ctx)
}
