package http

import (
	"context"

	"catalogcli/internal/services"
	"catalogcli/pkg/contracts/domain"
)

// ReportServiceInterface defines the report reads the handlers need
type ReportServiceInterface interface {
	Report(ctx context.Context) (*domain.CatalogReport, error)
	Summary(ctx context.Context) (*domain.DescriptiveSummary, error)
	Genres(ctx context.Context, top int) ([]domain.LabelCount, error)
	Temporal(ctx context.Context) (*domain.TemporalAggregates, error)
	Forecast(ctx context.Context) (*domain.Forecast, error)
}

// HealthServiceInterface defines the health checks the handlers need
type HealthServiceInterface interface {
	HealthCheck(ctx context.Context) services.HealthStatus
	LivenessCheck(ctx context.Context) services.HealthStatus
	Version() map[string]interface{}
}

var (
	_ ReportServiceInterface = (*services.ReportService)(nil)
	_ HealthServiceInterface = (*services.HealthService)(nil)
)
