package services

import (
	"context"
	"fmt"
	"log/slog"

	apperrors "catalogcli/internal/errors"
	"catalogcli/internal/operations"
	"catalogcli/pkg/contracts/domain"
)

// MaxTopGenres bounds the top-K genre query
const MaxTopGenres = 1000

// ReportService serves the sections of one completed catalog report.
// The report is never modified after construction, so the service is safe
// for concurrent use.
type ReportService struct {
	report *domain.CatalogReport
	logger *slog.Logger
}

// NewReportService wraps a finished report. A nil report yields not-found
// errors from every accessor.
func NewReportService(report *domain.CatalogReport, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{
		report: report,
		logger: logger.With(slog.String("service", "report")),
	}
}

// Report returns the whole report
func (s *ReportService) Report(ctx context.Context) (*domain.CatalogReport, error) {
	if s.report == nil {
		return nil, apperrors.NewNotFoundError("report")
	}
	return s.report, nil
}

// Summary returns the descriptive summary
func (s *ReportService) Summary(ctx context.Context) (*domain.DescriptiveSummary, error) {
	if s.report == nil || s.report.Summary == nil {
		return nil, s.missing(ctx, "summary", operations.StepIDSummarize)
	}
	return s.report.Summary, nil
}

// Genres returns the top entries of the genre table. top == 0 returns the
// whole table; a top larger than the table returns every entry.
func (s *ReportService) Genres(ctx context.Context, top int) ([]domain.LabelCount, error) {
	if top < 0 || top > MaxTopGenres {
		return nil, apperrors.NewAppValidationError(
			fmt.Sprintf("top must be between 0 and %d, got %d", MaxTopGenres, top)).
			WithContext("field", "top")
	}
	if s.report == nil || s.report.Genres == nil {
		return nil, s.missing(ctx, "genres", operations.StepIDGenres)
	}

	genres := s.report.Genres
	if top > 0 && top < len(genres) {
		genres = genres[:top]
	}
	return genres, nil
}

// Temporal returns the temporal aggregates
func (s *ReportService) Temporal(ctx context.Context) (*domain.TemporalAggregates, error) {
	if s.report == nil || s.report.Temporal == nil {
		return nil, s.missing(ctx, "temporal aggregates", operations.StepIDTemporal)
	}
	return s.report.Temporal, nil
}

// Forecast returns the catalog growth forecast
func (s *ReportService) Forecast(ctx context.Context) (*domain.Forecast, error) {
	if s.report == nil || s.report.Forecast == nil {
		return nil, s.missing(ctx, "forecast", operations.StepIDForecast)
	}
	return s.report.Forecast, nil
}

// RunInfo describes the run behind the report, or nil without one
func (s *ReportService) RunInfo() *RunInfo {
	if s.report == nil {
		return nil
	}
	return &RunInfo{
		RunID:       s.report.RunID,
		Source:      s.report.Source,
		GeneratedAt: s.report.GeneratedAt,
		Titles:      len(s.report.Titles),
		Skipped:     s.report.Skipped,
	}
}

// missing reports a section the run did not produce, carrying the skip
// reason when the step was skipped
func (s *ReportService) missing(ctx context.Context, resource, step string) error {
	err := apperrors.NewNotFoundError(resource)
	if s.report != nil {
		if reason, ok := s.report.Skipped[step]; ok {
			err.WithContext("skipped_step", step).WithContext("reason", reason)
		}
	}
	s.logger.DebugContext(ctx, "report section unavailable",
		slog.String("resource", resource))
	return err
}
