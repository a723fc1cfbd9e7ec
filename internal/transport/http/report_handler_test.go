package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apierrors "catalogcli/internal/errors"
	"catalogcli/internal/services"
	"catalogcli/pkg/contracts/domain"
)

// MockReportService is a mock implementation of ReportServiceInterface
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Report(ctx context.Context) (*domain.CatalogReport, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CatalogReport), args.Error(1)
}

func (m *MockReportService) Summary(ctx context.Context) (*domain.DescriptiveSummary, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DescriptiveSummary), args.Error(1)
}

func (m *MockReportService) Genres(ctx context.Context, top int) ([]domain.LabelCount, error) {
	args := m.Called(top)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LabelCount), args.Error(1)
}

func (m *MockReportService) Temporal(ctx context.Context) (*domain.TemporalAggregates, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TemporalAggregates), args.Error(1)
}

func (m *MockReportService) Forecast(ctx context.Context) (*domain.Forecast, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Forecast), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestRouter(service ReportServiceInterface) http.Handler {
	logger := testLogger()
	handler := NewReportHandler(service, logger, apierrors.NewErrorHandler(logger, false))
	r := chi.NewRouter()
	r.Mount("/api/report", handler.Routes())
	return r
}

func doGet(t *testing.T, h http.Handler, target string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec, body
}

func TestReportHandler_GetReport(t *testing.T) {
	svc := new(MockReportService)
	svc.On("Report").Return(&domain.CatalogReport{RunID: "run-1", Source: "titles.csv"}, nil)

	rec, body := doGet(t, newTestRouter(svc), "/api/report")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "run-1", body["run_id"])
	svc.AssertExpectations(t)
}

func TestReportHandler_GetSummary(t *testing.T) {
	svc := new(MockReportService)
	svc.On("Summary").Return(&domain.DescriptiveSummary{TotalTitles: 42}, nil)

	rec, body := doGet(t, newTestRouter(svc), "/api/report/summary")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(42), body["total_titles"])
}

func TestReportHandler_GetGenres(t *testing.T) {
	genres := []domain.LabelCount{{Label: "Dramas", Count: 5}, {Label: "Comedies", Count: 3}}

	tests := []struct {
		name       string
		target     string
		setup      func(*MockReportService)
		wantStatus int
		wantType   string
	}{
		{
			name:   "without top",
			target: "/api/report/genres",
			setup: func(m *MockReportService) {
				m.On("Genres", 0).Return(genres, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "with top",
			target: "/api/report/genres?top=2",
			setup: func(m *MockReportService) {
				m.On("Genres", 2).Return(genres, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "non-integer top",
			target:     "/api/report/genres?top=abc",
			setup:      func(m *MockReportService) {},
			wantStatus: http.StatusBadRequest,
			wantType:   apierrors.TypeValidation,
		},
		{
			name:   "top out of range",
			target: "/api/report/genres?top=-3",
			setup: func(m *MockReportService) {
				m.On("Genres", -3).Return(nil, apierrors.NewAppValidationError("top must be between 0 and 1000, got -3"))
			},
			wantStatus: http.StatusBadRequest,
			wantType:   apierrors.TypeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockReportService)
			tt.setup(svc)

			rec, body := doGet(t, newTestRouter(svc), tt.target)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantType != "" {
				assert.Equal(t, tt.wantType, body["type"])
				assert.Equal(t, float64(tt.wantStatus), body["status"])
			} else {
				assert.Equal(t, float64(2), body["count"])
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestReportHandler_GetTemporal(t *testing.T) {
	svc := new(MockReportService)
	svc.On("Temporal").Return(&domain.TemporalAggregates{
		AdditionsByYear: []domain.YearTotal{{Year: 2020, Count: 3, Cumulative: 3}},
	}, nil)

	rec, body := doGet(t, newTestRouter(svc), "/api/report/temporal")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["additions_by_year"], 1)
}

func TestReportHandler_GetForecast(t *testing.T) {
	t.Run("available", func(t *testing.T) {
		svc := new(MockReportService)
		svc.On("Forecast").Return(&domain.Forecast{BaseYear: 2021, Rate: 10, Horizon: 3}, nil)

		rec, body := doGet(t, newTestRouter(svc), "/api/report/forecast")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(2021), body["base_year"])
	})

	t.Run("skipped by the run", func(t *testing.T) {
		report := &domain.CatalogReport{
			RunID:   "run-2",
			Skipped: map[string]string{"forecast": "need at least 3 years of additions, have 1"},
		}
		rec, body := doGet(t, newTestRouter(services.NewReportService(report, nil)), "/api/report/forecast")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, apierrors.TypeNotFound, body["type"])
		assert.Equal(t, "/api/report/forecast", body["instance"])
		ctx, ok := body["context"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "forecast", ctx["skipped_step"])
	})
}

func TestReportHandler_NoReport(t *testing.T) {
	router := newTestRouter(services.NewReportService(nil, nil))

	for _, target := range []string{
		"/api/report", "/api/report/summary", "/api/report/genres", "/api/report/temporal", "/api/report/forecast",
	} {
		t.Run(target, func(t *testing.T) {
			rec, body := doGet(t, router, target)
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Equal(t, apierrors.TypeNotFound, body["type"])
		})
	}
}

func TestHealthHandler(t *testing.T) {
	reports := services.NewReportService(&domain.CatalogReport{RunID: "run-3"}, nil)
	handler := NewHealthHandler(services.NewHealthService("9.9.9", reports, nil), testLogger())

	r := chi.NewRouter()
	r.Get("/healthz", handler.HealthCheck)
	r.Get("/healthz/live", handler.LivenessCheck)
	r.Get("/api/version", handler.Version)

	rec, body := doGet(t, r, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "9.9.9", body["version"])
	run, ok := body["run"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "run-3", run["run_id"])

	_, body = doGet(t, r, "/healthz/live")
	assert.Equal(t, "alive", body["status"])

	_, body = doGet(t, r, "/api/version")
	assert.Equal(t, "9.9.9", body["version"])
}
