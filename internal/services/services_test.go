package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "catalogcli/internal/errors"
	"catalogcli/pkg/contracts/domain"
)

func testReport() *domain.CatalogReport {
	return &domain.CatalogReport{
		RunID:       "run-7",
		Source:      "titles.csv",
		GeneratedAt: time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC),
		Titles:      []domain.Title{{ShowID: "s1"}, {ShowID: "s2"}},
		Summary:     &domain.DescriptiveSummary{TotalTitles: 2},
		Genres: []domain.LabelCount{
			{Label: "Dramas", Count: 5},
			{Label: "Comedies", Count: 3},
			{Label: "Documentaries", Count: 1},
		},
		Temporal: &domain.TemporalAggregates{},
		Skipped:  map[string]string{"forecast": "need at least 3 years of additions, have 2"},
	}
}

func TestReportService_Sections(t *testing.T) {
	ctx := context.Background()
	svc := NewReportService(testReport(), nil)

	report, err := svc.Report(ctx)
	require.NoError(t, err)
	assert.Equal(t, "run-7", report.RunID)

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalTitles)

	temporal, err := svc.Temporal(ctx)
	require.NoError(t, err)
	assert.NotNil(t, temporal)
}

func TestReportService_Genres(t *testing.T) {
	svc := NewReportService(testReport(), nil)

	tests := []struct {
		name    string
		top     int
		want    []string
		wantErr apperrors.ErrorType
	}{
		{"all", 0, []string{"Dramas", "Comedies", "Documentaries"}, ""},
		{"top two", 2, []string{"Dramas", "Comedies"}, ""},
		{"larger than table", 50, []string{"Dramas", "Comedies", "Documentaries"}, ""},
		{"negative", -1, nil, apperrors.ErrTypeValidation},
		{"too large", MaxTopGenres + 1, nil, apperrors.ErrTypeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Genres(context.Background(), tt.top)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, apperrors.TypeOf(err))
				return
			}
			require.NoError(t, err)
			labels := make([]string, len(got))
			for i, lc := range got {
				labels[i] = lc.Label
			}
			assert.Equal(t, tt.want, labels)
		})
	}
}

func TestReportService_SkippedForecast(t *testing.T) {
	_, err := NewReportService(testReport(), nil).Forecast(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTypeNotFound, apperrors.TypeOf(err))

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "forecast", appErr.Context["skipped_step"])
	assert.Contains(t, appErr.Context["reason"], "3 years")
}

func TestReportService_NoReport(t *testing.T) {
	ctx := context.Background()
	svc := NewReportService(nil, nil)

	_, err := svc.Report(ctx)
	assert.Equal(t, apperrors.ErrTypeNotFound, apperrors.TypeOf(err))
	_, err = svc.Summary(ctx)
	assert.Equal(t, apperrors.ErrTypeNotFound, apperrors.TypeOf(err))
	_, err = svc.Genres(ctx, 3)
	assert.Equal(t, apperrors.ErrTypeNotFound, apperrors.TypeOf(err))
	assert.Nil(t, svc.RunInfo())
}

func TestHealthService(t *testing.T) {
	ctx := context.Background()

	healthy := NewHealthService("1.2.3", NewReportService(testReport(), nil), nil).HealthCheck(ctx)
	assert.Equal(t, "ok", healthy.Status)
	assert.Equal(t, "1.2.3", healthy.Version)
	require.NotNil(t, healthy.Run)
	assert.Equal(t, "run-7", healthy.Run.RunID)
	assert.Equal(t, 2, healthy.Run.Titles)

	degraded := NewHealthService("1.2.3", NewReportService(nil, nil), nil).HealthCheck(ctx)
	assert.Equal(t, "degraded", degraded.Status)
	assert.Nil(t, degraded.Run)

	live := NewHealthService("1.2.3", nil, nil).LivenessCheck(ctx)
	assert.Equal(t, "alive", live.Status)
	assert.Contains(t, live.Runtime, "goroutines")
}
