package exporter

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"catalogcli/internal/config"
	apperrors "catalogcli/internal/errors"
	"catalogcli/pkg/contracts/domain"
)

func testPaths(t *testing.T) *config.Paths {
	t.Helper()
	dir := t.TempDir()
	return &config.Paths{
		BaseDir:    dir,
		ReportsDir: filepath.Join(dir, "reports"),
		LogsDir:    filepath.Join(dir, "logs"),
	}
}

func ptr[T any](v T) *T { return &v }

func sampleReport() *domain.CatalogReport {
	added := time.Date(2021, time.September, 25, 0, 0, 0, 0, time.UTC)
	counts := func(movie, show int) map[domain.ContentType]int {
		return map[domain.ContentType]int{domain.ContentTypeMovie: movie, domain.ContentTypeTVShow: show}
	}

	months := make([]domain.MonthTypeRow, 12)
	for i := range months {
		months[i] = domain.MonthTypeRow{Month: time.Month(i + 1), Counts: counts(0, 0)}
	}
	months[8] = domain.MonthTypeRow{Month: time.September, Counts: counts(1, 1), Total: 2}

	return &domain.CatalogReport{
		RunID:       "run-1",
		Source:      "titles.csv",
		GeneratedAt: time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC),
		Titles: []domain.Title{
			{
				ShowID: "s1", Type: domain.ContentTypeMovie, Name: "Dick Johnson Is Dead",
				ReleaseYear: 2020, DateAdded: &added, Country: "United States",
				Duration: domain.MinutesDuration(90), Genres: []string{"Documentaries"},
				Directors: []string{"Kirsten Johnson"}, Actors: []string{},
				RatingCode: "PG-13", RatingCategory: domain.RatingTeen,
			},
			{
				ShowID: "s2", Type: domain.ContentTypeTVShow, Name: "Blood & Water",
				DateAdded: &added, Country: "South Africa",
				Duration: domain.SeasonsDuration(2), Genres: []string{"TV Dramas", "TV Mysteries"},
				Directors: []string{}, Actors: []string{"Ama Qamata", "Khosi Ngema"},
				RatingCode: "TV-MA", RatingCategory: domain.RatingAdult,
			},
		},
		Summary: &domain.DescriptiveSummary{
			TotalTitles:    2,
			ReleaseYearMin: ptr(2020),
			ReleaseYearMax: ptr(2020),
			LatestAddition: &added,
			TypeDistribution: []domain.Share{
				{Value: "Movie", Count: 1, Proportion: 0.5},
				{Value: "TV Show", Count: 1, Proportion: 0.5},
			},
			MissingValues: []domain.FieldMissing{{Field: "release_year", Missing: 1}},
		},
		Genres: []domain.LabelCount{
			{Label: "Documentaries", Count: 1},
			{Label: "TV Dramas", Count: 1},
			{Label: "TV Mysteries", Count: 1},
		},
		Temporal: &domain.TemporalAggregates{
			Types:             []domain.ContentType{domain.ContentTypeMovie, domain.ContentTypeTVShow},
			ReleaseYearByType: []domain.YearTypeRow{{Year: 2020, Counts: counts(1, 0), Total: 1}},
			MonthAddedByType:  months,
			AdditionsByYear:   []domain.YearTotal{{Year: 2021, Count: 2, Cumulative: 2}},
			ContentAge: []domain.AgeStats{
				{Type: domain.ContentTypeMovie, Count: 1, Mean: 1, Min: 1, Q25: 1, Median: 1, Q75: 1, Max: 1},
			},
		},
		Forecast: &domain.Forecast{
			History: []domain.GrowthPoint{
				{Year: 2018, Total: 100},
				{Year: 2019, Total: 110, GrowthRate: ptr(10.0)},
				{Year: 2020, Total: 121, GrowthRate: ptr(10.0)},
				{Year: 2021, Total: 133, GrowthRate: ptr(10.0), RollingMean: ptr(10.0)},
			},
			BaseYear:  2021,
			BaseTotal: 133,
			Rate:      10,
			Horizon:   2,
			Points: []domain.ForecastPoint{
				{Step: 1, Year: 2022, Total: 146.3},
				{Step: 2, Year: 2023, Total: 160.93},
			},
		},
		Skipped: map[string]string{},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, utf8BOM), "CSV output starts with a BOM")
	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM))).ReadAll()
	require.NoError(t, err)
	return records
}

func TestExporter_AllFormats(t *testing.T) {
	paths := testPaths(t)
	exp := NewExporter(paths, nil, nil)

	files, err := exp.Write(context.Background(), sampleReport())
	require.NoError(t, err)

	assert.Len(t, files, len(tableFiles)+2)
	assert.Equal(t, filepath.Join(paths.ReportsDir, config.TitlesCSVName), files[0])
	assert.Contains(t, files, filepath.Join(paths.ReportsDir, "catalog_report_20240115.xlsx"))
	assert.Contains(t, files, filepath.Join(paths.ReportsDir, config.ReportJSONName))
	for _, f := range files {
		assert.True(t, config.FileExists(f), f)
	}
}

func TestExporter_CSVContent(t *testing.T) {
	paths := testPaths(t)
	_, err := NewExporter(paths, []Format{FormatCSV}, nil).Write(context.Background(), sampleReport())
	require.NoError(t, err)

	titles := readCSV(t, paths.GetReportPath(config.TitlesCSVName))
	require.Len(t, titles, 3)
	assert.Equal(t, TitlesTable(nil).Headers, titles[0])
	assert.Equal(t, []string{
		"s1", "Movie", "Dick Johnson Is Dead", "United States", "2020", "2021-09-25",
		"90", "", "PG-13", "Teen", "Documentaries", "Kirsten Johnson", "",
	}, titles[1])
	assert.Equal(t, "", titles[2][4], "missing release year stays blank")
	assert.Equal(t, "2", titles[2][7])
	assert.Equal(t, "Ama Qamata, Khosi Ngema", titles[2][12])

	forecast := readCSV(t, paths.GetReportPath("forecast.csv"))
	require.Len(t, forecast, 4)
	assert.Equal(t, []string{"0", "2021", "133.00", "133.00", "133.00", "10.00"}, forecast[1])
	assert.Equal(t, []string{"1", "2022", "146.30", "131.67", "160.93", "10.00"}, forecast[2])

	additions := readCSV(t, paths.GetReportPath("additions_by_year.csv"))
	require.Len(t, additions, 5)
	assert.Equal(t, []string{"2018", "100", "100", "", ""}, additions[1])
	assert.Equal(t, []string{"2021", "133", "464", "10.00", "10.00"}, additions[4])

	months := readCSV(t, paths.GetReportPath("month_by_type.csv"))
	require.Len(t, months, 13)
	assert.Equal(t, []string{"month", "Movie", "TV Show", "total"}, months[0])
	assert.Equal(t, []string{"September", "1", "1", "2"}, months[9])
}

func TestExporter_Workbook(t *testing.T) {
	paths := testPaths(t)
	files, err := NewExporter(paths, []Format{FormatWorkbook}, nil).Write(context.Background(), sampleReport())
	require.NoError(t, err)
	require.Len(t, files, 1)

	f, err := excelize.OpenFile(files[0])
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{
		"Titles", "Summary", "Genres", "ReleaseByType", "MonthByType", "Additions", "ContentAge", "Forecast",
	}, f.GetSheetList())

	rows, err := f.GetRows("Genres")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"genre", "count"}, rows[0])
	assert.Equal(t, []string{"Documentaries", "1"}, rows[1])

	estimate, err := f.GetCellValue("Forecast", "C3")
	require.NoError(t, err)
	assert.Equal(t, "146.3", estimate)

	summary, err := f.GetRows("Summary")
	require.NoError(t, err)
	assert.Equal(t, []string{"total_titles", "2"}, summary[1])
}

func TestExporter_JSON(t *testing.T) {
	paths := testPaths(t)
	files, err := NewExporter(paths, []Format{FormatJSON}, nil).Write(context.Background(), sampleReport())
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)

	var doc struct {
		Metadata ReportMetadata `json:"metadata"`
		Report   struct {
			RunID    string `json:"run_id"`
			Titles   []map[string]interface{}
			Forecast struct {
				Rate   float64 `json:"rate"`
				Points []struct {
					Year int `json:"year"`
				} `json:"points"`
			} `json:"forecast"`
		} `json:"report"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "run-1", doc.Metadata.RunID)
	assert.Equal(t, "v1", doc.Metadata.FormatVersion)
	assert.Equal(t, "run-1", doc.Report.RunID)
	assert.Len(t, doc.Report.Titles, 2)
	assert.Equal(t, 10.0, doc.Report.Forecast.Rate)
	assert.Len(t, doc.Report.Forecast.Points, 2)
}

func TestExporter_PartialReport(t *testing.T) {
	report := sampleReport()
	report.Forecast = nil
	report.Summary = nil
	report.Skipped = map[string]string{"forecast": "insufficient history"}

	paths := testPaths(t)
	files, err := NewExporter(paths, nil, nil).Write(context.Background(), report)
	require.NoError(t, err)
	assert.NotEmpty(t, files)

	forecast := readCSV(t, paths.GetReportPath("forecast.csv"))
	assert.Len(t, forecast, 1, "header only")

	additions := readCSV(t, paths.GetReportPath("additions_by_year.csv"))
	assert.Equal(t, []string{"2021", "2", "2", "", ""}, additions[1])
}

func TestExporter_Errors(t *testing.T) {
	_, err := NewExporter(testPaths(t), nil, nil).Write(context.Background(), nil)
	assert.Equal(t, apperrors.ErrTypeValidation, apperrors.TypeOf(err))

	// a regular file where the reports directory should be
	paths := testPaths(t)
	require.NoError(t, os.WriteFile(paths.ReportsDir, []byte("x"), 0644))
	_, err = NewExporter(paths, []Format{FormatJSON}, nil).Write(context.Background(), sampleReport())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTypeStorage, apperrors.TypeOf(err))
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in      string
		want    []Format
		wantErr bool
	}{
		{"", AllFormats, false},
		{"csv", []Format{FormatCSV}, false},
		{" JSON , xlsx", []Format{FormatJSON, FormatWorkbook}, false},
		{"pdf", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormats(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBand(t *testing.T) {
	lower, upper := Band(200)
	assert.InDelta(t, 180, lower, 1e-9)
	assert.InDelta(t, 220, upper, 1e-9)
}

func TestFormatCell(t *testing.T) {
	var missing *int
	assert.Equal(t, "", formatCell(nil))
	assert.Equal(t, "", formatCell(missing))
	assert.Equal(t, "7", formatCell(ptr(7)))
	assert.Equal(t, "1.50", formatCell(1.5))
	assert.Equal(t, "March", formatCell(time.March))
	assert.Equal(t, "x", formatCell("x"))
}
