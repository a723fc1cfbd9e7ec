package exporter

import (
	"strings"

	"catalogcli/pkg/contracts/domain"
)

// BandFraction is the half-width of the forecast band, relative to the estimate
const BandFraction = 0.10

// Table is a named grid shared by the CSV and workbook exporters
type Table struct {
	Name    string
	Headers []string
	Rows    [][]interface{}
}

// StringRows renders every cell for CSV output
func (t Table) StringRows() [][]string {
	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = stringRow(row)
	}
	return rows
}

func stringRow(row []interface{}) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = formatCell(cell)
	}
	return out
}

// TitlesTable lists the normalized titles
func TitlesTable(titles []domain.Title) Table {
	t := Table{
		Name: "Titles",
		Headers: []string{
			"show_id", "type", "title", "country", "release_year", "date_added",
			"duration_minutes", "duration_seasons", "rating", "rating_category",
			"genres", "directors", "actors",
		},
		Rows: make([][]interface{}, 0, len(titles)),
	}
	for _, title := range titles {
		t.Rows = append(t.Rows, titleRow(title))
	}
	return t
}

func titleRow(title domain.Title) []interface{} {
	var releaseYear, minutes, seasons interface{}
	if title.HasReleaseYear() {
		releaseYear = title.ReleaseYear
	}
	if m, ok := title.Duration.Minutes(); ok {
		minutes = m
	}
	if n, ok := title.Duration.Seasons(); ok {
		seasons = n
	}
	return []interface{}{
		title.ShowID,
		string(title.Type),
		title.Name,
		title.Country,
		releaseYear,
		formatDate(title.DateAdded),
		minutes,
		seasons,
		title.RatingCode,
		string(title.RatingCategory),
		strings.Join(title.Genres, ", "),
		strings.Join(title.Directors, ", "),
		strings.Join(title.Actors, ", "),
	}
}

// SummaryTable flattens the descriptive summary into metric/value pairs
func SummaryTable(s *domain.DescriptiveSummary) Table {
	t := Table{Name: "Summary", Headers: []string{"metric", "value", "proportion"}}
	if s == nil {
		return t
	}

	add := func(metric string, value interface{}, proportion interface{}) {
		t.Rows = append(t.Rows, []interface{}{metric, value, proportion})
	}

	add("total_titles", s.TotalTitles, nil)
	add("release_year_min", s.ReleaseYearMin, nil)
	add("release_year_max", s.ReleaseYearMax, nil)
	add("latest_addition", formatDate(s.LatestAddition), nil)
	add("mode_year_added", s.ModeYearAdded, nil)
	add("mode_release_year", s.ModeReleaseYear, nil)
	add("mean_duration_minutes", s.MeanDurationMinutes, nil)
	add("mean_duration_seasons", s.MeanDurationSeasons, nil)
	for _, share := range s.TypeDistribution {
		add("type:"+share.Value, share.Count, share.Proportion)
	}
	for _, share := range s.RatingDistribution {
		add("rating:"+share.Value, share.Count, share.Proportion)
	}
	for _, m := range s.MissingValues {
		add("missing:"+m.Field, m.Missing, nil)
	}
	for _, lc := range s.TopCountries {
		add("country:"+lc.Label, lc.Count, nil)
	}
	for _, lc := range s.TopDirectors {
		add("director:"+lc.Label, lc.Count, nil)
	}
	for _, lc := range s.TopActors {
		add("actor:"+lc.Label, lc.Count, nil)
	}
	return t
}

// GenresTable lists genre counts in the given order
func GenresTable(genres []domain.LabelCount) Table {
	t := Table{Name: "Genres", Headers: []string{"genre", "count"}}
	for _, lc := range genres {
		t.Rows = append(t.Rows, []interface{}{lc.Label, lc.Count})
	}
	return t
}

func typeHeaders(first string, types []domain.ContentType) []string {
	headers := []string{first}
	for _, ct := range types {
		headers = append(headers, string(ct))
	}
	return append(headers, "total")
}

// ReleaseByTypeTable has one column per content type
func ReleaseByTypeTable(agg *domain.TemporalAggregates) Table {
	t := Table{Name: "ReleaseByType"}
	if agg == nil {
		t.Headers = []string{"release_year", "total"}
		return t
	}
	t.Headers = typeHeaders("release_year", agg.Types)
	for _, row := range agg.ReleaseYearByType {
		cells := []interface{}{row.Year}
		for _, ct := range agg.Types {
			cells = append(cells, row.Counts[ct])
		}
		t.Rows = append(t.Rows, append(cells, row.Total))
	}
	return t
}

// MonthByTypeTable has one row per calendar month
func MonthByTypeTable(agg *domain.TemporalAggregates) Table {
	t := Table{Name: "MonthByType"}
	if agg == nil {
		t.Headers = []string{"month", "total"}
		return t
	}
	t.Headers = typeHeaders("month", agg.Types)
	for _, row := range agg.MonthAddedByType {
		cells := []interface{}{row.Month.String()}
		for _, ct := range agg.Types {
			cells = append(cells, row.Counts[ct])
		}
		t.Rows = append(t.Rows, append(cells, row.Total))
	}
	return t
}

// AdditionsTable lists yearly additions with the densified growth history
// when a forecast is available
func AdditionsTable(agg *domain.TemporalAggregates, fc *domain.Forecast) Table {
	t := Table{Name: "Additions", Headers: []string{"year", "added", "cumulative", "growth_rate", "rolling_mean"}}
	if fc != nil {
		cumulative := 0
		for _, p := range fc.History {
			cumulative += p.Total
			t.Rows = append(t.Rows, []interface{}{p.Year, p.Total, cumulative, p.GrowthRate, p.RollingMean})
		}
		return t
	}
	if agg == nil {
		return t
	}
	for _, yt := range agg.AdditionsByYear {
		t.Rows = append(t.Rows, []interface{}{yt.Year, yt.Count, yt.Cumulative, nil, nil})
	}
	return t
}

// ContentAgeTable describes content age per type
func ContentAgeTable(agg *domain.TemporalAggregates) Table {
	t := Table{
		Name:    "ContentAge",
		Headers: []string{"type", "count", "mean", "std", "min", "q25", "median", "q75", "max"},
	}
	if agg == nil {
		return t
	}
	for _, s := range agg.ContentAge {
		t.Rows = append(t.Rows, []interface{}{
			string(s.Type), s.Count, s.Mean, s.Std, s.Min, s.Q25, s.Median, s.Q75, s.Max,
		})
	}
	return t
}

// ForecastTable lists the base year and the projections with a ±10% band
func ForecastTable(fc *domain.Forecast) Table {
	t := Table{
		Name:    "Forecast",
		Headers: []string{"step", "year", "estimate", "lower", "upper", "rate"},
	}
	if fc == nil {
		return t
	}
	base := float64(fc.BaseTotal)
	t.Rows = append(t.Rows, []interface{}{0, fc.BaseYear, base, base, base, fc.Rate})
	for _, p := range fc.Points {
		lower, upper := Band(p.Total)
		t.Rows = append(t.Rows, []interface{}{p.Step, p.Year, p.Total, lower, upper, fc.Rate})
	}
	return t
}

// Band returns the presentation band around an estimate
func Band(estimate float64) (lower, upper float64) {
	return estimate * (1 - BandFraction), estimate * (1 + BandFraction)
}

// ReportTables returns every table of a report in workbook sheet order
func ReportTables(report *domain.CatalogReport) []Table {
	return append([]Table{TitlesTable(report.Titles)}, AggregateTables(report)...)
}

// AggregateTables returns every table except the title listing
func AggregateTables(report *domain.CatalogReport) []Table {
	return []Table{
		SummaryTable(report.Summary),
		GenresTable(report.Genres),
		ReleaseByTypeTable(report.Temporal),
		MonthByTypeTable(report.Temporal),
		AdditionsTable(report.Temporal, report.Forecast),
		ContentAgeTable(report.Temporal),
		ForecastTable(report.Forecast),
	}
}
