package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"catalogcli/pkg/contracts/domain"
)

// Chart placement and the number of genres plotted
const (
	chartAnchorColumn = 2
	maxChartedGenres  = 20
)

// WorkbookExporter writes a report as a single xlsx workbook with charts
type WorkbookExporter struct {
	logger *slog.Logger
}

// NewWorkbookExporter creates a workbook exporter
func NewWorkbookExporter(logger *slog.Logger) *WorkbookExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookExporter{logger: logger}
}

// Export writes one sheet per report table to path and adds the charts
func (e *WorkbookExporter) Export(report *domain.CatalogReport, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	tables := ReportTables(report)
	for i, table := range tables {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", table.Name); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(table.Name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", table.Name, err)
		}
		if err := writeSheet(f, table, headerStyle); err != nil {
			return err
		}
	}

	if err := e.addCharts(f, tables); err != nil {
		return err
	}
	f.SetActiveSheet(1)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	e.logger.Debug("Workbook written",
		slog.String("path", path),
		slog.Int("sheets", len(tables)))
	return nil
}

func writeSheet(f *excelize.File, table Table, headerStyle int) error {
	header := make([]interface{}, len(table.Headers))
	for i, h := range table.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(table.Name, "A1", &header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", table.Name, err)
	}
	if len(table.Headers) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(table.Headers), 1)
		if err := f.SetCellStyle(table.Name, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("failed to style %s header: %w", table.Name, err)
		}
	}

	for r, row := range table.Rows {
		values := make([]interface{}, len(row))
		for c, cell := range row {
			values[c] = cellValue(cell)
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(table.Name, cellRef, &values); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", table.Name, r+1, err)
		}
	}
	return nil
}

func (e *WorkbookExporter) addCharts(f *excelize.File, tables []Table) error {
	byName := make(map[string]Table, len(tables))
	for _, t := range tables {
		byName[t.Name] = t
	}

	if genres := byName["Genres"]; len(genres.Rows) > 0 {
		n := min(len(genres.Rows), maxChartedGenres)
		if err := addChart(f, genres, excelize.Bar, "Titles per genre",
			[]excelize.ChartSeries{series(genres.Name, 2, 2, n+1)}); err != nil {
			return err
		}
	}

	if release := byName["ReleaseByType"]; len(release.Rows) > 0 {
		if err := addChart(f, release, excelize.Col, "Titles by release year",
			typeSeries(release)); err != nil {
			return err
		}
	}

	if month := byName["MonthByType"]; len(month.Rows) > 0 {
		if err := addChart(f, month, excelize.Line, "Titles added per month",
			typeSeries(month)); err != nil {
			return err
		}
	}

	if fc := byName["Forecast"]; len(fc.Rows) > 0 {
		last := len(fc.Rows) + 1
		if err := addChart(f, fc, excelize.Line, "Catalog additions forecast",
			[]excelize.ChartSeries{
				series(fc.Name, 3, 2, last),
				series(fc.Name, 4, 2, last),
				series(fc.Name, 5, 2, last),
			}); err != nil {
			return err
		}
	}
	return nil
}

// series plots column col of rows first..last against column A.
// Forecast tables use the year column as categories.
func series(sheet string, col, first, last int) excelize.ChartSeries {
	catCol := "A"
	if sheet == "Forecast" {
		catCol = "B"
	}
	colName, _ := excelize.ColumnNumberToName(col)
	return excelize.ChartSeries{
		Name:       fmt.Sprintf("'%s'!$%s$1", sheet, colName),
		Categories: fmt.Sprintf("'%s'!$%s$%d:$%s$%d", sheet, catCol, first, catCol, last),
		Values:     fmt.Sprintf("'%s'!$%s$%d:$%s$%d", sheet, colName, first, colName, last),
	}
}

// typeSeries plots every per-type column, leaving out the first and the total
func typeSeries(t Table) []excelize.ChartSeries {
	var out []excelize.ChartSeries
	for col := 2; col < len(t.Headers); col++ {
		out = append(out, series(t.Name, col, 2, len(t.Rows)+1))
	}
	return out
}

func addChart(f *excelize.File, t Table, kind excelize.ChartType, title string, s []excelize.ChartSeries) error {
	if len(s) == 0 {
		return nil
	}
	anchor, _ := excelize.CoordinatesToCellName(len(t.Headers)+chartAnchorColumn, 2)
	err := f.AddChart(t.Name, anchor, &excelize.Chart{
		Type:      kind,
		Series:    s,
		Title:     []excelize.RichTextRun{{Text: title}},
		Legend:    excelize.ChartLegend{Position: "bottom"},
		Dimension: excelize.ChartDimension{Width: 720, Height: 400},
	})
	if err != nil {
		return fmt.Errorf("failed to add %s chart: %w", t.Name, err)
	}
	return nil
}
