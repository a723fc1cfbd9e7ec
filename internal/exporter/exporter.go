package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"catalogcli/internal/config"
	apperrors "catalogcli/internal/errors"
	"catalogcli/pkg/contracts/domain"
)

// CSV file names for the aggregate tables, keyed by table name
var tableFiles = map[string]string{
	"Titles":        config.TitlesCSVName,
	"Summary":       "summary.csv",
	"Genres":        config.GenresCSVName,
	"ReleaseByType": "release_by_type.csv",
	"MonthByType":   "month_by_type.csv",
	"Additions":     "additions_by_year.csv",
	"ContentAge":    "content_age.csv",
	"Forecast":      "forecast.csv",
}

// Format selects an output of the Exporter
type Format string

const (
	FormatCSV      Format = "csv"
	FormatWorkbook Format = "xlsx"
	FormatJSON     Format = "json"
)

// AllFormats lists every supported output format
var AllFormats = []Format{FormatCSV, FormatWorkbook, FormatJSON}

// ParseFormats parses a comma separated format list such as "csv,json".
// An empty list selects every format.
func ParseFormats(s string) ([]Format, error) {
	if strings.TrimSpace(s) == "" {
		return AllFormats, nil
	}
	var formats []Format
	for _, part := range strings.Split(s, ",") {
		f := Format(strings.ToLower(strings.TrimSpace(part)))
		switch f {
		case FormatCSV, FormatWorkbook, FormatJSON:
			formats = append(formats, f)
		default:
			return nil, apperrors.NewAppValidationError(fmt.Sprintf("unknown export format %q", part))
		}
	}
	return formats, nil
}

// Exporter writes a report in several formats concurrently. The outputs are
// independent files; a failure in one cancels the others.
type Exporter struct {
	paths    *config.Paths
	formats  []Format
	csv      *CSVWriter
	workbook *WorkbookExporter
	json     JSONWriter
	logger   *slog.Logger
}

// NewExporter creates an exporter writing under paths.ReportsDir
func NewExporter(paths *config.Paths, formats []Format, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	if len(formats) == 0 {
		formats = AllFormats
	}
	logger = logger.With(slog.String("component", "exporter"))
	return &Exporter{
		paths:    paths,
		formats:  formats,
		csv:      NewCSVWriter(paths, logger),
		workbook: NewWorkbookExporter(logger),
		logger:   logger,
	}
}

// Write exports the report and returns the written file paths, CSV files
// first, then the workbook, then the JSON document
func (e *Exporter) Write(ctx context.Context, report *domain.CatalogReport) ([]string, error) {
	if report == nil {
		return nil, apperrors.NewAppValidationError("no report to export")
	}

	results := make([][]string, len(e.formats))
	g, gctx := errgroup.WithContext(ctx)

	for i, format := range e.formats {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			paths, err := e.writeFormat(gctx, format, report)
			if err != nil {
				return apperrors.NewStorageError(fmt.Sprintf("%s export failed", format), err)
			}
			results[i] = paths
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var written []string
	for _, paths := range results {
		written = append(written, paths...)
	}

	e.logger.InfoContext(ctx, "Report exported",
		slog.Int("files", len(written)),
		slog.String("reports_dir", e.paths.ReportsDir))
	return written, nil
}

func (e *Exporter) writeFormat(ctx context.Context, format Format, report *domain.CatalogReport) ([]string, error) {
	switch format {
	case FormatCSV:
		return e.writeCSV(ctx, report)
	case FormatWorkbook:
		path := e.paths.GetWorkbookPath(report.GeneratedAt)
		if err := e.workbook.Export(report, path); err != nil {
			return nil, err
		}
		return []string{path}, nil
	case FormatJSON:
		path := e.paths.GetReportPath(config.ReportJSONName)
		if err := e.json.Write(report, path); err != nil {
			return nil, err
		}
		return []string{path}, nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// writeCSV streams the titles and writes each aggregate table to its own file
func (e *Exporter) writeCSV(ctx context.Context, report *domain.CatalogReport) ([]string, error) {
	var written []string

	titles := TitlesTable(nil)
	stream, err := e.csv.CreateStreamWriter(config.TitlesCSVName, titles.Headers)
	if err != nil {
		return nil, err
	}
	for _, title := range report.Titles {
		if err := stream.WriteRecord(stringRow(titleRow(title))); err != nil {
			stream.Close()
			return nil, fmt.Errorf("failed to write title %s: %w", title.ShowID, err)
		}
	}
	if err := stream.Close(); err != nil {
		return nil, err
	}
	written = append(written, stream.Path())

	for _, table := range AggregateTables(report) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path, err := e.csv.WriteTable(tableFiles[table.Name], table)
		if err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", table.Name, err)
		}
		written = append(written, path)
	}
	return written, nil
}
