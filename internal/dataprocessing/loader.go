package dataprocessing

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "catalogcli/internal/errors"
	"catalogcli/pkg/contracts/domain"
)

// RequiredColumns must all be present in the header row, spelled exactly.
// Header cells are not trimmed.
var RequiredColumns = []string{
	"type", "title", "director", "cast", "country",
	"date_added", "release_year", "rating", "duration", "listed_in",
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LoadOptions controls how a catalog is read
type LoadOptions struct {
	// RatingMap overrides the default rating table when non-nil.
	RatingMap domain.RatingMap
	// Sheet selects a workbook sheet. Empty means the first sheet carrying the required columns.
	Sheet  string
	Logger *slog.Logger
}

// LoadStats tallies values that were coerced to absent while loading
type LoadStats struct {
	Format           string `json:"format"`
	Rows             int    `json:"rows"`
	UnparsedDates    int    `json:"unparsed_dates"`
	UnknownDurations int    `json:"unknown_durations"`
	InvalidYears     int    `json:"invalid_years"`
	MalformedRows    int    `json:"malformed_rows"`
	DegradedRows     int    `json:"degraded_rows"`
}

// Catalog is the normalized snapshot produced by one load
type Catalog struct {
	Source string
	Titles []domain.Title
	Stats  LoadStats
}

// LoadCatalog reads a CSV or xlsx catalog and normalizes every row.
// It fails with a data source error when the file cannot be opened or read,
// and with a schema error when a required column is missing.
func LoadCatalog(ctx context.Context, path string, opts LoadOptions) (*Catalog, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "loader"))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	format := "csv"
	var rows [][]string
	var malformed []int
	var err error
	if isWorkbook(path) {
		format = "xlsx"
		rows, err = readWorkbookRows(path, opts.Sheet)
	} else {
		rows, malformed, err = readCSVRows(path)
	}
	if err != nil {
		return nil, err
	}

	raws, err := rowsToRaw(rows)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ratings := opts.RatingMap
	if ratings == nil {
		ratings = domain.DefaultRatingMap()
	}
	titles := NormalizeAll(raws, ratings)

	catalog := &Catalog{
		Source: path,
		Titles: titles,
		Stats:  collectStats(format, titles, len(malformed)),
	}
	for _, line := range malformed {
		logger.WarnContext(ctx, "Malformed CSV row read leniently",
			slog.String("source", path),
			slog.Int("line", line))
	}

	logger.InfoContext(ctx, "Catalog loaded",
		slog.String("source", path),
		slog.String("format", format),
		slog.Int("rows", catalog.Stats.Rows),
		slog.Int("unparsed_dates", catalog.Stats.UnparsedDates),
		slog.Int("unknown_durations", catalog.Stats.UnknownDurations),
		slog.Int("invalid_years", catalog.Stats.InvalidYears),
		slog.Int("malformed_rows", catalog.Stats.MalformedRows))

	return catalog, nil
}

func isWorkbook(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".xlsx" || ext == ".xlsm"
}

// readCSVRows parses path strictly. A line the parser rejects, such as one
// with an unbalanced quote, is read on its own and parsing resumes at the
// next physical line, so one bad row never absorbs the rows after it.
// The 1-based line numbers of those rows are returned alongside.
func readCSVRows(path string) ([][]string, []int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, apperrors.NewDataSourceError(path, err)
	}
	content = bytes.TrimPrefix(content, utf8BOM)
	lines := bytes.SplitAfter(content, []byte("\n"))

	var rows [][]string
	var malformed []int
	next := 0 // index of the first physical line not yet consumed
	for next < len(lines) {
		reader := csv.NewReader(bytes.NewReader(bytes.Join(lines[next:], nil)))
		reader.FieldsPerRecord = -1

		resume := -1
		for {
			record, err := reader.Read()
			if err == io.EOF {
				break
			}
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				bad := next + parseErr.StartLine - 1
				rows = append(rows, lenientRecord(lines[bad]))
				malformed = append(malformed, bad+1)
				resume = bad + 1
				break
			}
			if err != nil {
				return nil, nil, apperrors.NewDataSourceError(path, err)
			}
			rows = append(rows, record)
		}
		if resume < 0 {
			break
		}
		next = resume
	}
	return rows, malformed, nil
}

// lenientRecord splits one rejected line. Stray quotes are tolerated; when
// an unclosed quote would swallow the rest of the line, the line is split
// on every comma instead.
func lenientRecord(line []byte) []string {
	line = bytes.TrimRight(line, "\r\n")

	reader := csv.NewReader(bytes.NewReader(line))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	record, err := reader.Read()
	if err == nil && len(record) == bytes.Count(line, []byte(","))+1 {
		return record
	}

	fields := strings.Split(string(line), ",")
	for i, f := range fields {
		fields[i] = strings.Trim(f, `"`)
	}
	return fields
}

func readWorkbookRows(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewDataSourceError(path, err)
	}
	defer f.Close()

	if sheet != "" {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, apperrors.NewDataSourceError(path, fmt.Errorf("sheet %q: %w", sheet, err))
		}
		return rows, nil
	}

	// First sheet whose header carries every required column wins;
	// otherwise the first sheet is used so the schema error names what is missing.
	var first [][]string
	for i, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			continue
		}
		if i == 0 {
			first = rows
		}
		if len(rows) > 0 && len(missingColumns(rows[0])) == 0 {
			return rows, nil
		}
	}
	return first, nil
}

// rowsToRaw maps rows onto RawTitle by header name. Short rows are padded
// and rows with no content at all are skipped.
func rowsToRaw(rows [][]string) ([]domain.RawTitle, error) {
	if len(rows) == 0 {
		return nil, apperrors.NewSchemaError(RequiredColumns)
	}

	header := rows[0]
	if missing := missingColumns(header); len(missing) > 0 {
		return nil, apperrors.NewSchemaError(missing)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}
	cell := func(row []string, column string) string {
		i, ok := index[column]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	raws := make([]domain.RawTitle, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		raws = append(raws, domain.RawTitle{
			ShowID:      cell(row, "show_id"),
			Type:        cell(row, "type"),
			Title:       cell(row, "title"),
			Director:    cell(row, "director"),
			Cast:        cell(row, "cast"),
			Country:     cell(row, "country"),
			DateAdded:   cell(row, "date_added"),
			ReleaseYear: cell(row, "release_year"),
			Rating:      cell(row, "rating"),
			Duration:    cell(row, "duration"),
			ListedIn:    cell(row, "listed_in"),
			Description: cell(row, "description"),
		})
	}
	return raws, nil
}

func missingColumns(header []string) []string {
	present := make(map[string]bool, len(header))
	for _, name := range header {
		present[name] = true
	}
	var missing []string
	for _, column := range RequiredColumns {
		if !present[column] {
			missing = append(missing, column)
		}
	}
	return missing
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func collectStats(format string, titles []domain.Title, malformed int) LoadStats {
	stats := LoadStats{Format: format, Rows: len(titles), MalformedRows: malformed, DegradedRows: malformed}
	for _, t := range titles {
		degraded := false
		if t.DateAdded == nil && strings.TrimSpace(t.Source.DateAdded) != "" {
			stats.UnparsedDates++
			degraded = true
		}
		if !t.Duration.IsKnown() && strings.TrimSpace(t.Source.Duration) != "" {
			stats.UnknownDurations++
			degraded = true
		}
		if !t.HasReleaseYear() && strings.TrimSpace(t.Source.ReleaseYear) != "" {
			stats.InvalidYears++
			degraded = true
		}
		if degraded {
			stats.DegradedRows++
		}
	}
	return stats
}
