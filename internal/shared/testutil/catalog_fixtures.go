package testutil

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// CatalogColumns is the header of a catalog export
var CatalogColumns = []string{
	"show_id", "type", "title", "director", "cast", "country",
	"date_added", "release_year", "rating", "duration", "listed_in", "description",
}

// CatalogRow is one raw catalog record, column for column
type CatalogRow struct {
	ShowID      string
	Type        string
	Title       string
	Director    string
	Cast        string
	Country     string
	DateAdded   string
	ReleaseYear string
	Rating      string
	Duration    string
	ListedIn    string
	Description string
}

// Record returns the row in CatalogColumns order
func (r CatalogRow) Record() []string {
	return []string{
		r.ShowID, r.Type, r.Title, r.Director, r.Cast, r.Country,
		r.DateAdded, r.ReleaseYear, r.Rating, r.Duration, r.ListedIn, r.Description,
	}
}

// RowFunc builds the n-th row (1-based) of a catalog, added on the given
// day of year
type RowFunc func(n, year, day int) CatalogRow

// MovieRow is the default RowFunc: a PG drama from India, released the year
// before it was added
func MovieRow(n, year, day int) CatalogRow {
	return CatalogRow{
		ShowID:      fmt.Sprintf("s%d", n),
		Type:        "Movie",
		Title:       fmt.Sprintf("Title %d", n),
		Country:     "India",
		DateAdded:   fmt.Sprintf("June %d, %d", day, year),
		ReleaseYear: fmt.Sprintf("%d", year-1),
		Rating:      "PG",
		Duration:    "95 min",
		ListedIn:    "Dramas, Thrillers",
	}
}

// YearlyRows returns additions[i] rows added in startYear+i. A nil row
// function uses MovieRow.
func YearlyRows(startYear int, additions []int, row RowFunc) []CatalogRow {
	if row == nil {
		row = MovieRow
	}
	var rows []CatalogRow
	n := 0
	for i, count := range additions {
		for j := 0; j < count; j++ {
			n++
			rows = append(rows, row(n, startYear+i, j+1))
		}
	}
	return rows
}

// WriteCatalogCSV writes rows under a CatalogColumns header to
// dir/titles.csv and returns the path
func WriteCatalogCSV(t testing.TB, dir string, rows []CatalogRow) string {
	t.Helper()
	path := filepath.Join(dir, "titles.csv")

	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create catalog fixture: %v", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(CatalogColumns); err != nil {
		t.Fatalf("write catalog header: %v", err)
	}
	for _, r := range rows {
		if err := w.Write(r.Record()); err != nil {
			t.Fatalf("write catalog row: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		t.Fatalf("flush catalog fixture: %v", err)
	}
	return path
}
