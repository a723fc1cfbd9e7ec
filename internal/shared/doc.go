// Package shared holds helpers used across the catalogcli packages that
// belong to no single layer.
//
// The testutil subpackage provides catalog CSV fixtures and a buffered slog
// handler for asserting on log output:
//
//	logger, logs := testutil.NewTestLogger(t)
//	path := testutil.WriteCatalogCSV(t, t.TempDir(), testutil.YearlyRows(2016, []int{2, 3, 4}, nil))
package shared
