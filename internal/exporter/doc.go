// Package exporter writes a finished catalog report to disk.
//
// This package contains four main components:
//
// CSVWriter: Core CSV writing functionality with support for headers, streaming,
// and UTF-8 BOM for Excel compatibility.
//
// WorkbookExporter: Writes every report table to its own sheet of one xlsx
// workbook and adds genre, release year, monthly and forecast charts.
//
// JSONWriter: Writes the report with run metadata as one JSON document.
//
// Exporter: Runs the selected formats concurrently and implements the
// pipeline's report writer.
//
// Example usage:
//
//	exp := exporter.NewExporter(paths, exporter.AllFormats, logger)
//	files, err := exp.Write(ctx, report)
package exporter
