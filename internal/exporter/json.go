package exporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"catalogcli/pkg/contracts"
	"catalogcli/pkg/contracts/domain"
)

// ReportMetadata describes how and when a report document was produced
type ReportMetadata struct {
	RunID         string    `json:"run_id"`
	Source        string    `json:"source"`
	GeneratedAt   time.Time `json:"generated_at"`
	Version       string    `json:"version"`
	FormatVersion string    `json:"format_version"`
}

// ReportDocument is the JSON envelope written by JSONWriter
type ReportDocument struct {
	Metadata ReportMetadata        `json:"metadata"`
	Report   *domain.CatalogReport `json:"report"`
}

// NewReportDocument wraps a report with its metadata
func NewReportDocument(report *domain.CatalogReport) ReportDocument {
	return ReportDocument{
		Metadata: ReportMetadata{
			RunID:         report.RunID,
			Source:        report.Source,
			GeneratedAt:   report.GeneratedAt,
			Version:       contracts.Version,
			FormatVersion: contracts.DataFormatVersion,
		},
		Report: report,
	}
}

// JSONWriter writes a report as one indented JSON document
type JSONWriter struct{}

// Write encodes the report document to path
func (JSONWriter) Write(report *domain.CatalogReport, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(NewReportDocument(report), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
