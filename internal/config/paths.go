package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Paths contains the resolved file system locations used by a run
type Paths struct {
	BaseDir    string
	InputFile  string
	ReportsDir string
	LogsDir    string
}

// Well-known report file names written under ReportsDir
const (
	TitlesCSVName    = "titles_clean.csv"
	GenresCSVName    = "genres.csv"
	ReportJSONName   = "report.json"
	WorkbookBaseName = "catalog_report"
)

// GetPaths resolves the configured paths. Relative entries are anchored at
// BaseDir when one is configured, otherwise at the working directory.
func (pc PathsConfig) GetPaths() (*Paths, error) {
	base := pc.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		base = wd
	}

	return &Paths{
		BaseDir:    base,
		InputFile:  anchor(base, pc.InputFile),
		ReportsDir: anchor(base, pc.ReportsDir),
		LogsDir:    anchor(base, pc.LogsDir),
	}, nil
}

func anchor(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	logger := slog.Default()
	for _, dir := range []string{p.ReportsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		logger.Debug("Ensured directory exists", slog.String("directory", dir))
	}
	return nil
}

// GetReportPath returns the path for a report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// GetWorkbookPath returns a timestamped workbook path, e.g. catalog_report_20240115.xlsx
func (p *Paths) GetWorkbookPath(at time.Time) string {
	filename := fmt.Sprintf("%s_%s.xlsx", WorkbookBaseName, at.Format("20060102"))
	return filepath.Join(p.ReportsDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs detailed path resolution information for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("base", p.BaseDir),
			slog.String("reports", p.ReportsDir),
			slog.String("logs", p.LogsDir),
		),
		slog.Group("input",
			slog.String("file", p.InputFile),
			slog.Bool("exists", FileExists(p.InputFile)),
		))
}
