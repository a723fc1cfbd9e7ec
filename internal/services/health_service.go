package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"catalogcli/pkg/contracts"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	reports   *ReportService
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Run       *RunInfo               `json:"run,omitempty"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
}

// RunInfo identifies the pipeline run being served
type RunInfo struct {
	RunID       string            `json:"run_id"`
	Source      string            `json:"source"`
	GeneratedAt time.Time         `json:"generated_at"`
	Titles      int               `json:"titles"`
	Skipped     map[string]string `json:"skipped,omitempty"`
}

// NewHealthService creates a health service reporting on the served report
func NewHealthService(version string, reports *ReportService, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		reports:   reports,
		startTime: time.Now(),
		logger:    logger.With(slog.String("service", "health")),
	}
}

// HealthCheck returns "ok" when a report is being served and "degraded"
// otherwise
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
	if hs.reports != nil {
		status.Run = hs.reports.RunInfo()
	}
	if status.Run == nil {
		status.Status = "degraded"
	}

	hs.logger.DebugContext(ctx, "HealthCheck: completed",
		slog.String("status", status.Status))
	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	build := contracts.GetVersionInfo()
	return map[string]interface{}{
		"version":      hs.version,
		"build_time":   build.BuildTime,
		"git_commit":   build.GitCommit,
		"api_version":  build.APIVersion,
		"data_format":  build.DataFormat,
		"go_version":   runtime.Version(),
		"os":           runtime.GOOS,
		"arch":         runtime.GOARCH,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}
}
