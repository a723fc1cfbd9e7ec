package operations

import (
	"context"

	"catalogcli/pkg/contracts/domain"
)

// ReportWriter persists a finished report and returns the files it wrote
type ReportWriter interface {
	Write(ctx context.Context, report *domain.CatalogReport) ([]string, error)
}

// StepObserver is notified about step transitions, e.g. to drive a progress display
type StepObserver interface {
	StepStarted(runID string, step *StepState)
	StepFinished(runID string, step *StepState)
}
