package reports

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// Repo defines persistence operations for analysis reports.
type Repo interface {
	Create(ctx context.Context, report AnalysisReport) error
	GetByID(ctx context.Context, id string) (ReportWithFile, error)
	// ListBySession returns all reports for files uploaded under the
	// session, newest first.
	ListBySession(ctx context.Context, sessionID string) ([]ReportWithFile, error)
}
