package jobs

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// Repo defines persistence operations for analysis jobs.
type Repo interface {
	Create(ctx context.Context, job Job) error
	GetByID(ctx context.Context, id string) (Job, error)
	// SetState transitions a job. Transitions out of a terminal state are
	// silently ignored.
	SetState(ctx context.Context, id, state string) error
}
