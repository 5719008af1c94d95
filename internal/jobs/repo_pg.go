package jobs

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new job row.
func (r *PGRepo) Create(ctx context.Context, job Job) error {
	const query = `
INSERT INTO analysis_jobs (id, session_id, state, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5)`
	_, err := r.DB.ExecContext(ctx, query, job.ID, job.SessionID, job.State, job.CreatedAt, job.UpdatedAt)
	return err
}

// GetByID fetches a job by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Job, error) {
	const query = `
SELECT id, session_id, state, created_at, updated_at
FROM analysis_jobs
WHERE id = $1
LIMIT 1`
	var job Job
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&job.ID,
		&job.SessionID,
		&job.State,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Job{}, ErrNotFound
		}
		return Job{}, err
	}
	return job, nil
}

// SetState transitions a job. The WHERE clause refuses to move a job out of
// a terminal state; such updates affect zero rows and report no error.
func (r *PGRepo) SetState(ctx context.Context, id, state string) error {
	const query = `
UPDATE analysis_jobs
SET state = $1, updated_at = now()
WHERE id = $2 AND state NOT IN ('succeeded', 'failed', 'deleted', 'expired')`
	_, err := r.DB.ExecContext(ctx, query, state, id)
	return err
}

var _ Repo = (*PGRepo)(nil)
