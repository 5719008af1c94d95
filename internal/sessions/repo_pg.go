package sessions

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Touch upserts the session row and refreshes last_activity.
func (r *PGRepo) Touch(ctx context.Context, sessionID string) error {
	const query = `
INSERT INTO user_sessions (id, session_id, created_at, last_activity)
VALUES ($1, $2, now(), now())
ON CONFLICT (session_id)
DO UPDATE SET last_activity = now()`
	_, err := r.DB.ExecContext(ctx, query, uuid.NewString(), sessionID)
	return err
}

// GetBySessionID fetches a session by its client-provided id.
func (r *PGRepo) GetBySessionID(ctx context.Context, sessionID string) (UserSession, error) {
	const query = `
SELECT id, session_id, created_at, last_activity
FROM user_sessions
WHERE session_id = $1
LIMIT 1`
	var s UserSession
	var lastActivity sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, sessionID).Scan(
		&s.ID,
		&s.SessionID,
		&s.CreatedAt,
		&lastActivity,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return UserSession{}, ErrNotFound
		}
		return UserSession{}, err
	}
	if lastActivity.Valid {
		s.LastActivity = &lastActivity.Time
	}
	return s, nil
}

var _ Repo = (*PGRepo)(nil)
