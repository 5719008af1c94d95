package sessions

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// Repo defines persistence operations for user sessions.
type Repo interface {
	// Touch creates the session row if absent and bumps last_activity
	// either way.
	Touch(ctx context.Context, sessionID string) error
	GetBySessionID(ctx context.Context, sessionID string) (UserSession, error)
}
