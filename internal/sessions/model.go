package sessions

import "time"

// UserSession tracks a browser session across uploads. Sessions are
// anonymous; the session id is a client-generated opaque string.
type UserSession struct {
	ID           string
	SessionID    string
	CreatedAt    time.Time
	LastActivity *time.Time
}
