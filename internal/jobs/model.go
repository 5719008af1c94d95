package jobs

import "time"

// Job states. Deleted and expired come from queue housekeeping; clients only
// ever see the normalized vocabulary.
const (
	StateEnqueued   = "enqueued"
	StateProcessing = "processing"
	StateSucceeded  = "succeeded"
	StateFailed     = "failed"
	StateDeleted    = "deleted"
	StateExpired    = "expired"
)

// Job tracks the lifecycle of one queued analysis.
type Job struct {
	ID        string
	SessionID string
	State     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal reports whether a job in this state may never transition again.
func IsTerminal(state string) bool {
	switch state {
	case StateSucceeded, StateFailed, StateDeleted, StateExpired:
		return true
	}
	return false
}

// Normalize maps an internal state onto the client-facing vocabulary:
// enqueued, processing, succeeded, failed. Housekeeping states read as
// failed; anything unrecognized reads as processing.
func Normalize(state string) string {
	switch state {
	case StateEnqueued, StateProcessing, StateSucceeded, StateFailed:
		return state
	case StateDeleted, StateExpired:
		return StateFailed
	default:
		return StateProcessing
	}
}
