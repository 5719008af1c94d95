package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]UserSession // sessionID -> session
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]UserSession)}
}

func (r *MemoryRepo) Touch(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	s, ok := r.data[sessionID]
	if !ok {
		s = UserSession{
			ID:        uuid.NewString(),
			SessionID: sessionID,
			CreatedAt: now,
		}
	}
	s.LastActivity = &now
	r.data[sessionID] = s
	return nil
}

func (r *MemoryRepo) GetBySessionID(ctx context.Context, sessionID string) (UserSession, error) {
	if err := ctx.Err(); err != nil {
		return UserSession{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.data[sessionID]
	if !ok {
		return UserSession{}, ErrNotFound
	}
	return s, nil
}

var _ Repo = (*MemoryRepo)(nil)
