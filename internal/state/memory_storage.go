package state

import (
	"context"
	"sync"
	"time"
)

// MemoryStorage keeps user FSM states in process memory. It backs local runs
// without Redis; state is lost on restart, which only abandons in-flight add
// flows.
type MemoryStorage struct {
	mu     sync.RWMutex
	states map[int64]*UserState
}

// NewMemoryStorage returns an in-memory Storage implementation.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		states: make(map[int64]*UserState),
	}
}

// GetState returns the stored user state or ErrStateNotFound when absent.
func (s *MemoryStorage) GetState(ctx context.Context, userID int64) (*UserState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.states[userID]
	if !ok {
		return nil, ErrStateNotFound
	}

	copied := *state
	return &copied, nil
}

// SetState saves the provided user state.
func (s *MemoryStorage) SetState(ctx context.Context, userID int64, state *UserState) error {
	state.UpdatedAt = time.Now().UTC()

	copied := *state

	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[userID] = &copied

	return nil
}

// ClearState removes the state for the specified user.
func (s *MemoryStorage) ClearState(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, userID)

	return nil
}

// Sweep removes states older than maxAge and returns how many were dropped.
func (s *MemoryStorage) Sweep(maxAge time.Duration) int {
	cutoff := time.Now().UTC().Add(-maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for userID, state := range s.states {
		if state.UpdatedAt.Before(cutoff) {
			delete(s.states, userID)
			removed++
		}
	}

	return removed
}
