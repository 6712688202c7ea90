package session

import (
	"context"
	"sync"
)

// MemoryStore keeps states in a process-local map. Useful for tests
// and for running the bot without external storage.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[int64]State
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[int64]State)}
}

func (m *MemoryStore) Get(_ context.Context, chatID int64) (State, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, ok := m.states[chatID]
	return state, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, chatID int64, state State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[chatID] = state
	return nil
}
