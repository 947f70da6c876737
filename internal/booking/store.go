package booking

import (
	"context"
	"sync"

	apperrors "lynra/internal/errors"
)

// Store keeps one State per session id. Update applies fn atomically with respect
// to other updates of the same session; when fn fails nothing is written.
type Store interface {
	Create(ctx context.Context, id string, state State) error
	Get(ctx context.Context, id string) (State, error)
	Update(ctx context.Context, id string, fn func(State) (State, error)) (State, error)
	Delete(ctx context.Context, id string) error
}

// MemoryStore is a process-local Store without expiry, used when a Flow is
// embedded in a single process.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]State
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]State)}
}

func (m *MemoryStore) Create(_ context.Context, id string, state State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; ok {
		return apperrors.NewConflictError("session already exists")
	}
	m.sessions[id] = state
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[id]
	if !ok {
		return State{}, apperrors.NewNotFoundError("session not found")
	}
	return state, nil
}

func (m *MemoryStore) Update(_ context.Context, id string, fn func(State) (State, error)) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[id]
	if !ok {
		return State{}, apperrors.NewNotFoundError("session not found")
	}
	next, err := fn(state)
	if err != nil {
		return state, err
	}
	m.sessions[id] = next
	return next, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return apperrors.NewNotFoundError("session not found")
	}
	delete(m.sessions, id)
	return nil
}
