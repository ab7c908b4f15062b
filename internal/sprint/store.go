package sprint

import (
	"context"
	"sync"

	"github.com/dylangamachefl/foundation-sprint/internal/types"
)

// Store is the registry mapping sprint identifier to sprint record. The
// in-memory implementation below is the only one shipped; the interface
// exists so the orchestrator carries no hidden global state and tests can
// substitute their own.
type Store interface {
	// Get retrieves a sprint by ID. Returns a SPRINT_NOT_FOUND error when
	// the ID is unknown.
	Get(ctx context.Context, id types.ID) (*Sprint, error)

	// Put registers a sprint under its ID, overwriting any previous entry.
	Put(ctx context.Context, s *Sprint) error
}

// NewNotFoundError creates the error returned for unknown sprint IDs.
func NewNotFoundError(id types.ID) *types.SprintError {
	return types.NewError(types.SPRINT_NOT_FOUND, "sprint not found: "+id.String())
}

// MemoryStore implements Store with a process-lifetime map. Sprints are
// never destroyed; persistence across restarts is out of scope.
type MemoryStore struct {
	mu      sync.RWMutex
	sprints map[types.ID]*Sprint
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sprints: make(map[types.ID]*Sprint),
	}
}

// Get retrieves a sprint by ID.
func (m *MemoryStore) Get(ctx context.Context, id types.ID) (*Sprint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sprints[id]
	if !ok {
		return nil, NewNotFoundError(id)
	}
	return s, nil
}

// Put registers a sprint under its ID.
func (m *MemoryStore) Put(ctx context.Context, s *Sprint) error {
	if s.ID.IsZero() {
		return types.NewError(types.SPRINT_STORE_FAILED, "sprint has no ID")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sprints[s.ID] = s
	return nil
}

// Len returns the number of registered sprints.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sprints)
}
