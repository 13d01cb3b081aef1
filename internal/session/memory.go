package session

import "sync"

// MemoryStore keeps only the active snapshot per session. Used by tests and
// the simulate command; the serving path uses SQLiteStore.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]State
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]State)}
}

// Get returns the active snapshot for a session.
func (m *MemoryStore) Get(id string) (State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return State{}, ErrNotFound
	}
	return s, nil
}

// Put stores a snapshot as the session's active version.
func (m *MemoryStore) Put(s State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

// Delete removes a session. Deleting an unknown id is a no-op.
func (m *MemoryStore) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error { return nil }
