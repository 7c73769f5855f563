package session

import (
	"sync"

	"github.com/weekendpoker/gameserver/internal/engine"
)

// Store persists a session's public state and private hand cards, keyed
// by session id. The engine only needs get/set/clear semantics; a
// production deployment can back this with Redis, the in-memory
// implementation below is enough for a single server.
type Store interface {
	Get(sessionID string) (engine.State, *engine.HandCards, bool)
	Set(sessionID string, state engine.State, cards *engine.HandCards) error
	Clear(sessionID string) error
}

// MemoryStore keeps session state in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*storedSession
}

type storedSession struct {
	state engine.State
	cards *engine.HandCards
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*storedSession)}
}

// Get returns the stored state for a session.
func (m *MemoryStore) Get(sessionID string) (engine.State, *engine.HandCards, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stored, ok := m.sessions[sessionID]
	if !ok {
		return engine.State{}, nil, false
	}
	return stored.state, stored.cards, true
}

// Set stores the state for a session.
func (m *MemoryStore) Set(sessionID string, state engine.State, cards *engine.HandCards) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sessionID] = &storedSession{state: state, cards: cards}
	return nil
}

// Clear removes a session.
func (m *MemoryStore) Clear(sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}
