package server

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/weekendpoker/gameserver/internal/engine"
	"github.com/weekendpoker/gameserver/internal/session"
)

// Manager owns the set of live sessions. Each session gets its own actor
// goroutine; the manager starts them on demand and tears them all down
// on shutdown.
type Manager struct {
	logger      *log.Logger
	store       session.Store
	clock       quartz.Clock
	broadcaster session.Broadcaster

	actionTimeout  time.Duration
	interHandDelay time.Duration
	blindLevels    []engine.BlindLevel

	mu       sync.Mutex
	sessions map[string]*runningSession

	ctx    context.Context
	cancel context.CancelFunc
	group  *errgroup.Group
}

type runningSession struct {
	session *session.Session
	cancel  context.CancelFunc
}

// NewManager creates a session manager from the server configuration.
func NewManager(cfg *Config, store session.Store, clock quartz.Clock, logger *log.Logger) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	group, ctx := errgroup.WithContext(ctx)
	return &Manager{
		logger:         logger.WithPrefix("manager"),
		store:          store,
		clock:          clock,
		actionTimeout:  cfg.ActionTimeout(),
		interHandDelay: cfg.InterHandDelay(),
		blindLevels:    cfg.Schedule(),
		sessions:       make(map[string]*runningSession),
		ctx:            ctx,
		cancel:         cancel,
		group:          group,
	}
}

// SetBroadcaster wires the transport in. Must be called before the first
// session is created.
func (m *Manager) SetBroadcaster(b session.Broadcaster) {
	m.broadcaster = b
}

// GetOrCreate returns the session with the given id, starting its actor
// if it does not exist yet.
func (m *Manager) GetOrCreate(sessionID string) *session.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if running, ok := m.sessions[sessionID]; ok {
		return running.session
	}

	machine := engine.NewMachine(rand.New(rand.NewSource(time.Now().UnixNano())))
	sess := session.New(sessionID, session.Config{
		Logger:         m.logger,
		Machine:        machine,
		Store:          m.store,
		Broadcaster:    m.broadcaster,
		Clock:          m.clock,
		ActionTimeout:  m.actionTimeout,
		InterHandDelay: m.interHandDelay,
		BlindLevels:    m.blindLevels,
	})

	ctx, cancel := context.WithCancel(m.ctx)
	m.sessions[sessionID] = &runningSession{session: sess, cancel: cancel}
	m.group.Go(func() error {
		defer m.remove(sessionID)
		err := sess.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	m.logger.Info("Session started", "session_id", sessionID)
	return sess
}

// Lookup returns a live session without creating one.
func (m *Manager) Lookup(sessionID string) (*session.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	running, ok := m.sessions[sessionID]
	if !ok {
		return nil, false
	}
	return running.session, true
}

// HandCards returns the stored private cards for a session, or nil.
// The store holds snapshots, so the result is safe to read.
func (m *Manager) HandCards(sessionID string) *engine.HandCards {
	_, cards, ok := m.store.Get(sessionID)
	if !ok {
		return nil
	}
	return cards
}

// Close stops a single session.
func (m *Manager) Close(sessionID string) {
	m.mu.Lock()
	running, ok := m.sessions[sessionID]
	m.mu.Unlock()
	if ok {
		running.cancel()
	}
}

// Shutdown stops every session and waits for the actors to exit.
func (m *Manager) Shutdown() error {
	m.cancel()
	return m.group.Wait()
}

func (m *Manager) remove(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if running, ok := m.sessions[sessionID]; ok {
		running.cancel()
		delete(m.sessions, sessionID)
	}
	m.logger.Info("Session stopped", "session_id", sessionID)
}
