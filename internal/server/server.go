package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/weekendpoker/gameserver/internal/engine"
)

// Server accepts WebSocket clients and fans session state out to them.
// It is the session layer's Broadcaster: every settled state is pushed
// to the session's subscribers, and each player's private hole cards go
// only to that player's own connection.
type Server struct {
	addr     string
	upgrader websocket.Upgrader
	logger   *log.Logger
	manager  *Manager

	mu            sync.RWMutex
	connections   map[*Connection]bool
	subscriptions map[string]map[*Connection]bool

	httpServer *http.Server
}

// NewServer creates the WebSocket server.
func NewServer(addr string, manager *Manager, logger *log.Logger) *Server {
	return &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Table clients are served from arbitrary origins.
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger:        logger.WithPrefix("server"),
		manager:       manager,
		connections:   make(map[*Connection]bool),
		subscriptions: make(map[string]map[*Connection]bool),
	}
}

// Start serves until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	s.httpServer = &http.Server{Addr: s.addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpServer.Shutdown(shutdownCtx)
		s.closeAll()
	}()

	s.logger.Info("Starting WebSocket server", "addr", s.addr)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) closeAll() {
	s.mu.Lock()
	conns := make([]*Connection, 0, len(s.connections))
	for conn := range s.connections {
		conns = append(conns, conn)
	}
	s.mu.Unlock()
	for _, conn := range conns {
		_ = conn.Close()
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s, s.logger)
	s.mu.Lock()
	s.connections[client] = true
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client connected", "total", total)

	client.Start()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// subscribe registers a connection for a session's broadcasts.
func (s *Server) subscribe(c *Connection, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subscriptions[sessionID] == nil {
		s.subscriptions[sessionID] = make(map[*Connection]bool)
	}
	s.subscriptions[sessionID][c] = true
}

func (s *Server) unsubscribe(c *Connection, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if subs := s.subscriptions[sessionID]; subs != nil {
		delete(subs, c)
		if len(subs) == 0 {
			delete(s.subscriptions, sessionID)
		}
	}
}

// unregister detaches a closed connection and tells its session the
// player dropped.
func (s *Server) unregister(c *Connection) {
	playerID, sessionID := c.Identity()

	s.mu.Lock()
	delete(s.connections, c)
	total := len(s.connections)
	s.mu.Unlock()

	if sessionID != "" {
		s.unsubscribe(c, sessionID)
		if sess, ok := s.manager.Lookup(sessionID); ok {
			sess.Leave(playerID)
		}
	}
	s.logger.Info("Client disconnected", "total", total)
}

// BroadcastState implements session.Broadcaster: the public state goes
// to every subscriber, then each player still holding cards gets their
// own privately.
func (s *Server) BroadcastState(sessionID string, state engine.State) {
	stateMsg, err := NewMessage(MessageTypeGameState, GameStateData{SessionID: sessionID, State: state})
	if err != nil {
		s.logger.Error("Failed to encode state", "session_id", sessionID, "error", err)
		return
	}

	s.mu.RLock()
	conns := make([]*Connection, 0, len(s.subscriptions[sessionID]))
	for conn := range s.subscriptions[sessionID] {
		conns = append(conns, conn)
	}
	s.mu.RUnlock()

	cards := s.manager.HandCards(sessionID)
	for _, conn := range conns {
		_ = conn.SendMessage(stateMsg)

		playerID, _ := conn.Identity()
		if cards == nil {
			continue
		}
		hole, ok := cards.HoleCards[playerID]
		if !ok {
			continue
		}
		conn.reply(MessageTypeHoleCards, HoleCardsData{
			HandNumber: state.HandNumber,
			Cards:      hole,
		})
	}
}
