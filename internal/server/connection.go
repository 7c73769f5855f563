package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var ErrConnectionClosed = websocket.ErrCloseSent

// Connection represents a WebSocket connection to a client.
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	server    *Server
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	closeOnce sync.Once

	playerID  string
	sessionID string
}

// NewConnection creates a new connection wrapper.
func NewConnection(conn *websocket.Conn, server *Server, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		conn:   conn,
		send:   make(chan *Message, 256),
		server: server,
		logger: logger.WithPrefix("conn"),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins handling the connection.
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues a message for the client. A full buffer closes the
// connection rather than blocking a broadcast.
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed during shutdown.
			c.logger.Debug("Attempted to send on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// Identity returns the player and session this connection speaks for.
func (c *Connection) Identity() (playerID, sessionID string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID, c.sessionID
}

func (c *Connection) setIdentity(playerID, sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playerID = playerID
	c.sessionID = sessionID
}

// readPump handles incoming messages from the client.
func (c *Connection) readPump() {
	defer func() {
		c.server.unregister(c)
		_ = c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}
		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client.
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage routes one inbound message.
func (c *Connection) handleMessage(msg *Message) {
	playerID, sessionID := c.Identity()
	c.logger.Debug("Received message", "type", msg.Type, "player", playerID)

	if msg.Type == MessageTypeJoinSession {
		var data JoinSessionData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse join session data")
			return
		}
		c.handleJoinSession(data)
		return
	}

	if sessionID == "" {
		c.sendError("not_in_session", "Join a session first")
		return
	}
	sess, ok := c.server.manager.Lookup(sessionID)
	if !ok {
		c.sendError("unknown_session", "Session no longer exists")
		return
	}

	switch msg.Type {
	case MessageTypeLeaveSession:
		sess.Leave(playerID)
		c.server.unsubscribe(c, sessionID)
		c.setIdentity(playerID, "")
		c.reply(MessageTypeSessionLeft, SessionJoinedData{SessionID: sessionID, PlayerID: playerID})

	case MessageTypePlayerAction:
		var data PlayerActionData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse action data")
			return
		}
		sess.PlayerAction(playerID, data.Action, data.Amount)

	case MessageTypeVoiceCommand:
		var data VoiceCommandData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse voice command data")
			return
		}
		sess.VoiceCommand(playerID, data.Transcript)

	case MessageTypeReady:
		var data ReadyData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse ready data")
			return
		}
		sess.Ready(playerID, data.Ready)

	case MessageTypeSitOut:
		sess.SitOut(playerID)

	case MessageTypeDealIn:
		sess.DealIn(playerID)

	case MessageTypeSetBlindLevel:
		var data SetBlindLevelData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse blind level data")
			return
		}
		sess.SetBlindLevel(data.Level)

	default:
		c.sendError("unknown_message", "Unknown message type: "+msg.Type.String())
	}
}

func (c *Connection) handleJoinSession(data JoinSessionData) {
	sessionID := data.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	playerID := data.PlayerID
	if playerID == "" {
		playerID = uuid.NewString()
	}

	sess := c.server.manager.GetOrCreate(sessionID)
	c.setIdentity(playerID, sessionID)
	c.server.subscribe(c, sessionID)
	sess.Join(playerID, data.PlayerName, false)

	c.reply(MessageTypeSessionJoined, SessionJoinedData{SessionID: sessionID, PlayerID: playerID})
}

func (c *Connection) reply(messageType MessageType, data interface{}) {
	msg, err := NewMessage(messageType, data)
	if err != nil {
		c.logger.Error("Failed to build message", "type", messageType, "error", err)
		return
	}
	_ = c.SendMessage(msg)
}

func (c *Connection) sendError(code, message string) {
	c.reply(MessageTypeError, ErrorData{Code: code, Message: message})
}
