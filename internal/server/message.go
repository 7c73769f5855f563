package server

import (
	"encoding/json"
	"time"

	"github.com/weekendpoker/gameserver/internal/deck"
	"github.com/weekendpoker/gameserver/internal/engine"
)

// Message is the base WebSocket message structure.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message with the current timestamp.
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server messages

type JoinSessionData struct {
	SessionID  string `json:"sessionId,omitempty"` // empty creates a new session
	PlayerID   string `json:"playerId,omitempty"`  // set when reconnecting
	PlayerName string `json:"playerName"`
}

type PlayerActionData struct {
	Action engine.ActionType `json:"action"`
	Amount int               `json:"amount,omitempty"`
}

type VoiceCommandData struct {
	Transcript string `json:"transcript"`
}

type ReadyData struct {
	Ready bool `json:"ready"`
}

type SetBlindLevelData struct {
	Level int `json:"level"`
}

// Server → Client messages

type SessionJoinedData struct {
	SessionID string `json:"sessionId"`
	PlayerID  string `json:"playerId"`
}

type GameStateData struct {
	SessionID string       `json:"sessionId"`
	State     engine.State `json:"state"`
}

// HoleCardsData carries a single player's private cards. It is only ever
// sent on that player's own connection.
type HoleCardsData struct {
	HandNumber int         `json:"handNumber"`
	Cards      []deck.Card `json:"cards"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
