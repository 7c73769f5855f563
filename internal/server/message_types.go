package server

// MessageType represents a WebSocket message type with type safety.
type MessageType string

// WebSocket message type constants for the client-server protocol.
const (
	// Client to server messages
	MessageTypeJoinSession   MessageType = "join_session"
	MessageTypeLeaveSession  MessageType = "leave_session"
	MessageTypePlayerAction  MessageType = "player_action"
	MessageTypeVoiceCommand  MessageType = "voice_command"
	MessageTypeReady         MessageType = "ready"
	MessageTypeSitOut        MessageType = "sit_out"
	MessageTypeDealIn        MessageType = "deal_in"
	MessageTypeSetBlindLevel MessageType = "set_blind_level"

	// Server to client messages
	MessageTypeSessionJoined MessageType = "session_joined"
	MessageTypeSessionLeft   MessageType = "session_left"
	MessageTypeGameState     MessageType = "game_state"
	MessageTypeHoleCards     MessageType = "hole_cards"
	MessageTypeError         MessageType = "error"
)

// String returns the string representation of the message type.
func (mt MessageType) String() string {
	return string(mt)
}
