package session

import "github.com/weekendpoker/gameserver/internal/engine"

// Inbound events for the session actor. Everything that can change a
// session's state arrives as one of these and is drained strictly in
// order by the session goroutine.

type event interface{ isEvent() }

// actionEvent is a betting action from a player or bot.
type actionEvent struct {
	PlayerID string
	Action   engine.ActionType
	Amount   int
}

// voiceEvent is a raw transcript to classify and route.
type voiceEvent struct {
	PlayerID   string
	Transcript string
}

// joinEvent seats a player, or marks an existing one reconnected.
type joinEvent struct {
	PlayerID string
	Name     string
	IsBot    bool
}

// leaveEvent removes a player in the lobby, or marks them disconnected
// mid-hand.
type leaveEvent struct {
	PlayerID string
}

// readyEvent flips a player's lobby ready flag.
type readyEvent struct {
	PlayerID string
	Ready    bool
}

// sitOutEvent and dealInEvent toggle sitting out.
type sitOutEvent struct{ PlayerID string }
type dealInEvent struct{ PlayerID string }

// blindLevelEvent switches the blind schedule entry.
type blindLevelEvent struct{ Level int }

// actionTimeoutEvent fires when a player's action clock expires. The
// hand number and player guard against a stale timer that lost the race
// with the player's own action.
type actionTimeoutEvent struct {
	PlayerID   string
	HandNumber int
}

// advanceEvent fires after the inter-hand delay to start the next hand.
type advanceEvent struct {
	HandNumber int
}

func (actionEvent) isEvent()        {}
func (voiceEvent) isEvent()         {}
func (joinEvent) isEvent()          {}
func (leaveEvent) isEvent()         {}
func (readyEvent) isEvent()         {}
func (sitOutEvent) isEvent()        {}
func (dealInEvent) isEvent()        {}
func (blindLevelEvent) isEvent()    {}
func (actionTimeoutEvent) isEvent() {}
func (advanceEvent) isEvent()       {}
