package engine

// PlayerStatus describes whether a player can still take part in the hand.
type PlayerStatus string

const (
	StatusActive     PlayerStatus = "active"
	StatusFolded     PlayerStatus = "folded"
	StatusAllIn      PlayerStatus = "all_in"
	StatusSittingOut PlayerStatus = "sitting_out"
	StatusBusted     PlayerStatus = "busted"
)

// ActionType is a player action recorded in the hand history. Blind posts
// are actions too, but they never count as a voluntary act for the
// purposes of closing a betting round.
type ActionType string

const (
	ActionFold  ActionType = "fold"
	ActionCheck ActionType = "check"
	ActionCall  ActionType = "call"
	ActionBet   ActionType = "bet"
	ActionRaise ActionType = "raise"
	ActionAllIn ActionType = "all_in"

	ActionPostSmallBlind ActionType = "post_small_blind"
	ActionPostBigBlind   ActionType = "post_big_blind"
)

// IsVoluntary reports whether the action counts as the player having acted
// this round. Posting a blind does not.
func (a ActionType) IsVoluntary() bool {
	switch a {
	case ActionFold, ActionCheck, ActionCall, ActionBet, ActionRaise, ActionAllIn:
		return true
	default:
		return false
	}
}

// Player represents one seat at the table. Players are plain values; the
// reducers copy them rather than mutating in place.
type Player struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	SeatIndex       int          `json:"seatIndex"`
	Stack           int          `json:"stack"`
	Bet             int          `json:"bet"`
	Status          PlayerStatus `json:"status"`
	LastAction      ActionType   `json:"lastAction,omitempty"`
	IsBot           bool         `json:"isBot"`
	IsReady         bool         `json:"isReady"`
	IsConnected     bool         `json:"isConnected"`
	SittingOutHands int          `json:"sittingOutHandCount"`
}

// InHand reports whether the player still has a claim on the pot.
func (p Player) InHand() bool {
	return p.Status == StatusActive || p.Status == StatusAllIn
}

// CanAct reports whether the player may take a betting action.
func (p Player) CanAct() bool {
	return p.Status == StatusActive
}

// Playable reports whether the player can be dealt into the next hand.
func (p Player) Playable() bool {
	return p.Status != StatusBusted && p.Status != StatusSittingOut
}

// TotalChips returns the player's stack plus chips already committed this
// round, the most they can have in play by the end of the round.
func (p Player) TotalChips() int {
	return p.Stack + p.Bet
}
