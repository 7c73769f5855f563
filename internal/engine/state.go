package engine

import (
	"time"

	"github.com/weekendpoker/gameserver/internal/deck"
)

// Table limits and defaults. These mirror the table rules the clients
// are built around.
const (
	MaxPlayers      = 4
	MinPlayers      = 2
	StartingStack   = 1000
	SitOutMaxHands  = 3
	DefaultBlindLvl = 1
)

// NoSeat is the sentinel returned by position lookups when no seat
// qualifies.
const NoSeat = -1

// BlindLevel describes one entry of the blind schedule.
type BlindLevel struct {
	Level      int `json:"level"`
	SmallBlind int `json:"smallBlind"`
	BigBlind   int `json:"bigBlind"`
	MinBuyIn   int `json:"minBuyIn"`
	MaxBuyIn   int `json:"maxBuyIn"`
}

// DefaultBlindLevels is the built-in blind schedule, used when no table
// configuration overrides it.
var DefaultBlindLevels = []BlindLevel{
	{Level: 1, SmallBlind: 5, BigBlind: 10, MinBuyIn: 200, MaxBuyIn: 1000},
	{Level: 2, SmallBlind: 10, BigBlind: 20, MinBuyIn: 400, MaxBuyIn: 2000},
	{Level: 3, SmallBlind: 25, BigBlind: 50, MinBuyIn: 1000, MaxBuyIn: 5000},
	{Level: 4, SmallBlind: 50, BigBlind: 100, MinBuyIn: 2000, MaxBuyIn: 10000},
	{Level: 5, SmallBlind: 100, BigBlind: 200, MinBuyIn: 4000, MaxBuyIn: 20000},
}

// SidePot is a portion of the pot restricted to the players who
// contributed at least its betting level. A single-player pot represents
// unmatched chips returned to their owner after everyone else folded or
// came up short.
type SidePot struct {
	Amount            int      `json:"amount"`
	EligiblePlayerIDs []string `json:"eligiblePlayerIds"`
}

// HandAction is one entry of the per-hand action log.
type HandAction struct {
	PlayerID   string     `json:"playerId"`
	PlayerName string     `json:"playerName"`
	Action     ActionType `json:"action"`
	Amount     int        `json:"amount"`
	Phase      PhaseID    `json:"phase"`
	Timestamp  time.Time  `json:"timestamp"`
}

// ShowdownHand is a revealed hand at showdown, public once reached.
type ShowdownHand struct {
	PlayerID    string      `json:"playerId"`
	HoleCards   []deck.Card `json:"holeCards"`
	Category    Category    `json:"category"`
	Ranks       []int       `json:"ranks"`
	Description string      `json:"description"`
	BestFive    []deck.Card `json:"bestFive"`
}

// HandHighlight records a notable hand for the session summary.
type HandHighlight struct {
	HandNumber  int      `json:"handNumber"`
	Players     []string `json:"players"`
	Description string   `json:"description"`
	PotSize     int      `json:"potSize"`
}

// PlayerStats accumulates per-player results over the session.
type PlayerStats struct {
	HandsPlayed   int `json:"handsPlayed"`
	HandsWon      int `json:"handsWon"`
	TotalWinnings int `json:"totalWinnings"`
}

// SessionStats accumulates table-wide results over the session.
type SessionStats struct {
	HandsPlayed   int                    `json:"handsPlayed"`
	TotalPotDealt int                    `json:"totalPotDealt"`
	StartedAt     time.Time              `json:"startedAt"`
	PlayerStats   map[string]PlayerStats `json:"playerStats"`
	LargestPot    *HandHighlight         `json:"largestPot"`
}

// State is the canonical description of one session's table. It is never
// mutated in place: every reducer takes a State and returns a new one, so
// a settled value can be broadcast or persisted without locking.
//
// State never contains the undealt deck or hole cards; those live in
// HandCards, which stays inside the session actor.
type State struct {
	Phase             PhaseID        `json:"phase"`
	BlindLevel        BlindLevel     `json:"blindLevel"`
	HandNumber        int            `json:"handNumber"`
	DealerIndex       int            `json:"dealerIndex"`
	ActiveIndex       int            `json:"activePlayerIndex"`
	Players           []Player       `json:"players"`
	CommunityCards    []deck.Card    `json:"communityCards"`
	Pot               int            `json:"pot"`
	SidePots          []SidePot      `json:"sidePots"`
	CurrentBet        int            `json:"currentBet"`
	MinRaiseIncrement int            `json:"minRaiseIncrement"`
	HandHistory       []HandAction   `json:"handHistory"`
	LastAggressor     string         `json:"lastAggressor,omitempty"`
	DealingComplete   bool           `json:"dealingComplete"`
	AdvanceRequested  bool           `json:"-"`
	Showdown          []ShowdownHand `json:"showdown,omitempty"`
	Stats             SessionStats   `json:"sessionStats"`
}

// NewState creates the initial state for a fresh session at Lobby entry.
func NewState(now time.Time) State {
	return State{
		Phase:             PhaseLobby,
		BlindLevel:        DefaultBlindLevels[0],
		DealerIndex:       0,
		ActiveIndex:       NoSeat,
		MinRaiseIncrement: DefaultBlindLevels[0].BigBlind,
		Stats: SessionStats{
			StartedAt:   now,
			PlayerStats: make(map[string]PlayerStats),
		},
	}
}

// PlayerByID returns the index of the player with the given id, or NoSeat.
func (s State) PlayerByID(id string) int {
	for i, p := range s.Players {
		if p.ID == id {
			return i
		}
	}
	return NoSeat
}

// PlayersInHand returns how many players still have a claim on the pot.
func (s State) PlayersInHand() int {
	n := 0
	for _, p := range s.Players {
		if p.InHand() {
			n++
		}
	}
	return n
}

// PlayablePlayers returns how many players can be dealt into a hand.
func (s State) PlayablePlayers() int {
	n := 0
	for _, p := range s.Players {
		if p.Playable() {
			n++
		}
	}
	return n
}

// clone deep-copies the state so a reducer can build the next value
// without aliasing slices or maps of the old one.
func (s State) clone() State {
	next := s
	next.Players = append([]Player(nil), s.Players...)
	next.CommunityCards = append([]deck.Card(nil), s.CommunityCards...)
	next.HandHistory = append([]HandAction(nil), s.HandHistory...)
	next.SidePots = make([]SidePot, len(s.SidePots))
	for i, sp := range s.SidePots {
		next.SidePots[i] = SidePot{
			Amount:            sp.Amount,
			EligiblePlayerIDs: append([]string(nil), sp.EligiblePlayerIDs...),
		}
	}
	next.Showdown = make([]ShowdownHand, len(s.Showdown))
	for i, sh := range s.Showdown {
		sh.HoleCards = append([]deck.Card(nil), sh.HoleCards...)
		sh.Ranks = append([]int(nil), sh.Ranks...)
		sh.BestFive = append([]deck.Card(nil), sh.BestFive...)
		next.Showdown[i] = sh
	}
	if len(next.Showdown) == 0 {
		next.Showdown = nil
	}
	next.Stats.PlayerStats = make(map[string]PlayerStats, len(s.Stats.PlayerStats))
	for id, ps := range s.Stats.PlayerStats {
		next.Stats.PlayerStats[id] = ps
	}
	if s.Stats.LargestPot != nil {
		hl := *s.Stats.LargestPot
		hl.Players = append([]string(nil), s.Stats.LargestPot.Players...)
		next.Stats.LargestPot = &hl
	}
	return next
}

// HandCards is the private, per-hand server state: the undealt deck
// remainder and each player's hole cards. It exists from the hole card
// deal until the hand resolves and must never be handed to the transport
// layer.
type HandCards struct {
	Deck      []deck.Card
	HoleCards map[string][]deck.Card
}

// Clear empties the hand cards after a hand resolves.
func (hc *HandCards) Clear() {
	hc.Deck = nil
	hc.HoleCards = nil
}

// Empty reports whether there is no stored hand state.
func (hc *HandCards) Empty() bool {
	return hc == nil || (len(hc.Deck) == 0 && len(hc.HoleCards) == 0)
}

// Snapshot deep-copies the hand cards. The actor hands snapshots to the
// store so readers on other goroutines never alias the live hand.
func (hc *HandCards) Snapshot() *HandCards {
	if hc == nil {
		return nil
	}
	out := &HandCards{Deck: append([]deck.Card(nil), hc.Deck...)}
	if hc.HoleCards != nil {
		out.HoleCards = make(map[string][]deck.Card, len(hc.HoleCards))
		for id, cards := range hc.HoleCards {
			out.HoleCards[id] = append([]deck.Card(nil), cards...)
		}
	}
	return out
}

// draw removes and returns the top n cards of the stored deck.
func (hc *HandCards) draw(n int) ([]deck.Card, error) {
	if hc == nil || hc.HoleCards == nil {
		return nil, ErrNoHandCards
	}
	if len(hc.Deck) < n {
		return nil, ErrDeckExhausted
	}
	cards := hc.Deck[:n]
	hc.Deck = hc.Deck[n:]
	return cards, nil
}

// burnAndDraw discards one card then draws n, as a live dealer would.
func (hc *HandCards) burnAndDraw(n int) ([]deck.Card, error) {
	if _, err := hc.draw(1); err != nil {
		return nil, err
	}
	return hc.draw(n)
}
