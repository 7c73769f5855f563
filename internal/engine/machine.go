package engine

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/weekendpoker/gameserver/internal/deck"
)

// Machine drives the phase table over a single session's state. It holds
// no state itself beyond its random source and clock, so one machine can
// drive a session for its whole life; every call takes the current State
// and returns the next one.
//
// Machines are not safe for concurrent use. Each session actor owns one.
type Machine struct {
	rng        *rand.Rand
	minPlayers int
	now        func() time.Time
}

// Option configures a Machine.
type Option func(*Machine)

// WithMinPlayers overrides the number of ready players required to leave
// the lobby.
func WithMinPlayers(n int) Option {
	return func(m *Machine) { m.minPlayers = n }
}

// WithClock overrides the timestamp source used in the hand history.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

// NewMachine creates a machine. Pass a seeded rng for deterministic
// shuffles in tests.
func NewMachine(rng *rand.Rand, opts ...Option) *Machine {
	m := &Machine{
		rng:        rng,
		minPlayers: MinPlayers,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

var phaseTable = map[PhaseID]Phase{
	PhaseLobby:            lobbyPhase{},
	PhasePostingBlinds:    postingBlindsPhase{},
	PhaseDealingHoleCards: dealingHoleCardsPhase{},
	PhasePreFlopBetting:   bettingPhase{id: PhasePreFlopBetting, dealtTo: PhaseDealingFlop},
	PhaseDealingFlop:      dealingPhase{id: PhaseDealingFlop, cards: 3, then: PhaseFlopBetting},
	PhaseFlopBetting:      bettingPhase{id: PhaseFlopBetting, dealtTo: PhaseDealingTurn},
	PhaseDealingTurn:      dealingPhase{id: PhaseDealingTurn, cards: 1, then: PhaseTurnBetting},
	PhaseTurnBetting:      bettingPhase{id: PhaseTurnBetting, dealtTo: PhaseDealingRiver},
	PhaseDealingRiver:     dealingPhase{id: PhaseDealingRiver, cards: 1, then: PhaseRiverBetting},
	PhaseRiverBetting:     bettingPhase{id: PhaseRiverBetting, dealtTo: PhaseShowdown},
	PhaseAllInRunout:      allInRunoutPhase{},
	PhaseShowdown:         showdownPhase{},
	PhasePotDistribution:  potDistributionPhase{},
	PhaseHandComplete:     handCompletePhase{},
}

func phaseFor(id PhaseID) (Phase, error) {
	p, ok := phaseTable[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPhase, id)
	}
	return p, nil
}

// Advance settles the state: while the current phase's completion
// predicate holds it runs the exit hook, selects the next phase, and
// begins it. Call after every state-affecting event. The state returned
// is the settled value to broadcast.
func (m *Machine) Advance(s State, hc *HandCards) (State, error) {
	for {
		p, err := phaseFor(s.Phase)
		if err != nil {
			return s, err
		}
		if !p.EndIf(m, s) {
			return s, nil
		}
		s, err = p.OnEnd(m, s, hc)
		if err != nil {
			return s, err
		}

		next := p.Next(s)
		s.Phase = next
		s.DealingComplete = false
		s.AdvanceRequested = false

		np, err := phaseFor(next)
		if err != nil {
			return s, err
		}
		s, err = np.OnBegin(m, s, hc)
		if err != nil {
			return s, err
		}
	}
}

// freshDeck returns a newly shuffled deck for a hand.
func (m *Machine) freshDeck() []deck.Card {
	return deck.Shuffle(deck.New(), m.rng)
}
