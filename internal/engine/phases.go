package engine

import "github.com/weekendpoker/gameserver/internal/deck"

// The 14 phases of a hand, each a variant implementing Phase. The
// machine invokes OnBegin once on entry, re-evaluates EndIf after every
// state-affecting event, and on completion runs OnEnd and moves to Next.
//
// OnBegin and OnEnd may apply reducers; EndIf and Next are pure over the
// state. Dealing hooks are the only ones that touch the private HandCards.

// PhaseID names a phase. The string values are what clients see.
type PhaseID string

const (
	PhaseLobby            PhaseID = "LOBBY"
	PhasePostingBlinds    PhaseID = "POSTING_BLINDS"
	PhaseDealingHoleCards PhaseID = "DEALING_HOLE_CARDS"
	PhasePreFlopBetting   PhaseID = "PRE_FLOP_BETTING"
	PhaseDealingFlop      PhaseID = "DEALING_FLOP"
	PhaseFlopBetting      PhaseID = "FLOP_BETTING"
	PhaseDealingTurn      PhaseID = "DEALING_TURN"
	PhaseTurnBetting      PhaseID = "TURN_BETTING"
	PhaseDealingRiver     PhaseID = "DEALING_RIVER"
	PhaseRiverBetting     PhaseID = "RIVER_BETTING"
	PhaseAllInRunout      PhaseID = "ALL_IN_RUNOUT"
	PhaseShowdown         PhaseID = "SHOWDOWN"
	PhasePotDistribution  PhaseID = "POT_DISTRIBUTION"
	PhaseHandComplete     PhaseID = "HAND_COMPLETE"
)

// IsBetting reports whether player actions are accepted in this phase.
func (id PhaseID) IsBetting() bool {
	switch id {
	case PhasePreFlopBetting, PhaseFlopBetting, PhaseTurnBetting, PhaseRiverBetting:
		return true
	default:
		return false
	}
}

// Phase is one variant of the hand state machine.
type Phase interface {
	ID() PhaseID
	OnBegin(m *Machine, s State, hc *HandCards) (State, error)
	EndIf(m *Machine, s State) bool
	OnEnd(m *Machine, s State, hc *HandCards) (State, error)
	Next(s State) PhaseID
}

// basePhase supplies the no-op hooks most phases share.
type basePhase struct{}

func (basePhase) OnBegin(_ *Machine, s State, _ *HandCards) (State, error) { return s, nil }
func (basePhase) EndIf(_ *Machine, _ State) bool                           { return true }
func (basePhase) OnEnd(_ *Machine, s State, _ *HandCards) (State, error)   { return s, nil }

// Lobby

type lobbyPhase struct{ basePhase }

func (lobbyPhase) ID() PhaseID { return PhaseLobby }

func (lobbyPhase) OnBegin(_ *Machine, s State, _ *HandCards) (State, error) {
	next := SetActivePlayer(s, NoSeat)
	for i := range next.Players {
		next.Players[i].IsReady = next.Players[i].IsBot
	}
	return next, nil
}

// EndIf waits for enough seated players to declare ready. Bots are
// always ready.
func (lobbyPhase) EndIf(m *Machine, s State) bool {
	ready := 0
	for _, p := range s.Players {
		if p.Playable() && (p.IsReady || p.IsBot) {
			ready++
		}
	}
	return ready >= m.minPlayers
}

func (lobbyPhase) Next(State) PhaseID { return PhasePostingBlinds }

// Posting blinds

type postingBlindsPhase struct{ basePhase }

func (postingBlindsPhase) ID() PhaseID { return PhasePostingBlinds }

func (postingBlindsPhase) OnBegin(m *Machine, s State, _ *HandCards) (State, error) {
	next := BeginHand(s)
	next.DealerIndex = RotateButton(next.Players, next.DealerIndex)

	sb := SmallBlindSeat(next.Players, next.DealerIndex)
	bb := BigBlindSeat(next.Players, next.DealerIndex)
	next = CommitChips(next, next.Players[sb].ID, next.BlindLevel.SmallBlind, ActionPostSmallBlind, m.now())
	next = CommitChips(next, next.Players[bb].ID, next.BlindLevel.BigBlind, ActionPostBigBlind, m.now())
	return next, nil
}

func (postingBlindsPhase) EndIf(_ *Machine, s State) bool {
	var sbPosted, bbPosted bool
	for _, a := range s.HandHistory {
		switch a.Action {
		case ActionPostSmallBlind:
			sbPosted = true
		case ActionPostBigBlind:
			bbPosted = true
		}
	}
	return sbPosted && bbPosted
}

func (postingBlindsPhase) Next(State) PhaseID { return PhaseDealingHoleCards }

// Dealing hole cards

type dealingHoleCardsPhase struct{ basePhase }

func (dealingHoleCardsPhase) ID() PhaseID { return PhaseDealingHoleCards }

func (dealingHoleCardsPhase) OnBegin(m *Machine, s State, hc *HandCards) (State, error) {
	if hc == nil {
		return s, ErrNoHandCards
	}
	hc.Deck = m.freshDeck()
	hc.HoleCards = make(map[string][]deck.Card)

	// Two passes of one card each, starting left of the button.
	order := dealOrder(s.Players, s.DealerIndex)
	for pass := 0; pass < 2; pass++ {
		for _, idx := range order {
			card, err := hc.draw(1)
			if err != nil {
				return s, err
			}
			id := s.Players[idx].ID
			hc.HoleCards[id] = append(hc.HoleCards[id], card[0])
		}
	}
	return MarkDealingComplete(s), nil
}

func (dealingHoleCardsPhase) EndIf(_ *Machine, s State) bool { return s.DealingComplete }
func (dealingHoleCardsPhase) Next(State) PhaseID             { return PhasePreFlopBetting }

// dealOrder lists the indexes of players dealt into the hand, starting
// left of the button.
func dealOrder(players []Player, dealer int) []int {
	n := len(players)
	order := make([]int, 0, n)
	for i := 1; i <= n; i++ {
		idx := (dealer + i) % n
		if players[idx].InHand() {
			order = append(order, idx)
		}
	}
	return order
}

// Betting streets

type bettingPhase struct {
	basePhase
	id      PhaseID
	dealtTo PhaseID // next dealing phase, or showdown after the river
}

func (p bettingPhase) ID() PhaseID { return p.id }

func (p bettingPhase) OnBegin(_ *Machine, s State, _ *HandCards) (State, error) {
	next := s
	if p.id != PhasePreFlopBetting {
		next = ResetForStreet(next)
		next = SetActivePlayer(next, FirstToActPostFlop(next.Players, next.DealerIndex))
	} else {
		next = SetActivePlayer(next, FirstToActPreFlop(next.Players, next.DealerIndex))
	}
	return next, nil
}

func (p bettingPhase) EndIf(_ *Machine, s State) bool { return IsBettingRoundComplete(s) }

func (p bettingPhase) OnEnd(_ *Machine, s State, _ *HandCards) (State, error) {
	return SweepBets(s), nil
}

func (p bettingPhase) Next(s State) PhaseID {
	if IsOnlyOnePlayerRemaining(s) {
		return PhaseHandComplete
	}
	if p.id == PhaseRiverBetting {
		return PhaseShowdown
	}
	if AreAllRemainingPlayersAllIn(s) {
		return PhaseAllInRunout
	}
	return p.dealtTo
}

// Dealing streets

type dealingPhase struct {
	basePhase
	id    PhaseID
	cards int
	then  PhaseID
}

func (p dealingPhase) ID() PhaseID { return p.id }

func (p dealingPhase) OnBegin(_ *Machine, s State, hc *HandCards) (State, error) {
	if hc.Empty() {
		return s, ErrNoHandCards
	}
	cards, err := hc.burnAndDraw(p.cards)
	if err != nil {
		return s, err
	}
	return MarkDealingComplete(DealCommunity(s, cards)), nil
}

func (p dealingPhase) EndIf(_ *Machine, s State) bool { return s.DealingComplete }
func (p dealingPhase) Next(State) PhaseID             { return p.then }

// All-in runout

type allInRunoutPhase struct{ basePhase }

func (allInRunoutPhase) ID() PhaseID { return PhaseAllInRunout }

func (allInRunoutPhase) OnBegin(_ *Machine, s State, hc *HandCards) (State, error) {
	if hc.Empty() {
		return s, ErrNoHandCards
	}
	next := s
	for len(next.CommunityCards) < 5 {
		n := 1
		if len(next.CommunityCards) == 0 {
			n = 3
		}
		cards, err := hc.burnAndDraw(n)
		if err != nil {
			return s, err
		}
		next = DealCommunity(next, cards)
	}
	return MarkDealingComplete(next), nil
}

func (allInRunoutPhase) EndIf(_ *Machine, s State) bool { return s.DealingComplete }
func (allInRunoutPhase) Next(State) PhaseID             { return PhaseShowdown }

// Showdown

type showdownPhase struct{ basePhase }

func (showdownPhase) ID() PhaseID { return PhaseShowdown }

func (showdownPhase) OnBegin(_ *Machine, s State, hc *HandCards) (State, error) {
	next := s.clone()
	for _, p := range next.Players {
		if !p.InHand() {
			continue
		}
		hole, ok := hc.HoleCards[p.ID]
		if !ok || len(hole) != 2 {
			return s, ErrNoHandCards
		}
		seven := append(append([]deck.Card(nil), hole...), next.CommunityCards...)
		rank, err := Evaluate(seven)
		if err != nil {
			return s, err
		}
		next.Showdown = append(next.Showdown, ShowdownHand{
			PlayerID:    p.ID,
			HoleCards:   append([]deck.Card(nil), hole...),
			Category:    rank.Category,
			Ranks:       rank.Ranks,
			Description: rank.Description,
			BestFive:    rank.Cards,
		})
	}
	return next, nil
}

func (showdownPhase) Next(State) PhaseID { return PhasePotDistribution }

// Pot distribution

type potDistributionPhase struct{ basePhase }

func (potDistributionPhase) ID() PhaseID { return PhasePotDistribution }

func (potDistributionPhase) OnBegin(_ *Machine, s State, _ *HandCards) (State, error) {
	return distributePots(s), nil
}

func (potDistributionPhase) Next(State) PhaseID { return PhaseHandComplete }

// Hand complete

type handCompletePhase struct{ basePhase }

func (handCompletePhase) ID() PhaseID { return PhaseHandComplete }

func (handCompletePhase) OnBegin(_ *Machine, s State, hc *HandCards) (State, error) {
	next := s
	if next.Pot > 0 && IsOnlyOnePlayerRemaining(next) {
		next = awardUncontested(next)
	}
	next = finishHandStats(next)
	next = BustBrokePlayers(next)
	if hc != nil {
		hc.Clear()
	}
	return next, nil
}

// EndIf waits for the inter-hand pause; the session's delay timer
// requests the advance.
func (handCompletePhase) EndIf(_ *Machine, s State) bool { return s.AdvanceRequested }

func (handCompletePhase) Next(s State) PhaseID {
	if s.PlayablePlayers() < MinPlayers {
		return PhaseLobby
	}
	return PhasePostingBlinds
}
