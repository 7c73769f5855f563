package engine

import (
	"time"

	"github.com/weekendpoker/gameserver/internal/deck"
)

// Reducers: every state transition takes the old State and returns a new
// one. Nothing here mutates its receiver; phase hooks and the session
// actor chain these to move the table forward.

// AddPlayer seats a new player, keeping the player list in seat order so
// that slice position is table position.
func AddPlayer(s State, p Player) State {
	next := s.clone()
	inserted := false
	players := make([]Player, 0, len(next.Players)+1)
	for _, existing := range next.Players {
		if !inserted && p.SeatIndex < existing.SeatIndex {
			players = append(players, p)
			inserted = true
		}
		players = append(players, existing)
	}
	if !inserted {
		players = append(players, p)
	}
	next.Players = players
	return next
}

// RemovePlayer unseats a player entirely. Only valid in the lobby; during
// a hand a leaver is folded and marked disconnected instead.
func RemovePlayer(s State, playerID string) State {
	next := s.clone()
	players := next.Players[:0]
	for _, p := range next.Players {
		if p.ID != playerID {
			players = append(players, p)
		}
	}
	next.Players = players
	return next
}

// SetConnected flips a player's connection flag.
func SetConnected(s State, playerID string, connected bool) State {
	return updatePlayer(s, playerID, func(p *Player) {
		p.IsConnected = connected
	})
}

// SetReady flips a player's lobby ready flag.
func SetReady(s State, playerID string, ready bool) State {
	return updatePlayer(s, playerID, func(p *Player) {
		p.IsReady = ready
	})
}

// SitOut marks a player sitting out from the next hand.
func SitOut(s State, playerID string) State {
	return updatePlayer(s, playerID, func(p *Player) {
		if p.Status == StatusBusted {
			return
		}
		p.Status = StatusSittingOut
		p.SittingOutHands = 0
	})
}

// DealIn returns a sitting-out player to the action from the next hand.
func DealIn(s State, playerID string) State {
	return updatePlayer(s, playerID, func(p *Player) {
		if p.Status != StatusSittingOut {
			return
		}
		p.Status = StatusActive
		p.SittingOutHands = 0
	})
}

// SetBlindLevel switches the blind schedule entry. An unknown level
// leaves the state unchanged rather than failing the session.
func SetBlindLevel(s State, levels []BlindLevel, level int) State {
	for _, bl := range levels {
		if bl.Level == level {
			next := s.clone()
			next.BlindLevel = bl
			return next
		}
	}
	return s
}

// CommitChips moves chips from a player's stack so their bet for the
// round totals amount (capped at their chips, which makes them all-in).
// Raises grow CurrentBet and, when at least a full raise, reset the
// minimum raise increment. CurrentBet never decreases: a short all-in
// below the current bet changes nothing for the players still to act.
func CommitChips(s State, playerID string, amount int, action ActionType, now time.Time) State {
	idx := s.PlayerByID(playerID)
	if idx == NoSeat {
		return s
	}
	next := s.clone()
	p := &next.Players[idx]

	total := min(amount, p.TotalChips())
	added := total - p.Bet
	if added < 0 {
		return s
	}
	p.Stack -= added
	p.Bet = total
	p.LastAction = action
	if p.Stack == 0 {
		p.Status = StatusAllIn
	}

	if total > next.CurrentBet {
		raise := total - next.CurrentBet
		if raise >= next.MinRaiseIncrement {
			next.MinRaiseIncrement = raise
		}
		next.CurrentBet = total
		if action.IsVoluntary() {
			next.LastAggressor = playerID
		}
	}

	return recordAction(next, idx, action, added, now)
}

// Fold folds a player out of the hand.
func Fold(s State, playerID string, now time.Time) State {
	idx := s.PlayerByID(playerID)
	if idx == NoSeat {
		return s
	}
	next := s.clone()
	next.Players[idx].Status = StatusFolded
	next.Players[idx].LastAction = ActionFold
	return recordAction(next, idx, ActionFold, 0, now)
}

// Check records a check.
func Check(s State, playerID string, now time.Time) State {
	idx := s.PlayerByID(playerID)
	if idx == NoSeat {
		return s
	}
	next := s.clone()
	next.Players[idx].LastAction = ActionCheck
	return recordAction(next, idx, ActionCheck, 0, now)
}

// SetActivePlayer moves the action to the given index (or NoSeat).
func SetActivePlayer(s State, idx int) State {
	next := s.clone()
	next.ActiveIndex = idx
	return next
}

// DealCommunity appends dealt cards to the board.
func DealCommunity(s State, cards []deck.Card) State {
	next := s.clone()
	next.CommunityCards = append(next.CommunityCards, cards...)
	return next
}

// SweepBets collects the round's bets into the pot breakdown, clears the
// per-round betting fields and takes the action marker off the table.
func SweepBets(s State) State {
	next := s.clone()
	swept := CalculateSidePots(next.Players)
	total := 0
	for _, pot := range swept {
		total += pot.Amount
	}
	next.SidePots = mergeSidePots(next.SidePots, swept)
	next.Pot += total
	for i := range next.Players {
		next.Players[i].Bet = 0
	}
	next.CurrentBet = 0
	next.ActiveIndex = NoSeat
	return next
}

// ResetForStreet prepares a fresh post-flop betting round.
func ResetForStreet(s State) State {
	next := s.clone()
	next.CurrentBet = 0
	next.MinRaiseIncrement = next.BlindLevel.BigBlind
	next.LastAggressor = ""
	for i := range next.Players {
		if next.Players[i].CanAct() {
			next.Players[i].LastAction = ""
		}
	}
	return next
}

// AwardPot credits amount to a winner's stack and tallies the winnings.
// Hand wins are counted once per hand by the distributor, since a player
// can take several pots in one hand.
func AwardPot(s State, playerID string, amount int) State {
	next := updatePlayer(s, playerID, func(p *Player) {
		p.Stack += amount
	})
	stats := next.Stats.PlayerStats[playerID]
	stats.TotalWinnings += amount
	next.Stats.PlayerStats[playerID] = stats
	return next
}

// BeginHand resets the per-hand fields for the next deal: the board, the
// pots, every playable player's betting state, and the hand log. Sitting
// out players accrue a missed hand and are busted out of the session once
// they exceed the limit.
func BeginHand(s State) State {
	next := s.clone()
	next.HandNumber++
	next.CommunityCards = nil
	next.Pot = 0
	next.SidePots = nil
	next.CurrentBet = 0
	next.MinRaiseIncrement = next.BlindLevel.BigBlind
	next.HandHistory = nil
	next.LastAggressor = ""
	next.DealingComplete = false
	next.AdvanceRequested = false
	next.Showdown = nil
	next.ActiveIndex = NoSeat

	for i := range next.Players {
		p := &next.Players[i]
		p.Bet = 0
		p.LastAction = ""
		switch p.Status {
		case StatusBusted:
		case StatusSittingOut:
			p.SittingOutHands++
			if p.SittingOutHands > SitOutMaxHands {
				p.Status = StatusBusted
			}
		default:
			p.Status = StatusActive
		}
	}
	return next
}

// BustBrokePlayers marks every player with an empty stack as busted at
// the end of a hand.
func BustBrokePlayers(s State) State {
	next := s.clone()
	for i := range next.Players {
		p := &next.Players[i]
		if p.Status != StatusSittingOut && p.Stack == 0 {
			p.Status = StatusBusted
		}
	}
	return next
}

// MarkDealingComplete latches the dealing phases' completion predicate.
func MarkDealingComplete(s State) State {
	next := s.clone()
	next.DealingComplete = true
	return next
}

// RequestAdvance latches the intermission phases' completion predicate;
// the inter-hand timer dispatches this.
func RequestAdvance(s State) State {
	next := s.clone()
	next.AdvanceRequested = true
	return next
}

func recordAction(s State, idx int, action ActionType, amount int, now time.Time) State {
	p := s.Players[idx]
	s.HandHistory = append(s.HandHistory, HandAction{
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Action:     action,
		Amount:     amount,
		Phase:      s.Phase,
		Timestamp:  now,
	})
	return s
}

func updatePlayer(s State, playerID string, fn func(*Player)) State {
	idx := s.PlayerByID(playerID)
	if idx == NoSeat {
		return s
	}
	next := s.clone()
	fn(&next.Players[idx])
	return next
}
