package engine

// Betting rules: the legal action matrix, bet sizing limits and round
// completion. All functions are pure over the state.

// BetLimits bounds a bet or raise as a total amount for the round, not
// additional chips.
type BetLimits struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// LegalActions returns the set of actions the player may take in the
// current state. An all-in or folded player has none.
//
// The matrix:
//   - nothing to call: fold, check, plus bet and all_in with chips behind
//   - facing a bet: fold, plus call when the stack covers it, plus raise
//     when the stack covers a minimum raise, plus all_in with any chips
func LegalActions(s State, playerID string) []ActionType {
	idx := s.PlayerByID(playerID)
	if idx == NoSeat {
		return nil
	}
	p := s.Players[idx]
	if p.Status == StatusAllIn || p.Status == StatusFolded {
		return nil
	}
	if !p.CanAct() {
		return nil
	}

	toCall := s.CurrentBet - p.Bet
	var actions []ActionType

	if toCall <= 0 {
		actions = append(actions, ActionFold, ActionCheck)
		if p.Stack > 0 {
			actions = append(actions, ActionBet, ActionAllIn)
		}
		return actions
	}

	actions = append(actions, ActionFold)
	if p.Stack > 0 {
		if p.Stack >= toCall {
			actions = append(actions, ActionCall)
		}
		minRaiseCost := s.CurrentBet + s.MinRaiseIncrement - p.Bet
		if p.Stack > toCall && p.Stack >= minRaiseCost {
			actions = append(actions, ActionRaise)
		}
		actions = append(actions, ActionAllIn)
	}
	return actions
}

// Limits returns the minimum and maximum total for a bet or raise. The
// maximum is always the player's full chips for the round; a short stack
// may go all-in below the nominal minimum, so the minimum is capped at
// the maximum.
func Limits(s State, playerID string, action ActionType) BetLimits {
	idx := s.PlayerByID(playerID)
	if idx == NoSeat {
		return BetLimits{}
	}
	max := s.Players[idx].TotalChips()

	if action == ActionBet {
		return BetLimits{Min: min(s.BlindLevel.BigBlind, max), Max: max}
	}
	return BetLimits{Min: min(s.CurrentBet+s.MinRaiseIncrement, max), Max: max}
}

// IsBettingRoundComplete reports whether no further action is pending
// this street.
//
// The round is open while any actable player has not voluntarily acted or
// has not matched the current bet. Pre-flop the big blind keeps the
// option: posting the blind is not a voluntary act, so the round stays
// open until the big blind checks, calls or raises even when every bet
// already matches.
func IsBettingRoundComplete(s State) bool {
	if s.PlayersInHand() <= 1 {
		return true
	}

	actable := make([]Player, 0, len(s.Players))
	for _, p := range s.Players {
		if p.CanAct() {
			actable = append(actable, p)
		}
	}
	if len(actable) == 0 {
		return true
	}

	if len(actable) == 1 {
		sole := actable[0]
		if sole.Bet < s.CurrentBet {
			return false
		}
		if sole.LastAction.IsVoluntary() {
			return true
		}
		// Nothing to call, but pre-flop the big blind still has the
		// option to act.
		if s.Phase == PhasePreFlopBetting {
			return false
		}
		return true
	}

	for _, p := range actable {
		if !p.LastAction.IsVoluntary() {
			return false
		}
		if p.Bet < s.CurrentBet {
			return false
		}
	}
	return true
}

// IsOnlyOnePlayerRemaining reports whether the hand is uncontested: a
// single non-folded player, counting all-ins.
func IsOnlyOnePlayerRemaining(s State) bool {
	return s.PlayersInHand() == 1
}

// AreAllRemainingPlayersAllIn reports whether every non-folded player is
// all-in, which sends the hand to an uncontested runout.
func AreAllRemainingPlayersAllIn(s State) bool {
	remaining := 0
	for _, p := range s.Players {
		if !p.InHand() {
			continue
		}
		remaining++
		if p.Status != StatusAllIn {
			return false
		}
	}
	return remaining > 0
}
