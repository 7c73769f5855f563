package engine

// ApplyAction validates and applies one player action. Illegal input of
// any kind (out of turn, action not in the legal set, amount outside the
// limits) is rejected silently: the unchanged state comes back with
// applied=false and the caller re-requests legal actions. No error is
// surfaced because rejection is an expected part of the protocol, not a
// fault.
//
// amount is the total for the round for bet and raise, and ignored
// otherwise. Call Advance afterwards to settle any completed round.
func (m *Machine) ApplyAction(s State, playerID string, action ActionType, amount int) (State, bool) {
	if !s.Phase.IsBetting() {
		return s, false
	}
	idx := s.PlayerByID(playerID)
	if idx == NoSeat || idx != s.ActiveIndex {
		return s, false
	}
	if !actionAllowed(LegalActions(s, playerID), action) {
		return s, false
	}

	next := s
	switch action {
	case ActionFold:
		next = Fold(next, playerID, m.now())
	case ActionCheck:
		next = Check(next, playerID, m.now())
	case ActionCall:
		next = CommitChips(next, playerID, next.CurrentBet, ActionCall, m.now())
	case ActionBet, ActionRaise:
		limits := Limits(next, playerID, action)
		if amount < limits.Min || amount > limits.Max {
			return s, false
		}
		next = CommitChips(next, playerID, amount, action, m.now())
	case ActionAllIn:
		next = CommitChips(next, playerID, next.Players[idx].TotalChips(), ActionAllIn, m.now())
	default:
		return s, false
	}

	if !IsBettingRoundComplete(next) {
		next = SetActivePlayer(next, NextActivePlayer(next.Players, idx))
	}
	return next, true
}

func actionAllowed(legal []ActionType, action ActionType) bool {
	for _, a := range legal {
		if a == action {
			return true
		}
	}
	return false
}
