package engine

// Seat-order math for turn advancement, button rotation and blind
// assignment. All functions are pure and operate over the player list
// plus a reference index into it.
//
// Two different notions of eligibility apply: a player who folded this
// hand cannot act, but can still hold the button or a blind next hand.
// Only busted and sitting-out players lose their claim to the button.

// NextActivePlayer returns the index of the next player after from who
// can still act, walking clockwise and wrapping. Folded, all-in,
// sitting-out and busted players are skipped. Returns NoSeat when no
// player qualifies.
func NextActivePlayer(players []Player, from int) int {
	n := len(players)
	for i := 1; i <= n; i++ {
		idx := (from + i) % n
		if players[idx].CanAct() {
			return idx
		}
	}
	return NoSeat
}

// nextPlayable returns the index of the next player after from who can be
// dealt a hand (not busted, not sitting out), wrapping clockwise. Falls
// back to from when nobody else qualifies.
func nextPlayable(players []Player, from int) int {
	n := len(players)
	for i := 1; i <= n; i++ {
		idx := (from + i) % n
		if players[idx].Playable() {
			return idx
		}
	}
	return from
}

// RotateButton advances the dealer button one position clockwise to the
// next playable player.
func RotateButton(players []Player, dealer int) int {
	return nextPlayable(players, dealer)
}

// SmallBlindSeat returns the index of the small blind. Heads-up, the
// button posts the small blind; with three or more players it is the
// first playable seat left of the button.
func SmallBlindSeat(players []Player, dealer int) int {
	if countPlayable(players) == 2 {
		return dealer
	}
	return nextPlayable(players, dealer)
}

// BigBlindSeat returns the index of the big blind: the first playable
// seat left of the small blind. Heads-up this is the non-button player.
func BigBlindSeat(players []Player, dealer int) int {
	return nextPlayable(players, SmallBlindSeat(players, dealer))
}

// FirstToActPreFlop returns the first seat to act before the flop: the
// next actable player left of the big blind. Heads-up that wraps back to
// the button.
func FirstToActPreFlop(players []Player, dealer int) int {
	return NextActivePlayer(players, BigBlindSeat(players, dealer))
}

// FirstToActPostFlop returns the first seat to act on later streets: the
// next actable player left of the button.
func FirstToActPostFlop(players []Player, dealer int) int {
	return NextActivePlayer(players, dealer)
}

func countPlayable(players []Player) int {
	n := 0
	for _, p := range players {
		if p.Playable() {
			n++
		}
	}
	return n
}
