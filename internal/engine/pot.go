package engine

import "sort"

// CalculateSidePots converts the players' committed bets for the round
// into an ordered list of pots, main pot first. Input is only read.
//
// For each distinct bet level ascending, the pot at that increment is
// (level - previousLevel) x (players whose bet reaches the level). Folded,
// sitting-out and busted contributors pay in but cannot win. Chips nobody
// matched come out as a single-player pot so the distributor can return
// them uniformly.
func CalculateSidePots(players []Player) []SidePot {
	var betting []Player
	for _, p := range players {
		if p.Bet > 0 {
			betting = append(betting, p)
		}
	}
	if len(betting) == 0 {
		return nil
	}

	levelSet := make(map[int]bool)
	for _, p := range betting {
		levelSet[p.Bet] = true
	}
	levels := make([]int, 0, len(levelSet))
	for level := range levelSet {
		levels = append(levels, level)
	}
	sort.Ints(levels)

	var pots []SidePot
	prev := 0
	for _, level := range levels {
		increment := level - prev
		var eligible []string
		contributors := 0
		for _, p := range betting {
			if p.Bet < level {
				continue
			}
			contributors++
			if p.InHand() {
				eligible = append(eligible, p.ID)
			}
		}
		pots = append(pots, SidePot{
			Amount:            increment * contributors,
			EligiblePlayerIDs: eligible,
		})
		prev = level
	}
	return pots
}

// mergeSidePots appends newly swept pots onto the accumulated list,
// folding a pot into its predecessor when the eligible sets match so
// multi-street pots don't fragment.
func mergeSidePots(existing, swept []SidePot) []SidePot {
	merged := existing
	for _, pot := range swept {
		if n := len(merged); n > 0 && sameEligible(merged[n-1].EligiblePlayerIDs, pot.EligiblePlayerIDs) {
			merged[n-1].Amount += pot.Amount
			continue
		}
		merged = append(merged, pot)
	}
	return merged
}

func sameEligible(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, id := range a {
		set[id] = true
	}
	for _, id := range b {
		if !set[id] {
			return false
		}
	}
	return true
}
