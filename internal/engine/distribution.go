package engine

// Pot distribution. Each pot goes to the best showdown hand among its
// eligible, still-live players; exact splits divide evenly with the odd
// chip to the first-listed eligible winner.

func distributePots(s State) State {
	next := s.clone()

	ranks := make(map[string]HandRank, len(next.Showdown))
	for _, sh := range next.Showdown {
		ranks[sh.PlayerID] = HandRank{
			Category:    sh.Category,
			Ranks:       sh.Ranks,
			Description: sh.Description,
		}
	}

	potTotal := 0
	winnersSeen := make(map[string]bool)
	for _, pot := range next.SidePots {
		potTotal += pot.Amount
		winners := potWinners(next, pot, ranks)
		if len(winners) == 0 {
			// Every eligible player folded after contributing; the
			// chips go to the remaining field.
			winners = liveIDs(next)
		}
		if len(winners) == 0 {
			continue
		}
		share := pot.Amount / len(winners)
		remainder := pot.Amount % len(winners)
		for i, id := range winners {
			amount := share
			if i == 0 {
				amount += remainder
			}
			next = AwardPot(next, id, amount)
			winnersSeen[id] = true
		}
	}

	for id := range winnersSeen {
		stats := next.Stats.PlayerStats[id]
		stats.HandsWon++
		next.Stats.PlayerStats[id] = stats
	}
	next = noteLargestPot(next, potTotal, winnersSeen, ranks)

	next.Pot = 0
	next.SidePots = nil
	next.Stats.TotalPotDealt += potTotal
	return next
}

// potWinners returns the ids of the best live hands among the pot's
// eligible players, in the pot's listed order.
func potWinners(s State, pot SidePot, ranks map[string]HandRank) []string {
	var best HandRank
	haveBest := false
	var winners []string
	for _, id := range pot.EligiblePlayerIDs {
		idx := s.PlayerByID(id)
		if idx == NoSeat || !s.Players[idx].InHand() {
			continue
		}
		rank, ok := ranks[id]
		if !ok {
			continue
		}
		if !haveBest {
			best = rank
			winners = []string{id}
			haveBest = true
			continue
		}
		switch cmp := Compare(rank, best); {
		case cmp > 0:
			best = rank
			winners = []string{id}
		case cmp == 0:
			winners = append(winners, id)
		}
	}
	return winners
}

// awardUncontested hands every pot to the single player left in the hand
// without a showdown.
func awardUncontested(s State) State {
	next := s.clone()
	var winner string
	for _, p := range next.Players {
		if p.InHand() {
			winner = p.ID
			break
		}
	}
	if winner == "" {
		return s
	}

	potTotal := 0
	for _, pot := range next.SidePots {
		potTotal += pot.Amount
		target := winner
		// A single-player excess pot goes back to its owner even when
		// that owner is not the last player standing.
		if len(pot.EligiblePlayerIDs) == 1 {
			if idx := next.PlayerByID(pot.EligiblePlayerIDs[0]); idx != NoSeat {
				target = pot.EligiblePlayerIDs[0]
			}
		}
		next = AwardPot(next, target, pot.Amount)
	}
	stats := next.Stats.PlayerStats[winner]
	stats.HandsWon++
	next.Stats.PlayerStats[winner] = stats

	next = noteLargestPot(next, potTotal, map[string]bool{winner: true}, nil)
	next.Pot = 0
	next.SidePots = nil
	next.Stats.TotalPotDealt += potTotal
	return next
}

// finishHandStats counts the hand for everyone who was dealt in.
func finishHandStats(s State) State {
	next := s.clone()
	next.Stats.HandsPlayed++
	for _, p := range next.Players {
		if p.Status == StatusBusted || p.Status == StatusSittingOut {
			continue
		}
		stats := next.Stats.PlayerStats[p.ID]
		stats.HandsPlayed++
		next.Stats.PlayerStats[p.ID] = stats
	}
	return next
}

func noteLargestPot(s State, potTotal int, winners map[string]bool, ranks map[string]HandRank) State {
	if potTotal == 0 {
		return s
	}
	if s.Stats.LargestPot != nil && s.Stats.LargestPot.PotSize >= potTotal {
		return s
	}
	names := make([]string, 0, len(winners))
	desc := ""
	for id := range winners {
		if idx := s.PlayerByID(id); idx != NoSeat {
			names = append(names, s.Players[idx].Name)
		}
		if desc == "" && ranks != nil {
			desc = ranks[id].Description
		}
	}
	s.Stats.LargestPot = &HandHighlight{
		HandNumber:  s.HandNumber,
		Players:     names,
		Description: desc,
		PotSize:     potTotal,
	}
	return s
}

func liveIDs(s State) []string {
	var ids []string
	for _, p := range s.Players {
		if p.InHand() {
			ids = append(ids, p.ID)
		}
	}
	return ids
}
