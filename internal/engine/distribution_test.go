package engine

import "testing"

func showdownState(pots []SidePot, hands []ShowdownHand, players ...Player) State {
	total := 0
	for _, p := range pots {
		total += p.Amount
	}
	s := NewState(testNow)
	s.Phase = PhasePotDistribution
	s.Players = players
	s.Pot = total
	s.SidePots = pots
	s.Showdown = hands
	return s
}

func TestDistributePots_BestHandTakesAll(t *testing.T) {
	s := showdownState(
		[]SidePot{{Amount: 200, EligiblePlayerIDs: []string{"a", "b"}}},
		[]ShowdownHand{
			{PlayerID: "a", Category: OnePair, Ranks: []int{14, 13, 12, 11}},
			{PlayerID: "b", Category: TwoPair, Ranks: []int{13, 12, 14}},
		},
		Player{ID: "a", SeatIndex: 0, Stack: 900, Status: StatusActive},
		Player{ID: "b", SeatIndex: 1, Stack: 900, Status: StatusActive},
	)

	s = distributePots(s)

	if s.Players[1].Stack != 1100 {
		t.Errorf("Two pair beats one pair: expected b at 1100, got %d", s.Players[1].Stack)
	}
	if s.Players[0].Stack != 900 {
		t.Errorf("Loser must not be paid, got %d", s.Players[0].Stack)
	}
	if s.Pot != 0 || s.SidePots != nil {
		t.Errorf("Pots should be emptied after distribution")
	}
	if s.Stats.PlayerStats["b"].HandsWon != 1 {
		t.Errorf("Winner should record one hand won, got %d", s.Stats.PlayerStats["b"].HandsWon)
	}
}

func TestDistributePots_SplitWithOddChip(t *testing.T) {
	// 25 splits two ways as 13 and 12, odd chip to the first-listed
	// eligible winner.
	s := showdownState(
		[]SidePot{{Amount: 25, EligiblePlayerIDs: []string{"a", "b"}}},
		[]ShowdownHand{
			{PlayerID: "a", Category: Straight, Ranks: []int{14}},
			{PlayerID: "b", Category: Straight, Ranks: []int{14}},
		},
		Player{ID: "a", SeatIndex: 0, Stack: 0, Status: StatusActive},
		Player{ID: "b", SeatIndex: 1, Stack: 0, Status: StatusActive},
	)

	s = distributePots(s)

	if s.Players[0].Stack != 13 {
		t.Errorf("First-listed winner takes the odd chip: expected 13, got %d", s.Players[0].Stack)
	}
	if s.Players[1].Stack != 12 {
		t.Errorf("Expected 12 for the second winner, got %d", s.Players[1].Stack)
	}
	if s.Stats.PlayerStats["a"].HandsWon != 1 || s.Stats.PlayerStats["b"].HandsWon != 1 {
		t.Errorf("A split counts as a win for both players")
	}
}

func TestDistributePots_SidePotLadder(t *testing.T) {
	// The short stack holds the best hand but is only eligible for the
	// main pot; the side pot goes to the best hand among the deep stacks.
	s := showdownState(
		[]SidePot{
			{Amount: 150, EligiblePlayerIDs: []string{"a", "b", "c"}},
			{Amount: 100, EligiblePlayerIDs: []string{"b", "c"}},
		},
		[]ShowdownHand{
			{PlayerID: "a", Category: Flush, Ranks: []int{14, 10, 8, 5, 3}},
			{PlayerID: "b", Category: OnePair, Ranks: []int{13, 14, 12, 11}},
			{PlayerID: "c", Category: HighCard, Ranks: []int{14, 12, 10, 8, 5}},
		},
		Player{ID: "a", SeatIndex: 0, Stack: 0, Status: StatusAllIn},
		Player{ID: "b", SeatIndex: 1, Stack: 500, Status: StatusActive},
		Player{ID: "c", SeatIndex: 2, Stack: 500, Status: StatusActive},
	)

	s = distributePots(s)

	if s.Players[0].Stack != 150 {
		t.Errorf("Short stack wins only the main pot: expected 150, got %d", s.Players[0].Stack)
	}
	if s.Players[1].Stack != 600 {
		t.Errorf("Best deep hand takes the side pot: expected 600, got %d", s.Players[1].Stack)
	}
	if s.Players[2].Stack != 500 {
		t.Errorf("Third player wins nothing: expected 500, got %d", s.Players[2].Stack)
	}
	if s.Stats.TotalPotDealt != 250 {
		t.Errorf("Expected 250 dealt in the stats, got %d", s.Stats.TotalPotDealt)
	}
}

func TestDistributePots_FoldedEligibleCannotWin(t *testing.T) {
	// b folded on a later street after contributing to this pot.
	s := showdownState(
		[]SidePot{{Amount: 300, EligiblePlayerIDs: []string{"a", "b", "c"}}},
		[]ShowdownHand{
			{PlayerID: "a", Category: HighCard, Ranks: []int{13, 12, 10, 8, 5}},
			{PlayerID: "c", Category: HighCard, Ranks: []int{12, 11, 10, 8, 5}},
		},
		Player{ID: "a", SeatIndex: 0, Stack: 0, Status: StatusActive},
		Player{ID: "b", SeatIndex: 1, Stack: 100, Status: StatusFolded},
		Player{ID: "c", SeatIndex: 2, Stack: 0, Status: StatusActive},
	)

	s = distributePots(s)

	if s.Players[1].Stack != 100 {
		t.Errorf("Folded player must not be paid, got %d", s.Players[1].Stack)
	}
	if s.Players[0].Stack != 300 {
		t.Errorf("Best live hand takes the pot: expected 300, got %d", s.Players[0].Stack)
	}
}

func TestAwardUncontested_LastPlayerTakesAll(t *testing.T) {
	// b shoved over a's bet and a folded: the matched chips and b's
	// unmatched excess all come back to b without a showdown.
	s := showdownState(
		[]SidePot{
			{Amount: 100, EligiblePlayerIDs: []string{"b"}},
			{Amount: 150, EligiblePlayerIDs: []string{"b"}},
		},
		nil,
		Player{ID: "a", SeatIndex: 0, Stack: 200, Status: StatusFolded},
		Player{ID: "b", SeatIndex: 1, Stack: 0, Status: StatusAllIn},
	)
	s.Phase = PhaseHandComplete

	s = awardUncontested(s)

	if s.Players[1].Stack != 250 {
		t.Errorf("Last player standing takes everything: expected 250, got %d", s.Players[1].Stack)
	}
	if s.Pot != 0 {
		t.Errorf("Pot should be cleared, got %d", s.Pot)
	}
}

func TestNoteLargestPotKeepsTheBiggest(t *testing.T) {
	s := NewState(testNow)
	s.Players = []Player{{ID: "a", Name: "Alice", SeatIndex: 0}}
	s.HandNumber = 3

	s = noteLargestPot(s, 120, map[string]bool{"a": true}, nil)
	if s.Stats.LargestPot == nil || s.Stats.LargestPot.PotSize != 120 {
		t.Fatalf("Expected a 120 highlight, got %+v", s.Stats.LargestPot)
	}

	s = noteLargestPot(s, 80, map[string]bool{"a": true}, nil)
	if s.Stats.LargestPot.PotSize != 120 {
		t.Errorf("A smaller pot must not replace the highlight, got %d", s.Stats.LargestPot.PotSize)
	}

	s.HandNumber = 5
	s = noteLargestPot(s, 400, map[string]bool{"a": true}, nil)
	if s.Stats.LargestPot.PotSize != 400 || s.Stats.LargestPot.HandNumber != 5 {
		t.Errorf("A bigger pot should replace the highlight, got %+v", s.Stats.LargestPot)
	}
}
