package deck

import "math/rand"

// Size is the number of cards in a standard deck.
const Size = 52

// New creates a fresh, unshuffled 52-card deck. Returns a new slice on
// every call; callers own the result.
func New() []Card {
	cards := make([]Card, 0, Size)
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, NewCard(rank, suit))
		}
	}
	return cards
}

// Shuffle returns a shuffled copy of cards using a Fisher-Yates shuffle
// from the last index to the first. The input is never mutated, so a
// stored deck can be reshuffled without aliasing surprises. Pass a seeded
// rng for deterministic ordering in tests.
func Shuffle(cards []Card, rng *rand.Rand) []Card {
	shuffled := make([]Card, len(cards))
	copy(shuffled, cards)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}
