package engine

import "errors"

// These errors mark precondition violations that must never be papered
// over: continuing past any of them would corrupt chip accounting.
var (
	// ErrWrongCardCount is returned when the evaluator is given anything
	// other than exactly seven cards.
	ErrWrongCardCount = errors.New("engine: evaluator requires exactly 7 cards")

	// ErrNoHandCards is returned when a dealing phase runs without a
	// stored deck and hole card map for the hand.
	ErrNoHandCards = errors.New("engine: no server hand cards for this hand")

	// ErrDeckExhausted is returned when a deal would need more cards than
	// remain in the stored deck.
	ErrDeckExhausted = errors.New("engine: deck exhausted")

	// ErrUnknownPhase is returned when the state names a phase the
	// machine has no definition for.
	ErrUnknownPhase = errors.New("engine: unknown phase")
)
