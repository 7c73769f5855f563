package deck

import (
	"encoding/json"
	"fmt"
)

// Cards cross the wire as {"rank":"A","suit":"spades"} so clients never
// depend on the internal numeric representation.

type cardJSON struct {
	Rank string `json:"rank"`
	Suit string `json:"suit"`
}

// MarshalJSON implements json.Marshaler.
func (c Card) MarshalJSON() ([]byte, error) {
	rank := c.Rank.String()
	if c.Rank == Ten {
		// The wire uses "10"; the single-character "T" is log shorthand.
		rank = "10"
	}
	return json.Marshal(cardJSON{Rank: rank, Suit: c.Suit.Name()})
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Card) UnmarshalJSON(data []byte) error {
	var wire cardJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	rank, ok := rankNames[wire.Rank]
	if !ok {
		return fmt.Errorf("unknown rank %q", wire.Rank)
	}
	suit, ok := suitNames[wire.Suit]
	if !ok {
		return fmt.Errorf("unknown suit %q", wire.Suit)
	}
	c.Rank = rank
	c.Suit = suit
	return nil
}

var rankNames = map[string]Rank{
	"2": Two, "3": Three, "4": Four, "5": Five, "6": Six, "7": Seven,
	"8": Eight, "9": Nine, "10": Ten, "T": Ten, "J": Jack, "Q": Queen,
	"K": King, "A": Ace,
}

var suitNames = map[string]Suit{
	"spades": Spades, "hearts": Hearts, "diamonds": Diamonds, "clubs": Clubs,
}
