package deck

import (
	"encoding/json"
	"testing"
)

func TestCardMarshalsToNamedRankAndSuit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		card Card
		want string
	}{
		{NewCard(Ace, Spades), `{"rank":"A","suit":"spades"}`},
		{NewCard(Ten, Hearts), `{"rank":"10","suit":"hearts"}`},
		{NewCard(Two, Clubs), `{"rank":"2","suit":"clubs"}`},
		{NewCard(Queen, Diamonds), `{"rank":"Q","suit":"diamonds"}`},
	}
	for _, tt := range tests {
		got, err := json.Marshal(tt.card)
		if err != nil {
			t.Fatalf("Marshal(%s): %v", tt.card, err)
		}
		if string(got) != tt.want {
			t.Errorf("Marshal(%s) = %s, want %s", tt.card, got, tt.want)
		}
	}
}

func TestCardUnmarshalRoundTrip(t *testing.T) {
	t.Parallel()

	for _, original := range New() {
		data, err := json.Marshal(original)
		if err != nil {
			t.Fatalf("Marshal(%s): %v", original, err)
		}
		var decoded Card
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("Unmarshal(%s): %v", data, err)
		}
		if decoded != original {
			t.Errorf("Round trip changed %s into %s", original, decoded)
		}
	}
}

func TestCardUnmarshalAcceptsShortTen(t *testing.T) {
	t.Parallel()

	var c Card
	if err := json.Unmarshal([]byte(`{"rank":"T","suit":"spades"}`), &c); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if c != NewCard(Ten, Spades) {
		t.Errorf("Got %s, want Ts", c)
	}
}

func TestCardUnmarshalRejectsUnknownValues(t *testing.T) {
	t.Parallel()

	var c Card
	if err := json.Unmarshal([]byte(`{"rank":"1","suit":"spades"}`), &c); err == nil {
		t.Error("Expected error for unknown rank")
	}
	if err := json.Unmarshal([]byte(`{"rank":"A","suit":"stars"}`), &c); err == nil {
		t.Error("Expected error for unknown suit")
	}
}
