package voice

import "testing"

func TestParseBasicIntents(t *testing.T) {
	tests := []struct {
		transcript string
		want       Intent
	}{
		{"fold", IntentFold},
		{"I fold", IntentFold},
		{"muck it", IntentFold},
		{"check", IntentCheck},
		{"check it down", IntentCheck},
		{"call", IntentCall},
		{"I'll call that", IntentCall},
		{"all in", IntentAllIn},
		{"allin", IntentAllIn},
		{"shove", IntentAllIn},
		{"push it", IntentAllIn},
		{"ready", IntentReady},
		{"I'm ready", IntentReady},
		{"start the game", IntentStart},
		{"deal me in", IntentStart},
		{"settings", IntentSettings},
		{"open the options", IntentSettings},
		{"nice hand", IntentUnknown},
		{"", IntentUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.transcript, func(t *testing.T) {
			cmd := Parse(tt.transcript)
			if cmd.Intent != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.transcript, cmd.Intent, tt.want)
			}
		})
	}
}

func TestParseIsCaseInsensitive(t *testing.T) {
	if cmd := Parse("FOLD"); cmd.Intent != IntentFold {
		t.Errorf("Expected fold, got %s", cmd.Intent)
	}
	if cmd := Parse("  Raise 50  "); cmd.Intent != IntentRaise || cmd.Amount != 50 {
		t.Errorf("Expected raise 50, got %s %d", cmd.Intent, cmd.Amount)
	}
}

func TestParseAllInOutranksRaise(t *testing.T) {
	cmd := Parse("raise it all in")
	if cmd.Intent != IntentAllIn {
		t.Errorf("Expected all_in to win over raise, got %s", cmd.Intent)
	}
}

func TestParseBetAmounts(t *testing.T) {
	tests := []struct {
		transcript string
		intent     Intent
		amount     int
		hasAmount  bool
	}{
		{"bet 50", IntentBet, 50, true},
		{"bet fifty", IntentBet, 50, true},
		{"raise to 200", IntentRaise, 200, true},
		{"raise two hundred", IntentRaise, 200, true},
		{"bet one thousand", IntentBet, 1000, true},
		{"bet twenty five", IntentBet, 25, true},
		{"bet the pot", IntentBet, AmountPot, true},
		{"bet half pot", IntentBet, AmountHalfPot, true},
		{"raise half pot", IntentRaise, AmountHalfPot, true},
		{"bet", IntentBet, 0, false},
		{"raise", IntentRaise, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.transcript, func(t *testing.T) {
			cmd := Parse(tt.transcript)
			if cmd.Intent != tt.intent {
				t.Fatalf("Parse(%q) intent = %s, want %s", tt.transcript, cmd.Intent, tt.intent)
			}
			if cmd.HasAmount != tt.hasAmount || cmd.Amount != tt.amount {
				t.Errorf("Parse(%q) amount = %d (has %v), want %d (has %v)",
					tt.transcript, cmd.Amount, cmd.HasAmount, tt.amount, tt.hasAmount)
			}
		})
	}
}

func TestParseAmountOnlyForBetAndRaise(t *testing.T) {
	// "call 50" carries no amount: a call always matches the table price.
	cmd := Parse("call 50")
	if cmd.Intent != IntentCall {
		t.Fatalf("Expected call, got %s", cmd.Intent)
	}
	if cmd.HasAmount {
		t.Errorf("Call must not carry an amount")
	}
}

func TestParseKeepsRawTranscript(t *testing.T) {
	raw := "  BET Fifty  "
	cmd := Parse(raw)
	if cmd.RawTranscript != raw {
		t.Errorf("Expected the raw transcript preserved, got %q", cmd.RawTranscript)
	}
	if cmd.Confidence != 1.0 {
		t.Errorf("Matched intents report full confidence, got %v", cmd.Confidence)
	}
}

func TestIntentIsAction(t *testing.T) {
	actions := []Intent{IntentFold, IntentCheck, IntentCall, IntentBet, IntentRaise, IntentAllIn}
	for _, i := range actions {
		if !i.IsAction() {
			t.Errorf("%s should be an action intent", i)
		}
	}
	for _, i := range []Intent{IntentReady, IntentStart, IntentSettings, IntentUnknown} {
		if i.IsAction() {
			t.Errorf("%s should not be an action intent", i)
		}
	}
}
