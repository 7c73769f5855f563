// Package voice turns already-transcribed table talk into structured
// commands. It is a thin pattern matcher: speech acquisition and
// recognition happen upstream, and anything it cannot classify comes
// back as IntentUnknown for the caller to ignore.
package voice

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Intent is the classified meaning of a transcript.
type Intent string

const (
	IntentFold     Intent = "fold"
	IntentCheck    Intent = "check"
	IntentCall     Intent = "call"
	IntentBet      Intent = "bet"
	IntentRaise    Intent = "raise"
	IntentAllIn    Intent = "all_in"
	IntentReady    Intent = "ready"
	IntentStart    Intent = "start"
	IntentSettings Intent = "settings"
	IntentUnknown  Intent = "unknown"
)

// IsAction reports whether the intent maps onto the betting action path.
func (i Intent) IsAction() bool {
	switch i {
	case IntentFold, IntentCheck, IntentCall, IntentBet, IntentRaise, IntentAllIn:
		return true
	default:
		return false
	}
}

// Relative amounts for "pot" and "half pot", resolved by the caller
// against the live pot size.
const (
	AmountHalfPot = -1
	AmountPot     = -2
)

// Command is a parsed transcript.
type Command struct {
	Intent        Intent
	Amount        int // 0 when absent; AmountHalfPot/AmountPot when relative
	HasAmount     bool
	Confidence    float64
	RawTranscript string
}

// Patterns are tried in priority order: "raise it all in" is an all-in,
// not a raise.
var intentPatterns = []struct {
	intent  Intent
	pattern *regexp.Regexp
}{
	{IntentAllIn, regexp.MustCompile(`\b(all\s*in|shove|push)\b`)},
	{IntentFold, regexp.MustCompile(`\b(fold|muck)\b`)},
	{IntentCheck, regexp.MustCompile(`\bcheck\b`)},
	{IntentRaise, regexp.MustCompile(`\braise\b`)},
	{IntentBet, regexp.MustCompile(`\bbet\b`)},
	{IntentCall, regexp.MustCompile(`\bcall\b`)},
	{IntentReady, regexp.MustCompile(`\bready\b`)},
	{IntentStart, regexp.MustCompile(`\b(start|deal)\b`)},
	{IntentSettings, regexp.MustCompile(`\b(settings|options)\b`)},
}

var wordAmounts = map[string]int{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4,
	"five": 5, "six": 6, "seven": 7, "eight": 8, "nine": 9,
	"ten": 10, "fifteen": 15, "twenty": 20, "twenty five": 25,
	"thirty": 30, "forty": 40, "fifty": 50, "sixty": 60,
	"seventy": 70, "eighty": 80, "ninety": 90,
	"hundred": 100, "one hundred": 100, "two hundred": 200,
	"three hundred": 300, "four hundred": 400, "five hundred": 500,
	"thousand": 1000, "one thousand": 1000, "two thousand": 2000,
}

// wordPhrases holds the amount phrases longest-first so "two hundred"
// wins over "two".
var wordPhrases = func() []string {
	phrases := make([]string, 0, len(wordAmounts))
	for phrase := range wordAmounts {
		phrases = append(phrases, phrase)
	}
	sort.Slice(phrases, func(i, j int) bool {
		if len(phrases[i]) != len(phrases[j]) {
			return len(phrases[i]) > len(phrases[j])
		}
		return phrases[i] < phrases[j]
	})
	return phrases
}()

var (
	halfPotRe = regexp.MustCompile(`\bhalf\s+pot\b`)
	potRe     = regexp.MustCompile(`\bpot\b`)
	numberRe  = regexp.MustCompile(`\b(\d+)\b`)
)

// Parse classifies a raw transcript. Amounts are extracted only for bet
// and raise intents.
func Parse(transcript string) Command {
	normalised := strings.ToLower(strings.TrimSpace(transcript))

	for _, candidate := range intentPatterns {
		if !candidate.pattern.MatchString(normalised) {
			continue
		}
		cmd := Command{
			Intent:        candidate.intent,
			Confidence:    1.0,
			RawTranscript: transcript,
		}
		if candidate.intent == IntentBet || candidate.intent == IntentRaise {
			if amount, ok := parseAmount(normalised); ok {
				cmd.Amount = amount
				cmd.HasAmount = true
			}
		}
		return cmd
	}

	return Command{Intent: IntentUnknown, RawTranscript: transcript}
}

// parseAmount finds a chip amount in the transcript: relative phrases
// first ("half pot" before bare "pot"), then digits, then number words.
func parseAmount(text string) (int, bool) {
	if halfPotRe.MatchString(text) {
		return AmountHalfPot, true
	}
	if potRe.MatchString(text) {
		return AmountPot, true
	}
	if match := numberRe.FindStringSubmatch(text); match != nil {
		n, err := strconv.Atoi(match[1])
		if err == nil {
			return n, true
		}
	}
	for _, phrase := range wordPhrases {
		if strings.Contains(text, phrase) {
			return wordAmounts[phrase], true
		}
	}
	return 0, false
}
