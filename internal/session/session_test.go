package session

import (
	"context"
	"encoding/json"
	"io"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weekendpoker/gameserver/internal/engine"
)

const waitTimeout = 5 * time.Second

// chanBroadcaster forwards every settled state to the test.
type chanBroadcaster struct {
	states chan engine.State
}

func (b *chanBroadcaster) BroadcastState(_ string, state engine.State) {
	b.states <- state
}

type sessionHarness struct {
	session *Session
	clock   *quartz.Mock
	store   *MemoryStore
	states  chan engine.State
	cancel  context.CancelFunc
	done    chan struct{}
}

func startSession(t *testing.T, seed int64) *sessionHarness {
	t.Helper()
	mockClock := quartz.NewMock(t)
	broadcaster := &chanBroadcaster{states: make(chan engine.State, 256)}
	store := NewMemoryStore()

	sess := New("table-1", Config{
		Logger:      log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel}),
		Machine:     engine.NewMachine(rand.New(rand.NewSource(seed))),
		Store:       store,
		Broadcaster: broadcaster,
		Clock:       mockClock,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = sess.Run(ctx)
	}()
	t.Cleanup(cancel)

	return &sessionHarness{
		session: sess,
		clock:   mockClock,
		store:   store,
		states:  broadcaster.states,
		cancel:  cancel,
		done:    done,
	}
}

// waitFor drains broadcasts until one satisfies the predicate.
func (h *sessionHarness) waitFor(t *testing.T, what string, pred func(engine.State) bool) engine.State {
	t.Helper()
	deadline := time.After(waitTimeout)
	for {
		select {
		case state := <-h.states:
			if pred(state) {
				return state
			}
		case <-deadline:
			t.Fatalf("Timed out waiting for %s", what)
			return engine.State{}
		}
	}
}

func (h *sessionHarness) waitForPhase(t *testing.T, phase engine.PhaseID) engine.State {
	t.Helper()
	return h.waitFor(t, string(phase), func(s engine.State) bool { return s.Phase == phase })
}

// startHeadsUpHand seats two ready players and waits for the deal.
func (h *sessionHarness) startHeadsUpHand(t *testing.T) engine.State {
	t.Helper()
	h.session.Join("p1", "Alice", false)
	h.session.Join("p2", "Bob", false)
	h.session.Ready("p1", true)
	h.session.Ready("p2", true)
	return h.waitForPhase(t, engine.PhasePreFlopBetting)
}

func activePlayerID(s engine.State) string {
	return s.Players[s.ActiveIndex].ID
}

func TestSessionStartsHandWhenPlayersReady(t *testing.T) {
	h := startSession(t, 1)

	state := h.startHeadsUpHand(t)

	require.Equal(t, 1, state.HandNumber)
	require.Len(t, state.Players, 2)
	assert.Equal(t, state.BlindLevel.BigBlind, state.CurrentBet)
	assert.NotEqual(t, engine.NoSeat, state.ActiveIndex)

	// The private cards live in the store, not in the broadcast state.
	_, cards, ok := h.store.Get("table-1")
	require.True(t, ok)
	assert.Len(t, cards.HoleCards["p1"], 2)
	assert.Len(t, cards.HoleCards["p2"], 2)
}

func TestBroadcastStateCarriesNoHoleCards(t *testing.T) {
	h := startSession(t, 1)

	state := h.startHeadsUpHand(t)

	payload, err := json.Marshal(state)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(payload), "holeCards"),
		"pre-showdown broadcasts must not mention hole cards")
}

func TestOutOfTurnActionIsANoOp(t *testing.T) {
	h := startSession(t, 1)
	state := h.startHeadsUpHand(t)

	waiting := state.Players[(state.ActiveIndex+1)%len(state.Players)].ID
	h.session.PlayerAction(waiting, engine.ActionFold, 0)

	// The rejected event still settles and broadcasts an unchanged state.
	next := h.waitForPhase(t, engine.PhasePreFlopBetting)
	assert.Equal(t, state.ActiveIndex, next.ActiveIndex)
	for _, p := range next.Players {
		assert.NotEqual(t, engine.StatusFolded, p.Status)
	}
}

func TestPlayerActionsDriveTheHand(t *testing.T) {
	h := startSession(t, 1)
	state := h.startHeadsUpHand(t)

	// Button calls, big blind checks the option: on to the flop.
	button := state.ActiveIndex
	h.session.PlayerAction(activePlayerID(state), engine.ActionCall, 0)
	state = h.waitFor(t, "big blind option", func(s engine.State) bool {
		return s.Phase == engine.PhasePreFlopBetting && s.ActiveIndex != button
	})
	h.session.PlayerAction(activePlayerID(state), engine.ActionCheck, 0)

	state = h.waitForPhase(t, engine.PhaseFlopBetting)
	assert.Len(t, state.CommunityCards, 3)
	assert.Equal(t, 20, state.Pot)
}

func TestActionClockAutoFoldsWhenCheckIsIllegal(t *testing.T) {
	h := startSession(t, 1)
	state := h.startHeadsUpHand(t)

	// Heads-up the button acts first facing the big blind, so the
	// expired clock folds them and the hand ends uncontested.
	slow := activePlayerID(state)
	ctx, cancel := context.WithTimeout(context.Background(), waitTimeout)
	defer cancel()
	h.clock.Advance(DefaultActionTimeout).MustWait(ctx)

	state = h.waitForPhase(t, engine.PhaseHandComplete)
	idx := state.PlayerByID(slow)
	assert.Equal(t, engine.StatusFolded, state.Players[idx].Status)
	assert.Empty(t, state.Showdown)
}

func TestActionClockIgnoredAfterPlayerActs(t *testing.T) {
	h := startSession(t, 1)
	state := h.startHeadsUpHand(t)

	h.session.PlayerAction(activePlayerID(state), engine.ActionCall, 0)
	state = h.waitFor(t, "action applied", func(s engine.State) bool {
		return s.ActiveIndex != state.ActiveIndex
	})

	// The original clock was cancelled; advancing fires only the fresh
	// one for the next player, who can check.
	ctx, cancel := context.WithTimeout(context.Background(), waitTimeout)
	defer cancel()
	h.clock.Advance(DefaultActionTimeout).MustWait(ctx)

	state = h.waitForPhase(t, engine.PhaseFlopBetting)
	for _, p := range state.Players {
		assert.NotEqual(t, engine.StatusFolded, p.Status)
	}
}

func TestInterHandDelayStartsNextHand(t *testing.T) {
	h := startSession(t, 1)
	state := h.startHeadsUpHand(t)

	h.session.PlayerAction(activePlayerID(state), engine.ActionFold, 0)
	h.waitForPhase(t, engine.PhaseHandComplete)

	ctx, cancel := context.WithTimeout(context.Background(), waitTimeout)
	defer cancel()
	h.clock.Advance(DefaultInterHandDelay).MustWait(ctx)

	state = h.waitFor(t, "next hand", func(s engine.State) bool {
		return s.Phase == engine.PhasePreFlopBetting && s.HandNumber == 2
	})
	assert.Equal(t, 2, state.HandNumber)
}

func TestVoiceCommandsRunTheTable(t *testing.T) {
	h := startSession(t, 1)
	h.session.Join("p1", "Alice", false)
	h.session.Join("p2", "Bob", false)
	h.session.VoiceCommand("p1", "I'm ready")
	h.session.VoiceCommand("p2", "ready")

	state := h.waitForPhase(t, engine.PhasePreFlopBetting)

	// The button raises to forty by voice, the big blind folds by voice.
	raiser := activePlayerID(state)
	h.session.VoiceCommand(raiser, "raise to 40")
	state = h.waitFor(t, "raise applied", func(s engine.State) bool {
		return s.CurrentBet == 40
	})

	h.session.VoiceCommand(activePlayerID(state), "fold")
	state = h.waitForPhase(t, engine.PhaseHandComplete)

	idx := state.PlayerByID(raiser)
	assert.Equal(t, engine.StartingStack+10, state.Players[idx].Stack,
		"raiser collects the folded big blind")
}

func TestVoiceUnknownTranscriptIsIgnored(t *testing.T) {
	h := startSession(t, 1)
	state := h.startHeadsUpHand(t)

	h.session.VoiceCommand(activePlayerID(state), "what a rollercoaster of a hand")

	next := h.waitForPhase(t, engine.PhasePreFlopBetting)
	assert.Equal(t, state.ActiveIndex, next.ActiveIndex)
	assert.Equal(t, state.CurrentBet, next.CurrentBet)
}

func TestJoinRejectedWhenTableFull(t *testing.T) {
	h := startSession(t, 1)

	for _, id := range []string{"p1", "p2", "p3", "p4", "p5"} {
		h.session.Join(id, "", false)
	}

	state := h.waitFor(t, "four seated players", func(s engine.State) bool {
		return len(s.Players) == engine.MaxPlayers
	})
	assert.Equal(t, engine.NoSeat, state.PlayerByID("p5"))
	assert.Equal(t, "Player 3", state.Players[2].Name)
}

func TestLeaveInLobbyUnseatsPlayer(t *testing.T) {
	h := startSession(t, 1)
	h.session.Join("p1", "Alice", false)
	h.session.Join("p2", "Bob", false)
	h.waitFor(t, "both seated", func(s engine.State) bool { return len(s.Players) == 2 })

	h.session.Leave("p1")

	state := h.waitFor(t, "player removed", func(s engine.State) bool { return len(s.Players) == 1 })
	assert.Equal(t, "p2", state.Players[0].ID)
}

func TestLeaveMidHandMarksDisconnected(t *testing.T) {
	h := startSession(t, 1)
	h.startHeadsUpHand(t)

	h.session.Leave("p2")

	state := h.waitFor(t, "disconnect", func(s engine.State) bool {
		idx := s.PlayerByID("p2")
		return idx != engine.NoSeat && !s.Players[idx].IsConnected
	})
	assert.Len(t, state.Players, 2, "a mid-hand leaver keeps the seat")
}

func TestRejoinReconnects(t *testing.T) {
	h := startSession(t, 1)
	h.startHeadsUpHand(t)
	h.session.Leave("p2")
	h.waitFor(t, "disconnect", func(s engine.State) bool {
		idx := s.PlayerByID("p2")
		return idx != engine.NoSeat && !s.Players[idx].IsConnected
	})

	h.session.Join("p2", "Bob", false)

	state := h.waitFor(t, "reconnect", func(s engine.State) bool {
		idx := s.PlayerByID("p2")
		return idx != engine.NoSeat && s.Players[idx].IsConnected
	})
	assert.Len(t, state.Players, 2)
}

func TestSetBlindLevel(t *testing.T) {
	h := startSession(t, 1)
	h.session.Join("p1", "Alice", false)

	h.session.SetBlindLevel(3)

	state := h.waitFor(t, "blind level", func(s engine.State) bool {
		return s.BlindLevel.Level == 3
	})
	assert.Equal(t, 25, state.BlindLevel.SmallBlind)
	assert.Equal(t, 50, state.BlindLevel.BigBlind)
}

func TestStoreClearedOnShutdown(t *testing.T) {
	h := startSession(t, 1)
	h.session.Join("p1", "Alice", false)
	h.waitFor(t, "seated", func(s engine.State) bool { return len(s.Players) == 1 })

	h.cancel()
	select {
	case <-h.done:
	case <-time.After(waitTimeout):
		t.Fatal("Session did not shut down")
	}

	_, _, ok := h.store.Get("table-1")
	assert.False(t, ok, "store entry should be cleared on shutdown")
}
