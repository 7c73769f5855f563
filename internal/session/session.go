// Package session runs one actor goroutine per poker session. All
// inbound events (player actions, parsed voice intents, timer fires)
// are enqueued and drained one at a time, so every rules-engine call for
// a session executes strictly sequentially and the state needs no locks.
// Sessions are independent and run fully in parallel with each other.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/weekendpoker/gameserver/internal/engine"
	"github.com/weekendpoker/gameserver/internal/voice"
)

// Timing defaults, matching the table clients are tuned for.
const (
	DefaultActionTimeout  = 30 * time.Second
	DefaultInterHandDelay = 3 * time.Second

	eventBuffer = 64
)

// Broadcaster receives the full settled state after every transition.
// The private hand cards are never part of what it is given.
type Broadcaster interface {
	BroadcastState(sessionID string, state engine.State)
}

// Session is the single-writer owner of one table's state. Its lifetime
// is the session's lifetime: no global registry holds hole cards or
// decks, the actor does.
type Session struct {
	id          string
	logger      *log.Logger
	machine     *engine.Machine
	store       Store
	broadcaster Broadcaster
	clock       quartz.Clock

	actionTimeout  time.Duration
	interHandDelay time.Duration
	blindLevels    []engine.BlindLevel

	events chan event

	// Owned by the run loop; never touched from outside it.
	state       engine.State
	cards       engine.HandCards
	actionTimer *quartz.Timer
	delayTimer  *quartz.Timer
}

// Config bundles the session dependencies.
type Config struct {
	Logger         *log.Logger
	Machine        *engine.Machine
	Store          Store
	Broadcaster    Broadcaster
	Clock          quartz.Clock
	ActionTimeout  time.Duration
	InterHandDelay time.Duration
	BlindLevels    []engine.BlindLevel
}

// New creates a session actor. Run must be called for events to be
// processed.
func New(id string, cfg Config) *Session {
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}
	if cfg.ActionTimeout == 0 {
		cfg.ActionTimeout = DefaultActionTimeout
	}
	if cfg.InterHandDelay == 0 {
		cfg.InterHandDelay = DefaultInterHandDelay
	}
	if len(cfg.BlindLevels) == 0 {
		cfg.BlindLevels = engine.DefaultBlindLevels
	}
	state := engine.NewState(time.Now())
	state.BlindLevel = cfg.BlindLevels[0]
	state.MinRaiseIncrement = cfg.BlindLevels[0].BigBlind
	return &Session{
		id:             id,
		logger:         cfg.Logger.WithPrefix("session").With("session_id", id),
		machine:        cfg.Machine,
		store:          cfg.Store,
		broadcaster:    cfg.Broadcaster,
		clock:          cfg.Clock,
		actionTimeout:  cfg.ActionTimeout,
		interHandDelay: cfg.InterHandDelay,
		blindLevels:    cfg.BlindLevels,
		events:         make(chan event, eventBuffer),
		state:          state,
	}
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Run drains the event queue until the context is cancelled. It owns the
// state for its whole lifetime.
func (s *Session) Run(ctx context.Context) error {
	s.persist()
	s.broadcast()

	defer s.stopTimers()
	defer func() {
		if err := s.store.Clear(s.id); err != nil {
			s.logger.Error("Failed to clear session store", "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-s.events:
			s.handle(ev)
		}
	}
}

// enqueue offers an event to the actor; full queues drop the event, the
// client will retry.
func (s *Session) enqueue(ev event) {
	select {
	case s.events <- ev:
	default:
		s.logger.Warn("Event queue full, dropping event", "event", ev)
	}
}

// Public API (callable from any goroutine)

// PlayerAction submits a betting action.
func (s *Session) PlayerAction(playerID string, action engine.ActionType, amount int) {
	s.enqueue(actionEvent{PlayerID: playerID, Action: action, Amount: amount})
}

// VoiceCommand submits a raw transcript for a player.
func (s *Session) VoiceCommand(playerID, transcript string) {
	s.enqueue(voiceEvent{PlayerID: playerID, Transcript: transcript})
}

// Join seats a player or reconnects an existing one.
func (s *Session) Join(playerID, name string, isBot bool) {
	s.enqueue(joinEvent{PlayerID: playerID, Name: name, IsBot: isBot})
}

// Leave removes or disconnects a player.
func (s *Session) Leave(playerID string) {
	s.enqueue(leaveEvent{PlayerID: playerID})
}

// Ready flips a player's lobby ready flag.
func (s *Session) Ready(playerID string, ready bool) {
	s.enqueue(readyEvent{PlayerID: playerID, Ready: ready})
}

// SitOut marks a player away from the next hand.
func (s *Session) SitOut(playerID string) { s.enqueue(sitOutEvent{PlayerID: playerID}) }

// DealIn returns a sitting-out player to the action.
func (s *Session) DealIn(playerID string) { s.enqueue(dealInEvent{PlayerID: playerID}) }

// SetBlindLevel switches the blind schedule entry.
func (s *Session) SetBlindLevel(level int) { s.enqueue(blindLevelEvent{Level: level}) }

// Event handling (run loop only)

func (s *Session) handle(ev event) {
	before := s.state

	switch ev := ev.(type) {
	case actionEvent:
		s.applyAction(ev.PlayerID, ev.Action, ev.Amount)
	case voiceEvent:
		s.handleVoice(ev)
	case joinEvent:
		s.handleJoin(ev)
	case leaveEvent:
		s.handleLeave(ev)
	case readyEvent:
		s.state = engine.SetReady(s.state, ev.PlayerID, ev.Ready)
	case sitOutEvent:
		s.state = engine.SitOut(s.state, ev.PlayerID)
	case dealInEvent:
		s.state = engine.DealIn(s.state, ev.PlayerID)
	case blindLevelEvent:
		s.state = engine.SetBlindLevel(s.state, s.blindLevels, ev.Level)
	case actionTimeoutEvent:
		s.handleActionTimeout(ev)
	case advanceEvent:
		s.handleAdvance(ev)
	}

	s.settle(before)
}

// settle runs the phase machine until it rests, then persists,
// broadcasts and rearms the timers. A phase hook error is a fatal
// precondition violation for that operation: the pre-event state is kept
// so chip accounting can never be corrupted by a half-applied hand.
func (s *Session) settle(before engine.State) {
	next, err := s.machine.Advance(s.state, &s.cards)
	if err != nil {
		s.logger.Error("Phase transition failed, state unchanged", "error", err, "phase", s.state.Phase)
		s.state = before
		return
	}
	s.state = next

	s.persist()
	// Timers are armed before the broadcast so that anyone reacting to
	// the broadcast observes the action clock already running.
	s.armTimers()
	s.broadcast()
}

func (s *Session) applyAction(playerID string, action engine.ActionType, amount int) {
	next, applied := s.machine.ApplyAction(s.state, playerID, action, amount)
	if !applied {
		// Silent rejection: the caller re-requests legal actions.
		s.logger.Debug("Rejected action", "player_id", playerID, "action", action, "amount", amount)
		return
	}
	s.state = next
}

func (s *Session) handleVoice(ev voiceEvent) {
	cmd := voice.Parse(ev.Transcript)
	s.logger.Info("Voice command", "player_id", ev.PlayerID, "intent", cmd.Intent)

	switch {
	case cmd.Intent.IsAction():
		action := engine.ActionType(cmd.Intent)
		s.applyAction(ev.PlayerID, action, s.resolveAmount(ev.PlayerID, cmd))
	case cmd.Intent == voice.IntentReady, cmd.Intent == voice.IntentStart:
		s.state = engine.SetReady(s.state, ev.PlayerID, true)
	}
}

// resolveAmount turns a voice amount into a concrete total for the
// round, resolving "pot" and "half pot" against the live pot and
// clamping to the legal limits.
func (s *Session) resolveAmount(playerID string, cmd voice.Command) int {
	action := engine.ActionType(cmd.Intent)
	if action != engine.ActionBet && action != engine.ActionRaise {
		return 0
	}
	limits := engine.Limits(s.state, playerID, action)
	if !cmd.HasAmount {
		return limits.Min
	}

	amount := cmd.Amount
	switch cmd.Amount {
	case voice.AmountPot:
		amount = s.potSized(1)
	case voice.AmountHalfPot:
		amount = s.potSized(2)
	}
	if amount < limits.Min {
		amount = limits.Min
	}
	if amount > limits.Max {
		amount = limits.Max
	}
	return amount
}

// potSized returns the pot total (swept plus live bets) divided by div.
func (s *Session) potSized(div int) int {
	total := s.state.Pot
	for _, p := range s.state.Players {
		total += p.Bet
	}
	return total / div
}

func (s *Session) handleJoin(ev joinEvent) {
	if idx := s.state.PlayerByID(ev.PlayerID); idx != engine.NoSeat {
		s.state = engine.SetConnected(s.state, ev.PlayerID, true)
		return
	}
	if len(s.state.Players) >= engine.MaxPlayers {
		s.logger.Warn("Table full, join rejected", "player_id", ev.PlayerID)
		return
	}

	seat := freeSeat(s.state.Players)
	name := ev.Name
	if name == "" {
		name = fmt.Sprintf("Player %d", seat+1)
	}
	// A mid-hand joiner sits folded until the next deal; in the lobby
	// they are live immediately.
	status := engine.StatusActive
	if s.state.Phase != engine.PhaseLobby {
		status = engine.StatusFolded
	}
	s.state = engine.AddPlayer(s.state, engine.Player{
		ID:          ev.PlayerID,
		Name:        name,
		SeatIndex:   seat,
		Stack:       engine.StartingStack,
		Status:      status,
		IsBot:       ev.IsBot,
		IsConnected: true,
	})
}

func (s *Session) handleLeave(ev leaveEvent) {
	if s.state.PlayerByID(ev.PlayerID) == engine.NoSeat {
		return
	}
	if s.state.Phase == engine.PhaseLobby {
		s.state = engine.RemovePlayer(s.state, ev.PlayerID)
		return
	}
	s.state = engine.SetConnected(s.state, ev.PlayerID, false)
}

// handleActionTimeout auto-acts for a player whose clock expired: check
// when legal, fold otherwise. Stale timers are ignored.
func (s *Session) handleActionTimeout(ev actionTimeoutEvent) {
	if ev.HandNumber != s.state.HandNumber {
		return
	}
	idx := s.state.PlayerByID(ev.PlayerID)
	if idx == engine.NoSeat || idx != s.state.ActiveIndex || !s.state.Phase.IsBetting() {
		return
	}

	action := engine.ActionFold
	for _, a := range engine.LegalActions(s.state, ev.PlayerID) {
		if a == engine.ActionCheck {
			action = engine.ActionCheck
			break
		}
	}
	s.logger.Info("Action clock expired", "player_id", ev.PlayerID, "auto_action", action)
	s.applyAction(ev.PlayerID, action, 0)
}

func (s *Session) handleAdvance(ev advanceEvent) {
	if ev.HandNumber != s.state.HandNumber || s.state.Phase != engine.PhaseHandComplete {
		return
	}
	s.state = engine.RequestAdvance(s.state)
}

// Timers

// armTimers cancels and reschedules the timers the settled state needs:
// an action clock while a player is to act, the inter-hand delay once a
// hand completes. Cancelling first means a player acting before the
// clock fires simply removes the pending timer.
func (s *Session) armTimers() {
	s.stopTimers()

	switch {
	case s.state.Phase.IsBetting() && s.state.ActiveIndex != engine.NoSeat:
		playerID := s.state.Players[s.state.ActiveIndex].ID
		handNumber := s.state.HandNumber
		s.actionTimer = s.clock.AfterFunc(s.actionTimeout, func() {
			s.enqueue(actionTimeoutEvent{PlayerID: playerID, HandNumber: handNumber})
		})
	case s.state.Phase == engine.PhaseHandComplete:
		handNumber := s.state.HandNumber
		s.delayTimer = s.clock.AfterFunc(s.interHandDelay, func() {
			s.enqueue(advanceEvent{HandNumber: handNumber})
		})
	}
}

func (s *Session) stopTimers() {
	if s.actionTimer != nil {
		s.actionTimer.Stop()
		s.actionTimer = nil
	}
	if s.delayTimer != nil {
		s.delayTimer.Stop()
		s.delayTimer = nil
	}
}

// Persistence and broadcast

func (s *Session) persist() {
	if err := s.store.Set(s.id, s.state, s.cards.Snapshot()); err != nil {
		s.logger.Error("Failed to persist session state", "error", err)
	}
}

func (s *Session) broadcast() {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.BroadcastState(s.id, s.state)
}

func freeSeat(players []engine.Player) int {
	taken := make(map[int]bool, len(players))
	for _, p := range players {
		taken[p.SeatIndex] = true
	}
	seat := 0
	for taken[seat] {
		seat++
	}
	return seat
}
