package game

import (
	"sync"
	"time"
)

// State is a round lifecycle phase.
type State string

const (
	StateIdle          State = "idle"
	StateMemorizing    State = "memorizing"
	StateAwaitingInput State = "awaiting_input"
	StateScored        State = "scored"
)

// validTransitions defines the legal phase transitions. Scored is
// transient: Submit enters it and falls through to Idle in the same call.
var validTransitions = map[State]map[State]bool{
	StateIdle:          {StateMemorizing: true},
	StateMemorizing:    {StateAwaitingInput: true},
	StateAwaitingInput: {StateScored: true},
	StateScored:        {StateIdle: true},
}

// IsValidTransition reports whether a phase transition is legal.
func IsValidTransition(from, to State) bool {
	return validTransitions[from][to]
}

// Machine owns a single round's lifecycle:
// Idle -> Memorizing -> AwaitingInput -> Scored -> Idle. At most one round
// is active at a time; starting while a round runs is rejected. The
// Memorizing -> AwaitingInput transition fires from a single scheduled
// callback which a newer round or Close supersedes, so a stale reveal can
// never fire into a later round.
type Machine struct {
	mu        sync.Mutex
	state     State
	tier      Tier
	target    string
	startedAt time.Time
	roundSeq  uint64
	reveal    *time.Timer
	sink      EventSink

	// afterFunc is swapped out by tests to drive the reveal manually.
	afterFunc func(d time.Duration, f func()) *time.Timer
}

// NewMachine creates an idle machine at the given tier. sink may be nil.
func NewMachine(tier Tier, sink EventSink) *Machine {
	return &Machine{
		state:     StateIdle,
		tier:      tier,
		sink:      sink,
		afterFunc: time.AfterFunc,
	}
}

// State returns the current lifecycle phase.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Tier returns the currently selected difficulty.
func (m *Machine) Tier() Tier {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tier
}

// SetTier changes the difficulty. Only allowed while idle; a running round
// keeps its tier and the caller gets ErrRoundInProgress to surface as a
// warning.
func (m *Machine) SetTier(tier Tier) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateIdle {
		m.emitRejected(ErrRoundInProgress)
		return ErrRoundInProgress
	}
	m.tier = tier
	return nil
}

// Start begins a new round at the given tier: generates the target,
// enters Memorizing and schedules the reveal callback. The returned event
// carries everything the presentation layer needs to show the digits.
func (m *Machine) Start(tier Tier) (MemorizeStarted, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateIdle {
		m.emitRejected(ErrRoundAlreadyActive)
		return MemorizeStarted{}, ErrRoundAlreadyActive
	}

	target, err := Generate(tier.Length())
	if err != nil {
		return MemorizeStarted{}, err
	}

	m.tier = tier
	m.target = target
	m.startedAt = time.Now()
	m.state = StateMemorizing
	m.roundSeq++

	// Supersede any pending reveal from a previous round.
	if m.reveal != nil {
		m.reveal.Stop()
	}
	seq := m.roundSeq
	m.reveal = m.afterFunc(time.Duration(tier.MemorizeSeconds())*time.Second, func() {
		m.endMemorize(seq)
	})

	ev := MemorizeStarted{Target: target, Seconds: tier.MemorizeSeconds(), Digits: tier.Length()}
	if m.sink != nil {
		m.sink.MemorizeStarted(ev)
	}
	return ev, nil
}

// endMemorize flips Memorizing into AwaitingInput. The sequence number
// guards against a stale timer firing after its round was superseded.
func (m *Machine) endMemorize(seq uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if seq != m.roundSeq || m.state != StateMemorizing {
		return
	}
	m.state = StateAwaitingInput
	if m.sink != nil {
		m.sink.RevealEnded()
	}
}

// RoundResult pairs a scored outcome with the round's target and guess,
// which the outcome itself does not carry. The audit trail wants them.
type RoundResult struct {
	Outcome Outcome
	Target  string
	Guess   string
}

// Submit scores the guess against the active round's target. The guess
// must be exactly the tier's digit count; a malformed guess leaves the
// round in AwaitingInput so the player can retry.
func (m *Machine) Submit(guess string) (RoundResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case StateIdle:
		m.emitRejected(ErrNoActiveRound)
		return RoundResult{}, ErrNoActiveRound
	case StateMemorizing:
		m.emitRejected(ErrNotYetRevealed)
		return RoundResult{}, ErrNotYetRevealed
	}

	if !isDigitString(guess) || len(guess) != m.tier.Length() {
		if m.sink != nil {
			m.sink.InvalidGuess(m.tier.Length())
		}
		return RoundResult{}, ErrInvalidGuessFormat
	}

	res := RoundResult{
		Outcome: Score(m.target, guess, m.tier),
		Target:  m.target,
		Guess:   guess,
	}
	m.state = StateScored
	if m.sink != nil {
		m.sink.RoundScored(res.Outcome)
	}

	m.state = StateIdle
	m.target = ""
	return res, nil
}

// Close cancels any pending reveal and returns the machine to idle. Used
// on session teardown.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.reveal != nil {
		m.reveal.Stop()
		m.reveal = nil
	}
	m.roundSeq++
	m.state = StateIdle
	m.target = ""
}

// emitRejected must be called with the lock held.
func (m *Machine) emitRejected(reason error) {
	if m.sink != nil {
		m.sink.RoundRejected(reason)
	}
}

func isDigitString(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
