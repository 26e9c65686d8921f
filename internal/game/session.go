package game

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Session owns one signed-in account's play state: a single round machine
// and the cached cumulative stats. It is built at login and torn down at
// logout; there are no package-level game globals. Methods are safe for
// concurrent use, and rounds persist in the order they complete.
type Session struct {
	mu       sync.Mutex
	identity Identity
	machine  *Machine
	rec      *Reconciler
	log      *zap.Logger
	lastSeen time.Time
}

// NewSession wires a session for the given account. sink may be nil, in
// which case events only reach the log.
func NewSession(identity Identity, store StatsStore, sink EventSink, log *zap.Logger) *Session {
	if sink == nil {
		sink = LogSink{Log: log}
	}
	return &Session{
		identity: identity,
		machine:  NewMachine(TierEasy, sink),
		rec:      NewReconciler(store, log, identity),
		log:      log,
		lastSeen: time.Now(),
	}
}

// Identity returns the account this session plays as.
func (s *Session) Identity() Identity {
	return s.identity
}

// Hydrate loads the durable stats before the first round. It must succeed
// once before Start is useful; the remote copy is not written again until
// a round completes.
func (s *Session) Hydrate(ctx context.Context) (CumulativeStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	return s.rec.Hydrate(ctx)
}

// Start begins a round at the given tier.
func (s *Session) Start(tier Tier) (MemorizeStarted, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	return s.machine.Start(tier)
}

// SetTier changes the difficulty between rounds.
func (s *Session) SetTier(tier Tier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	return s.machine.SetTier(tier)
}

// Submit scores the guess, folds the outcome into the cumulative stats and
// persists the snapshot. A persistence failure is surfaced but does not
// void the round: the outcome and the advanced local stats are returned
// alongside ErrPersistenceFailed so the player keeps playing.
func (s *Session) Submit(ctx context.Context, guess string) (RoundResult, CumulativeStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()

	res, err := s.machine.Submit(guess)
	if err != nil {
		return RoundResult{}, s.rec.Stats(), err
	}

	stats, err := s.rec.Apply(ctx, res.Outcome)
	return res, stats, err
}

// Stats returns the cached cumulative stats.
func (s *Session) Stats() CumulativeStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.Stats()
}

// StatsRecordID returns the durable stats record's id, valid once the
// session is hydrated. The audit trail hangs off it.
func (s *Session) StatsRecordID() uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.RecordID()
}

// LastSeen reports the last time the session was used, for idle reaping.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Close cancels any pending reveal timer. The durable record keeps
// whatever was last written; nothing is flushed here.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.machine.Close()
}
