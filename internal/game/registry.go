package game

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Registry keeps at most one live Session per account for the whole
// server. Handlers attach a session at login and detach it at logout; a
// janitor closes sessions that sat idle past their deadline so abandoned
// reveal timers get cancelled.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	store    StatsStore
	log      *zap.Logger
}

func NewRegistry(store StatsStore, log *zap.Logger) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		store:    store,
		log:      log,
	}
}

// Attach returns the account's live session, building and hydrating a new
// one when none exists. The session is published only after Hydrate
// succeeds, so a concurrent Get never hands out one whose stats were not
// loaded yet. Two racing attaches may both hydrate; whoever publishes
// second discards its session and shares the winner's. The store's unique
// account index keeps them on one durable record either way.
func (r *Registry) Attach(ctx context.Context, identity Identity) (*Session, error) {
	r.mu.Lock()
	if sess, ok := r.sessions[identity.AccountID]; ok {
		r.mu.Unlock()
		return sess, nil
	}
	r.mu.Unlock()

	sess := NewSession(identity, r.store, nil, r.log)
	if _, err := sess.Hydrate(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	if existing, ok := r.sessions[identity.AccountID]; ok {
		r.mu.Unlock()
		sess.Close()
		return existing, nil
	}
	r.sessions[identity.AccountID] = sess
	r.mu.Unlock()
	return sess, nil
}

// Get returns the live session for an account, if any.
func (r *Registry) Get(accountID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[accountID]
	return sess, ok
}

// Detach closes and removes the account's session. No-op when absent.
func (r *Registry) Detach(accountID string) {
	r.mu.Lock()
	sess, ok := r.sessions[accountID]
	delete(r.sessions, accountID)
	r.mu.Unlock()
	if ok {
		sess.Close()
	}
}

// StartJanitor runs the idle reaper in a goroutine. Sessions untouched for
// longer than maxIdle are closed and dropped; the player's next request
// simply attaches a fresh one.
func (r *Registry) StartJanitor(interval, maxIdle time.Duration) {
	r.log.Info("Starting session janitor",
		zap.Duration("interval", interval),
		zap.Duration("maxIdle", maxIdle),
	)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			<-ticker.C
			r.reapIdle(maxIdle)
		}
	}()
}

func (r *Registry) reapIdle(maxIdle time.Duration) {
	cutoff := time.Now().Add(-maxIdle)

	r.mu.Lock()
	var expired []*Session
	for id, sess := range r.sessions {
		if sess.LastSeen().Before(cutoff) {
			expired = append(expired, sess)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, sess := range expired {
		sess.Close()
		r.log.Debug("Reaped idle session", zap.String("accountId", sess.Identity().AccountID))
	}
}
