package game

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"
)

// Identity is the account the session plays as, supplied by the auth layer.
// AccountID is opaque to this package.
type Identity struct {
	AccountID   string `json:"accountId"`
	DisplayName string `json:"displayName"`
}

// CumulativeStats is the durable per-account aggregate. Accuracy is
// derived: round(100 * correct / total), 0 when no games were played.
type CumulativeStats struct {
	TotalAccumulatedScore int `json:"totalAccumulatedScore"`
	TotalGames            int `json:"totalGames"`
	CorrectGames          int `json:"correctGames"`
	Accuracy              int `json:"accuracy"`
}

// LeaderboardEntry is one row of the top-N ranking.
type LeaderboardEntry struct {
	DisplayName           string `json:"displayName"`
	TotalAccumulatedScore int    `json:"totalAccumulatedScore"`
}

// StatsStore is the remote durable store of cumulative stats. The gorm
// repository implements it in production; tests use an in-memory fake.
type StatsStore interface {
	// FindByAccount returns the stats record for an account, or found=false
	// when none exists yet.
	FindByAccount(ctx context.Context, accountID string) (recordID uint, stats CumulativeStats, found bool, err error)
	// Create persists a fresh record and returns its id. It must fail on a
	// second create for the same account so Hydrate stays idempotent.
	Create(ctx context.Context, identity Identity, stats CumulativeStats) (recordID uint, err error)
	// Update replaces the record's stats wholesale (last writer wins).
	Update(ctx context.Context, recordID uint, stats CumulativeStats) error
	// TopN returns the n highest accumulated scores, descending.
	TopN(ctx context.Context, n int) ([]LeaderboardEntry, error)
}

// Reconciler bridges round outcomes to the durable stats record. It caches
// the stats locally and is the only writer to the remote record within a
// session; Hydrate happens-before any Apply. Writes from concurrent
// sessions on the same account are last-writer-wins with no merge.
type Reconciler struct {
	store    StatsStore
	log      *zap.Logger
	identity Identity
	recordID uint
	stats    CumulativeStats
}

// NewReconciler creates a reconciler for one account. Call Hydrate before
// the first Apply.
func NewReconciler(store StatsStore, log *zap.Logger, identity Identity) *Reconciler {
	return &Reconciler{store: store, log: log, identity: identity}
}

// Hydrate loads the account's stats record, creating a zeroed one if the
// account never played. Creation races with another session resolve by
// re-reading, so repeated hydrates never produce a second record.
func (r *Reconciler) Hydrate(ctx context.Context) (CumulativeStats, error) {
	recordID, stats, found, err := r.store.FindByAccount(ctx, r.identity.AccountID)
	if err != nil {
		return CumulativeStats{}, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}
	if !found {
		recordID, err = r.store.Create(ctx, r.identity, CumulativeStats{})
		if err != nil {
			createErr := err
			// Another session may have created the record first.
			recordID, stats, found, err = r.store.FindByAccount(ctx, r.identity.AccountID)
			if err != nil {
				return CumulativeStats{}, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
			}
			if !found {
				// Not a create race; surface what Create actually said.
				return CumulativeStats{}, fmt.Errorf("%w: %v", ErrPersistenceFailed, createErr)
			}
		}
	}
	r.recordID = recordID
	r.stats = stats
	return r.stats, nil
}

// Apply merges one outcome into the cached stats and persists the full
// snapshot. The cache advances even when persistence fails, so the next
// successful write carries everything and no score is lost while the
// session lives. Exactly one persistence attempt per outcome, no retries.
func (r *Reconciler) Apply(ctx context.Context, outcome Outcome) (CumulativeStats, error) {
	r.stats = merge(r.stats, outcome)
	if err := r.store.Update(ctx, r.recordID, r.stats); err != nil {
		r.log.Warn("Stats write failed, session cache remains authoritative",
			zap.String("accountId", r.identity.AccountID),
			zap.Error(err),
		)
		return r.stats, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}
	return r.stats, nil
}

// Stats returns the session's cached view of the cumulative stats.
func (r *Reconciler) Stats() CumulativeStats {
	return r.stats
}

// RecordID returns the durable record's id, valid after Hydrate.
func (r *Reconciler) RecordID() uint {
	return r.recordID
}

// merge folds one outcome into the aggregate.
func merge(s CumulativeStats, o Outcome) CumulativeStats {
	s.TotalAccumulatedScore += o.RoundScore
	s.TotalGames++
	if o.FullyCorrect {
		s.CorrectGames++
	}
	if s.TotalGames > 0 {
		s.Accuracy = int(math.Round(100 * float64(s.CorrectGames) / float64(s.TotalGames)))
	} else {
		s.Accuracy = 0
	}
	return s
}
