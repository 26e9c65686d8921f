package game

import "errors"

// Sentinel errors for the round lifecycle and stats persistence.
// All of them are recoverable: the caller re-prompts or retries, no
// session state is corrupted.
var (
	ErrInvalidLength      = errors.New("digit length must be at least 1")
	ErrRoundAlreadyActive = errors.New("a round is already active")
	ErrNoActiveRound      = errors.New("no round is active")
	ErrNotYetRevealed     = errors.New("memorize phase has not ended yet")
	ErrRoundInProgress    = errors.New("cannot change difficulty while a round is in progress")
	ErrInvalidGuessFormat = errors.New("guess must match the round's digit count exactly")
	ErrPersistenceFailed  = errors.New("failed to persist game stats")
)
