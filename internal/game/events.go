package game

import "go.uber.org/zap"

// MemorizeStarted is emitted when a round begins. Target is only exposed
// here; after the reveal ends it stays server-side.
type MemorizeStarted struct {
	Target  string `json:"target"`
	Seconds int    `json:"seconds"`
	Digits  int    `json:"digits"`
}

// EventSink receives round lifecycle notifications for the presentation
// layer. Implementations must not block; the machine calls them while
// holding its lock.
type EventSink interface {
	MemorizeStarted(ev MemorizeStarted)
	RevealEnded()
	RoundScored(outcome Outcome)
	InvalidGuess(expectedLength int)
	RoundRejected(reason error)
}

// LogSink writes round events to the structured log. It is the default
// sink when no presentation layer is attached.
type LogSink struct {
	Log *zap.Logger
}

func (s LogSink) MemorizeStarted(ev MemorizeStarted) {
	s.Log.Debug("Memorize phase started",
		zap.Int("digits", ev.Digits),
		zap.Int("seconds", ev.Seconds),
	)
}

func (s LogSink) RevealEnded() {
	s.Log.Debug("Reveal ended, awaiting input")
}

func (s LogSink) RoundScored(outcome Outcome) {
	s.Log.Debug("Round scored",
		zap.String("tier", string(outcome.Tier)),
		zap.Int("correct", outcome.CorrectDigits),
		zap.Int("score", outcome.RoundScore),
		zap.Bool("fullyCorrect", outcome.FullyCorrect),
	)
}

func (s LogSink) InvalidGuess(expectedLength int) {
	s.Log.Debug("Invalid guess rejected", zap.Int("expectedLength", expectedLength))
}

func (s LogSink) RoundRejected(reason error) {
	s.Log.Debug("Round operation rejected", zap.Error(reason))
}
