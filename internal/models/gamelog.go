package models

import "time"

// GameLog is the durable cumulative stats record, one per account.
// AccountID is the opaque id handed over by the auth layer; the unique
// index keeps hydration idempotent when two sessions race to create it.
// Accuracy is stored denormalized so the leaderboard query never has to
// recompute it.
type GameLog struct {
	ID                    uint   `gorm:"primaryKey"`
	AccountID             string `gorm:"uniqueIndex"`
	DisplayName           string
	TotalAccumulatedScore int
	TotalGames            int
	CorrectGames          int
	Accuracy              int
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// RoundRecord is one completed round, kept for the score-history chart.
type RoundRecord struct {
	ID            uint    `gorm:"primaryKey"`
	GameLogID     uint    `gorm:"index"`
	GameLog       GameLog `gorm:"foreignKey:GameLogID"`
	Tier          string
	Target        string
	Guess         string
	CorrectDigits int
	RoundScore    int
	FullyCorrect  bool
	CreatedAt     time.Time
}
