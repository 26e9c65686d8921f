package repository

import (
	"context"
	"errors"

	"digit-recall/internal/database"
	"digit-recall/internal/game"
	"digit-recall/internal/models"

	"gorm.io/gorm"
)

// GameLogStore is the durable Account Stats Store, backed by the game_logs
// table. It implements game.StatsStore.
type GameLogStore struct{}

func NewGameLogStore() *GameLogStore {
	return &GameLogStore{}
}

func (s *GameLogStore) FindByAccount(ctx context.Context, accountID string) (uint, game.CumulativeStats, bool, error) {
	var gl models.GameLog
	result := database.DB.WithContext(ctx).First(&gl, "account_id = ?", accountID)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return 0, game.CumulativeStats{}, false, nil
	}
	if result.Error != nil {
		return 0, game.CumulativeStats{}, false, result.Error
	}
	return gl.ID, statsFromModel(gl), true, nil
}

func (s *GameLogStore) Create(ctx context.Context, identity game.Identity, stats game.CumulativeStats) (uint, error) {
	gl := models.GameLog{
		AccountID:             identity.AccountID,
		DisplayName:           identity.DisplayName,
		TotalAccumulatedScore: stats.TotalAccumulatedScore,
		TotalGames:            stats.TotalGames,
		CorrectGames:          stats.CorrectGames,
		Accuracy:              stats.Accuracy,
	}
	result := database.DB.WithContext(ctx).Create(&gl)
	return gl.ID, result.Error
}

// Update replaces the record's stats wholesale; concurrent sessions on the
// same account are last-writer-wins by design.
func (s *GameLogStore) Update(ctx context.Context, recordID uint, stats game.CumulativeStats) error {
	return database.DB.WithContext(ctx).Model(&models.GameLog{}).Where("id = ?", recordID).Updates(map[string]interface{}{
		"total_accumulated_score": stats.TotalAccumulatedScore,
		"total_games":             stats.TotalGames,
		"correct_games":           stats.CorrectGames,
		"accuracy":                stats.Accuracy,
	}).Error
}

func (s *GameLogStore) TopN(ctx context.Context, n int) ([]game.LeaderboardEntry, error) {
	var logs []models.GameLog
	err := database.DB.WithContext(ctx).
		Select("display_name", "total_accumulated_score").
		Order("total_accumulated_score DESC").
		Limit(n).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}

	entries := make([]game.LeaderboardEntry, 0, len(logs))
	for _, gl := range logs {
		entries = append(entries, game.LeaderboardEntry{
			DisplayName:           gl.DisplayName,
			TotalAccumulatedScore: gl.TotalAccumulatedScore,
		})
	}
	return entries, nil
}

// SaveRoundRecord appends one completed round to the audit trail that
// feeds the score-history chart. Failures here do not affect the stats
// snapshot; the caller just logs them.
func SaveRoundRecord(ctx context.Context, gameLogID uint, target, guess string, outcome game.Outcome) error {
	record := models.RoundRecord{
		GameLogID:     gameLogID,
		Tier:          string(outcome.Tier),
		Target:        target,
		Guess:         guess,
		CorrectDigits: outcome.CorrectDigits,
		RoundScore:    outcome.RoundScore,
		FullyCorrect:  outcome.FullyCorrect,
	}
	return database.DB.WithContext(ctx).Create(&record).Error
}

func statsFromModel(gl models.GameLog) game.CumulativeStats {
	return game.CumulativeStats{
		TotalAccumulatedScore: gl.TotalAccumulatedScore,
		TotalGames:            gl.TotalGames,
		CorrectGames:          gl.CorrectGames,
		Accuracy:              gl.Accuracy,
	}
}
