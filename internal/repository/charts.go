package repository

import (
	"context"
	"time"

	"digit-recall/internal/database"
)

type TimelineDataPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// ScoreTimeline returns an account's round scores in play order, for the
// score-history chart.
func ScoreTimeline(ctx context.Context, gameLogID uint) ([]TimelineDataPoint, error) {
	var data []TimelineDataPoint

	query := `
		SELECT
			r.created_at AS date,
			r.round_score::float AS value
		FROM round_records r
		WHERE r.game_log_id = ?
		ORDER BY r.created_at;
	`

	err := database.DB.WithContext(ctx).Raw(query, gameLogID).Scan(&data).Error
	return data, err
}

// AccuracyTimeline returns the running share of fully correct rounds after
// each game, as a percentage.
func AccuracyTimeline(ctx context.Context, gameLogID uint) ([]TimelineDataPoint, error) {
	var data []TimelineDataPoint

	query := `
		SELECT
			r.created_at AS date,
			ROUND(100.0 * SUM(CASE WHEN r.fully_correct THEN 1 ELSE 0 END)
				OVER (ORDER BY r.created_at)
				/ ROW_NUMBER() OVER (ORDER BY r.created_at)) AS value
		FROM round_records r
		WHERE r.game_log_id = ?
		ORDER BY r.created_at;
	`

	err := database.DB.WithContext(ctx).Raw(query, gameLogID).Scan(&data).Error
	return data, err
}
