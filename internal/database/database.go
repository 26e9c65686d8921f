package database

import (
	"fmt"

	"digit-recall/internal/config"
	logging "digit-recall/internal/logging"
	"digit-recall/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(log *zap.Logger) {
	var err error
	dbConf := config.Conf.Database
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		dbConf.Host, dbConf.User, dbConf.Password, dbConf.DBName, dbConf.Port)

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logging.NewGormZapLogger(log),
		// Needed so a racing GameLog create surfaces as gorm.ErrDuplicatedKey.
		TranslateError: true,
	})

	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	log.Info("Database connection established successfully.")
	runMigrations(log)
}

func runMigrations(log *zap.Logger) {
	// GORM's AutoMigrate will create tables, columns, and foreign keys.
	// It will NOT create custom indexes, so we handle that separately.
	err := DB.AutoMigrate(
		&models.User{},
		&models.GameLog{},
		&models.RoundRecord{},
	)
	if err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}
	log.Info("Database migrations completed successfully.")

	// The leaderboard is always read descending by score.
	scoreIndex := `CREATE INDEX IF NOT EXISTS idx_game_logs_score ON game_logs (total_accumulated_score DESC);`
	if err := DB.Exec(scoreIndex).Error; err != nil {
		log.Fatal("Failed to create custom index on game_logs", zap.Error(err))
	}
	log.Info("Custom indexes ensured successfully.")
}
