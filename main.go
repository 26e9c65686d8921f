package main

import (
	"time"

	"digit-recall/internal/config"
	"digit-recall/internal/database"
	"digit-recall/internal/game"
	logger "digit-recall/internal/logging"
	"digit-recall/internal/repository"
	"digit-recall/internal/router"

	"go.uber.org/zap"
)

func main() {
	// Configuration is loaded with a bootstrap logger; the real logger
	// needs the logging config first.
	boot, err := zap.NewDevelopment()
	if err != nil {
		panic("failed to initialize bootstrap logger: " + err.Error())
	}
	if err := config.Init(".", boot); err != nil {
		boot.Fatal("Failed to load configuration", zap.Error(err))
	}

	log, err := logger.Init(".", config.Conf.Logging)
	if err != nil {
		boot.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer log.Sync()

	// Initialize Database
	database.Init(log)

	// Game sessions and the durable stats store
	store := repository.NewGameLogStore()
	registry := game.NewRegistry(store, log)
	registry.StartJanitor(
		time.Duration(config.Conf.Session.JanitorSeconds)*time.Second,
		time.Duration(config.Conf.Session.IdleMinutes)*time.Minute,
	)

	// Setup router, passing the logger to it
	r := router.Setup(log, registry, store)

	// Start the Gin server
	port := ":" + config.Conf.Server.Port
	log.Info("Server listening on http://localhost" + port)
	if err := r.Run(port); err != nil {
		log.Fatal("Failed to run Gin server", zap.Error(err))
	}
}
