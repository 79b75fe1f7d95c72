package main

import (
	"log"

	"github.com/joho/godotenv"

	"petcare-backend/internal/config"
	"petcare-backend/pkg/logger"
)

// loadConfig reads the shared application config; the worker uses the same
// database, Redis and provider settings as the API.
func loadConfig() *config.Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Config] Failed to load: %v", err)
	}

	logger.Init(cfg.App.Environment, cfg.App.LogLevel)
	logger.Info("Worker config loaded", map[string]interface{}{
		"redis":       cfg.Redis.Host,
		"concurrency": cfg.Worker.Concurrency,
		"sweep_cron":  cfg.Worker.SweepCron,
	})
	return cfg
}
