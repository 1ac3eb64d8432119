package main

import (
	"os"

	"production-manager/internal/config"
	"production-manager/internal/database"
	"production-manager/internal/logging"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// loadConfig reads .env and the environment and applies the flag
// overrides. Logging is configured before config.Load so its warnings
// reach the configured writers.
func loadConfig(portFlag, levelFlag string) *config.Config {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	level := levelFlag
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	logging.Apply(level, os.Getenv("LOG_FILE"))

	cfg := config.Load()
	if portFlag != "" {
		cfg.HTTPPort = portFlag
	}
	if levelFlag != "" {
		cfg.LogLevel = levelFlag
	}
	return cfg
}

// prepareSchema runs the schema manager. With strict set a failure stops
// startup; otherwise it is logged and the server comes up without tables.
func prepareSchema(db *gorm.DB, strict bool) error {
	err := database.EnsureSchema(db)
	if err == nil {
		return nil
	}
	if strict {
		return err
	}
	log.Warn().Err(err).Msg("Schema setup failed, continuing without it")
	return nil
}
