package database

import (
	"fmt"
	"time"

	"production-manager/internal/config"
	"production-manager/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormConfig returns the GORM settings shared by the server and the tests.
func GormConfig(debug bool) *gorm.Config {
	level := logger.Silent
	if debug {
		level = logger.Info
	}
	return &gorm.Config{
		Logger:                 logger.Default.LogMode(level),
		SkipDefaultTransaction: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Open builds the Postgres handle and applies the pool limits. The
// initial ping is skipped so that an unreachable store surfaces on first
// use instead of here.
func Open(cfg config.Database) (*gorm.DB, error) {
	gormCfg := GormConfig(cfg.Debug)
	gormCfg.DisableAutomaticPing = true

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return db, nil
}

// EnsureSchema creates the products, materials, product_materials and
// production_logs tables when they are absent. Safe to call repeatedly.
func EnsureSchema(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database handle is nil")
	}

	err := db.AutoMigrate(
		&models.Product{},
		&models.Material{},
		&models.ProductMaterial{},
		&models.ProductionLog{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Schema migration failed")
		return fmt.Errorf("migrate schema: %w", err)
	}

	log.Info().Msg("Database schema is up to date")
	return nil
}
