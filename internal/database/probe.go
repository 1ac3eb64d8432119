package database

import (
	"context"
	"fmt"
	"time"

	"production-manager/internal/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const probeTimeout = 5 * time.Second

// Probe opens a one-off connection with the given settings, pings it and
// closes it right away. It never touches the shared pool.
func Probe(ctx context.Context, cfg config.Database) error {
	gormCfg := GormConfig(false)
	gormCfg.DisableAutomaticPing = true

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormCfg)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	defer sqlDB.Close()

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return err
	}
	return nil
}
