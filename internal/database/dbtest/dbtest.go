// Package dbtest opens throwaway SQLite stores for package tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"production-manager/internal/database"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Open returns a pool over a fresh file-backed SQLite database with the
// schema in place. Foreign keys are enforced and transactions take the
// write lock up front so concurrent tests wait instead of failing.
func Open(t *testing.T) *database.Pool {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "production.db") +
		"?_foreign_keys=on&_busy_timeout=5000&_txlock=immediate"

	db, err := gorm.Open(sqlite.Open(dsn), database.GormConfig(false))
	require.NoError(t, err, "open sqlite database")
	require.NoError(t, database.EnsureSchema(db), "ensure schema")

	pool := database.NewPool(db)
	t.Cleanup(func() { _ = pool.Close() })
	return pool
}

// Count returns the number of rows in model's table matching the optional
// condition.
func Count(t *testing.T, pool *database.Pool, model any, query string, args ...any) int64 {
	t.Helper()

	var n int64
	q := pool.DB().Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

// Seed inserts rows directly, bypassing the handlers.
func Seed(t *testing.T, pool *database.Pool, rows ...any) {
	t.Helper()

	for _, row := range rows {
		require.NoError(t, pool.DB().Omit(clause.Associations).Create(row).Error)
	}
}
