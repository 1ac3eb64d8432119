package database_test

import (
	"context"
	"errors"
	"testing"

	"production-manager/internal/config"
	"production-manager/internal/database"
	"production-manager/internal/database/dbtest"
	"production-manager/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func ptr(s string) *string { return &s }

func TestEnsureSchemaRejectsNilDatabase(t *testing.T) {
	assert.Error(t, database.EnsureSchema(nil))
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	pool := dbtest.Open(t)

	require.NoError(t, database.EnsureSchema(pool.DB()))
	require.NoError(t, database.EnsureSchema(pool.DB()))

	for _, table := range []string{"products", "materials", "product_materials", "production_logs"} {
		assert.True(t, pool.DB().Migrator().HasTable(table), "table %s", table)
	}
}

func TestSchemaForeignKeyRules(t *testing.T) {
	pool := dbtest.Open(t)
	dbtest.Seed(t, pool,
		&models.Product{ID: "p1", Name: "Steel Chair", Type: "Furniture", EstimatedCost: 250, Status: models.ProductStatusPending},
		&models.Material{ID: "m1", Name: "Steel", Quantity: 500, Unit: "kg", Supplier: "Metal Works Inc."},
		&models.Material{ID: "m2", Name: "Fabric", Quantity: 1000, Unit: "meters", Supplier: "Textile Hub"},
		&models.ProductMaterial{ProductID: "p1", MaterialID: "m1"},
		&models.ProductMaterial{ProductID: "p1", MaterialID: "m2"},
		&models.ProductionLog{ID: "l1", ProductID: ptr("p1"), ProductName: "Steel Chair", Action: models.ActionProductCreated},
	)

	t.Run("duplicate link is rejected", func(t *testing.T) {
		err := pool.DB().Create(&models.ProductMaterial{ProductID: "p1", MaterialID: "m1"}).Error
		assert.Error(t, err)
	})

	t.Run("deleting a material removes its links", func(t *testing.T) {
		require.NoError(t, pool.DB().Delete(&models.Material{}, "id = ?", "m2").Error)
		assert.EqualValues(t, 0, dbtest.Count(t, pool, &models.ProductMaterial{}, "material_id = ?", "m2"))
		assert.EqualValues(t, 1, dbtest.Count(t, pool, &models.ProductMaterial{}, ""))
	})

	t.Run("deleting a product cascades links and nulls log references", func(t *testing.T) {
		require.NoError(t, pool.DB().Delete(&models.Product{}, "id = ?", "p1").Error)
		assert.EqualValues(t, 0, dbtest.Count(t, pool, &models.ProductMaterial{}, ""))

		var entry models.ProductionLog
		require.NoError(t, pool.DB().First(&entry, "id = ?", "l1").Error)
		assert.Nil(t, entry.ProductID)
		assert.Equal(t, "Steel Chair", entry.ProductName)
	})
}

func TestWithTxRollsBackOnError(t *testing.T) {
	pool := dbtest.Open(t)
	boom := errors.New("boom")

	err := pool.WithTx(context.Background(), func(tx *gorm.DB) error {
		if err := tx.Create(&models.Material{ID: "m1", Name: "Steel", Quantity: 1, Unit: "kg", Supplier: "x"}).Error; err != nil {
			return err
		}
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.EqualValues(t, 0, dbtest.Count(t, pool, &models.Material{}, ""))
}

func TestWithTxRollsBackAndReleasesOnPanic(t *testing.T) {
	pool := dbtest.Open(t)

	assert.Panics(t, func() {
		_ = pool.WithTx(context.Background(), func(tx *gorm.DB) error {
			tx.Create(&models.Material{ID: "m1", Name: "Steel", Quantity: 1, Unit: "kg", Supplier: "x"})
			panic("handler bug")
		})
	})

	assert.EqualValues(t, 0, dbtest.Count(t, pool, &models.Material{}, ""))

	sqlDB, err := pool.DB().DB()
	require.NoError(t, err)
	assert.Equal(t, 0, sqlDB.Stats().InUse, "connection must be released")
}

func TestWithConnReleasesConnection(t *testing.T) {
	pool := dbtest.Open(t)

	for i := 0; i < 3; i++ {
		err := pool.WithConn(context.Background(), func(db *gorm.DB) error {
			var n int64
			return db.Model(&models.Product{}).Count(&n).Error
		})
		require.NoError(t, err)
	}

	sqlDB, err := pool.DB().DB()
	require.NoError(t, err)
	assert.Equal(t, 0, sqlDB.Stats().InUse)
}

func TestWithConnReportsUnavailable(t *testing.T) {
	t.Run("nil pool", func(t *testing.T) {
		var pool *database.Pool
		err := pool.WithConn(context.Background(), func(*gorm.DB) error { return nil })
		assert.ErrorIs(t, err, database.ErrUnavailable)
	})

	t.Run("closed pool", func(t *testing.T) {
		pool := dbtest.Open(t)
		require.NoError(t, pool.Close())

		called := false
		err := pool.WithConn(context.Background(), func(*gorm.DB) error {
			called = true
			return nil
		})
		assert.ErrorIs(t, err, database.ErrUnavailable)
		assert.False(t, called)
		assert.ErrorIs(t, pool.Ping(context.Background()), database.ErrUnavailable)
	})
}

func TestProbeFailsForUnreachableStore(t *testing.T) {
	cfg := config.DefaultDatabase()
	cfg.Host = "127.0.0.1"
	cfg.Port = "1"

	assert.Error(t, database.Probe(context.Background(), cfg))
}
