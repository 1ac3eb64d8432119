package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrUnavailable is returned when no store connection could be acquired.
var ErrUnavailable = errors.New("database connection failed")

// Pool hands out one dedicated connection per unit of work. Handlers get
// it injected instead of reaching for a package-level handle.
type Pool struct {
	db *gorm.DB
}

func NewPool(db *gorm.DB) *Pool {
	return &Pool{db: db}
}

// DB exposes the underlying handle for startup tasks such as EnsureSchema.
func (p *Pool) DB() *gorm.DB {
	return p.db
}

// WithConn acquires a single connection, runs fn against a session bound
// to it and releases the connection on every exit path, panics included.
func (p *Pool) WithConn(ctx context.Context, fn func(db *gorm.DB) error) error {
	if p == nil || p.db == nil {
		return ErrUnavailable
	}

	sqlDB, err := p.db.DB()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer conn.Close()

	session := p.db.Session(&gorm.Session{NewDB: true, Context: ctx})
	session.Statement.ConnPool = conn

	return fn(session)
}

// WithTx is WithConn plus a transaction: fn's writes are committed when it
// returns nil and rolled back when it returns an error or panics.
func (p *Pool) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return p.WithConn(ctx, func(db *gorm.DB) error {
		return db.Transaction(fn)
	})
}

// Ping checks that a connection can be acquired and is alive.
func (p *Pool) Ping(ctx context.Context) error {
	return p.WithConn(ctx, func(db *gorm.DB) error {
		return db.Exec("SELECT 1").Error
	})
}

// Close releases every pooled connection.
func (p *Pool) Close() error {
	if p == nil || p.db == nil {
		return nil
	}
	sqlDB, err := p.db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	return sqlDB.Close()
}
