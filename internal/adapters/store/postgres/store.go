// Package postgres provides a PostgreSQL-backed user store using lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/jsamuelsen11/user-action-service/internal/adapters/store/postgres/migrations"
	"github.com/jsamuelsen11/user-action-service/internal/adapters/store/sqlstore"
)

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation pq.ErrorCode = "23505"

// Dialect is the Postgres flavour of sqlstore.
var Dialect = sqlstore.Dialect{
	Name:              "postgres",
	Numbered:          true,
	LockClause:        "FOR UPDATE",
	IsUniqueViolation: isUniqueViolation,
}

// PoolConfig sizes the connection pool.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Open connects to dsn, applies the bundled migrations and returns the store.
func Open(ctx context.Context, dsn string, pool PoolConfig) (*sqlstore.Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("postgres: dsn is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres db: %w", err)
	}
	applyPool(db, pool)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres db: %w", err)
	}

	store, err := NewWithDB(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// NewWithDB migrates an already-open handle and wraps it.
func NewWithDB(ctx context.Context, db *sql.DB) (*sqlstore.Store, error) {
	store := sqlstore.New(db, Dialect)
	if err := store.Migrate(ctx, migrations.FS); err != nil {
		return nil, fmt.Errorf("run postgres migrations: %w", err)
	}
	return store, nil
}

func applyPool(db *sql.DB, pool PoolConfig) {
	if pool.MaxOpenConns > 0 {
		db.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		db.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
