// Package sqlite provides a SQLite-backed user store using the pure-Go
// modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/jsamuelsen11/user-action-service/internal/adapters/store/sqlite/migrations"
	"github.com/jsamuelsen11/user-action-service/internal/adapters/store/sqlstore"
)

// Dialect is the SQLite flavour of sqlstore.
var Dialect = sqlstore.Dialect{
	Name:              "sqlite",
	IsUniqueViolation: isUniqueViolation,
}

// pragmas are applied by the driver to every new connection.
const pragmas = "_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"

// Open opens (creating if needed) the database file at path and applies the
// bundled migrations.
func Open(ctx context.Context, path string) (*sqlstore.Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite: storage path is required")
	}

	dsn := filepath.Clean(path) + "?" + pragmas
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One writer at a time; concurrent writers would otherwise race for the
	// file lock.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := sqlstore.New(db, Dialect)
	if err := store.Migrate(ctx, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run sqlite migrations: %w", err)
	}
	return store, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
