package sqlstore

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"
)

const migrationTable = "schema_migrations"

// Migrate applies every *.sql file in fsys, in name order, at most once.
// Applied files are recorded in schema_migrations. Each file runs in its own
// transaction together with its bookkeeping row.
func (s *Store) Migrate(ctx context.Context, fsys fs.FS) error {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	if _, err := s.db.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS "+migrationTable+
		" (name TEXT PRIMARY KEY, applied_at BIGINT NOT NULL)"); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	for _, name := range files {
		applied, err := s.isApplied(ctx, name)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if applied {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if err := s.apply(ctx, name, upSection(string(content))); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) isApplied(ctx context.Context, name string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		s.q("SELECT COUNT(*) FROM "+migrationTable+" WHERE name = ?"), name).Scan(&n)
	return n > 0, err
}

func (s *Store) apply(ctx context.Context, name, upSQL string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", name, err)
	}
	if strings.TrimSpace(upSQL) != "" {
		if _, err := tx.ExecContext(ctx, upSQL); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("exec migration %s: %w", name, err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		s.q("INSERT INTO "+migrationTable+" (name, applied_at) VALUES (?, ?)"),
		name, time.Now().UTC().UnixMilli(),
	); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("record migration %s: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %s: %w", name, err)
	}
	return nil
}

// upSection returns the SQL between "-- +migrate Up" and "-- +migrate Down",
// or the whole file when it has no markers.
func upSection(content string) string {
	const up, down = "-- +migrate Up", "-- +migrate Down"
	i := strings.Index(content, up)
	if i == -1 {
		return content
	}
	content = content[i+len(up):]
	if j := strings.Index(content, down); j != -1 {
		content = content[:j]
	}
	return content
}
