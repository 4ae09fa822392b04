// Package sqlstore implements ports.UserRepository over database/sql. The
// SQLite and Postgres backends share it and differ only in their Dialect:
// placeholder style, row locking, and how unique violations are reported.
//
// Timestamps are stored as Unix milliseconds in both engines so that records
// round-trip exactly.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jsamuelsen11/user-action-service/internal/domain"
	"github.com/jsamuelsen11/user-action-service/internal/domain/user"
	"github.com/jsamuelsen11/user-action-service/internal/ports"
)

// Compile-time check that Store implements ports.UserRepository.
var _ ports.UserRepository = (*Store)(nil)

// Dialect captures the differences between SQL engines.
type Dialect struct {
	// Name identifies the engine in errors and health checks.
	Name string

	// Numbered rewrites "?" placeholders to "$1", "$2", ...
	Numbered bool

	// LockClause is appended to the row read inside Update (e.g. "FOR UPDATE").
	LockClause string

	// IsUniqueViolation reports whether err is a primary key or unique
	// constraint failure.
	IsUniqueViolation func(err error) bool
}

const columns = "id, name, email, email_verified, image, created_at, updated_at"

// Store is a SQL-backed user repository.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// New wraps an open database. The schema must already exist.
func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// DB returns the underlying handle.
func (s *Store) DB() *sql.DB { return s.db }

// Ping checks connectivity. It backs the store's health checker.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Create inserts u.
func (s *Store) Create(ctx context.Context, u *user.User) error {
	_, err := s.db.ExecContext(ctx, s.q(
		"INSERT INTO users ("+columns+") VALUES (?, ?, ?, ?, ?, ?, ?)"),
		u.ID, u.Name, u.Email, u.EmailVerified, nullString(u.Image), toMillis(u.CreatedAt), toMillis(u.UpdatedAt),
	)
	if err != nil {
		return s.wrap("insert user", err)
	}
	return nil
}

// Get returns the user with the given ID.
func (s *Store) Get(ctx context.Context, id string) (*user.User, error) {
	row := s.db.QueryRowContext(ctx, s.q("SELECT "+columns+" FROM users WHERE id = ?"), id)
	u, err := scanUser(row)
	if err != nil {
		return nil, s.wrap("select user", err)
	}
	return u, nil
}

// Update reads, patches and writes the row inside one transaction at the
// engine's default isolation level.
func (s *Store) Update(ctx context.Context, id string, patch user.Patch) (_ *user.User, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, s.wrap("begin update", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query := "SELECT " + columns + " FROM users WHERE id = ?"
	if s.dialect.LockClause != "" {
		query += " " + s.dialect.LockClause
	}
	u, err := scanUser(tx.QueryRowContext(ctx, s.q(query), id))
	if err != nil {
		return nil, s.wrap("select user for update", err)
	}

	patch.Apply(u)

	if _, err = tx.ExecContext(ctx, s.q(
		"UPDATE users SET name = ?, email = ?, email_verified = ?, image = ?, updated_at = ? WHERE id = ?"),
		u.Name, u.Email, u.EmailVerified, nullString(u.Image), toMillis(u.UpdatedAt), id,
	); err != nil {
		return nil, s.wrap("update user", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, s.wrap("commit update", err)
	}
	return u, nil
}

// Delete removes the user with the given ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.q("DELETE FROM users WHERE id = ?"), id)
	if err != nil {
		return s.wrap("delete user", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return s.wrap("delete user", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List returns a page of users ordered by creation time then ID.
func (s *Store) List(ctx context.Context, filter user.Filter) (*user.Page, error) {
	filter = filter.Normalized()

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&total); err != nil {
		return nil, s.wrap("count users", err)
	}

	rows, err := s.db.QueryContext(ctx, s.q(
		"SELECT "+columns+" FROM users ORDER BY created_at, id LIMIT ? OFFSET ?"),
		filter.Limit, filter.Offset,
	)
	if err != nil {
		return nil, s.wrap("list users", err)
	}
	defer rows.Close()

	page := &user.Page{Total: total, Limit: filter.Limit, Offset: filter.Offset, Users: []user.User{}}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, s.wrap("scan user", err)
		}
		page.Users = append(page.Users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, s.wrap("list users", err)
	}
	return page, nil
}

// wrap maps driver errors onto the domain sentinels.
func (s *Store) wrap(op string, err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return domain.ErrNotFound
	case s.dialect.IsUniqueViolation != nil && s.dialect.IsUniqueViolation(err):
		return fmt.Errorf("%s %s: %w: %w", s.dialect.Name, op, domain.ErrConflict, err)
	default:
		return fmt.Errorf("%s %s: %w", s.dialect.Name, op, err)
	}
}

// q rewrites placeholders for the dialect.
func (s *Store) q(query string) string {
	if !s.dialect.Numbered {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*user.User, error) {
	var (
		u                user.User
		image            sql.NullString
		created, updated int64
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.EmailVerified, &image, &created, &updated); err != nil {
		return nil, err
	}
	if image.Valid {
		u.Image = &image.String
	}
	u.CreatedAt = fromMillis(created)
	u.UpdatedAt = fromMillis(updated)
	return &u, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
