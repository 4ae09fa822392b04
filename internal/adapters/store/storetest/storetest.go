// Package storetest is a conformance suite for ports.UserRepository. Every
// backend runs it so that they all honour the same error contract, ordering
// and isolation rules.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/user-action-service/internal/domain"
	"github.com/jsamuelsen11/user-action-service/internal/domain/user"
	"github.com/jsamuelsen11/user-action-service/internal/ports"
)

// Factory returns an empty repository. It is called once per subtest.
type Factory func(t *testing.T) ports.UserRepository

var base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// NewUser builds a valid record with millisecond timestamps offset from a
// fixed base by n seconds.
func NewUser(n int, email string) *user.User {
	ts := base.Add(time.Duration(n) * time.Second)
	img := fmt.Sprintf("https://img.example.com/%d.png", n)
	return &user.User{
		ID:        fmt.Sprintf("00000000-0000-4000-8000-%012d", n),
		Name:      fmt.Sprintf("User %d", n),
		Email:     email,
		Image:     &img,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

// Run executes the conformance suite against repositories made by newRepo.
func Run(t *testing.T, newRepo Factory) {
	t.Helper()

	t.Run("create then get round-trips", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		u := NewUser(1, "ann@example.com")

		require.NoError(t, repo.Create(ctx, u))

		got, err := repo.Get(ctx, u.ID)
		require.NoError(t, err)
		assertSameUser(t, u, got)

		again, err := repo.Get(ctx, u.ID)
		require.NoError(t, err)
		assertSameUser(t, got, again)
	})

	t.Run("optional image may be absent", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		u := NewUser(1, "ann@example.com")
		u.Image = nil

		require.NoError(t, repo.Create(ctx, u))

		got, err := repo.Get(ctx, u.ID)
		require.NoError(t, err)
		assert.Nil(t, got.Image)
	})

	t.Run("get missing is not found", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Get(context.Background(), "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("duplicate id conflicts", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		require.NoError(t, repo.Create(ctx, NewUser(1, "ann@example.com")))

		dup := NewUser(1, "other@example.com")
		assert.ErrorIs(t, repo.Create(ctx, dup), domain.ErrConflict)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		require.NoError(t, repo.Create(ctx, NewUser(1, "ann@example.com")))

		assert.ErrorIs(t, repo.Create(ctx, NewUser(2, "ann@example.com")), domain.ErrConflict)
	})

	t.Run("update applies present fields only", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		u := NewUser(1, "ann@example.com")
		require.NoError(t, repo.Create(ctx, u))

		name := "Annie"
		verified := true
		later := u.UpdatedAt.Add(time.Minute)
		got, err := repo.Update(ctx, u.ID, user.Patch{Name: &name, EmailVerified: &verified, UpdatedAt: later})
		require.NoError(t, err)

		want := u.Clone()
		want.Name = name
		want.EmailVerified = true
		want.UpdatedAt = later
		assertSameUser(t, &want, got)

		stored, err := repo.Get(ctx, u.ID)
		require.NoError(t, err)
		assertSameUser(t, &want, stored)
	})

	t.Run("update email keeps uniqueness", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		a := NewUser(1, "ann@example.com")
		b := NewUser(2, "bob@example.com")
		require.NoError(t, repo.Create(ctx, a))
		require.NoError(t, repo.Create(ctx, b))

		taken := "bob@example.com"
		_, err := repo.Update(ctx, a.ID, user.Patch{Email: &taken, UpdatedAt: a.UpdatedAt})
		require.ErrorIs(t, err, domain.ErrConflict)

		fresh := "ann2@example.com"
		got, err := repo.Update(ctx, a.ID, user.Patch{Email: &fresh, UpdatedAt: a.UpdatedAt})
		require.NoError(t, err)
		assert.Equal(t, fresh, got.Email)

		// The old address is free again.
		require.NoError(t, repo.Create(ctx, NewUser(3, "ann@example.com")))
	})

	t.Run("update missing is not found", func(t *testing.T) {
		repo := newRepo(t)
		name := "x"

		_, err := repo.Update(context.Background(), "missing", user.Patch{Name: &name, UpdatedAt: base})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("delete removes and frees the email", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		u := NewUser(1, "ann@example.com")
		require.NoError(t, repo.Create(ctx, u))

		require.NoError(t, repo.Delete(ctx, u.ID))

		_, err := repo.Get(ctx, u.ID)
		require.ErrorIs(t, err, domain.ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, u.ID), domain.ErrNotFound)
		assert.NoError(t, repo.Create(ctx, NewUser(2, "ann@example.com")))
	})

	t.Run("list pages in creation order", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		// Insert out of order; 3 and 4 share a timestamp and sort by ID.
		for _, n := range []int{5, 2, 4, 1, 3} {
			u := NewUser(n, fmt.Sprintf("u%d@example.com", n))
			if n == 4 {
				u.CreatedAt = base.Add(3 * time.Second)
			}
			require.NoError(t, repo.Create(ctx, u))
		}

		page, err := repo.List(ctx, user.Filter{Limit: 2, Offset: 1})
		require.NoError(t, err)
		assert.Equal(t, 5, page.Total)
		assert.Equal(t, 2, page.Limit)
		assert.Equal(t, 1, page.Offset)
		require.Len(t, page.Users, 2)
		assert.Equal(t, NewUser(2, "").ID, page.Users[0].ID)
		assert.Equal(t, NewUser(3, "").ID, page.Users[1].ID)

		tail, err := repo.List(ctx, user.Filter{Limit: 10, Offset: 4})
		require.NoError(t, err)
		require.Len(t, tail.Users, 1)
		assert.Equal(t, NewUser(5, "").ID, tail.Users[0].ID)

		empty, err := repo.List(ctx, user.Filter{Offset: 50})
		require.NoError(t, err)
		assert.Empty(t, empty.Users)
		assert.Equal(t, 5, empty.Total)
	})

	t.Run("concurrent creates of one email admit exactly one", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		const n = 8
		errs := make([]error, n)
		var wg sync.WaitGroup
		for i := range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs[i] = repo.Create(ctx, NewUser(i+1, "race@example.com"))
			}()
		}
		wg.Wait()

		var ok int
		for _, err := range errs {
			if err == nil {
				ok++
				continue
			}
			assert.ErrorIs(t, err, domain.ErrConflict)
		}
		assert.Equal(t, 1, ok)
	})
}

// assertSameUser compares records field by field, using time.Equal so that
// location differences introduced by a backend do not matter.
func assertSameUser(t *testing.T, want, got *user.User) {
	t.Helper()
	require.NotNil(t, got)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.Email, got.Email)
	assert.Equal(t, want.EmailVerified, got.EmailVerified)
	assert.Equal(t, want.Image, got.Image)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt), "CreatedAt = %v, want %v", got.CreatedAt, want.CreatedAt)
	assert.True(t, want.UpdatedAt.Equal(got.UpdatedAt), "UpdatedAt = %v, want %v", got.UpdatedAt, want.UpdatedAt)
}
