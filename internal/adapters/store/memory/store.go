// Package memory provides an in-process user store guarded by a mutex. It is
// the default backend for local runs and the reference behaviour every other
// backend is tested against.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/jsamuelsen11/user-action-service/internal/domain"
	"github.com/jsamuelsen11/user-action-service/internal/domain/user"
	"github.com/jsamuelsen11/user-action-service/internal/ports"
)

// Compile-time check that Store implements ports.UserRepository.
var _ ports.UserRepository = (*Store)(nil)

// Store keeps users in maps keyed by ID and by email. Records are cloned on
// the way in and out so callers never share memory with the store.
type Store struct {
	mu      sync.RWMutex
	byID    map[string]user.User
	byEmail map[string]string
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		byID:    make(map[string]user.User),
		byEmail: make(map[string]string),
	}
}

// Create stores u. It fails with domain.ErrConflict when the ID or email is
// taken.
func (s *Store) Create(ctx context.Context, u *user.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[u.ID]; ok {
		return domain.ErrConflict
	}
	if _, ok := s.byEmail[u.Email]; ok {
		return domain.ErrConflict
	}
	s.byID[u.ID] = u.Clone()
	s.byEmail[u.Email] = u.ID
	return nil
}

// Get returns the user with the given ID.
func (s *Store) Get(ctx context.Context, id string) (*user.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := u.Clone()
	return &c, nil
}

// Update applies patch under the write lock, so the read-modify-write is
// atomic with respect to other calls.
func (s *Store) Update(ctx context.Context, id string, patch user.Patch) (*user.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	oldEmail := u.Email
	patch.Apply(&u)

	if u.Email != oldEmail {
		if owner, taken := s.byEmail[u.Email]; taken && owner != id {
			return nil, domain.ErrConflict
		}
		delete(s.byEmail, oldEmail)
		s.byEmail[u.Email] = id
	}
	s.byID[id] = u

	c := u.Clone()
	return &c, nil
}

// Delete removes the user with the given ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(s.byID, id)
	delete(s.byEmail, u.Email)
	return nil
}

// List returns a page of users ordered by creation time then ID.
func (s *Store) List(ctx context.Context, filter user.Filter) (*user.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	filter = filter.Normalized()

	s.mu.RLock()
	all := make([]user.User, 0, len(s.byID))
	for _, u := range s.byID {
		all = append(all, u.Clone())
	}
	s.mu.RUnlock()

	slices.SortFunc(all, user.CompareCreated)

	page := &user.Page{Total: len(all), Limit: filter.Limit, Offset: filter.Offset, Users: []user.User{}}
	if filter.Offset < len(all) {
		end := min(filter.Offset+filter.Limit, len(all))
		page.Users = all[filter.Offset:end]
	}
	return page, nil
}
