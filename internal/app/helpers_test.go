package app

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/jsamuelsen11/user-action-service/internal/app/action"
	"github.com/jsamuelsen11/user-action-service/internal/domain"
	"github.com/jsamuelsen11/user-action-service/internal/domain/user"
	"github.com/jsamuelsen11/user-action-service/internal/ports"
)

var fixedNow = time.Date(2025, 3, 14, 15, 9, 26, 535897932, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

// sequentialIDs returns an ID generator yielding "id-1", "id-2", ...
func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return "id-" + strconv.Itoa(n)
	}
}

func newTestService(repo ports.UserRepository) *UserService {
	return NewUserService(repo, nil, discardLogger(),
		WithIDGenerator(func() string { return "3f1c2b9a-0000-4000-8000-000000000001" }),
		WithClock(func() time.Time { return fixedNow }),
	)
}

func newTestActions(repo ports.UserRepository, cfg ImportConfig) *UserActions {
	svc := NewUserService(repo, nil, discardLogger(),
		WithIDGenerator(sequentialIDs()),
		WithClock(func() time.Time { return fixedNow }),
	)
	return NewUserActions(svc, action.NewRunner("user", discardLogger()), cfg)
}

// fakeRepo is a minimal thread-safe repository for import tests, where the
// order of concurrent calls is not deterministic.
type fakeRepo struct {
	mu        sync.Mutex
	users     map[string]user.User
	failEmail string
	deleted   []string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[string]user.User{}}
}

func (f *fakeRepo) Create(_ context.Context, u *user.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.Email == f.failEmail {
		return domain.ErrConflict
	}
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return domain.ErrConflict
		}
	}
	f.users[u.ID] = u.Clone()
	return nil
}

func (f *fakeRepo) Get(_ context.Context, id string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := u.Clone()
	return &c, nil
}

func (f *fakeRepo) Update(context.Context, string, user.Patch) (*user.User, error) {
	panic("not used")
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.users, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRepo) List(context.Context, user.Filter) (*user.Page, error) {
	panic("not used")
}

func (f *fakeRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users)
}
