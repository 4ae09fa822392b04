package ports

import (
	"context"

	"github.com/jsamuelsen11/user-action-service/internal/domain/user"
)

// UserRepository is the persistence port for users. Implementations are
// created once at start-up and injected; they must be safe for concurrent
// use.
//
// Error contract: domain.ErrNotFound for unknown IDs, domain.ErrConflict for
// duplicate IDs or emails. Any other error is treated as a backend failure.
type UserRepository interface {
	// Create persists a fully built user record.
	Create(ctx context.Context, u *user.User) error

	// Get returns the user with the given ID.
	Get(ctx context.Context, id string) (*user.User, error)

	// Update applies patch to the stored record atomically and returns the
	// updated record.
	Update(ctx context.Context, id string, patch user.Patch) (*user.User, error)

	// Delete removes the user with the given ID.
	Delete(ctx context.Context, id string) error

	// List returns a page of users ordered by creation time then ID.
	List(ctx context.Context, filter user.Filter) (*user.Page, error)
}
