package ports

import (
	"context"

	"github.com/jsamuelsen11/user-action-service/internal/app/action"
	"github.com/jsamuelsen11/user-action-service/internal/domain/user"
)

// UserService defines the service port for user operations using Go error
// returns. Implemented by the application layer.
type UserService interface {
	// CreateUser validates the input, assigns an ID and timestamps, and
	// persists the record.
	// Returns domain.ErrValidation if the input fails the schema.
	CreateUser(ctx context.Context, in user.CreateInput) (*user.User, error)

	// GetUser returns a single user by ID.
	// Returns domain.ErrNotFound if the user does not exist.
	GetUser(ctx context.Context, id string) (*user.User, error)

	// UpdateUser validates and applies a partial update.
	// Returns domain.ErrValidation for an empty or invalid patch (without
	// contacting the repository) and domain.ErrNotFound for unknown IDs.
	UpdateUser(ctx context.Context, id string, patch user.Patch) (*user.User, error)

	// DeleteUser removes a user.
	// Returns domain.ErrNotFound if the user does not exist.
	DeleteUser(ctx context.Context, id string) error

	// ListUsers returns a page of users.
	ListUsers(ctx context.Context, filter user.Filter) (*user.Page, error)
}

// UserActions is the action boundary for users. Every method returns a
// result envelope and never an error or panic; callers branch on
// Result.Success and Result.Kind.
type UserActions interface {
	Create(ctx context.Context, in user.CreateInput) action.Result[user.User]
	Get(ctx context.Context, id string) action.Result[user.User]
	Update(ctx context.Context, id string, patch user.Patch) action.Result[user.User]
	Delete(ctx context.Context, id string) action.Result[user.User]
	List(ctx context.Context, filter user.Filter) action.Result[user.Page]

	// Import creates many users. In atomic mode either all are created or
	// none are; otherwise each item succeeds or fails on its own.
	Import(ctx context.Context, inputs []user.CreateInput, atomic bool) action.Result[ImportReport]
}

// ImportReport holds the per-item outcomes of a bulk import, in input order.
type ImportReport struct {
	Items     []action.Result[user.User]
	Succeeded int
	Failed    int
}
