package app

import (
	"context"

	"github.com/jsamuelsen11/user-action-service/internal/app/action"
	"github.com/jsamuelsen11/user-action-service/internal/domain/user"
	"github.com/jsamuelsen11/user-action-service/internal/ports"
)

// Compile-time check that UserActions implements ports.UserActions.
var _ ports.UserActions = (*UserActions)(nil)

var (
	createOp = action.Op{Name: "create", Failure: "Failed to create user"}
	getOp    = action.Op{Name: "get", Failure: "Failed to fetch user"}
	updateOp = action.Op{Name: "update", Failure: "Failed to update user"}
	deleteOp = action.Op{Name: "delete", Failure: "Failed to delete user"}
	listOp   = action.Op{Name: "list", Failure: "Failed to list users"}
	importOp = action.Op{Name: "import", Failure: "Failed to import users"}
)

// ImportConfig bounds bulk imports.
type ImportConfig struct {
	// Workers is the number of creates that run at the same time.
	Workers int

	// MaxBatch is the largest accepted batch.
	MaxBatch int
}

// UserActions is the user action layer: every operation runs UserService
// inside the action boundary and returns an envelope.
type UserActions struct {
	svc       *UserService
	runner    *action.Runner
	importCfg ImportConfig
}

// NewUserActions creates the user action layer.
func NewUserActions(svc *UserService, runner *action.Runner, cfg ImportConfig) *UserActions {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &UserActions{svc: svc, runner: runner, importCfg: cfg}
}

// Create validates in and persists a new user.
func (a *UserActions) Create(ctx context.Context, in user.CreateInput) action.Result[user.User] {
	return action.Run(ctx, a.runner, createOp, func(ctx context.Context) (*user.User, error) {
		return a.svc.CreateUser(ctx, in)
	})
}

// Get fetches a user by ID.
func (a *UserActions) Get(ctx context.Context, id string) action.Result[user.User] {
	return action.Run(ctx, a.runner, getOp, func(ctx context.Context) (*user.User, error) {
		return a.svc.GetUser(ctx, id)
	})
}

// Update applies a partial update.
func (a *UserActions) Update(ctx context.Context, id string, patch user.Patch) action.Result[user.User] {
	return action.Run(ctx, a.runner, updateOp, func(ctx context.Context) (*user.User, error) {
		return a.svc.UpdateUser(ctx, id, patch)
	})
}

// Delete removes a user. The successful envelope carries no entity.
func (a *UserActions) Delete(ctx context.Context, id string) action.Result[user.User] {
	return action.Run(ctx, a.runner, deleteOp, func(ctx context.Context) (*user.User, error) {
		return nil, a.svc.DeleteUser(ctx, id)
	})
}

// List returns a page of users.
func (a *UserActions) List(ctx context.Context, filter user.Filter) action.Result[user.Page] {
	return action.Run(ctx, a.runner, listOp, func(ctx context.Context) (*user.Page, error) {
		return a.svc.ListUsers(ctx, filter)
	})
}
