package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/jsamuelsen11/user-action-service/internal/app/action"
	appctx "github.com/jsamuelsen11/user-action-service/internal/app/context"
	"github.com/jsamuelsen11/user-action-service/internal/app/fanout"
	"github.com/jsamuelsen11/user-action-service/internal/domain"
	"github.com/jsamuelsen11/user-action-service/internal/domain/user"
	"github.com/jsamuelsen11/user-action-service/internal/ports"
)

// Import creates a batch of users.
//
// Non-atomic imports run every create through the action boundary with
// bounded concurrency; the report holds one envelope per input and the
// import itself succeeds even when items fail.
//
// Atomic imports validate the whole batch first, then stage one create per
// user in a RequestContext and commit them as a parallel group. If any
// create fails the ones that succeeded are deleted again, and the import
// fails with the classified cause.
func (a *UserActions) Import(ctx context.Context, inputs []user.CreateInput, atomic bool) action.Result[ports.ImportReport] {
	return action.Run(ctx, a.runner, importOp, func(ctx context.Context) (*ports.ImportReport, error) {
		if err := a.checkBatch(inputs); err != nil {
			return nil, err
		}
		if atomic {
			return a.importAtomic(ctx, inputs)
		}
		return a.importEach(ctx, inputs), nil
	})
}

func (a *UserActions) checkBatch(inputs []user.CreateInput) error {
	if len(inputs) == 0 {
		return domain.NewValidationError("users", "At least one user is required")
	}
	if a.importCfg.MaxBatch > 0 && len(inputs) > a.importCfg.MaxBatch {
		return domain.NewValidationError("users",
			fmt.Sprintf("At most %d users can be imported at once", a.importCfg.MaxBatch))
	}
	return nil
}

func (a *UserActions) importEach(ctx context.Context, inputs []user.CreateInput) *ports.ImportReport {
	results := fanout.Run(ctx, a.importCfg.Workers, inputs,
		func(ctx context.Context, in user.CreateInput) (action.Result[user.User], error) {
			return a.Create(ctx, in), nil
		},
	)

	report := &ports.ImportReport{Items: make([]action.Result[user.User], len(results))}
	for i, r := range results {
		item := r.Value
		if r.Err != nil {
			item = action.Failure[user.User](ctx, a.runner, createOp, r.Err)
		}
		report.Items[i] = item
		if item.Success {
			report.Succeeded++
		} else {
			report.Failed++
		}
	}
	return report
}

func (a *UserActions) importAtomic(ctx context.Context, inputs []user.CreateInput) (*ports.ImportReport, error) {
	users, err := a.prepareAll(inputs)
	if err != nil {
		return nil, err
	}

	rc := appctx.New(ctx, appctx.WithMaxParallel(a.importCfg.Workers))
	actions := make([]domain.Action, len(users))
	for i, u := range users {
		actions[i] = &createUserAction{repo: a.svc.repo, user: u}
	}
	if err := rc.AddGroup(actions...); err != nil {
		return nil, fmt.Errorf("staging import: %w", err)
	}
	if err := rc.Commit(ctx); err != nil {
		return nil, fmt.Errorf("importing %d users: %w", len(users), err)
	}

	report := &ports.ImportReport{
		Items:     make([]action.Result[user.User], len(users)),
		Succeeded: len(users),
	}
	for i, u := range users {
		report.Items[i] = action.OK(u)
	}
	return report, nil
}

// prepareAll validates every input and rejects emails repeated within the
// batch. Field keys are prefixed with the item index, e.g. "users[2].email".
func (a *UserActions) prepareAll(inputs []user.CreateInput) ([]*user.User, error) {
	users := make([]*user.User, 0, len(inputs))
	combined := &domain.ValidationError{Fields: map[string]string{}}
	seen := make(map[string]int, len(inputs))

	for i, in := range inputs {
		u, err := a.svc.Prepare(in)
		if err != nil {
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				return nil, err
			}
			for field, msg := range verr.Fields {
				combined.Fields[fmt.Sprintf("users[%d].%s", i, field)] = msg
			}
			if combined.Message == "" {
				combined.Message = fmt.Sprintf("User %d: %s", i+1, verr.Summary())
			}
			continue
		}
		if first, dup := seen[u.Email]; dup {
			msg := fmt.Sprintf("Duplicate of user %d", first+1)
			combined.Fields[fmt.Sprintf("users[%d].email", i)] = msg
			if combined.Message == "" {
				combined.Message = fmt.Sprintf("User %d: %s", i+1, msg)
			}
			continue
		}
		seen[u.Email] = i
		users = append(users, u)
	}

	if len(combined.Fields) > 0 {
		return nil, combined
	}
	return users, nil
}

// createUserAction is a staged create whose rollback deletes the record.
type createUserAction struct {
	repo ports.UserRepository
	user *user.User
}

func (c *createUserAction) Execute(ctx context.Context) error {
	return c.repo.Create(ctx, c.user)
}

func (c *createUserAction) Rollback(ctx context.Context) error {
	err := c.repo.Delete(context.WithoutCancel(ctx), c.user.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}

func (c *createUserAction) Description() string {
	return "create user " + c.user.ID
}
