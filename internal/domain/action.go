package domain

import "context"

// Action is one staged write that can be undone.
type Action interface {
	// Execute performs the write.
	Execute(ctx context.Context) error

	// Rollback reverses the effect of a previously successful Execute call.
	// Rollback is only called if Execute returned nil. The context may
	// differ from the one passed to Execute.
	Rollback(ctx context.Context) error

	// Description returns a human-readable description of the action for
	// logging purposes (e.g., "create user 3f1c...").
	Description() string
}

// WriteStager collects actions for a later all-or-nothing commit. The
// request context in internal/app/context implements it.
type WriteStager interface {
	// AddAction queues a single action for sequential execution at commit.
	AddAction(action Action) error

	// AddGroup queues actions that execute in parallel at commit. If any
	// of them fails, the completed ones are rolled back.
	AddGroup(actions ...Action) error

	// Commit executes everything staged, rolling back on the first failure.
	Commit(ctx context.Context) error
}
