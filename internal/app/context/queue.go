package appctx

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/jsamuelsen11/user-action-service/internal/domain"
	"github.com/jsamuelsen11/user-action-service/internal/platform/logging"
)

// step is one entry of the commit queue: a lone action or a parallel group.
type step interface {
	run(ctx context.Context) error
	// undo rolls back whatever part of the step succeeded.
	undo(ctx context.Context, logger *slog.Logger)
	String() string
}

type single struct {
	action domain.Action
}

func (s *single) run(ctx context.Context) error { return s.action.Execute(ctx) }

func (s *single) undo(ctx context.Context, logger *slog.Logger) {
	rollback(ctx, logger, s.action)
}

func (s *single) String() string { return s.action.Description() }

// group runs its actions on an errgroup, at most limit at once when
// limit > 0. The first failure cancels the members still running or
// waiting, and the members that finished are rolled back before run returns.
type group struct {
	actions []domain.Action
	limit   int
	done    []bool
}

func (g *group) run(ctx context.Context) error {
	g.done = make([]bool, len(g.actions))

	eg, egCtx := errgroup.WithContext(ctx)
	if g.limit > 0 {
		eg.SetLimit(g.limit)
	}
	for i, a := range g.actions {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			if err := a.Execute(egCtx); err != nil {
				return err
			}
			g.done[i] = true
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		g.undo(ctx, logging.FromContext(ctx))
		return err
	}
	return nil
}

// undo rolls back finished members in reverse insertion order. A second
// call is a no-op.
func (g *group) undo(ctx context.Context, logger *slog.Logger) {
	for i := len(g.done) - 1; i >= 0; i-- {
		if g.done[i] {
			g.done[i] = false
			rollback(ctx, logger, g.actions[i])
		}
	}
}

func (g *group) String() string {
	switch len(g.actions) {
	case 0:
		return "empty action group"
	case 1:
		return g.actions[0].Description()
	default:
		return fmt.Sprintf("action group (%d actions: %s, ...)", len(g.actions), g.actions[0].Description())
	}
}

// rollback logs rollback failures and carries on; the commit error already
// describes what went wrong.
func rollback(ctx context.Context, logger *slog.Logger, a domain.Action) {
	if err := a.Rollback(ctx); err != nil {
		logger.ErrorContext(ctx, "rollback failed",
			slog.String("operation", "RequestContext.Commit"),
			slog.String("action", a.Description()),
			slog.Any("error", err),
		)
	}
}

// AddAction stages a single action. It fails with ErrNilAction for a nil
// action and ErrAlreadyCommitted after Commit. Safe for concurrent use.
func (rc *RequestContext) AddAction(action domain.Action) error {
	if action == nil {
		return ErrNilAction
	}
	return rc.stage(&single{action: action})
}

// AddGroup stages actions to run in parallel when their turn comes. It
// fails with ErrNilAction if any action is nil and ErrAlreadyCommitted after
// Commit. Safe for concurrent use.
func (rc *RequestContext) AddGroup(actions ...domain.Action) error {
	for _, a := range actions {
		if a == nil {
			return ErrNilAction
		}
	}
	return rc.stage(&group{actions: actions, limit: rc.maxParallel})
}

func (rc *RequestContext) stage(s step) error {
	rc.queueMu.Lock()
	defer rc.queueMu.Unlock()
	if rc.committed {
		return ErrAlreadyCommitted
	}
	rc.steps = append(rc.steps, s)
	return nil
}

// Commit runs the staged steps in order. On the first failure the steps that
// already ran are undone newest first, rollback errors are logged, and the
// failure is returned wrapped with the step's description. The context is
// sealed either way; a second Commit returns ErrAlreadyCommitted.
func (rc *RequestContext) Commit(ctx context.Context) error {
	rc.queueMu.Lock()
	if rc.committed {
		rc.queueMu.Unlock()
		return ErrAlreadyCommitted
	}
	rc.committed = true
	steps := rc.steps
	rc.queueMu.Unlock()

	logger := logging.FromContext(ctx)
	for i, s := range steps {
		logger.DebugContext(ctx, "committing step",
			slog.Int("step", i+1),
			slog.Int("total", len(steps)),
			slog.String("action", s.String()),
		)
		if err := s.run(ctx); err != nil {
			logger.WarnContext(ctx, "commit failed, rolling back",
				slog.String("operation", "RequestContext.Commit"),
				slog.Int("failed_step", i+1),
				slog.String("action", s.String()),
				slog.Int("rollback_steps", i),
				slog.Any("error", err),
			)
			for j := i - 1; j >= 0; j-- {
				steps[j].undo(ctx, logger)
			}
			return fmt.Errorf("executing %s: %w", s, err)
		}
	}
	return nil
}
