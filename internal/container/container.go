// Package container registers the user action stack with a samber/do
// injector. The HTTP server and the CLI share it so both run the same
// store, validation and action boundary.
package container

import (
	"context"
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/jsamuelsen11/user-action-service/internal/adapters/store"
	"github.com/jsamuelsen11/user-action-service/internal/app"
	"github.com/jsamuelsen11/user-action-service/internal/app/action"
	"github.com/jsamuelsen11/user-action-service/internal/platform/config"
	"github.com/jsamuelsen11/user-action-service/internal/platform/health"
	"github.com/jsamuelsen11/user-action-service/internal/platform/telemetry"
	"github.com/jsamuelsen11/user-action-service/internal/platform/validation"
	"github.com/jsamuelsen11/user-action-service/internal/ports"
)

// Entity is the entity name used in action spans, metrics and messages.
const Entity = "user"

// Register provides the store backend, validator, services, action runner
// and health registry. cfg, logger and metrics are captured by the
// providers; metrics may be nil when telemetry is disabled.
//
// The store is opened lazily on first resolution. Callers own the
// resolved *store.Backend and must Close it on shutdown.
func Register(ctx context.Context, injector do.Injector, cfg *config.Config, logger *slog.Logger, metrics *telemetry.Metrics) {
	do.Provide(injector, func(_ do.Injector) (*store.Backend, error) {
		return store.Open(ctx, cfg, metrics, logger)
	})

	do.Provide(injector, func(i do.Injector) (ports.UserRepository, error) {
		backend, err := do.Invoke[*store.Backend](i)
		if err != nil {
			return nil, err
		}
		return backend.Repo, nil
	})

	do.Provide(injector, func(_ do.Injector) (*validation.Validator, error) {
		return validation.New(), nil
	})

	do.Provide(injector, func(i do.Injector) (*app.UserService, error) {
		repo, err := do.Invoke[ports.UserRepository](i)
		if err != nil {
			return nil, err
		}
		v := do.MustInvoke[*validation.Validator](i)
		return app.NewUserService(repo, v, logger), nil
	})

	do.Provide(injector, func(_ do.Injector) (*action.Runner, error) {
		return action.NewRunner(Entity, logger,
			action.WithMetrics(metrics),
			action.WithTimeout(cfg.Actions.Timeout),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.UserActions, error) {
		svc, err := do.Invoke[*app.UserService](i)
		if err != nil {
			return nil, err
		}
		runner := do.MustInvoke[*action.Runner](i)
		return app.NewUserActions(svc, runner, app.ImportConfig{
			Workers:  cfg.Actions.ImportWorkers,
			MaxBatch: cfg.Actions.ImportMaxBatch,
		}), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.HealthRegistry, error) {
		backend, err := do.Invoke[*store.Backend](i)
		if err != nil {
			return nil, err
		}
		registry := health.New()
		for _, c := range backend.Checkers {
			registry.Register(c)
		}
		return registry, nil
	})
}
