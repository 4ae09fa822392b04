// Command server serves the user actions over HTTP. The profile comes from
// APP_PROFILE; SIGINT or SIGTERM drains in-flight requests, closes the store
// and flushes telemetry.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/do/v2"

	adapthttp "github.com/jsamuelsen11/user-action-service/internal/adapters/http"
	"github.com/jsamuelsen11/user-action-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/user-action-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/user-action-service/internal/adapters/store"
	"github.com/jsamuelsen11/user-action-service/internal/container"
	"github.com/jsamuelsen11/user-action-service/internal/platform/config"
	"github.com/jsamuelsen11/user-action-service/internal/platform/logging"
	"github.com/jsamuelsen11/user-action-service/internal/platform/telemetry"
	"github.com/jsamuelsen11/user-action-service/internal/ports"
)

const flushTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	profile := os.Getenv("APP_PROFILE")
	if profile == "" {
		return errors.New("APP_PROFILE environment variable is required (e.g. local, dev, qa, prod)")
	}

	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr).
		With(slog.String("profile", profile), slog.String("backend", cfg.Store.Backend))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	providers, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	defer flush(logger, "telemetry", providers.Shutdown)

	injector := do.New()
	container.Register(ctx, injector, cfg, logger, providers.Metrics)
	provideHTTP(injector, cfg, logger, providers.Metrics)

	// Resolving the server opens the store.
	server, err := do.Invoke[*adapthttp.Server](injector)
	if err != nil {
		return fmt.Errorf("resolving server: %w", err)
	}
	backend := do.MustInvoke[*store.Backend](injector)
	defer flush(logger, "store", func(context.Context) error { return backend.Close() })

	if err := server.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	logger.Info("shutdown complete")
	return nil
}

// flush runs a shutdown step on a fresh deadline, logging its failure.
func flush(logger *slog.Logger, what string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		logger.Error("shutdown step failed", slog.String("step", what), slog.Any("error", err))
	}
}

func provideHTTP(injector do.Injector, cfg *config.Config, logger *slog.Logger, metrics *telemetry.Metrics) {
	do.Provide(injector, func(i do.Injector) (nethttp.Handler, error) {
		actions, err := do.Invoke[ports.UserActions](i)
		if err != nil {
			return nil, err
		}
		registry, err := do.Invoke[ports.HealthRegistry](i)
		if err != nil {
			return nil, err
		}
		return adapthttp.NewRouter(
			handlers.NewUserHandler(actions),
			handlers.NewHealthHandler(registry),
			middleware.Recovery(logger),
			middleware.CORS(cfg.Server.CORS),
			middleware.RequestID(),
			middleware.CorrelationID(),
			middleware.OpenTelemetry(metrics),
			middleware.Logging(logger),
			middleware.Timeout(cfg.Server.WriteTimeout),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*adapthttp.Server, error) {
		handler, err := do.Invoke[nethttp.Handler](i)
		if err != nil {
			return nil, err
		}
		return adapthttp.NewServer(cfg.Server, handler, logger), nil
	})
}
