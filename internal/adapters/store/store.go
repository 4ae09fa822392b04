// Package store selects and assembles the user persistence backend from
// configuration.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/redis/go-redis/v9"

	"github.com/jsamuelsen11/user-action-service/internal/adapters/clients/acl"
	"github.com/jsamuelsen11/user-action-service/internal/adapters/store/dynamostore"
	"github.com/jsamuelsen11/user-action-service/internal/adapters/store/memory"
	"github.com/jsamuelsen11/user-action-service/internal/adapters/store/postgres"
	"github.com/jsamuelsen11/user-action-service/internal/adapters/store/rediscache"
	"github.com/jsamuelsen11/user-action-service/internal/adapters/store/sqlite"
	"github.com/jsamuelsen11/user-action-service/internal/platform/config"
	"github.com/jsamuelsen11/user-action-service/internal/platform/health"
	"github.com/jsamuelsen11/user-action-service/internal/platform/httpclient"
	"github.com/jsamuelsen11/user-action-service/internal/platform/telemetry"
	"github.com/jsamuelsen11/user-action-service/internal/ports"
)

// RemoteServiceName identifies the downstream Users API in traces, metrics
// and health output.
const RemoteServiceName = "users-api"

// Backend is an opened repository together with its health checks.
type Backend struct {
	Repo     ports.UserRepository
	Checkers []ports.HealthChecker
	closers  []func() error
}

// Close releases every resource in reverse order of acquisition.
func (b *Backend) Close() error {
	var errs []error
	for _, c := range slices.Backward(b.closers) {
		errs = append(errs, c())
	}
	b.closers = nil
	return errors.Join(errs...)
}

func (b *Backend) add(checker ports.HealthChecker, closer func() error) {
	if checker != nil {
		b.Checkers = append(b.Checkers, checker)
	}
	if closer != nil {
		b.closers = append(b.closers, closer)
	}
}

// Open builds the backend named by cfg.Store.Backend, wrapped in the Redis
// cache when enabled. Client settings apply to the remote backend only.
func Open(ctx context.Context, cfg *config.Config, metrics *telemetry.Metrics, logger *slog.Logger) (*Backend, error) {
	b := &Backend{}

	switch cfg.Store.Backend {
	case config.BackendMemory:
		b.Repo = memory.New()

	case config.BackendSQLite:
		s, err := sqlite.Open(ctx, cfg.Store.SQLite.Path)
		if err != nil {
			return nil, err
		}
		b.Repo = s
		b.add(health.NewChecker("sqlite", s.Ping), s.Close)

	case config.BackendPostgres:
		pg := cfg.Store.Postgres
		s, err := postgres.Open(ctx, pg.DSN, postgres.PoolConfig{
			MaxOpenConns:    pg.MaxOpenConns,
			MaxIdleConns:    pg.MaxIdleConns,
			ConnMaxLifetime: pg.ConnMaxLifetime,
		})
		if err != nil {
			return nil, err
		}
		b.Repo = s
		b.add(health.NewChecker("postgres", s.Ping), s.Close)

	case config.BackendDynamoDB:
		d := cfg.Store.DynamoDB
		s, err := dynamostore.Open(ctx, dynamostore.Config{
			Table:           d.Table,
			Region:          d.Region,
			Endpoint:        d.Endpoint,
			AccessKeyID:     d.AccessKeyID,
			SecretAccessKey: d.SecretAccessKey,
		})
		if err != nil {
			return nil, err
		}
		b.Repo = s
		b.add(health.NewChecker("dynamodb", s.Ping), nil)

	case config.BackendRemote:
		client := acl.NewUserClient(httpclient.New(&cfg.Client, RemoteServiceName, metrics, logger), logger)
		b.Repo = client
		b.add(client, nil)

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	if c := cfg.Store.Cache; c.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     c.Addr,
			Password: c.Password,
			DB:       c.DB,
		})
		cache := rediscache.New(b.Repo, rdb,
			rediscache.WithTTL(c.TTL),
			rediscache.WithPrefix(c.Prefix),
			rediscache.WithLogger(logger),
		)
		b.Repo = cache
		b.add(health.NewChecker("redis", cache.Ping), rdb.Close)
	}

	logger.InfoContext(ctx, "user store opened",
		slog.String("backend", cfg.Store.Backend),
		slog.Bool("cache", cfg.Store.Cache.Enabled),
	)
	return b, nil
}
