// Package rediscache decorates a user repository with a Redis read-through
// cache. The wrapped repository stays the source of truth: cache errors are
// logged and otherwise ignored.
//
// Every write bumps a per-user generation counter. A fill only lands when
// the generation it read before touching the repository is still current,
// so a slow read can never put back a record that was updated or deleted
// in the meantime.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jsamuelsen11/user-action-service/internal/domain"
	"github.com/jsamuelsen11/user-action-service/internal/domain/user"
	"github.com/jsamuelsen11/user-action-service/internal/platform/logging"
	"github.com/jsamuelsen11/user-action-service/internal/ports"
)

// Compile-time check that Cache implements ports.UserRepository.
var _ ports.UserRepository = (*Cache)(nil)

const (
	defaultTTL    = 5 * time.Minute
	defaultPrefix = "users:"
)

// Cache is a caching ports.UserRepository.
type Cache struct {
	next   ports.UserRepository
	rdb    redis.UniversalClient
	ttl    time.Duration
	prefix string
	logger *slog.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL sets how long entries live. Non-positive values keep the default.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(c *Cache) {
		if prefix != "" {
			c.prefix = prefix
		}
	}
}

// WithLogger sets the fallback logger used when the context carries none.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New wraps next with a cache backed by rdb.
func New(next ports.UserRepository, rdb redis.UniversalClient, opts ...Option) *Cache {
	c := &Cache{
		next:   next,
		rdb:    rdb,
		ttl:    defaultTTL,
		prefix: defaultPrefix,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ping checks the Redis connection.
func (c *Cache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

type entry struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"emailVerified"`
	Image         *string   `json:"image,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

var errStale = errors.New("cache generation moved")

func (c *Cache) key(id string) string {
	return c.prefix + id
}

func (c *Cache) genKey(id string) string {
	return c.prefix + "gen:" + id
}

// Create writes through and primes the cache.
func (c *Cache) Create(ctx context.Context, u *user.User) error {
	gen, ok := c.generation(ctx, u.ID)
	if err := c.next.Create(ctx, u); err != nil {
		return err
	}
	if ok {
		c.store(ctx, u, gen)
	}
	return nil
}

// Get serves from the cache, falling back to the wrapped repository on a
// miss or a cache failure.
func (c *Cache) Get(ctx context.Context, id string) (*user.User, error) {
	if u, ok := c.load(ctx, id); ok {
		return u, nil
	}

	gen, ok := c.generation(ctx, id)
	u, err := c.next.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if ok {
		c.store(ctx, u, gen)
	}
	return u, nil
}

// Update writes through and invalidates the entry.
func (c *Cache) Update(ctx context.Context, id string, patch user.Patch) (*user.User, error) {
	u, err := c.next.Update(ctx, id, patch)
	c.invalidate(ctx, id)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Delete removes the record and its entry.
func (c *Cache) Delete(ctx context.Context, id string) error {
	err := c.next.Delete(ctx, id)
	if err == nil || errors.Is(err, domain.ErrNotFound) {
		c.invalidate(ctx, id)
	}
	return err
}

// List is not cached.
func (c *Cache) List(ctx context.Context, filter user.Filter) (*user.Page, error) {
	return c.next.List(ctx, filter)
}

func (c *Cache) load(ctx context.Context, id string) (*user.User, bool) {
	raw, err := c.rdb.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.warn(ctx, "cache read failed", id, err)
		}
		return nil, false
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		c.warn(ctx, "cache entry corrupt", id, err)
		c.invalidate(ctx, id)
		return nil, false
	}
	return &user.User{
		ID:            e.ID,
		Name:          e.Name,
		Email:         e.Email,
		EmailVerified: e.EmailVerified,
		Image:         e.Image,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}, true
}

// generation reads the write counter for id. ok is false when Redis cannot
// answer, in which case the caller skips the fill.
func (c *Cache) generation(ctx context.Context, id string) (gen int64, ok bool) {
	gen, err := c.rdb.Get(ctx, c.genKey(id)).Int64()
	switch {
	case err == nil:
		return gen, true
	case errors.Is(err, redis.Nil):
		return 0, true
	default:
		c.warn(ctx, "cache read failed", id, err)
		return 0, false
	}
}

// store writes u unless a write has bumped its generation past gen.
func (c *Cache) store(ctx context.Context, u *user.User, gen int64) {
	raw, err := json.Marshal(entry{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
		Image:         u.Image,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	})
	if err != nil {
		c.warn(ctx, "cache encode failed", u.ID, err)
		return
	}

	genKey := c.genKey(u.ID)
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return errStale
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, c.key(u.ID), raw, c.ttl)
			return nil
		})
		return err
	}, genKey)

	switch {
	case err == nil:
	case errors.Is(err, errStale), errors.Is(err, redis.TxFailedErr):
		logging.FromContextOr(ctx, c.logger).DebugContext(ctx, "cache fill skipped",
			slog.String("user_id", u.ID),
		)
	default:
		c.warn(ctx, "cache write failed", u.ID, err)
	}
}

// invalidate bumps the generation and drops the entry in one transaction.
func (c *Cache) invalidate(ctx context.Context, id string) {
	ctx = context.WithoutCancel(ctx)
	genKey := c.genKey(id)
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.Expire(ctx, genKey, c.ttl)
		pipe.Del(ctx, c.key(id))
		return nil
	})
	if err != nil {
		c.warn(ctx, "cache invalidate failed", id, err)
	}
}

func (c *Cache) warn(ctx context.Context, msg, id string, err error) {
	logging.FromContextOr(ctx, c.logger).WarnContext(ctx, msg,
		slog.String("user_id", id),
		slog.Any("error", err),
	)
}
