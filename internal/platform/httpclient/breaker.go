package httpclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"

	"github.com/sony/gobreaker/v2"

	"github.com/jsamuelsen11/user-action-service/internal/platform/config"
)

var (
	// ErrCircuitOpen marks calls the breaker refused without contacting the
	// downstream, and a failing HealthCheck while the breaker is open.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrDegraded is returned by HealthCheck while the breaker probes.
	ErrDegraded = errors.New("circuit breaker half-open")

	errThrottled = errors.New("rate limit wait")
)

func newBreaker(service string, cfg config.CircuitBreakerConfig, logger *slog.Logger) *gobreaker.CircuitBreaker[*http.Response] {
	return gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        service,
		MaxRequests: clampUint32(cfg.HalfOpenLimit),
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return int(counts.ConsecutiveFailures) >= cfg.MaxFailures
		},
		// A caller giving up or waiting on our own limiter says nothing
		// about the downstream.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, errThrottled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("peer_service", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})
}

func asCircuitOpen(service string, err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%s: %w: %w", service, ErrCircuitOpen, err)
	}
	return err
}

// Name identifies the downstream in health reports and telemetry.
func (c *Client) Name() string {
	return c.service
}

// State is the breaker state: "closed", "half-open" or "open".
func (c *Client) State() string {
	return c.breaker.State().String()
}

// HealthCheck reports downstream availability from the breaker state alone;
// no request is sent. A half-open breaker yields ErrDegraded and an open one
// ErrCircuitOpen.
func (c *Client) HealthCheck(context.Context) error {
	switch s := c.breaker.State(); s {
	case gobreaker.StateClosed:
		return nil
	case gobreaker.StateHalfOpen:
		return fmt.Errorf("%s: %w", c.service, ErrDegraded)
	case gobreaker.StateOpen:
		return fmt.Errorf("%s: %w", c.service, ErrCircuitOpen)
	default:
		return fmt.Errorf("%s: unknown circuit breaker state %v", c.service, s)
	}
}

func clampUint32(v int) uint32 {
	switch {
	case v <= 0:
		return 0
	case v > math.MaxUint32:
		return math.MaxUint32
	default:
		return uint32(v)
	}
}
