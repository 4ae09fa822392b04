// Package httpclient is the outbound HTTP stack used by the remote user
// store. Every call passes, in order, through
//
//	Circuit Breaker → Rate Limiter → ID Propagation → Client Span → Retry → net/http
//
// and is recorded in the client request metrics.
//
//	client := httpclient.New(&cfg.Client, "users-api", metrics, logger)
//	req, _ := client.NewRequest(httpclient.WithRoute(ctx, "/api/v1/users/{id}"), http.MethodGet, "/api/v1/users/"+id, nil)
//	resp, err := client.Do(ctx, req)
//
// Inbound middleware seeds the IDs forwarded downstream:
//
//	ctx = httpclient.WithRequestID(ctx, "req-123")
//	ctx = httpclient.WithCorrelationID(ctx, "corr-456")
package httpclient

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/jsamuelsen11/user-action-service/internal/platform/config"
	"github.com/jsamuelsen11/user-action-service/internal/platform/telemetry"
)

// Client sends requests to one downstream service.
type Client struct {
	http    *http.Client
	baseURL string
	service string
	breaker *gobreaker.CircuitBreaker[*http.Response]
	limiter *rate.Limiter // nil disables rate limiting
	retry   retryPolicy
	metrics *telemetry.Metrics
	logger  *slog.Logger
}

// New builds a Client for the service named service, which labels its
// breaker, spans, metrics, and health entry. metrics may be nil.
func New(cfg *config.ClientConfig, service string, metrics *telemetry.Metrics, logger *slog.Logger) *Client {
	c := &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		service: service,
		retry: retryPolicy{
			maxAttempts:     cfg.Retry.MaxAttempts,
			initialInterval: cfg.Retry.InitialInterval,
			maxInterval:     cfg.Retry.MaxInterval,
			multiplier:      cfg.Retry.Multiplier,
		},
		metrics: metrics,
		logger:  logger,
	}
	c.breaker = newBreaker(service, cfg.CircuitBreaker, logger)
	if rps := cfg.RateLimit.RequestsPerSecond; rps > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(rps), cfg.RateLimit.BurstSize)
	}
	return c
}

// NewRequest builds a request for path relative to the configured base URL.
func (c *Client) NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	if body == nil {
		body = http.NoBody
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+strings.TrimLeft(path, "/"), body)
	if err != nil {
		return nil, fmt.Errorf("%s: building %s %s: %w", c.service, method, path, err)
	}
	return req, nil
}

// Do sends req through the breaker, limiter, and retry loop.
//
// A non-retryable status returns resp with an open body and a nil error.
// When retries run out on a retryable status both resp and err are non-nil
// and the caller still owns resp.Body. A breaker rejection returns an error
// matching ErrCircuitOpen and a nil resp.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	start := time.Now()
	route := routeOf(ctx, req)

	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("%w: %w", errThrottled, err)
			}
		}

		propagateIDs(ctx, req)

		spanCtx, span := c.startSpan(ctx, req, route)
		defer span.End()

		r, err := c.sendWithRetry(spanCtx, req.WithContext(spanCtx))
		c.finishSpan(span, r, err)
		return r, err
	})
	err = asCircuitOpen(c.service, err)

	c.recordMetrics(ctx, req.Method, route, start, resp, err)
	return resp, err
}
