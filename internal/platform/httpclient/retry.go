package httpclient

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jsamuelsen11/user-action-service/internal/platform/logging"
)

// jitterFraction spreads each delay by up to ±25%.
const jitterFraction = 0.25

type retryPolicy struct {
	maxAttempts     int
	initialInterval time.Duration
	maxInterval     time.Duration
	multiplier      float64
}

// attempts is how many sends req may get. Creates are only replayed when
// they carry an Idempotency-Key; the remote store sets it to the user ID.
func (p retryPolicy) attempts(req *http.Request) int {
	if isReplayable(req) {
		return p.maxAttempts
	}
	return 1
}

// delay is the wait before retry number attempt (1-based). A Retry-After
// from the server lengthens it, never beyond maxInterval.
func (p retryPolicy) delay(attempt int, retryAfter time.Duration) time.Duration {
	d := backoff(attempt, p)
	if retryAfter > d {
		d = min(retryAfter, p.maxInterval)
	}
	return d
}

// sendWithRetry sends req up to the policy's attempt count, replaying a
// buffered copy of the body each time. Transport errors other than caller
// cancellation and statuses 429 or 5xx are retried. After the last attempt
// at a retryable status the response is returned alongside the error with
// its body unread.
func (c *Client) sendWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	if c.retry.maxAttempts <= 0 {
		return nil, fmt.Errorf("httpclient: maxAttempts must be >= 1, got %d", c.retry.maxAttempts)
	}
	body, err := bufferRequestBody(req)
	if err != nil {
		return nil, err
	}

	maxAttempts := c.retry.attempts(req)
	var (
		lastErr    error
		retryAfter time.Duration
	)
	for attempt := range maxAttempts {
		if attempt > 0 {
			if err := c.pause(ctx, req, attempt, maxAttempts, retryAfter, lastErr); err != nil {
				return nil, err
			}
		}
		resetRequestBody(req, body)

		resp, err := c.http.Do(req)
		if err != nil {
			if !isRetryable(err) {
				return nil, err
			}
			lastErr, retryAfter = err, 0
			continue
		}
		if !isRetryableStatus(resp.StatusCode) {
			return resp, nil
		}

		lastErr = fmt.Errorf("%s: HTTP %d", c.service, resp.StatusCode)
		if attempt == maxAttempts-1 {
			return resp, lastErr
		}
		retryAfter = parseRetryAfter(resp.Header.Get("Retry-After"))
		drainResponseBody(resp)
	}
	return nil, lastErr
}

// pause logs the upcoming retry and sleeps unless ctx ends first.
func (c *Client) pause(ctx context.Context, req *http.Request, attempt, maxAttempts int, retryAfter time.Duration, lastErr error) error {
	d := c.retry.delay(attempt, retryAfter)

	logging.FromContextOr(ctx, c.logger).WarnContext(ctx, "retrying downstream request",
		slog.String("operation", "httpclient.Do"),
		slog.String("peer_service", c.service),
		slog.String("method", req.Method),
		slog.String("route", routeOf(ctx, req)),
		slog.Int("attempt", attempt+1),
		slog.Int("max_attempts", maxAttempts),
		slog.Duration("backoff", d),
		slog.Any("error", lastErr),
	)

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func isReplayable(req *http.Request) bool {
	switch req.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodPut, http.MethodDelete:
		return true
	}
	return req.Header.Get("Idempotency-Key") != ""
}

// parseRetryAfter reads a Retry-After value in seconds. HTTP-date values and
// garbage yield zero.
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func bufferRequestBody(req *http.Request) ([]byte, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	defer func() { _ = req.Body.Close() }()

	b, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, fmt.Errorf("reading request body: %w", err)
	}
	return b, nil
}

func resetRequestBody(req *http.Request, body []byte) {
	if body == nil {
		return
	}
	req.Body = io.NopCloser(bytes.NewReader(body))
	req.ContentLength = int64(len(body))
}

// drainResponseBody lets the connection be reused for the next attempt.
func drainResponseBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

// backoff is initialInterval·multiplier^(attempt-1), capped at maxInterval,
// with jitter applied after the cap.
func backoff(attempt int, p retryPolicy) time.Duration {
	d := float64(p.initialInterval) * math.Pow(p.multiplier, float64(attempt-1))
	d = min(d, float64(p.maxInterval))
	d += d * jitterFraction * (2*randUnit() - 1)
	return time.Duration(max(d, 0))
}

// randUnit returns a float64 in [0, 1) built from 53 random bits.
func randUnit() float64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0.5
	}
	return float64(binary.BigEndian.Uint64(b[:])>>11) / (1 << 53)
}

// isRetryable rejects caller cancellation and deadline errors; any other
// transport error is worth another attempt.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
