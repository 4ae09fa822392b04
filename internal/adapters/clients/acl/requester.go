package acl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/jsamuelsen11/user-action-service/internal/domain"
	"github.com/jsamuelsen11/user-action-service/internal/platform/httpclient"
	"github.com/jsamuelsen11/user-action-service/internal/platform/logging"
)

// Requester runs one JSON call against the Users API: encode, send through
// the instrumented client, check the status, translate failures, decode.
type Requester struct {
	client *httpclient.Client
	logger *slog.Logger
}

// NewRequester creates a Requester backed by client.
func NewRequester(client *httpclient.Client, logger *slog.Logger) *Requester {
	return &Requester{client: client, logger: logger}
}

// Call describes one request. Route is the path template used for telemetry.
// Body is encoded when non-nil and Out receives the decoded response when
// non-nil.
type Call struct {
	Method     string
	Route      string
	Path       string
	WantStatus int
	Body       any
	Out        any
	Header     http.Header
}

// Do executes c. Any status other than WantStatus goes through
// TranslateHTTPError; a breaker rejection becomes domain.ErrUnavailable.
func (r *Requester) Do(ctx context.Context, c Call) error {
	var body io.Reader
	if c.Body != nil {
		raw, err := json.Marshal(c.Body)
		if err != nil {
			return fmt.Errorf("encoding %s %s: %w", c.Method, c.Route, err)
		}
		body = bytes.NewReader(raw)
	}

	ctx = httpclient.WithRoute(ctx, c.Route)
	req, err := r.client.NewRequest(ctx, c.Method, c.Path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range c.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := r.client.Do(ctx, req)
	if resp != nil {
		defer r.closeBody(ctx, resp)
	}
	switch {
	case resp != nil && resp.StatusCode != c.WantStatus:
		// Retries exhausted on a 5xx also land here, with err set.
		translated := TranslateHTTPError(resp)
		r.log(ctx).DebugContext(ctx, "users api call failed",
			slog.String("method", c.Method),
			slog.String("route", c.Route),
			slog.Int("status", resp.StatusCode),
			slog.Any("error", translated),
		)
		return translated
	case errors.Is(err, httpclient.ErrCircuitOpen):
		return fmt.Errorf("%s %s: %w: %w", c.Method, c.Route, domain.ErrUnavailable, err)
	case err != nil:
		r.log(ctx).ErrorContext(ctx, "users api call failed",
			slog.String("method", c.Method),
			slog.String("route", c.Route),
			slog.Any("error", err),
		)
		return fmt.Errorf("%s %s: %w", c.Method, c.Route, err)
	}

	if c.Out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(c.Out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", c.Method, c.Route, err)
	}
	return nil
}

// Name and HealthCheck expose the client's breaker as a health checker.
func (r *Requester) Name() string {
	return r.client.Name()
}

func (r *Requester) HealthCheck(ctx context.Context) error {
	return r.client.HealthCheck(ctx)
}

func (r *Requester) closeBody(ctx context.Context, resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		r.log(ctx).WarnContext(ctx, "closing users api response body", slog.Any("error", err))
	}
}

func (r *Requester) log(ctx context.Context) *slog.Logger {
	return logging.FromContextOr(ctx, r.logger)
}
