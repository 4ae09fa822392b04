package httpclient

import (
	"context"
	"net/http"
)

type (
	requestIDKey     struct{}
	correlationIDKey struct{}
	routeKey         struct{}
)

// WithRequestID sets the X-Request-ID forwarded on outbound calls.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// WithCorrelationID sets the X-Correlation-ID forwarded on outbound calls.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// WithRoute names the downstream route template ("/api/v1/users/{id}") used
// for span names and the http.route metric label in place of the concrete
// path.
func WithRoute(ctx context.Context, route string) context.Context {
	return context.WithValue(ctx, routeKey{}, route)
}

// routeOf prefers the route set on ctx and then the one on req's own
// context.
func routeOf(ctx context.Context, req *http.Request) string {
	for _, c := range []context.Context{ctx, req.Context()} {
		if r, ok := c.Value(routeKey{}).(string); ok && r != "" {
			return r
		}
	}
	return "unrouted"
}

var forwardedIDs = []struct {
	key    any
	header string
}{
	{requestIDKey{}, "X-Request-ID"},
	{correlationIDKey{}, "X-Correlation-ID"},
}

func propagateIDs(ctx context.Context, req *http.Request) {
	for _, f := range forwardedIDs {
		if id, ok := ctx.Value(f.key).(string); ok && id != "" {
			req.Header.Set(f.header, id)
		}
	}
}
