package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/user-action-service/internal/platform/httpclient"
)

const (
	headerRequestID     = "X-Request-ID"
	headerCorrelationID = "X-Correlation-ID"

	maxIDLength = 128
)

type (
	requestIDKey     struct{}
	correlationIDKey struct{}
)

// WithRequestID stores id in ctx for this package and for outbound calls
// made through httpclient.
func WithRequestID(ctx context.Context, id string) context.Context {
	return httpclient.WithRequestID(context.WithValue(ctx, requestIDKey{}, id), id)
}

// RequestIDFromContext returns the request ID, or "" when none is set.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// WithCorrelationID stores id in ctx for this package and for outbound calls
// made through httpclient.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return httpclient.WithCorrelationID(context.WithValue(ctx, correlationIDKey{}, id), id)
}

// CorrelationIDFromContext returns the correlation ID, or "" when none is set.
func CorrelationIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey{}).(string)
	return id
}

// RequestID adopts a well-formed inbound X-Request-ID or mints a UUID v4,
// echoing the chosen value on the response.
func RequestID() func(http.Handler) http.Handler {
	return propagateID(headerRequestID, WithRequestID, func(*http.Request) string {
		return uuid.NewString()
	})
}

// CorrelationID adopts a well-formed inbound X-Correlation-ID and otherwise
// falls back to the request ID, so it must run after RequestID.
func CorrelationID() func(http.Handler) http.Handler {
	return propagateID(headerCorrelationID, WithCorrelationID, func(r *http.Request) string {
		return RequestIDFromContext(r.Context())
	})
}

func propagateID(
	header string,
	store func(context.Context, string) context.Context,
	fallback func(*http.Request) string,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(header)
			if !validID(id) {
				id = fallback(r)
			}
			w.Header().Set(header, id)
			next.ServeHTTP(w, r.WithContext(store(r.Context(), id)))
		})
	}
}

// validID accepts short printable ASCII tokens without spaces.
func validID(id string) bool {
	if id == "" || len(id) > maxIDLength {
		return false
	}
	for i := range len(id) {
		if c := id[i]; c <= ' ' || c > '~' {
			return false
		}
	}
	return true
}
