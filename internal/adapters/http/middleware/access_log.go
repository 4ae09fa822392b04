package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/user-action-service/internal/platform/logging"
)

// Logging stores a request-scoped logger carrying request_id and
// correlation_id in the context and writes one access line per request.
// The line level follows the outcome: error for 5xx, warn for 4xx, info
// otherwise. Request headers are logged at debug with credentials masked.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := r.Context()

			reqLogger := logger.With(
				slog.String("request_id", RequestIDFromContext(ctx)),
				slog.String("correlation_id", CorrelationIDFromContext(ctx)),
			)
			ctx = logging.WithLogger(ctx, reqLogger)
			if reqLogger.Enabled(ctx, slog.LevelDebug) {
				reqLogger.LogAttrs(ctx, slog.LevelDebug, "request headers", HeaderAttrs(r.Header))
			}

			rec := record(w)
			next.ServeHTTP(rec, r.WithContext(ctx))

			status := rec.code()
			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("route", routePattern(r)),
				slog.Int("status", status),
				slog.Int64("bytes", rec.bytes),
				slog.Duration("duration", time.Since(start)),
			}
			if id := chi.URLParam(r, "id"); id != "" {
				attrs = append(attrs, slog.String("user_id", id))
			}
			reqLogger.LogAttrs(ctx, levelFor(status), "request completed", attrs...)
		})
	}
}

// HeaderAttrs renders headers as a "headers" group with credential values
// masked and repeated values joined by commas.
func HeaderAttrs(h http.Header) slog.Attr {
	attrs := make([]any, 0, len(h))
	for name, vals := range h {
		v := strings.Join(vals, ",")
		if logging.IsCredentialHeader(name) {
			v = logging.Redacted
		}
		attrs = append(attrs, slog.String(name, v))
	}
	return slog.Group("headers", attrs...)
}

func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// routePattern is the chi pattern that matched, e.g. /api/v1/users/{id}.
// It is only complete once the router has dispatched the request.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
