// Package logging builds the service's slog logger and carries the
// request-scoped logger through context.
//
// Error logs name the operation and the entity and carry the whole chain:
//
//	logging.FromContext(ctx).ErrorContext(ctx, "action failed",
//	    slog.String("operation", "update"),
//	    slog.String("user_id", id),
//	    slog.Any("error", err),
//	)
//
// Behind the logging middleware the context logger already has request_id
// and correlation_id. Contact fields, credentials and connection strings are
// masked by every logger New returns.
package logging

import (
	"context"
	"io"
	"log/slog"
)

// Output formats accepted by New.
const (
	FormatJSON = "json"
	FormatText = "text"
)

type loggerKey struct{}

// New returns a logger writing format to w at level ("debug", "info", "warn"
// or "error", any case; anything else means info). Debug loggers also record
// the source location. Any format other than FormatText writes JSON.
func New(level, format string, w io.Writer) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:       lvl,
		AddSource:   lvl <= slog.LevelDebug,
		ReplaceAttr: newRedactAttr(),
	}
	if format == FormatText {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger stored in ctx, or slog.Default.
func FromContext(ctx context.Context) *slog.Logger {
	return FromContextOr(ctx, slog.Default())
}

// FromContextOr returns the logger stored in ctx, or fallback. Components
// built with their own logger use it to pick up request attributes.
func FromContextOr(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return fallback
}
