package action

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen11/user-action-service/internal/domain"
	"github.com/jsamuelsen11/user-action-service/internal/platform/logging"
	"github.com/jsamuelsen11/user-action-service/internal/platform/telemetry"
)

const tracerName = "github.com/jsamuelsen11/user-action-service/internal/app/action"

// ErrPanic wraps a value recovered from a panicking action.
var ErrPanic = errors.New("action panicked")

// Op names one operation of an entity's action layer.
type Op struct {
	// Name is the short operation name used in logs, spans and metrics
	// (e.g. "create").
	Name string

	// Failure is the generic message shown for backend and conflict
	// failures (e.g. "Failed to create user").
	Failure string
}

// Runner executes operations for one entity type. It is safe for concurrent
// use and is shared by all requests.
type Runner struct {
	entity   string
	notFound string
	logger   *slog.Logger
	tracer   trace.Tracer
	metrics  *telemetry.Metrics
	timeout  time.Duration
}

// Option configures a Runner.
type Option func(*Runner)

// WithMetrics records entity.action.total and entity.action.duration.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithTimeout bounds each action. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) { r.timeout = d }
}

// WithTracer overrides the global tracer.
func WithTracer(t trace.Tracer) Option {
	return func(r *Runner) { r.tracer = t }
}

// NewRunner creates a Runner for the named entity (e.g. "user"). A nil
// logger discards output.
func NewRunner(entity string, logger *slog.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := &Runner{
		entity:   entity,
		notFound: capitalize(entity) + " not found",
		logger:   logger,
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Entity returns the entity name the runner was created for.
func (r *Runner) Entity() string { return r.entity }

// Run executes fn inside the action boundary and converts its outcome into a
// Result. A panic in fn becomes a KindBackend failure.
func Run[T any](ctx context.Context, r *Runner, op Op, fn func(context.Context) (*T, error)) (res Result[T]) {
	start := time.Now()

	ctx, span := r.tracer.Start(ctx, r.entity+"."+op.Name,
		trace.WithAttributes(
			telemetry.AttrEntity.String(r.entity),
			telemetry.AttrOperation.String(op.Name),
		),
	)
	defer span.End()

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	defer func() {
		if p := recover(); p != nil {
			res = Failure[T](ctx, r, op, fmt.Errorf("%w: %v", ErrPanic, p))
		}
		if !res.Success {
			span.SetStatus(codes.Error, string(res.Kind))
		}
		r.record(ctx, op, res.Outcome(), start)
	}()

	entity, err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		return Failure[T](ctx, r, op, err)
	}
	return OK(entity)
}

// Failure converts err into a failed envelope and logs it. Validation and
// not-found failures are expected and logged at warn level without the
// error chain; conflicts and backend failures are logged at error level with
// it. Only validation messages reach the caller verbatim.
func Failure[T any](ctx context.Context, r *Runner, op Op, err error) Result[T] {
	logger := logging.FromContextOr(ctx, r.logger)
	kind := Classify(err)

	switch kind {
	case KindValidation:
		res := Fail[T](kind, "Invalid input")
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			res.Error = verr.Summary()
			res.Fields = verr.Fields
		}
		logger.WarnContext(ctx, "action rejected",
			slog.String("entity", r.entity),
			slog.String("operation", op.Name),
			slog.String("reason", res.Error),
		)
		return res
	case KindNotFound:
		logger.WarnContext(ctx, "action target not found",
			slog.String("entity", r.entity),
			slog.String("operation", op.Name),
		)
		return Fail[T](kind, r.notFound)
	default:
		logger.ErrorContext(ctx, "action failed",
			slog.String("entity", r.entity),
			slog.String("operation", op.Name),
			slog.String("kind", string(kind)),
			slog.Any("error", err),
		)
		return Fail[T](kind, op.Failure)
	}
}

func (r *Runner) record(ctx context.Context, op Op, outcome string, start time.Time) {
	if r.metrics == nil {
		return
	}
	attrs := metric.WithAttributes(
		telemetry.AttrEntity.String(r.entity),
		telemetry.AttrOperation.String(op.Name),
		telemetry.AttrResult.String(outcome),
	)
	ctx = context.WithoutCancel(ctx)
	r.metrics.ActionTotal.Add(ctx, 1, attrs)
	r.metrics.ActionDuration.Record(ctx, time.Since(start).Seconds(), attrs)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
