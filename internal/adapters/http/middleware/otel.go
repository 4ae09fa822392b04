package middleware

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen11/user-action-service/internal/platform/telemetry"
)

const tracerName = "users-api/http"

// OpenTelemetry joins the caller's W3C trace, opens a server span, and
// records request metrics. Span names and metric labels use the matched chi
// route ("PATCH /api/v1/users/{id}"), never the raw path. A nil metrics skips
// recording.
func OpenTelemetry(metrics *telemetry.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			ctx, span := otel.Tracer(tracerName).Start(ctx, r.Method,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					telemetry.AttrHTTPMethod.String(r.Method),
					attribute.String("http.target", r.URL.Path),
				),
			)
			defer span.End()

			rec := record(w)
			next.ServeHTTP(rec, r.WithContext(ctx))

			route := routePattern(r)
			status := rec.code()
			span.SetName(r.Method + " " + route)
			span.SetAttributes(
				telemetry.AttrHTTPRoute.String(route),
				telemetry.AttrHTTPStatus.Int(status),
			)
			if status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(status))
			}

			if metrics == nil {
				return
			}
			result := "success"
			if status >= http.StatusBadRequest {
				result = "error"
			}
			attrs := metric.WithAttributes(
				telemetry.AttrHTTPMethod.String(r.Method),
				telemetry.AttrHTTPRoute.String(route),
				telemetry.AttrHTTPStatus.Int(status),
				telemetry.AttrResult.String(result),
			)
			metrics.ServerRequestDuration.Record(ctx, time.Since(start).Seconds(), attrs)
			metrics.ServerRequestTotal.Add(ctx, 1, attrs)
		})
	}
}
