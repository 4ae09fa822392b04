package httpclient

import (
	"context"
	"errors"
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

const tracerName = "users-api/httpclient"

// startSpan opens a client span and writes its W3C trace context into the
// outbound headers.
func (c *Client) startSpan(ctx context.Context, req *http.Request, route string) (context.Context, trace.Span) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, req.Method+" "+c.service+" "+route,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			telemetry.AttrHTTPMethod.String(req.Method),
			telemetry.AttrHTTPRoute.String(route),
			telemetry.AttrPeerService.String(c.service),
			attribute.String("http.url", req.URL.String()),
		),
	)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
	return ctx, span
}

func (c *Client) finishSpan(span trace.Span, resp *http.Response, err error) {
	if resp != nil {
		span.SetAttributes(telemetry.AttrHTTPStatus.Int(resp.StatusCode))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// recordMetrics runs outside the breaker so rejected calls are counted with
// result "circuit_open" and status 0.
func (c *Client) recordMetrics(ctx context.Context, method, route string, start time.Time, resp *http.Response, err error) {
	if c.metrics == nil {
		return
	}

	status, result := 0, "error"
	if resp != nil {
		status = resp.StatusCode
		if status < http.StatusBadRequest {
			result = "success"
		}
	}
	if errors.Is(err, ErrCircuitOpen) {
		result = "circuit_open"
	}

	attrs := metric.WithAttributes(
		telemetry.AttrHTTPMethod.String(method),
		telemetry.AttrHTTPRoute.String(route),
		telemetry.AttrHTTPStatus.Int(status),
		telemetry.AttrPeerService.String(c.service),
		telemetry.AttrResult.String(result),
	)
	c.metrics.ClientRequestDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	c.metrics.ClientRequestTotal.Add(ctx, 1, attrs)
}
