// Package telemetry sets up OpenTelemetry tracing and metrics for the user
// action service, exporting to stdout in development and OTLP/HTTP
// elsewhere.
//
//	providers, err := telemetry.Setup(ctx, cfg.Telemetry)
//	defer providers.Shutdown(ctx)
//	providers.Metrics.ActionTotal.Add(ctx, 1, ...)
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.39.0"
)

// Attribute keys for metric labels.
var (
	AttrHTTPMethod  = attribute.Key("http.method")
	AttrHTTPRoute   = attribute.Key("http.route")
	AttrHTTPStatus  = attribute.Key("http.status_code")
	AttrPeerService = attribute.Key("peer.service")
	AttrResult      = attribute.Key("result")
	AttrEntity      = attribute.Key("entity")
	AttrOperation   = attribute.Key("operation")
)

// Supported exporter names for traces and metrics.
const (
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

var (
	ErrUnsupportedExporter = errors.New("telemetry: unsupported exporter")
	ErrMissingEndpoint     = errors.New("telemetry: otlp exporter requires an endpoint")
)

// Metrics holds the instruments shared by the HTTP middleware, the remote
// client and the action boundary. A nil *Metrics records nothing.
type Metrics struct {
	ServerRequestDuration metric.Float64Histogram
	ServerRequestTotal    metric.Int64Counter
	ClientRequestDuration metric.Float64Histogram
	ClientRequestTotal    metric.Int64Counter
	ActionDuration        metric.Float64Histogram
	ActionTotal           metric.Int64Counter
}

// InitTracer installs a batching TracerProvider exporting to exporter and
// the W3C trace-context and baggage propagators. Callers shut it down.
func InitTracer(ctx context.Context, serviceName, exporter, endpoint string) (*sdktrace.TracerProvider, error) {
	res, err := newResource(serviceName)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	spanExporter, err := newSpanExporter(ctx, exporter, endpoint)
	if err != nil {
		return nil, fmt.Errorf("creating span exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(spanExporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp, nil
}

// InitMeter installs a periodically exporting MeterProvider. Exporters are
// chosen as for InitTracer. Callers shut it down.
func InitMeter(ctx context.Context, serviceName, exporter, endpoint string) (*sdkmetric.MeterProvider, error) {
	res, err := newResource(serviceName)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	metricExporter, err := newMetricExporter(ctx, exporter, endpoint)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	return mp, nil
}

// NewMetrics registers the server, client and action instruments on a meter
// named scope.
func NewMetrics(mp metric.MeterProvider, scope string) (*Metrics, error) {
	meter := mp.Meter(scope)

	var errs []error
	histogram := func(name, desc string) metric.Float64Histogram {
		h, err := meter.Float64Histogram(name, metric.WithDescription(desc), metric.WithUnit("s"))
		if err != nil {
			errs = append(errs, fmt.Errorf("creating %s: %w", name, err))
		}
		return h
	}
	counter := func(name, desc, unit string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
		if err != nil {
			errs = append(errs, fmt.Errorf("creating %s: %w", name, err))
		}
		return c
	}

	m := &Metrics{
		ServerRequestDuration: histogram("http.server.request.duration", "Duration of user API requests"),
		ServerRequestTotal:    counter("http.server.request.total", "User API requests by route and status", "{request}"),
		ClientRequestDuration: histogram("http.client.request.duration", "Duration of downstream Users API calls"),
		ClientRequestTotal:    counter("http.client.request.total", "Downstream Users API calls by route and result", "{request}"),
		ActionDuration:        histogram("entity.action.duration", "Duration of entity actions"),
		ActionTotal:           counter("entity.action.total", "Entity actions by operation and result", "{action}"),
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return m, nil
}

func newResource(serviceName string) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
}

func newSpanExporter(ctx context.Context, exporter, endpoint string) (sdktrace.SpanExporter, error) {
	switch exporter {
	case ExporterStdout:
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	case ExporterOTLP:
		host, insecure, err := otlpTarget(endpoint)
		if err != nil {
			return nil, err
		}
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(host)}
		if insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		return otlptracehttp.New(ctx, opts...)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedExporter, exporter)
}

func newMetricExporter(ctx context.Context, exporter, endpoint string) (sdkmetric.Exporter, error) {
	switch exporter {
	case ExporterStdout:
		return stdoutmetric.New()
	case ExporterOTLP:
		host, insecure, err := otlpTarget(endpoint)
		if err != nil {
			return nil, err
		}
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(host)}
		if insecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		return otlpmetrichttp.New(ctx, opts...)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedExporter, exporter)
}

// otlpTarget splits a collector endpoint into host:port and whether to skip
// TLS. "https://collector:4318" uses TLS; "http://otel:4318" and a bare
// "otel:4318" do not.
func otlpTarget(endpoint string) (host string, insecure bool, err error) {
	if endpoint == "" {
		return "", false, ErrMissingEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return endpoint, true, nil
	}
	return u.Host, u.Scheme != "https", nil
}
