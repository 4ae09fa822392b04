package telemetry

import (
	"context"
	"errors"
	"fmt"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/jsamuelsen11/user-action-service/internal/platform/config"
)

// Providers owns the SDK providers created by Setup.
type Providers struct {
	tracer *sdktrace.TracerProvider
	meter  *sdkmetric.MeterProvider

	// Metrics is nil when telemetry is disabled.
	Metrics *Metrics
}

// Setup installs global tracer and meter providers as cfg describes. With
// telemetry disabled nothing is installed and Shutdown is a no-op.
func Setup(ctx context.Context, cfg config.TelemetryConfig) (*Providers, error) {
	if !cfg.Enabled {
		return &Providers{}, nil
	}

	p := &Providers{}
	var err error
	if p.tracer, err = InitTracer(ctx, cfg.ServiceName, cfg.Exporter, cfg.Endpoint); err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}
	if p.meter, err = InitMeter(ctx, cfg.ServiceName, cfg.Exporter, cfg.Endpoint); err != nil {
		return nil, errors.Join(fmt.Errorf("init meter: %w", err), p.Shutdown(ctx))
	}
	if p.Metrics, err = NewMetrics(p.meter, cfg.ServiceName); err != nil {
		return nil, errors.Join(err, p.Shutdown(ctx))
	}
	return p, nil
}

// Shutdown flushes and stops whichever providers Setup created.
func (p *Providers) Shutdown(ctx context.Context) error {
	var errs []error
	if p.tracer != nil {
		if err := p.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if p.meter != nil {
		if err := p.meter.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}
