// Package telemetry installs the OpenTelemetry meter provider used by the
// bus, the budget engine and the service observers.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const meterName = "github.com/dentalmark/dentalmark"

// Config holds OTel configuration.
type Config struct {
	Enabled     bool
	ServiceName string
	Interval    time.Duration
	// Writer receives JSON metric exports. Required when enabled.
	Writer io.Writer
}

// Provider owns the SDK meter provider. A disabled provider hands out a
// no-op meter and shuts down instantly.
type Provider struct {
	mp *sdkmetric.MeterProvider
}

// New builds the provider and, when enabled, installs it as the global meter
// provider so instruments created through otel.Meter export too.
func New(cfg Config) (*Provider, error) {
	if !cfg.Enabled {
		return &Provider{}, nil
	}
	if cfg.Writer == nil {
		return nil, fmt.Errorf("telemetry: enabled without a metrics writer")
	}
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("telemetry: interval must be positive, got %s", cfg.Interval)
	}

	exporter, err := stdoutmetric.New(stdoutmetric.WithWriter(cfg.Writer))
	if err != nil {
		return nil, fmt.Errorf("telemetry: creating metric exporter: %w", err)
	}

	res := resource.NewSchemaless(semconv.ServiceName(cfg.ServiceName))
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter,
			sdkmetric.WithInterval(cfg.Interval),
		)),
	)
	otel.SetMeterProvider(mp)
	return &Provider{mp: mp}, nil
}

// Enabled reports whether metrics are exported.
func (p *Provider) Enabled() bool { return p.mp != nil }

func (p *Provider) Meter() metric.Meter {
	if p.mp == nil {
		return noop.Meter{}
	}
	return p.mp.Meter(meterName)
}

// Shutdown flushes pending metrics and stops the periodic reader.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.mp == nil {
		return nil
	}
	if err := p.mp.Shutdown(ctx); err != nil {
		return fmt.Errorf("telemetry: shutdown: %w", err)
	}
	return nil
}

// Close is Shutdown bounded to five seconds.
func (p *Provider) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return p.Shutdown(ctx)
}
