package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// UseCaseEvent captures lightweight execution telemetry for a service use case.
type UseCaseEvent struct {
	Name      string
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
	StartedAt time.Time
}

// UseCaseObserver receives use-case execution events.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

// NoopUseCaseObserver ignores all events.
type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type logUseCaseObserver struct {
	logger *slog.Logger
}

// NewLogUseCaseObserver writes service use-case events to the provided writer.
func NewLogUseCaseObserver(w io.Writer) UseCaseObserver {
	if w == nil {
		return NoopUseCaseObserver{}
	}
	return NewSlogUseCaseObserver(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})))
}

// NewSlogUseCaseObserver reports use cases through an existing logger.
func NewSlogUseCaseObserver(logger *slog.Logger) UseCaseObserver {
	if logger == nil {
		return NoopUseCaseObserver{}
	}
	return &logUseCaseObserver{logger: logger}
}

func (o *logUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	attrs := make([]any, 0, 8+len(event.Fields)*2)
	attrs = append(attrs,
		"use_case", event.Name,
		"duration_ms", event.Duration.Milliseconds(),
		"success", event.Success,
	)
	for k, v := range event.Fields {
		attrs = append(attrs, k, v)
	}
	if event.Err != nil {
		attrs = append(attrs, "error", event.Err.Error())
		o.logger.ErrorContext(ctx, "service_use_case", attrs...)
		return
	}
	o.logger.InfoContext(ctx, "service_use_case", attrs...)
}

const instrumentationName = "github.com/dentalmark/dentalmark/internal/service"

type metricUseCaseObserver struct {
	calls    metric.Int64Counter
	duration metric.Float64Histogram
}

// NewMetricUseCaseObserver counts use cases and records their latency on
// the given meter, or the global one when m is nil.
func NewMetricUseCaseObserver(m metric.Meter) (UseCaseObserver, error) {
	if m == nil {
		m = otel.Meter(instrumentationName)
	}
	calls, err := m.Int64Counter("dentalmark.service.use_cases",
		metric.WithDescription("Service use cases executed"))
	if err != nil {
		return nil, err
	}
	duration, err := m.Float64Histogram("dentalmark.service.use_case.duration",
		metric.WithDescription("Service use case latency"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}
	return &metricUseCaseObserver{calls: calls, duration: duration}, nil
}

func (o *metricUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	attrs := metric.WithAttributes(
		attribute.String("use_case", event.Name),
		attribute.Bool("success", event.Success),
	)
	o.calls.Add(ctx, 1, attrs)
	o.duration.Record(ctx, float64(event.Duration.Microseconds())/1000, attrs)
}

type multiUseCaseObserver []UseCaseObserver

func (m multiUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	for _, o := range m {
		o.ObserveUseCase(ctx, event)
	}
}

func useCaseObserverOrNoop(observers []UseCaseObserver) UseCaseObserver {
	var live multiUseCaseObserver
	for _, obs := range observers {
		if obs != nil {
			live = append(live, obs)
		}
	}
	switch len(live) {
	case 0:
		return NoopUseCaseObserver{}
	case 1:
		return live[0]
	}
	return live
}

// observe is deferred by use cases to report their outcome.
func observe(ctx context.Context, o UseCaseObserver, name string, startedAt time.Time, fields map[string]any, err error) {
	o.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
	})
}
