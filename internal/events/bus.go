package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/dentalmark/dentalmark/internal/events"

// Option configures a Bus.
type Option func(*Bus)

// WithLogger sets the logger used for handler failures.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bus) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithMeter overrides the global OTel meter.
func WithMeter(m metric.Meter) Option {
	return func(b *Bus) {
		b.meter = m
	}
}

type subscription struct {
	id   uint64
	kind Kind
	all  bool
	fn   Handler
}

// Bus delivers events synchronously to subscribers in registration order.
// Publishes are serialised: an event published from inside a handler is
// queued and delivered after the current event has reached every handler.
type Bus struct {
	mu       sync.Mutex
	subs     []subscription
	nextID   uint64
	queue    []Event
	draining bool

	logger *slog.Logger
	meter  metric.Meter

	published     metric.Int64Counter
	handlerErrors metric.Int64Counter
}

// NewBus creates a bus. Metrics use the global OTel meter unless overridden
// (a no-op when no provider is installed).
func NewBus(opts ...Option) (*Bus, error) {
	b := &Bus{logger: slog.Default()}
	for _, opt := range opts {
		opt(b)
	}
	if b.meter == nil {
		b.meter = otel.Meter(instrumentationName)
	}

	var err error
	b.published, err = b.meter.Int64Counter(
		"dentalmark.events.published",
		metric.WithDescription("Events published on the annotation bus"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating published counter: %w", err)
	}
	b.handlerErrors, err = b.meter.Int64Counter(
		"dentalmark.events.handler_errors",
		metric.WithDescription("Event handlers that returned an error"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating handler error counter: %w", err)
	}
	return b, nil
}

// Subscribe registers fn for one event kind and returns a function that
// removes the subscription. Calling the returned function twice is harmless.
func (b *Bus) Subscribe(kind Kind, fn Handler) func() {
	return b.add(subscription{kind: kind, fn: fn})
}

// SubscribeAll registers fn for every event kind.
func (b *Bus) SubscribeAll(fn Handler) func() {
	return b.add(subscription{all: true, fn: fn})
}

func (b *Bus) add(s subscription) func() {
	b.mu.Lock()
	b.nextID++
	s.id = b.nextID
	b.subs = append(b.subs, s)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(s.id) })
	}
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Len returns the number of active subscriptions.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Publish queues e and, unless a delivery is already in progress, drains the
// queue in arrival order. A handler panic propagates to the caller that
// started the drain; events still queued at that point are dropped and the
// bus accepts new publishes again.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	b.queue = append(b.queue, e)
	if b.draining {
		b.mu.Unlock()
		return
	}
	b.draining = true
	b.mu.Unlock()

	drained := false
	defer func() {
		if drained {
			return
		}
		b.mu.Lock()
		b.queue = nil
		b.draining = false
		b.mu.Unlock()
	}()

	for {
		b.mu.Lock()
		if len(b.queue) == 0 {
			b.draining = false
			b.mu.Unlock()
			drained = true
			return
		}
		next := b.queue[0]
		b.queue = b.queue[1:]
		subs := make([]subscription, len(b.subs))
		copy(subs, b.subs)
		b.mu.Unlock()

		b.deliver(next, subs)
	}
}

func (b *Bus) deliver(e Event, subs []subscription) {
	kindAttr := metric.WithAttributes(attribute.String("kind", string(e.Kind)))
	b.published.Add(context.Background(), 1, kindAttr)

	for _, s := range subs {
		if !s.all && s.kind != e.Kind {
			continue
		}
		if err := s.fn(e); err != nil {
			b.handlerErrors.Add(context.Background(), 1, kindAttr)
			b.logger.Error("event handler failed", "kind", e.Kind, "error", err)
		}
	}
}
