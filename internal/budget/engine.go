// Package budget turns the markers placed on a visit's images into priced
// budget lines, a grand total and a payment session plan.
package budget

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dentalmark/dentalmark/internal/domain"
	"github.com/dentalmark/dentalmark/internal/events"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/dentalmark/dentalmark/internal/budget"

// CostLookup resolves a treatment name to its unit cost. Unknown names
// resolve to zero.
type CostLookup interface {
	TreatmentCost(name string) decimal.Decimal
}

// CostFunc adapts a function to CostLookup.
type CostFunc func(name string) decimal.Decimal

func (f CostFunc) TreatmentCost(name string) decimal.Decimal { return f(name) }

// NoCosts prices every treatment at zero.
var NoCosts CostLookup = CostFunc(func(string) decimal.Decimal { return decimal.Zero })

// Option configures an Engine.
type Option func(*Engine)

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func WithMeter(m metric.Meter) Option {
	return func(e *Engine) { e.meter = m }
}

// Engine owns the canonical marker collection of a visit. All budget figures
// are derived from it on demand.
type Engine struct {
	mu       sync.Mutex
	markers  []domain.Marker
	byID     map[string]int
	override int

	costs  CostLookup
	pub    events.Publisher
	logger *slog.Logger
	meter  metric.Meter

	mutations metric.Int64Counter
}

// New creates an engine that prices lines with costs and announces every
// change on pub.
func New(costs CostLookup, pub events.Publisher, opts ...Option) (*Engine, error) {
	if costs == nil {
		costs = NoCosts
	}
	if pub == nil {
		pub = events.Discard
	}
	e := &Engine{
		byID:   make(map[string]int),
		costs:  costs,
		pub:    pub,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.meter == nil {
		e.meter = otel.Meter(instrumentationName)
	}

	var err error
	e.mutations, err = e.meter.Int64Counter(
		"dentalmark.budget.mutations",
		metric.WithDescription("Changes applied to the budget marker collection"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating mutation counter: %w", err)
	}
	return e, nil
}

// Subscribe wires the engine to the marker events of bus.
func (e *Engine) Subscribe(bus *events.Bus) func() {
	unsubs := []func(){
		bus.Subscribe(events.MarkerPlaced, e.Handle),
		bus.Subscribe(events.MarkerRemoved, e.Handle),
		bus.Subscribe(events.AllCleared, e.Handle),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// Handle applies a marker event. Other kinds are ignored.
func (e *Engine) Handle(ev events.Event) error {
	switch ev.Kind {
	case events.MarkerPlaced:
		if ev.Marker == nil {
			return fmt.Errorf("%s event without marker", ev.Kind)
		}
		e.RecordMarker(*ev.Marker)
	case events.MarkerRemoved:
		e.RemoveMarker(ev.MarkerID)
	case events.AllCleared:
		e.RemoveAllForImage(ev.ImageIndex)
	}
	return nil
}

// RecordMarker adds m to the collection. Recording an id that is already
// present does nothing.
func (e *Engine) RecordMarker(m domain.Marker) {
	e.mu.Lock()
	if _, ok := e.byID[m.ID]; ok {
		e.mu.Unlock()
		return
	}
	e.markers = append(e.markers, m)
	e.byID[m.ID] = len(e.markers) - 1
	e.mu.Unlock()

	e.changed("record")
}

// RemoveMarker drops the marker with the given id. Unknown ids are ignored.
func (e *Engine) RemoveMarker(id string) {
	e.mu.Lock()
	i, ok := e.byID[id]
	if !ok {
		e.mu.Unlock()
		return
	}
	e.markers = append(e.markers[:i:i], e.markers[i+1:]...)
	e.reindexLocked()
	e.mu.Unlock()

	e.changed("remove")
}

// RemoveAllForImage drops every marker placed on image k and returns how
// many were removed.
func (e *Engine) RemoveAllForImage(k int) int {
	e.mu.Lock()
	kept := e.markers[:0:0]
	for _, m := range e.markers {
		if m.ImageIndex != k {
			kept = append(kept, m)
		}
	}
	removed := len(e.markers) - len(kept)
	if removed > 0 {
		e.markers = kept
		e.reindexLocked()
	}
	e.mu.Unlock()

	if removed > 0 {
		e.changed("remove_image")
	}
	return removed
}

func (e *Engine) reindexLocked() {
	e.byID = make(map[string]int, len(e.markers))
	for i, m := range e.markers {
		e.byID[m.ID] = i
	}
}

// SetSessionCount stores the user's chosen number of sessions. Zero resets
// to the suggested count.
func (e *Engine) SetSessionCount(n int) error {
	if n < 0 {
		return domain.ErrInvalidSessionCount
	}
	e.mu.Lock()
	if e.override == n {
		e.mu.Unlock()
		return nil
	}
	e.override = n
	e.mu.Unlock()

	e.changed("sessions")
	return nil
}

// SessionCount returns the override, or the suggestion when none is set.
func (e *Engine) SessionCount() int {
	e.mu.Lock()
	n := e.override
	e.mu.Unlock()
	if n > 0 {
		return n
	}
	return e.SuggestedSessionCount()
}

// ComputeLines groups the markers by treatment name, in order of first
// appearance.
func (e *Engine) ComputeLines() []domain.BudgetLine {
	e.mu.Lock()
	markers := make([]domain.Marker, len(e.markers))
	copy(markers, e.markers)
	e.mu.Unlock()
	return e.linesFor(markers)
}

func (e *Engine) linesFor(markers []domain.Marker) []domain.BudgetLine {
	pos := make(map[string]int)
	var lines []domain.BudgetLine
	for _, m := range markers {
		if i, ok := pos[m.TreatmentName]; ok {
			lines[i].Count++
			continue
		}
		pos[m.TreatmentName] = len(lines)
		lines = append(lines, domain.BudgetLine{TreatmentName: m.TreatmentName, Count: 1})
	}
	for i := range lines {
		lines[i].UnitCost = e.costs.TreatmentCost(lines[i].TreatmentName)
		lines[i].LineTotal = lines[i].UnitCost.Mul(decimal.NewFromInt(int64(lines[i].Count)))
	}
	return lines
}

// GrandTotal is the sum of all line totals.
func (e *Engine) GrandTotal() decimal.Decimal {
	return sumLines(e.ComputeLines())
}

func sumLines(lines []domain.BudgetLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.LineTotal)
	}
	return total
}

// SuggestedSessionCount is ceil(total / DefaultSessionAmount), at least 1.
func (e *Engine) SuggestedSessionCount() int {
	return SuggestSessions(e.GrandTotal())
}

// SuggestSessions is the session suggestion for an arbitrary total.
func SuggestSessions(total decimal.Decimal) int {
	n := int(total.Div(decimal.NewFromInt(domain.DefaultSessionAmount)).Ceil().IntPart())
	if n < 1 {
		return 1
	}
	return n
}

// ComputeSessionPlan splits the grand total evenly over n sessions.
func (e *Engine) ComputeSessionPlan(n int) (domain.SessionPlan, error) {
	return PlanSessions(e.GrandTotal(), n)
}

// PlanSessions splits total evenly over n sessions without rounding.
func PlanSessions(total decimal.Decimal, n int) (domain.SessionPlan, error) {
	if n < 1 {
		return domain.SessionPlan{}, fmt.Errorf("%d sessions: %w", n, domain.ErrInvalidSessionCount)
	}
	return domain.SessionPlan{
		SessionCount:     n,
		AmountPerSession: total.Div(decimal.NewFromInt(int64(n))),
	}, nil
}

// Summary derives lines, total, suggestion and the active plan from one
// consistent view of the collection.
func (e *Engine) Summary() domain.Summary {
	e.mu.Lock()
	markers := make([]domain.Marker, len(e.markers))
	copy(markers, e.markers)
	override := e.override
	e.mu.Unlock()

	lines := e.linesFor(markers)
	total := sumLines(lines)
	suggested := SuggestSessions(total)
	n := suggested
	if override > 0 {
		n = override
	}
	plan, _ := PlanSessions(total, n)
	return domain.Summary{
		Lines:      lines,
		GrandTotal: total,
		Suggested:  suggested,
		Plan:       plan,
	}
}

// Markers returns the whole collection in insertion order.
func (e *Engine) Markers() []domain.Marker {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]domain.Marker, len(e.markers))
	copy(out, e.markers)
	return out
}

// MarkersForImage returns the markers placed on image k in insertion order.
func (e *Engine) MarkersForImage(k int) []domain.Marker {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []domain.Marker
	for _, m := range e.markers {
		if m.ImageIndex == k {
			out = append(out, m)
		}
	}
	return out
}

// ImageIndexes lists the images that carry at least one marker, in order
// of first marker.
func (e *Engine) ImageIndexes() []int {
	e.mu.Lock()
	defer e.mu.Unlock()
	seen := make(map[int]bool)
	var out []int
	for _, m := range e.markers {
		if !seen[m.ImageIndex] {
			seen[m.ImageIndex] = true
			out = append(out, m.ImageIndex)
		}
	}
	return out
}

func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.markers)
}

func (e *Engine) changed(op string) {
	e.mutations.Add(context.Background(), 1, metric.WithAttributes(attribute.String("op", op)))
	s := e.Summary()
	e.logger.Debug("budget changed",
		"op", op,
		"markers", s.MarkerCount(),
		"total", s.GrandTotal.String(),
		"sessions", s.Plan.SessionCount,
	)
	e.pub.Publish(events.Budget(s))
}
