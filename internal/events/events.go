// Package events carries state-change notifications from annotation surfaces
// and the budget engine to their subscribers.
package events

import "github.com/dentalmark/dentalmark/internal/domain"

// Kind identifies an event type.
type Kind string

const (
	MarkerPlaced     Kind = "marker_placed"
	MarkerRemoved    Kind = "marker_removed"
	AllCleared       Kind = "all_cleared"
	SelectionChanged Kind = "selection_changed"
	BudgetChanged    Kind = "budget_changed"
	Notice           Kind = "notice"
)

// NoticeLevel grades user-facing notices.
type NoticeLevel string

const (
	LevelInfo    NoticeLevel = "info"
	LevelSuccess NoticeLevel = "success"
	LevelError   NoticeLevel = "error"
)

// Event is a single notification. Only the fields relevant to Kind are set:
//
//	MarkerPlaced      Marker
//	MarkerRemoved     MarkerID, ImageIndex
//	AllCleared        ImageIndex, Removed
//	SelectionChanged  Marker (nil when cleared), ImageIndex
//	BudgetChanged     Summary
//	Notice            Level, Message
type Event struct {
	Kind       Kind
	Marker     *domain.Marker
	MarkerID   string
	ImageIndex int
	Removed    []domain.Marker
	Summary    *domain.Summary
	Level      NoticeLevel
	Message    string
}

// Handler consumes an event. A returned error is logged and counted; it does
// not stop delivery to other handlers.
type Handler func(Event) error

// Publisher is the write side of the bus.
type Publisher interface {
	Publish(e Event)
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(Event)

func (f PublisherFunc) Publish(e Event) { f(e) }

// Discard drops every event.
var Discard Publisher = PublisherFunc(func(Event) {})

func Placed(m domain.Marker) Event {
	return Event{Kind: MarkerPlaced, Marker: &m, MarkerID: m.ID, ImageIndex: m.ImageIndex}
}

func Removed(m domain.Marker) Event {
	return Event{Kind: MarkerRemoved, MarkerID: m.ID, ImageIndex: m.ImageIndex}
}

func Cleared(imageIndex int, removed []domain.Marker) Event {
	return Event{Kind: AllCleared, ImageIndex: imageIndex, Removed: removed}
}

func Selected(imageIndex int, m *domain.Marker) Event {
	return Event{Kind: SelectionChanged, ImageIndex: imageIndex, Marker: m}
}

func Budget(s domain.Summary) Event {
	return Event{Kind: BudgetChanged, Summary: &s}
}

func Noticef(level NoticeLevel, msg string) Event {
	return Event{Kind: Notice, Level: level, Message: msg}
}
