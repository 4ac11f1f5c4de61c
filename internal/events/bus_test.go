package events

import (
	"errors"
	"testing"

	"github.com/dentalmark/dentalmark/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

func newTestBus(t *testing.T) *Bus {
	t.Helper()
	b, err := NewBus(WithMeter(noop.Meter{}))
	require.NoError(t, err)
	return b
}

func TestBus_DeliversToKindSubscribers(t *testing.T) {
	b := newTestBus(t)
	var placed, removed int
	b.Subscribe(MarkerPlaced, func(Event) error { placed++; return nil })
	b.Subscribe(MarkerRemoved, func(Event) error { removed++; return nil })

	b.Publish(Placed(domain.Marker{ID: "m1"}))
	b.Publish(Placed(domain.Marker{ID: "m2"}))
	b.Publish(Removed(domain.Marker{ID: "m1"}))

	assert.Equal(t, 2, placed)
	assert.Equal(t, 1, removed)
}

func TestBus_SubscribeAllSeesEverything(t *testing.T) {
	b := newTestBus(t)
	rec := &Recorder{}
	b.SubscribeAll(rec.Handle)

	b.Publish(Placed(domain.Marker{ID: "m1"}))
	b.Publish(Noticef(LevelInfo, "hola"))

	assert.Equal(t, []Kind{MarkerPlaced, Notice}, rec.Kinds())
}

func TestBus_UnsubscribeIsIdempotent(t *testing.T) {
	b := newTestBus(t)
	calls := 0
	unsub := b.Subscribe(Notice, func(Event) error { calls++; return nil })
	other := b.Subscribe(Notice, func(Event) error { return nil })
	require.Equal(t, 2, b.Len())

	unsub()
	unsub()
	assert.Equal(t, 1, b.Len())

	b.Publish(Noticef(LevelInfo, "x"))
	assert.Equal(t, 0, calls)

	other()
	assert.Equal(t, 0, b.Len())
}

func TestBus_ReentrantPublishKeepsArrivalOrder(t *testing.T) {
	b := newTestBus(t)
	var order []string

	b.Subscribe(MarkerPlaced, func(e Event) error {
		order = append(order, "placed:"+e.MarkerID)
		b.Publish(Noticef(LevelSuccess, "added "+e.MarkerID))
		return nil
	})
	b.Subscribe(MarkerPlaced, func(e Event) error {
		order = append(order, "second:"+e.MarkerID)
		return nil
	})
	b.Subscribe(Notice, func(e Event) error {
		order = append(order, "notice:"+e.Message)
		return nil
	})

	b.Publish(Placed(domain.Marker{ID: "a"}))

	assert.Equal(t, []string{"placed:a", "second:a", "notice:added a"}, order)
}

func TestBus_HandlerErrorDoesNotStopDelivery(t *testing.T) {
	b := newTestBus(t)
	reached := false
	b.Subscribe(Notice, func(Event) error { return errors.New("boom") })
	b.Subscribe(Notice, func(Event) error { reached = true; return nil })

	b.Publish(Noticef(LevelError, "x"))
	assert.True(t, reached)
}

func TestBus_RecoversAfterHandlerPanic(t *testing.T) {
	b := newTestBus(t)
	rec := &Recorder{}
	b.Subscribe(MarkerPlaced, func(e Event) error {
		b.Publish(Noticef(LevelInfo, "queued behind "+e.MarkerID))
		if e.MarkerID == "bad" {
			panic("handler bug")
		}
		return nil
	})
	b.SubscribeAll(rec.Handle)

	assert.Panics(t, func() { b.Publish(Placed(domain.Marker{ID: "bad"})) })
	assert.Empty(t, rec.Kinds(), "the queued notice is dropped with the failed drain")

	b.Publish(Placed(domain.Marker{ID: "good"}))
	assert.Equal(t, []Kind{MarkerPlaced, Notice}, rec.Kinds())
	last, ok := rec.Last(Notice)
	require.True(t, ok)
	assert.Equal(t, "queued behind good", last.Message)
}

func TestRecorder_Last(t *testing.T) {
	rec := &Recorder{}
	rec.Publish(Noticef(LevelInfo, "first"))
	rec.Publish(Placed(domain.Marker{ID: "m"}))
	rec.Publish(Noticef(LevelInfo, "second"))

	e, ok := rec.Last(Notice)
	require.True(t, ok)
	assert.Equal(t, "second", e.Message)

	_, ok = rec.Last(BudgetChanged)
	assert.False(t, ok)

	rec.Reset()
	assert.Empty(t, rec.Events())
}
