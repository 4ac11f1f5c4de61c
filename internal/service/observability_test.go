package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestLogUseCaseObserver(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(&buf)

	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name:     "add-treatment",
		Duration: 3 * time.Millisecond,
		Success:  true,
		Fields:   map[string]any{"company": "c1"},
	})
	out := buf.String()
	assert.Contains(t, out, "use_case=add-treatment")
	assert.Contains(t, out, "company=c1")
	assert.Contains(t, out, "level=INFO")

	buf.Reset()
	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "delete-company", Err: errors.New("boom")})
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "error=boom")
}

func TestNewLogUseCaseObserver_NilWriter(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil))
}

func TestUseCaseObserverOrNoop_FansOut(t *testing.T) {
	a, b := &recordingObserver{}, &recordingObserver{}
	metrics, err := NewMetricUseCaseObserver(noop.Meter{})
	require.NoError(t, err)

	obs := useCaseObserverOrNoop([]UseCaseObserver{nil, a, metrics, b})
	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "x"})
	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 1)

	assert.IsType(t, NoopUseCaseObserver{}, useCaseObserverOrNoop(nil))
	assert.Same(t, a, useCaseObserverOrNoop([]UseCaseObserver{a}))
}
