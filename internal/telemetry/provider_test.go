package telemetry

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestNew_DisabledHandsOutNoopMeter(t *testing.T) {
	p, err := New(Config{})
	require.NoError(t, err)

	assert.False(t, p.Enabled())
	assert.IsType(t, noop.Meter{}, p.Meter())
	assert.NoError(t, p.Close())
}

func TestNew_EnabledRequiresWriter(t *testing.T) {
	_, err := New(Config{Enabled: true, Interval: time.Second})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "writer")
}

func TestNew_EnabledRequiresInterval(t *testing.T) {
	_, err := New(Config{Enabled: true, Writer: &bytes.Buffer{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interval")
}

func TestNew_EnabledExportsOnShutdown(t *testing.T) {
	prev := otel.GetMeterProvider()
	t.Cleanup(func() { otel.SetMeterProvider(prev) })

	var buf bytes.Buffer
	p, err := New(Config{Enabled: true, ServiceName: "dentalmark-test", Interval: time.Hour, Writer: &buf})
	require.NoError(t, err)
	require.True(t, p.Enabled())

	counter, err := otel.Meter("budget").Int64Counter("dentalmark.test.markers")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	require.NoError(t, p.Shutdown(context.Background()))

	out := buf.String()
	assert.Contains(t, out, "dentalmark.test.markers")
	assert.Contains(t, out, "dentalmark-test")
}
