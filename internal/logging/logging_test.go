package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"Error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestSetup_FansOutToSinks(t *testing.T) {
	var console, file, graylog bytes.Buffer
	logger := Setup(Options{Level: "info", Console: &console, File: &file, Graylog: &graylog})

	logger.Debug("hidden")
	logger.Info("budget changed", "total", "3800")

	assert.NotContains(t, console.String(), "hidden")
	assert.Contains(t, console.String(), `msg="budget changed"`)
	assert.Contains(t, file.String(), "total=3800")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(graylog.Bytes(), &rec))
	assert.Equal(t, "budget changed", rec["msg"])
	assert.Equal(t, "3800", rec["total"])
}

type failingHandler struct{}

func (failingHandler) Enabled(context.Context, slog.Level) bool { return true }
func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("sink down") }
func (f failingHandler) WithAttrs([]slog.Attr) slog.Handler { return f }
func (f failingHandler) WithGroup(string) slog.Handler { return f }

func TestMultiHandler_SurvivesFailingSink(t *testing.T) {
	var buf bytes.Buffer
	h := NewMultiHandler(nil, failingHandler{}, slog.NewTextHandler(&buf, nil))
	logger := slog.New(h).With("visit", "v1").WithGroup("marker")

	logger.Info("placed", "id", "m1")
	assert.Contains(t, buf.String(), "visit=v1")
	assert.Contains(t, buf.String(), "marker.id=m1")
}

func TestOpenGraylog(t *testing.T) {
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer conn.Close()

	w, err := OpenGraylog(conn.LocalAddr().String())
	require.NoError(t, err)
	defer w.Close()
	assert.Equal(t, facility, w.Facility)
}
