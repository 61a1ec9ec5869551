package log

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	ts := time.Date(2025, 12, 6, 10, 45, 0, 0, time.UTC)

	line := format(ts, LevelError, CatRegistry, "lookup failed", "name", "customer", "segment", "title")
	require.Equal(t, "2025-12-06T10:45:00 [ERROR] [registry] lookup failed name=customer segment=title\n", line)
}

func TestFormat_OddFields(t *testing.T) {
	ts := time.Date(2025, 12, 6, 10, 45, 0, 0, time.UTC)

	line := format(ts, LevelDebug, CatSelector, "parsed", "tokens")
	require.Equal(t, "2025-12-06T10:45:00 [DEBUG] [selector] parsed tokens=<missing>\n", line)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
		err  bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"loud", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestWriterLogger_MinLevelAndToggle(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, LevelInfo)
	t.Cleanup(func() { defaultLogger = nil })

	Debug(CatCache, "hidden")
	Info(CatCache, "shown", "key", "Order")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "[INFO] [cache] shown key=Order")

	SetEnabled(false)
	Warn(CatCache, "muted")
	require.NotContains(t, buf.String(), "muted")

	SetEnabled(true)
	SetMinLevel(LevelDebug)
	Debug(CatCache, "now visible")
	require.Contains(t, buf.String(), "now visible")

	ErrorErr(CatCache, "boom", errors.New("disk full"))
	require.Contains(t, buf.String(), "error=disk full")
}

func TestNewListener_ReceivesEntries(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, LevelDebug)
	t.Cleanup(func() { defaultLogger = nil })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listener := NewListener(ctx)
	require.NotNil(t, listener)

	Info(CatServer, "listening", "addr", "127.0.0.1:7420")

	event, ok := listener.Next()
	require.True(t, ok)
	require.Contains(t, event.Payload, "addr=127.0.0.1:7420")
}

func TestNewListener_NoLogger(t *testing.T) {
	defaultLogger = nil
	require.Nil(t, NewListener(context.Background()))
}
