package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l, closeFn, err := New(Options{Level: "info", Format: "json", Out: &buf})
	require.NoError(t, err)
	defer closeFn()

	l.Debug(context.Background(), "hidden")
	l.Info(context.Background(), "shown", "k", "v")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "v", rec["k"])
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	l, closeFn, err := New(Options{Level: "debug", Format: "text", Out: &buf})
	require.NoError(t, err)
	defer closeFn()

	l.Debug(context.Background(), "dbg")
	assert.Contains(t, buf.String(), "level=DEBUG")
}

func TestNew_AutoIsJSONForNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	l, closeFn, err := New(Options{Format: "auto", Out: &buf})
	require.NoError(t, err)
	defer closeFn()

	l.Info(context.Background(), "x")
	assert.True(t, strings.HasPrefix(buf.String(), "{"))
}

func TestNew_WritesDailyFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	now := func() time.Time { return time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC) }

	var buf bytes.Buffer
	l, closeFn, err := New(Options{Format: "text", Dir: dir, Out: &buf, Now: now})
	require.NoError(t, err)

	l.Warn(context.Background(), "to-file")
	require.NoError(t, closeFn())

	b, err := os.ReadFile(filepath.Join(dir, "app_20260309.log"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "msg=to-file")
	assert.Contains(t, buf.String(), "msg=to-file")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "", want: slog.LevelInfo},
		{in: "DEBUG", want: slog.LevelDebug},
		{in: "warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "loud", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestNop(t *testing.T) {
	l := Nop().With("a", 1)
	l.Info(context.Background(), "ignored")
	l.Error(context.Background(), "ignored")
}
