package logging

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}

	for input, want := range tests {
		assert.Equal(t, want, ParseLevel(input), "level %q", input)
	}
}

// Setup swaps the process-wide default logger, so these tests stay serial.
func TestSetupWritesToRotatingFile(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	path := filepath.Join(t.TempDir(), "logs", "assess.log")
	closer, err := Setup("warn", path)
	require.NoError(t, err)

	slog.Info("hidden message")
	slog.Warn("visible message", "kind", "assessment")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "visible message")
	assert.Contains(t, string(data), "kind=assessment")
	assert.NotContains(t, string(data), "hidden message")
}

func TestSetupWithoutFileDiscards(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	closer, err := Setup("debug", "  ")
	require.NoError(t, err)
	assert.NoError(t, closer.Close())
	assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelDebug))
}
