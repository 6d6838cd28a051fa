// Package logging routes slog output to a rotating file so command output on
// stdout stays machine readable.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

const logDirMode = 0o700

// Setup installs a text slog handler writing to filename as the default
// logger. An empty filename discards all records. The returned closer
// releases the log file.
func Setup(level, filename string) (io.Closer, error) {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	if strings.TrimSpace(filename) == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, opts)))
		return nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(filename), logDirMode); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	logWriter := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    5,
		MaxBackups: 3,
		MaxAge:     14,
		Compress:   true,
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(logWriter, opts)))
	return logWriter, nil
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
