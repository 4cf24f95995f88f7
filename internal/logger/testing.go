package logger

import (
	"log/slog"
	"os"
)

// NewTestLogger creates a logger for tests.
// It logs at WARN so test output stays quiet; set TEST_DEBUG to see debug output.
func NewTestLogger() *slog.Logger {
	cfg := Config{Level: slog.LevelWarn, Output: os.Stdout}
	if os.Getenv("TEST_DEBUG") != "" {
		cfg.Level = slog.LevelDebug
	}
	return NewLogger(cfg)
}
