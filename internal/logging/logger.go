// Package logging configures the process-wide slog logger. Console
// output is human-readable text on stderr so that crawl results on
// stdout stay clean; file output is JSON with size-based rotation.
package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Config represents the logging configuration
type Config struct {
	Level      slog.Level
	FilePath   string // empty disables file output
	MaxSizeMB  int64
	MaxBackups int
	Console    bool
}

// DefaultConfig returns the default logging configuration
func DefaultConfig() *Config {
	return &Config{
		Level:      slog.LevelInfo,
		FilePath:   "",
		MaxSizeMB:  100,
		MaxBackups: 5,
		Console:    true,
	}
}

// ParseLevel converts a string log level to slog.Level
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a logger with the given configuration. Console and
// file destinations use different formats, so each gets its own handler
// and records are fanned out to both.
func NewLogger(config Config) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: config.Level}

	var handlers []slog.Handler

	if config.Console {
		handlers = append(handlers, slog.NewTextHandler(os.Stderr, opts))
	}

	if config.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(config.FilePath), 0755); err != nil {
			return nil, err
		}

		fileWriter, err := NewRotatingFile(
			config.FilePath,
			config.MaxSizeMB*1024*1024,
			config.MaxBackups,
		)
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, slog.NewJSONHandler(fileWriter, opts))
	}

	switch len(handlers) {
	case 0:
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
	case 1:
		return slog.New(handlers[0]), nil
	default:
		return slog.New(newTeeHandler(handlers...)), nil
	}
}

// SetDefault creates and sets a default logger with the given configuration
func SetDefault(config Config) error {
	logger, err := NewLogger(config)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	return nil
}
