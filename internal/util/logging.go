// Package util provides common utilities including logging helpers,
// file system paths, and string manipulation functions.
package util

import (
	"io"
	"log/slog"
)

// NewLogger builds the text logger used across the application.
func NewLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// LogError logs an error with context if it is non-nil.
func LogError(logger *slog.Logger, context string, err error) {
	if err == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.Error(context, "err", err)
}
