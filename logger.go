package contentbridge

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with content-operation helpers.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithScheme adds a scheme field to the logger.
func (l *Logger) WithScheme(scheme string) *Logger {
	return &Logger{
		Logger: l.Logger.With("scheme", scheme),
	}
}

// LogGetContent logs a content fetch.
func (l *Logger) LogGetContent(ctx context.Context, uri string, length int, mimeType string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "get content failed",
			"uri", uri,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "get content completed",
			"uri", uri,
			"length", length,
			"mime_type", mimeType,
		)
	}
}

// LogGetContents logs a batch fetch.
func (l *Logger) LogGetContents(ctx context.Context, count int, err error) {
	if err != nil {
		l.WarnContext(ctx, "batch get content failed, fetched buffers released",
			"count", count,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "batch get content completed",
			"count", count,
		)
	}
}

// LogWriteContent logs a content write.
func (l *Logger) LogWriteContent(ctx context.Context, uri, mode string, length int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "write content failed",
			"uri", uri,
			"mode", mode,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "write content completed",
			"uri", uri,
			"mode", mode,
			"length", length,
		)
	}
}

// LogRelease logs a buffer release.
func (l *Logger) LogRelease(ctx context.Context, size int) {
	l.DebugContext(ctx, "buffer released",
		"size", size,
	)
}
