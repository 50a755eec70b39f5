package disruptdb

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with disruptdb-specific context.
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
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithFile adds the file path currently being processed.
func (l *Logger) WithFile(path string) *Logger {
	return &Logger{
		Logger: l.Logger.With("file", path),
	}
}

// WithCodec adds a codec name field to the logger.
func (l *Logger) WithCodec(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("codec", name),
	}
}

// LogIngestFile logs the outcome of compacting one snapshot file.
func (l *Logger) LogIngestFile(ctx context.Context, path string, bytes int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "ingest failed",
			"file", path,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "ingest completed",
			"file", path,
			"bytes", bytes,
		)
	}
}

// LogParseSkip logs a malformed snapshot that was counted and skipped.
func (l *Logger) LogParseSkip(ctx context.Context, path string, err error) {
	l.WarnContext(ctx, "skipping malformed snapshot",
		"file", path,
		"error", err,
	)
}

// LogSave logs one serialized database file.
func (l *Logger) LogSave(ctx context.Context, codec, filename string, bytes int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "save failed",
			"codec", codec,
			"filename", filename,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "database saved",
			"codec", codec,
			"filename", filename,
			"bytes", bytes,
		)
	}
}

// LogRun logs the summary of an ingestion run.
func (l *Logger) LogRun(ctx context.Context, files, skipped, records int) {
	if skipped > 0 {
		l.WarnContext(ctx, "ingestion completed with skipped files",
			"files", files,
			"skipped", skipped,
			"records", records,
		)
	} else {
		l.InfoContext(ctx, "ingestion completed",
			"files", files,
			"records", records,
		)
	}
}
