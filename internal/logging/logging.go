// Package logging provides structured logging using Go's slog package.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// ImportIDKey is the context key for the id of a running import.
	ImportIDKey ContextKey = "import_id"
)

var (
	// defaultLogger is the global logger instance.
	defaultLogger *slog.Logger

	output    io.Writer = os.Stderr
	curLevel            = LevelInfo
	curFormat           = FormatJSON
)

func init() {
	InitLogger(LevelInfo, FormatJSON)
}

// Level represents a log level.
type Level int

const (
	// LevelDebug is for debug messages.
	LevelDebug Level = iota
	// LevelInfo is for informational messages.
	LevelInfo
	// LevelWarn is for warning messages.
	LevelWarn
	// LevelError is for error messages.
	LevelError
)

// Format represents a log output format.
type Format int

const (
	// FormatJSON outputs logs in JSON format.
	FormatJSON Format = iota
	// FormatText outputs logs in human-readable text format.
	FormatText
)

// ParseLevel maps a configuration string to a Level. Unknown values map to
// LevelInfo and ok is false.
func ParseLevel(s string) (level Level, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, true
	case "info", "":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	}
	return LevelInfo, false
}

// ParseFormat maps a configuration string to a Format.
func ParseFormat(s string) (format Format, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json", "":
		return FormatJSON, true
	case "text":
		return FormatText, true
	}
	return FormatJSON, false
}

// InitLogger initializes the global logger with the specified level and format.
// Output goes to stderr so that exported documents can be written to stdout.
func InitLogger(level Level, format Format) {
	curLevel, curFormat = level, format
	var slogLevel slog.Level
	switch level {
	case LevelDebug:
		slogLevel = slog.LevelDebug
	case LevelInfo:
		slogLevel = slog.LevelInfo
	case LevelWarn:
		slogLevel = slog.LevelWarn
	case LevelError:
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: slogLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.String(slog.TimeKey, a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}

	var handler slog.Handler
	if format == FormatJSON {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

// SetOutput redirects the global logger to w, keeping level and format.
func SetOutput(w io.Writer) {
	output = w
	InitLogger(curLevel, curFormat)
}

// GetLogger returns the global logger instance.
func GetLogger() *slog.Logger {
	return defaultLogger
}

// WithImportID tags ctx with the id of a running import.
func WithImportID(ctx context.Context, importID string) context.Context {
	return context.WithValue(ctx, ImportIDKey, importID)
}

// GetImportID retrieves the import id from the context.
func GetImportID(ctx context.Context) string {
	if id, ok := ctx.Value(ImportIDKey).(string); ok {
		return id
	}
	return ""
}

// LoggerFromContext returns a logger with context values attached.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	logger := defaultLogger
	if id := GetImportID(ctx); id != "" {
		logger = logger.With("import_id", id)
	}
	return logger
}

// Helper functions for common logging patterns

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) {
	defaultLogger.Debug(msg, args...)
}

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) {
	defaultLogger.Info(msg, args...)
}

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) {
	defaultLogger.Warn(msg, args...)
}

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) {
	defaultLogger.Error(msg, args...)
}

// ImportStarted logs the start of an import of path by the named format.
func ImportStarted(ctx context.Context, format, path string, args ...any) {
	allArgs := []any{
		"format", format,
		"path", path,
	}
	allArgs = append(allArgs, args...)
	LoggerFromContext(ctx).Info("import_started", allArgs...)
}

// ImportWarning logs one recoverable import problem.
func ImportWarning(ctx context.Context, format, path, warning string) {
	LoggerFromContext(ctx).Warn("import_warning",
		"format", format,
		"path", path,
		"warning", warning,
	)
}

// ImportFailed logs a hard failure that aborted a document.
func ImportFailed(ctx context.Context, format, path string, err error) {
	LoggerFromContext(ctx).Error("import_failed",
		"format", format,
		"path", path,
		"error", err.Error(),
	)
}

// ImportFinished logs the counts of an import.
func ImportFinished(ctx context.Context, format, path string, created, updated, warnings int, duration time.Duration) {
	LoggerFromContext(ctx).Info("import_finished",
		"format", format,
		"path", path,
		"created", created,
		"updated", updated,
		"warnings", warnings,
		"duration_ms", duration.Milliseconds(),
	)
}

// ExportFinished logs a completed export.
func ExportFinished(format, documentID string, bytes int64, args ...any) {
	allArgs := []any{
		"format", format,
		"document_id", documentID,
		"bytes", bytes,
	}
	allArgs = append(allArgs, args...)
	defaultLogger.Info("export_finished", allArgs...)
}

// StoreOpened logs the storage backend in use.
func StoreOpened(backend, location string) {
	defaultLogger.Info("store_opened", "backend", backend, "location", location)
}
