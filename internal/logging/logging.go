// Package logging provides the structured slog logger shared by the serving surfaces.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

// EnvLevel selects the log level (debug, info, warn, error).
const EnvLevel = "DOCINDEX_LOG_LEVEL"

type contextKey int

const (
	loggerKey contextKey = iota
	requestIDKey
)

//nolint:gochecknoglobals // Process-wide default logger.
var (
	defaultOnce   sync.Once
	defaultLogger *slog.Logger
)

// Default returns the process-wide logger. It writes JSON to stderr so stdout stays
// free for the stdio MCP transport.
func Default() *slog.Logger {
	defaultOnce.Do(func() {
		defaultLogger = New(os.Stderr, ParseLevel(os.Getenv(EnvLevel)))
	})
	return defaultLogger
}

// New returns a JSON logger writing to w at the given level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// WithTool returns the default logger annotated with a tool name.
func WithTool(name string) *slog.Logger {
	return Default().With(slog.String("tool", name))
}

// ContextWithLogger stores logger in ctx.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext returns the logger stored in ctx, or the default logger.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return Default()
}

// ContextWithRequestID stores a request correlation id in ctx.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request id stored in ctx, if any.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithContext returns the context logger annotated with the request id.
func WithContext(ctx context.Context) *slog.Logger {
	logger := LoggerFromContext(ctx)
	if id := RequestIDFromContext(ctx); id != "" {
		logger = logger.With(slog.String("request_id", id))
	}
	return logger
}

// RequestStart logs the beginning of an operation.
func RequestStart(ctx context.Context, operation string, attrs ...slog.Attr) {
	args := make([]any, 0, len(attrs)+1)
	args = append(args, slog.String("operation", operation))
	for _, a := range attrs {
		args = append(args, a)
	}
	WithContext(ctx).DebugContext(ctx, "Request started", args...)
}

// RequestEnd logs the outcome of an operation.
func RequestEnd(ctx context.Context, operation string, status int, duration time.Duration, err error) {
	logger := WithContext(ctx)
	attrs := []any{
		slog.String("operation", operation),
		slog.Int("status", status),
		slog.Duration("duration", duration),
	}
	if err != nil {
		logger.WarnContext(ctx, "Request failed", append(attrs, slog.String("error", err.Error()))...)
		return
	}
	logger.InfoContext(ctx, "Request completed", attrs...)
}
