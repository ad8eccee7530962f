package logging

import (
	"context"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

type Logger struct {
	*slog.Logger
}

type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

// ContextKey for correlation IDs
type contextKey string

const correlationIDKey contextKey = "correlation_id"

func NewLogger(level LogLevel) *Logger {
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
	}

	handler := slog.NewJSONHandler(os.Stdout, opts)
	logger := slog.New(handler)

	return &Logger{Logger: logger}
}

// WithCorrelationID adds a correlation ID to the context
func WithCorrelationID(ctx context.Context) context.Context {
	if GetCorrelationID(ctx) == "" {
		correlationID := uuid.New().String()
		return context.WithValue(ctx, correlationIDKey, correlationID)
	}
	return ctx
}

// GetCorrelationID retrieves the correlation ID from context
func GetCorrelationID(ctx context.Context) string {
	if correlationID, ok := ctx.Value(correlationIDKey).(string); ok {
		return correlationID
	}
	return ""
}

// Debug logs debug level messages with correlation ID
func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	if correlationID := GetCorrelationID(ctx); correlationID != "" {
		args = append(args, "correlation_id", correlationID)
	}
	l.Logger.Debug(msg, args...)
}

// Info logs info level messages with correlation ID
func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	if correlationID := GetCorrelationID(ctx); correlationID != "" {
		args = append(args, "correlation_id", correlationID)
	}
	l.Logger.Info(msg, args...)
}

// Warn logs warn level messages with correlation ID
func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	if correlationID := GetCorrelationID(ctx); correlationID != "" {
		args = append(args, "correlation_id", correlationID)
	}
	l.Logger.Warn(msg, args...)
}

// Error logs error level messages with correlation ID
func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	if correlationID := GetCorrelationID(ctx); correlationID != "" {
		args = append(args, "correlation_id", correlationID)
	}
	l.Logger.Error(msg, args...)
}

// LogLinkOperation logs link admission operations. Tokens are bearer
// credentials, so only a masked form is ever logged.
func (l *Logger) LogLinkOperation(ctx context.Context, operation, token string, success bool) {
	l.Logger.Info("link operation",
		"operation", operation,
		"token", MaskToken(token),
		"success", success,
		"correlation_id", GetCorrelationID(ctx),
	)
}

// LogSessionTransition logs a reading-session state change.
func (l *Logger) LogSessionTransition(ctx context.Context, sessionID, from, to string) {
	l.Logger.Info("session transition",
		"session_id", sessionID,
		"from", from,
		"to", to,
		"correlation_id", GetCorrelationID(ctx),
	)
}

// LogGeneration logs a reading-generation attempt without the prompt or
// the generated text.
func (l *Logger) LogGeneration(ctx context.Context, readingType string, cardCount int, success bool) {
	l.Logger.Info("reading generation",
		"reading_type", readingType,
		"card_count", cardCount,
		"success", success,
		"correlation_id", GetCorrelationID(ctx),
	)
}

// MaskToken keeps just enough of a token to correlate log lines.
func MaskToken(token string) string {
	if len(token) < 8 {
		return "***"
	}
	return token[:3] + "***" + token[len(token)-3:]
}
