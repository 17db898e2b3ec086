// Package observability provides structured logging and metrics collection
// for the practice engine.
//
// Logger wraps log/slog with persistent component context. MetricsCollector
// (metrics.go) records counters and latency points for the cache, reminder
// dispatcher, curriculum structurer, and store.
package observability

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

// Logger wraps slog with a persistent component name.
type Logger struct {
	mu        sync.RWMutex
	inner     *slog.Logger
	component string
	fields    []slog.Attr
}

// NewLogger creates a structured logger for a given component.
// Output defaults to os.Stderr if w is nil.
func NewLogger(component string, w io.Writer) *Logger {
	if w == nil {
		w = os.Stderr
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	return &Logger{
		inner:     slog.New(handler),
		component: component,
	}
}

// NewLoggerWithHandler creates a logger with a custom slog handler.
func NewLoggerWithHandler(component string, h slog.Handler) *Logger {
	return &Logger{
		inner:     slog.New(h),
		component: component,
	}
}

// With returns a new Logger with additional persistent fields.
func (l *Logger) With(key string, value any) *Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return &Logger{
		inner:     l.inner.With(slog.Any(key, value)),
		component: l.component,
		fields:    append(l.fields, slog.Any(key, value)),
	}
}

// attrs prepends the component name to the arguments.
func (l *Logger) attrs(msg string, args []any) (string, []any) {
	return msg, append([]any{slog.String("component", l.component)}, args...)
}

// Debug logs at DEBUG level.
func (l *Logger) Debug(msg string, args ...any) {
	msg, args = l.attrs(msg, args)
	l.inner.Debug(msg, args...)
}

// Info logs at INFO level.
func (l *Logger) Info(msg string, args ...any) {
	msg, args = l.attrs(msg, args)
	l.inner.Info(msg, args...)
}

// Warn logs at WARN level.
func (l *Logger) Warn(msg string, args ...any) {
	msg, args = l.attrs(msg, args)
	l.inner.Warn(msg, args...)
}

// Error logs at ERROR level.
func (l *Logger) Error(msg string, args ...any) {
	msg, args = l.attrs(msg, args)
	l.inner.Error(msg, args...)
}

// EntityEvent logs a create/update/delete/transition event on a domain
// entity (goal, quest, skill, drill, spark, reminder).
func (l *Logger) EntityEvent(event, entityType, entityID string, args ...any) {
	allArgs := append([]any{
		slog.String("component", l.component),
		slog.String("event", event),
		slog.String("entity_type", entityType),
		slog.String("entity_id", entityID),
	}, args...)
	l.inner.Info("entity", allArgs...)
}

// SchedulerEvent logs a "what to practice today" resolution event.
func (l *Logger) SchedulerEvent(userID string, resolved int, args ...any) {
	allArgs := append([]any{
		slog.String("component", l.component),
		slog.String("user_id", userID),
		slog.Int("resolved_count", resolved),
	}, args...)
	l.inner.Info("scheduler", allArgs...)
}

// ReminderEvent logs a reminder dispatch/escalation/cancellation event.
func (l *Logger) ReminderEvent(event, reminderID string, level int, args ...any) {
	allArgs := append([]any{
		slog.String("component", l.component),
		slog.String("event", event),
		slog.String("reminder_id", reminderID),
		slog.Int("escalation_level", level),
	}, args...)
	l.inner.Info("reminder", allArgs...)
}

// CacheEvent logs a provider-cache hit/miss/stale/eviction event.
func (l *Logger) CacheEvent(outcome, category, key string, args ...any) {
	allArgs := append([]any{
		slog.String("component", l.component),
		slog.String("outcome", outcome),
		slog.String("category", category),
		slog.String("key", key),
	}, args...)
	l.inner.Debug("cache", allArgs...)
}

// ComponentName returns the component name associated with this logger.
func (l *Logger) ComponentName() string {
	return l.component
}
