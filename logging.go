package assetcache

import "log/slog"

// Logger provides the cache's diagnostic logging. It wraps an *slog.Logger
// and is nil-safe: the zero Logger and NewNopLogger discard everything, so
// logging call sites never need to guard against a missing logger.
type Logger struct {
	s *slog.Logger
}

// NewLogger returns a Logger writing through the given slog logger.
func NewLogger(s *slog.Logger) *Logger {
	return &Logger{s: s}
}

// NewNopLogger returns a Logger that discards all messages.
func NewNopLogger() *Logger {
	return &Logger{}
}

// Debug logs a debug-level message.
func (l *Logger) Debug(msg string, args ...any) {
	if l != nil && l.s != nil {
		l.s.Debug(msg, args...)
	}
}

// Info logs an info-level message.
func (l *Logger) Info(msg string, args ...any) {
	if l != nil && l.s != nil {
		l.s.Info(msg, args...)
	}
}

// Warn logs a warning-level message.
func (l *Logger) Warn(msg string, args ...any) {
	if l != nil && l.s != nil {
		l.s.Warn(msg, args...)
	}
}

// Error logs an error-level message.
func (l *Logger) Error(msg string, args ...any) {
	if l != nil && l.s != nil {
		l.s.Error(msg, args...)
	}
}

// With returns a Logger with additional context fields attached to every
// message.
func (l *Logger) With(args ...any) *Logger {
	if l == nil || l.s == nil {
		return l
	}
	return &Logger{s: l.s.With(args...)}
}
