package logger

import "github.com/user/vidplay/pkg/ports"

// NoopLogger is a logger that discards all messages.
// Used for --quiet.
type NoopLogger struct{}

// NewNoop creates a new no-op logger.
func NewNoop() *NoopLogger {
	return &NoopLogger{}
}

// Debug does nothing.
func (l *NoopLogger) Debug(msg string, args ...any) {}

// Info does nothing.
func (l *NoopLogger) Info(msg string, args ...any) {}

// Warn does nothing.
func (l *NoopLogger) Warn(msg string, args ...any) {}

// Error does nothing.
func (l *NoopLogger) Error(msg string, args ...any) {}

// WithComponent returns the same no-op logger.
func (l *NoopLogger) WithComponent(component string) ports.Logger {
	return l
}
