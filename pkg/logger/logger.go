// Package logger defines the structured logging contract used across the XPX scoring service.
// The concrete implementation lives in internal/infrastructure/monitoring and is backed by zap.
package logger

import (
	"context"
	"time"
)

// Fields is a set of key/value pairs attached to a log entry
type Fields map[string]interface{}

// Logger defines the interface for structured logging
type Logger interface {
	// Debug logs a debug message
	Debug(ctx context.Context, msg string, fields ...Fields)

	// Info logs an informational message
	Info(ctx context.Context, msg string, fields ...Fields)

	// Warn logs a warning message
	Warn(ctx context.Context, msg string, fields ...Fields)

	// Error logs an error message
	Error(ctx context.Context, msg string, err error, fields ...Fields)

	// Fatal logs a fatal message and exits the application
	Fatal(ctx context.Context, msg string, err error, fields ...Fields)

	// WithFields creates a new logger with additional fields
	WithFields(fields Fields) Logger

	// ForContext returns a request-scoped logger when one is stored on ctx
	ForContext(ctx context.Context) Logger
}

// String creates a single string field
func String(key, value string) Fields {
	return Fields{key: value}
}

// Int creates a single integer field
func Int(key string, value int) Fields {
	return Fields{key: value}
}

// Float64 creates a single float field
func Float64(key string, value float64) Fields {
	return Fields{key: value}
}

// Duration creates a single duration field rendered as a string
func Duration(key string, value time.Duration) Fields {
	return Fields{key: value.String()}
}

// Error creates an error field
func Error(err error) Fields {
	if err == nil {
		return Fields{"error": nil}
	}
	return Fields{"error": err.Error()}
}
