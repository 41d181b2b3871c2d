// Package log provides a structured logging interface for glmnet estimators.
//
// The Logger interface is slog-compatible so backends can be swapped; the
// default backend is zerolog (see provider.go). Estimators obtain a named
// logger once per call and attach ML-specific attributes from attributes.go:
//
//	logger := log.GetLoggerWithName("glmnet.logistic").With(
//	    log.ModelNameKey, "LogisticRegression",
//	)
//	logger.Debug("fit started",
//	    log.OperationKey, log.OperationFit,
//	    log.SamplesKey, 800,
//	    log.FeaturesKey, 50,
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// Every method takes alternating key/value pairs. When the first field passed
// to Error is an error value, implementations attach it under ErrAttrKey
// together with its stack trace.
type Logger interface {
	// Debug logs a debug-level message with optional structured fields.
	Debug(msg string, fields ...any)

	// Info logs an info-level message with optional structured fields.
	Info(msg string, fields ...any)

	// Warn logs a warning-level message with optional structured fields.
	Warn(msg string, fields ...any)

	// Error logs an error-level message. If the first field is an error it is
	// handled specially:
	//
	//	logger.Error("binding failed", err, log.AlphaKey, 1.0)
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits log records at the given level.
	// Use it to skip building expensive fields.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LoggerProvider creates loggers. It is swapped out in tests with
// SetLoggerProvider.
type LoggerProvider interface {
	// GetLogger returns the default logger instance.
	GetLogger() Logger

	// GetLoggerWithName returns a logger with a specific name/component identifier.
	GetLoggerWithName(name string) Logger

	// SetLevel sets the minimum log level for all loggers created by this provider.
	SetLevel(level Level)
}
