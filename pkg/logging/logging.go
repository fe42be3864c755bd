// Package logging provides subsystem-tagged structured logging for eventflow.
//
// All components log through Debug/Info/Warn/Error, tagging each entry with
// the subsystem that produced it (e.g. "Dispatcher", "Scheduler", "MQTT").
// The minimum level is controlled by the EVENTFLOW_LOG environment variable,
// mirroring the RUST_LOG-style level filter named in the CLI contract.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// LogLevel defines the severity of the log entry.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String makes LogLevel satisfy the fmt.Stringer interface.
func (l LogLevel) String() string {
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

// SlogLevel maps LogLevel to the equivalent slog.Level.
func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel parses an EVENTFLOW_LOG-style level name, defaulting to info
// when the string is empty or unrecognized.
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "trace":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// LevelFromEnv reads EVENTFLOW_LOG and returns the corresponding LogLevel,
// defaulting to info when unset.
func LevelFromEnv() LogLevel {
	return ParseLevel(os.Getenv("EVENTFLOW_LOG"))
}

var defaultLogger *slog.Logger

// Init initializes the process-wide logger. This should be called once at
// startup before any other package logs.
func Init(level LogLevel, output io.Writer) {
	opts := &slog.HandlerOptions{Level: level.SlogLevel()}
	handler := slog.NewTextHandler(output, opts)
	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

func logInternal(level LogLevel, subsystem string, err error, messageFmt string, args ...interface{}) {
	if defaultLogger == nil || !defaultLogger.Enabled(context.Background(), level.SlogLevel()) {
		return
	}

	msg := messageFmt
	if len(args) > 0 {
		msg = fmt.Sprintf(messageFmt, args...)
	}

	attrs := []slog.Attr{slog.String("subsystem", subsystem)}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}

	defaultLogger.LogAttrs(context.Background(), level.SlogLevel(), msg, attrs...)
}

// Debug logs a debug message tagged with its subsystem.
func Debug(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelDebug, subsystem, nil, messageFmt, args...)
}

// Info logs an informational message tagged with its subsystem.
func Info(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelInfo, subsystem, nil, messageFmt, args...)
}

// Warn logs a warning message tagged with its subsystem.
func Warn(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelWarn, subsystem, nil, messageFmt, args...)
}

// Error logs an error message tagged with its subsystem.
func Error(subsystem string, err error, messageFmt string, args ...interface{}) {
	logInternal(LevelError, subsystem, err, messageFmt, args...)
}

// suppressionState tracks subsystems currently in broker-flood
// suppression: repeated errors are logged once, then silenced until the
// next successful operation calls ClearSuppression.
var (
	suppressionMu sync.Mutex
	suppressed    = make(map[string]bool)
)

// ErrorOnce logs an error for subsystem only if it has not already logged
// one since the last ClearSuppression call. This implements the "broker
// flood" error kind: repeated MQTT/transient errors are logged once and
// suppressed until the next success.
func ErrorOnce(subsystem string, err error, messageFmt string, args ...interface{}) {
	suppressionMu.Lock()
	if suppressed[subsystem] {
		suppressionMu.Unlock()
		return
	}
	suppressed[subsystem] = true
	suppressionMu.Unlock()

	Error(subsystem, err, messageFmt, args...)
}

// ClearSuppression resets the broker-flood suppression for subsystem,
// called after a successful operation following prior errors.
func ClearSuppression(subsystem string) {
	suppressionMu.Lock()
	delete(suppressed, subsystem)
	suppressionMu.Unlock()
}
