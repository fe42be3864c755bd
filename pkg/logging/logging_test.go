package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LogLevel(999), "UNKNOWN"},
	}

	for _, test := range tests {
		result := test.level.String()
		if result != test.expected {
			t.Errorf("LogLevel(%d).String() = %s, expected %s", test.level, result, test.expected)
		}
	}
}

func TestLogLevel_SlogLevel(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected slog.Level
	}{
		{LevelDebug, slog.LevelDebug},
		{LevelInfo, slog.LevelInfo},
		{LevelWarn, slog.LevelWarn},
		{LevelError, slog.LevelError},
		{LogLevel(999), slog.LevelInfo}, // Default for unknown
	}

	for _, test := range tests {
		result := test.level.SlogLevel()
		if result != test.expected {
			t.Errorf("LogLevel(%d).SlogLevel() = %v, expected %v", test.level, result, test.expected)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"info", LevelInfo},
		{"", LevelInfo},
		{"bogus", LevelInfo},
	}

	for _, test := range tests {
		if got := ParseLevel(test.input); got != test.expected {
			t.Errorf("ParseLevel(%q) = %v, expected %v", test.input, got, test.expected)
		}
	}
}

func TestInit(t *testing.T) {
	var buf bytes.Buffer

	Init(LevelInfo, &buf)

	if defaultLogger == nil {
		t.Fatal("expected defaultLogger to be set after Init")
	}

	Info("test-subsystem", "test message")

	output := buf.String()
	if !strings.Contains(output, "test message") {
		t.Error("expected log message to appear in output")
	}
	if !strings.Contains(output, "test-subsystem") {
		t.Error("expected subsystem to appear in output")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	Init(LevelInfo, &buf)

	Debug("test", "debug message")
	Info("test", "info message")

	output := buf.String()
	if strings.Contains(output, "debug message") {
		t.Error("debug message should be filtered out at info level")
	}
	if !strings.Contains(output, "info message") {
		t.Error("info message should appear at info level")
	}
}

func TestErrorIncludesWrappedMessage(t *testing.T) {
	var buf bytes.Buffer
	Init(LevelDebug, &buf)

	Error("test", errors.New("boom"), "operation failed")

	output := buf.String()
	if !strings.Contains(output, "boom") {
		t.Error("expected wrapped error message to appear in output")
	}
	if !strings.Contains(output, "operation failed") {
		t.Error("expected formatted message to appear in output")
	}
}

func TestErrorOnceSuppression(t *testing.T) {
	var buf bytes.Buffer
	Init(LevelDebug, &buf)
	ClearSuppression("broker")

	ErrorOnce("broker", errors.New("disconnect"), "broker error one")
	buf.Reset()
	ErrorOnce("broker", errors.New("disconnect"), "broker error two")

	if strings.Contains(buf.String(), "broker error two") {
		t.Error("expected second ErrorOnce call to be suppressed")
	}

	ClearSuppression("broker")
	ErrorOnce("broker", errors.New("disconnect"), "broker error three")
	if !strings.Contains(buf.String(), "broker error three") {
		t.Error("expected ErrorOnce to log again after ClearSuppression")
	}
}
