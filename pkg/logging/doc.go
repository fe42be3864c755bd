// Package logging provides a structured, subsystem-tagged logging facility
// for eventflow built on Go's standard slog package.
//
// Initialize once at startup with Init, then log through Debug/Info/Warn/
// Error, passing the producing subsystem as the first argument (e.g.
// "Dispatcher", "Scheduler", "MQTT", "ApiListen"). The minimum level is
// controlled by the EVENTFLOW_LOG environment variable (LevelFromEnv),
// defaulting to info.
//
// ErrorOnce/ClearSuppression implement the "broker flood" error kind from
// the error-handling design: a subsystem that calls ErrorOnce repeatedly
// logs only the first occurrence until ClearSuppression is called after a
// subsequent success.
package logging
