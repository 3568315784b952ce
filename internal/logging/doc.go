// Package logging assembles structured slog loggers and formatting helpers used
// across emojipick.
//
// It owns the console/JSON handlers, centralizes level and output plumbing,
// and exposes context-aware helpers so every log line from one invocation
// carries the same run ID. The package also provides a no-op logger for
// tests and wiring code that cannot fail.
//
// Logs go to stderr by default; stdout is reserved for command output and
// for the picker's candidate stream.
package logging
