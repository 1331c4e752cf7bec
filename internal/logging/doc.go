// Package logging assembles the slog loggers used by mediaprobe.
//
// It owns the console (key=value) and JSON handlers, level parsing, an
// optional JSON log file teed next to console output, standardized field keys
// and the WARN/ERROR helpers that enforce event_type and error_hint. NewNop
// gives tests and optional wiring a logger that cannot fail.
package logging
