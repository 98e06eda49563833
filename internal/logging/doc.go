// Package logging assembles the structured slog loggers and formatting
// helpers used across squelch components.
//
// It owns the console/JSON handler selection, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline code can tag log
// lines with capture stems and upload attempt IDs. The package also provides
// a no-op logger for tests and wiring code that cannot fail.
package logging
