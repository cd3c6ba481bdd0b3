// Package logging assembles structured slog loggers and formatting helpers used
// across audiodefault.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes attribute helpers so the scanner, prober, and remuxer
// emit lines with the same keys. A no-op logger is provided for tests and
// wiring code that cannot fail.
package logging
