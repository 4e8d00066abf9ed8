// Package logging constructs the slog loggers used across parley.
//
// It maps configuration (level, format, output paths) onto slog handlers,
// fans output out to stdout and the state-directory log file, and provides
// small attribute helpers so call sites stay consistent. Obtain loggers
// through NewFromConfig so the daemon and CLI agree on formatting.
package logging
