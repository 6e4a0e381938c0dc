// Package logging assembles structured slog loggers used across renamer.
//
// It owns the console and JSON handlers, writes a rotated JSON log file
// through lumberjack when a log directory is configured, and exposes
// context-aware helpers so pipeline code tags lines with user IDs, stages and
// correlation IDs. NewNop supplies a silent logger for tests.
package logging
