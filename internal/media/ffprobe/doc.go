// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Inspect executes ffprobe and decodes the stream list (and optionally the
// container format). Helpers on Result filter streams by type.
package ffprobe
