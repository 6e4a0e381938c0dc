// Package services defines shared utilities consumed by the rename pipeline,
// the sequence batcher and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp user IDs, stage names, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that keep failure
//     classification consistent across packages.
//
// Use these helpers when wiring new pipeline logic so error handling and
// observability stay uniform.
package services
