// Package config loads, normalizes, and validates renamer configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// RENAMER_TEMPLATE and RENAMER_LOG_LEVEL. The Config type centralizes the
// directories, tool paths, and pipeline switches the CLI and watcher need.
//
// Always obtain settings through this package so downstream code receives
// expanded paths and clear validation errors.
package config
