// Package preflight checks that renamer's directories are writable and its
// external tools resolve before work starts. The status command renders the
// results.
package preflight
