// Package settings defines per-user rename preferences and layers them over
// the defaults carried in the configuration file.
package settings
