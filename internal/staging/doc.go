// Package staging sweeps the download and metadata scratch directories for
// temp files older than a cutoff.
package staging
