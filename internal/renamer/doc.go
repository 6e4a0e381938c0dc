// Package renamer orchestrates one rename: it fetches the incoming file,
// extracts season, episode and quality from its name, falls back to stream
// probing when the name carries no quality, renders the user's template,
// tags the container and delivers the result with a caption.
//
// The same file offered twice while the first rename is running is dropped
// with ErrDuplicate. Temporary download and metadata files are removed on
// every exit path.
package renamer
