// Command renamer renames episodic media files from their names and stream
// metadata, and batches files into sequences that are emitted in episode
// order.
//
// Usage:
//
//	renamer parse "Show S01E02 720p.mkv"
//	renamer settings set template "S{season}E{episode} [{quality}]"
//	renamer rename ~/Downloads/*.mkv
//	renamer sequence start
//	renamer sequence add a.mkv b.mkv
//	renamer sequence end
//	renamer watch --dir ~/inbox
//	renamer status
package main
