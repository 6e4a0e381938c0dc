// Package inbox watches a drop directory with fsnotify and hands each media
// file to a callback once writes to it have settled.
package inbox
