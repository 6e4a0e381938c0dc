// Package language normalizes the language tags found on media streams.
//
// The stream prober uses it to decide whether an audio or subtitle track is
// Japanese or English regardless of whether the container stores a two-letter
// code, a three-letter code or the English word.
package language
