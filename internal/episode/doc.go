// Package episode pulls a season and episode number out of a media filename.
//
// Extract strips parenthesised groups and then walks a fixed rule list; the
// first rule that matches decides the result. The order is significant and
// must not be rearranged: ambiguous names resolve differently under a
// different order, and existing users rely on the current results.
package episode
