// Package quality extracts a resolution or rip label from a media filename.
//
// Extract runs an ordered list of rules over a working copy of the name. Each
// rule that matches contributes a normalized label and removes the token it
// matched before the next rule runs, so a token is never counted twice. The
// first resolution label wins over HDRip; anything else reports Unknown.
package quality
