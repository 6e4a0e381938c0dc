// Package sequence collects files offered during a per-user session and sends
// them back in canonical episode order when the session ends.
//
// A Batcher owns the session state machine (idle, active) and delegates
// persistence to a Store and delivery to a Channel. Sessions for different
// users proceed independently; calls for the same user are serialized.
package sequence
