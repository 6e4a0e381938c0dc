// Package probe classifies a media file's streams when its name carries no
// quality information.
//
// Prober shells out to ffprobe through internal/media/ffprobe. A missing
// ffprobe binary is reported as ErrProbeUnavailable; any other failure
// degrades to an empty Profile or an Unknown resolution and is only logged.
package probe
