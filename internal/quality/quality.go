package quality

import (
	"fmt"
	"regexp"
	"strings"
)

// Labels reported by Extract and by the stream prober.
const (
	P144    = "144p"
	P240    = "240p"
	P360    = "360p"
	P480    = "480p"
	P720    = "720p"
	P1080   = "1080p"
	P1440   = "1440p"
	P2160   = "2160p"
	HDRip   = "HDRip"
	Unknown = "Unknown"
)

// Ladder lists the resolution labels in ascending order.
var Ladder = []string{P144, P240, P360, P480, P720, P1080, P1440, P2160}

type rule struct {
	pattern *regexp.Regexp
	// group is the submatch holding the token; the removed span runs from
	// the start of the token (or of the whole match when leading is set) to
	// the end of the group.
	group   int
	leading bool
	label   func(token string) string
}

func fixed(label string) func(string) string {
	return func(string) string { return label }
}

// digitGuarded matches label only when it is not embedded in a longer number.
func digitGuarded(label string) rule {
	return rule{
		pattern: regexp.MustCompile(`(?i)(?:^|\D)(` + regexp.QuoteMeta(label) + `)(?:\D|$)`),
		group:   1,
		label:   fixed(label),
	}
}

var rules = []rule{
	digitGuarded(P144),
	digitGuarded(P240),
	digitGuarded(P360),
	digitGuarded(P480),
	digitGuarded(P720),
	digitGuarded(P1080),
	digitGuarded(P1440),
	digitGuarded(P2160),
	{pattern: regexp.MustCompile(`(?i)\b(4k)\b`), group: 1, label: fixed(P2160)},
	{
		pattern: regexp.MustCompile(`(?i)[_\-. ](144p|240p|360p|480p|720p|1080p|1440p|2160p)[_\-. ]`),
		group:   1,
		leading: true,
		label:   strings.ToLower,
	},
	{pattern: regexp.MustCompile(`(?i)\b(HDRip)\b`), group: 1, label: fixed(HDRip)},
}

type step struct {
	working string
	labels  []string
}

func (s step) has(label string) bool {
	for _, existing := range s.labels {
		if strings.EqualFold(existing, label) {
			return true
		}
	}
	return false
}

func (r rule) apply(s step) step {
	loc := r.pattern.FindStringSubmatchIndex(s.working)
	if loc == nil {
		return s
	}
	start, end := loc[2*r.group], loc[2*r.group+1]
	label := r.label(s.working[start:end])
	if s.has(label) {
		return s
	}
	if r.leading {
		start = loc[0]
	}
	return step{
		working: s.working[:start] + s.working[end:],
		labels:  append(append([]string(nil), s.labels...), label),
	}
}

// Extract returns the quality label found in name, or Unknown.
func Extract(name string) string {
	s := step{working: name}
	for _, r := range rules {
		s = r.apply(s)
	}
	for _, label := range s.labels {
		if IsResolution(label) {
			return label
		}
	}
	if s.has(HDRip) {
		return HDRip
	}
	return Unknown
}

// IsResolution reports whether label is one of the ladder labels.
func IsResolution(label string) bool {
	return Rank(label) > 0
}

// Rank returns the 1-based position of label on the resolution ladder, or 0
// when label is not a resolution.
func Rank(label string) int {
	for i, candidate := range Ladder {
		if strings.EqualFold(candidate, label) {
			return i + 1
		}
	}
	return 0
}

// FromDimensions maps a video frame size onto the resolution ladder. Width
// alone promotes ultra-wide 4K encodes whose height is cropped. Heights below
// the ladder are reported verbatim.
func FromDimensions(width, height int) string {
	switch {
	case height >= 2160 || width >= 3840:
		return P2160
	case height >= 1440:
		return P1440
	case height >= 1080:
		return P1080
	case height >= 720:
		return P720
	case height >= 480:
		return P480
	case height >= 360:
		return P360
	case height >= 240:
		return P240
	case height >= 144:
		return P144
	default:
		return fmt.Sprintf("%dp", height)
	}
}
