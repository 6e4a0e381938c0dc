// Package naming turns a source filename into the rendered output name.
package naming

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/Mythic-botz/Rename/internal/episode"
	"github.com/Mythic-botz/Rename/internal/quality"
)

// Absent is rendered in place of a missing season or episode.
const Absent = "XX"

// Media kinds a source file can arrive as.
const (
	KindDocument = "document"
	KindVideo    = "video"
	KindAudio    = "audio"
)

// Extraction is the metadata recovered from one filename.
type Extraction struct {
	Season  string
	Episode string
	Quality string
}

// Options tunes filename preprocessing.
type Options struct {
	// NormalizeLongNames turns underscores into spaces for long names that
	// use underscores as word separators.
	NormalizeLongNames bool
}

// Extract runs the season/episode and quality extractors over name.
func Extract(name string, opts Options) Extraction {
	prepared := Prepare(name, opts)
	season, ep := episode.Extract(prepared)
	return Extraction{
		Season:  season,
		Episode: ep,
		Quality: quality.Extract(prepared),
	}
}

// Prepare applies NFKC folding, which maps full-width digits and letters to
// ASCII, and optional long-name normalization.
func Prepare(name string, opts Options) string {
	name = norm.NFKC.String(name)
	if opts.NormalizeLongNames {
		name = normalizeLongName(name)
	}
	return name
}

func normalizeLongName(name string) string {
	if len(name) <= 64 || strings.Count(name, "_") <= 3 || strings.Count(name, " ") >= 2 {
		return name
	}
	ext := filepath.Ext(name)
	return strings.ReplaceAll(strings.TrimSuffix(name, ext), "_", " ") + ext
}

// Render substitutes the placeholders of template in a fixed order. audio is
// the label used for {audio}; empty renders Unknown.
func Render(template string, x Extraction, audio string) string {
	season := orAbsent(x.Season)
	ep := orAbsent(x.Episode)
	q := x.Quality
	if q == "" {
		q = quality.Unknown
	}
	if audio == "" {
		audio = "Unknown"
	}
	replacements := []struct{ placeholder, value string }{
		{"{season}", season},
		{"{episode}", ep},
		{"{quality}", q},
		{"{audio}", audio},
		{"Season", season},
		{"Episode", ep},
		{"QUALITY", q},
	}
	out := template
	for _, r := range replacements {
		out = strings.ReplaceAll(out, r.placeholder, r.value)
	}
	return out
}

func orAbsent(value string) string {
	if value == "" {
		return Absent
	}
	return value
}

// FileName appends the extension of original to rendered. When original has
// no extension, video gets .mp4 and audio gets .mp3.
func FileName(rendered, original, kind string) string {
	ext := filepath.Ext(original)
	if ext == "" {
		switch kind {
		case KindVideo:
			ext = ".mp4"
		case KindAudio:
			ext = ".mp3"
		}
	}
	return rendered + ext
}

// NeedsAudio reports whether template references the {audio} placeholder.
func NeedsAudio(template string) bool {
	return strings.Contains(template, "{audio}")
}
