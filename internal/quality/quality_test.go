package quality_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Mythic-botz/Rename/internal/quality"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain 1080p", "Show S01E02 1080p.mkv", "1080p"},
		{"uppercase", "Show.S01E02.720P.WEB.mkv", "720p"},
		{"embedded in longer number", "Show 11080p.mkv", "Unknown"},
		{"trailing digit", "Show 7201p.mkv", "Unknown"},
		{"4k alias", "Movie.4K.HDR.mkv", "2160p"},
		{"4k inside word", "Movie4kx.mkv", "Unknown"},
		{"ladder order beats position", "Show 1080p [480p].mkv", "480p"},
		{"hdrip only", "Show.S01E02.HDRip.mkv", "HDRip"},
		{"hdrip lowercase", "show.hdrip.x264.mkv", "HDRip"},
		{"resolution beats hdrip", "Show.HDRip.720p.mkv", "720p"},
		{"nothing", "Show S01E02.mkv", "Unknown"},
		{"empty", "", "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, quality.Extract(tt.in))
		})
	}
}

func TestExtractIsIdempotentOnLabels(t *testing.T) {
	for _, label := range append(append([]string{}, quality.Ladder...), quality.HDRip, quality.Unknown) {
		first := quality.Extract(label)
		require.Equal(t, first, quality.Extract(first), "label %s", label)
	}
	require.Equal(t, "1080p", quality.Extract(quality.Extract("1080p")))
}

func TestRank(t *testing.T) {
	require.Equal(t, 1, quality.Rank("144p"))
	require.Equal(t, 8, quality.Rank("2160P"))
	require.Equal(t, 0, quality.Rank(quality.HDRip))
	require.Equal(t, 0, quality.Rank(quality.Unknown))
	require.True(t, quality.IsResolution("720p"))
	require.False(t, quality.IsResolution("4k"))
}

func TestFromDimensions(t *testing.T) {
	tests := []struct {
		width, height int
		want          string
	}{
		{3840, 1600, "2160p"},
		{1920, 2160, "2160p"},
		{2560, 1440, "1440p"},
		{1920, 1080, "1080p"},
		{1920, 800, "720p"},
		{1280, 720, "720p"},
		{854, 480, "480p"},
		{640, 360, "360p"},
		{426, 240, "240p"},
		{256, 144, "144p"},
		{160, 120, "120p"},
		{0, 0, "0p"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, quality.FromDimensions(tt.width, tt.height), "%dx%d", tt.width, tt.height)
	}
}
