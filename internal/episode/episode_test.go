package episode_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Mythic-botz/Rename/internal/episode"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		season  string
		episode string
	}{
		{"tagged release", "[Group] Show S01E02 [1080p].mkv", "01", "02"},
		{"dotted release", "Show.S01E02.x264-GRP.mkv", "01", "02"},
		{"lowercase single digits", "show s2e5.mkv", "02", "05"},
		{"underscore separator", "Show S01_E03.mkv", "01", "03"},
		{"long episode kept", "Show S1E123.mkv", "01", "123"},
		{"loose dash numeral", "Show S01 - 12.mkv", "01", "12"},
		{"bare separated numeral", "Show - 07 [720p].mkv", "01", "07"},
		{"bracketed season and number", "[S2 - 3] Show.mkv", "02", "03"},
		{"double bracket", "[S01][E05] Title.mkv", "01", "05"},
		{"spelled out", "Season2Episode7.mkv", "02", "07"},
		{"marker with underscore", "Naruto_Shippuden_480p_Episode_22.mkv", "01", "22"},
		{"marker at start", "Episode 5.mkv", "01", "05"},
		{"standalone fallback", "Track 12.mp3", "01", "12"},
		{"parentheses ignored", "Show (Part 3) 12.mkv", "01", "12"},
		{"nothing", "Documentary.mkv", "01", ""},
		{"dotted resolution is not an episode", "Movie.1080p.x264.mkv", "01", ""},
		{"dotted year is not an episode", "The.Movie.2019.1080p.mkv", "01", ""},
		{"dotted 4k is not an episode", "Movie.4k.HDRip.mkv", "01", ""},
		{"dashed year is not an episode", "Some.Title-2023.mkv", "01", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			season, ep := episode.Extract(tt.in)
			require.Equal(t, tt.season, season)
			require.Equal(t, tt.episode, ep)
		})
	}
}

func TestExtractSeasonEpisodeIgnoresNoise(t *testing.T) {
	for _, name := range []string{
		"S01E02",
		"Show S01E02",
		"S01E02 1080p HEVC",
		"[SubsPlease] Some Show - S01E02 (1080p) [ABCDEF].mkv",
		"some.show.s01e02.web.h264-grp.mkv",
		"Show 2 S01E02 720p.mkv",
	} {
		season, ep := episode.Extract(name)
		require.Equal(t, "01", season, name)
		require.Equal(t, "02", ep, name)
	}
}

// Earlier, weaker rules win over later, more specific ones.
func TestCascadeOrderIsFirstMatch(t *testing.T) {
	m, ok := episode.Find("Season 2 Episode 7.mkv")
	require.True(t, ok)
	require.Equal(t, "separated-number", m.Rule)
	require.Equal(t, "01", m.Season)
	require.Equal(t, "02", m.Episode)

	m, ok = episode.Find("[S02 - E03] Show.mkv")
	require.True(t, ok)
	require.Equal(t, "separated-e", m.Rule)
	require.Equal(t, "03", m.Episode)
}

func TestCascadeReachesLateRules(t *testing.T) {
	tests := []struct {
		in      string
		rule    string
		season  string
		episode string
	}{
		{"Show S01EP03.mkv", "compact", "01", "03"},
		{"Show.S05.Part.3.mkv", "season-then-number", "05", "03"},
		{"Naruto_Shippuden_480p_Episode_22.mkv", "marker", "01", "22"},
		{"Track 12.mp3", "standalone-number", "01", "12"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m, ok := episode.Find(tt.in)
			require.True(t, ok)
			require.Equal(t, tt.rule, m.Rule)
			require.Equal(t, tt.season, m.Season)
			require.Equal(t, tt.episode, m.Episode)
		})
	}
}

func TestFindReportsRule(t *testing.T) {
	m, ok := episode.Find("Naruto_Shippuden_480p_Episode_22.mkv")
	require.True(t, ok)
	require.Equal(t, "marker", m.Rule)

	m, ok = episode.Find("Documentary.mkv")
	require.False(t, ok)
	require.Equal(t, episode.DefaultSeason, m.Season)
	require.Empty(t, m.Episode)
}
