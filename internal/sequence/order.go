package sequence

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	seasonPattern       = regexp.MustCompile(`s(\d+)`)
	episodePattern      = regexp.MustCompile(`e(\d+)`)
	episodeAltPattern   = regexp.MustCompile(`ep?(\d+)`)
	genericQualityRegex = regexp.MustCompile(`(\d{3,4})p`)
)

var coarseQualities = []struct {
	pattern *regexp.Regexp
	label   string
}{
	{regexp.MustCompile(`2160p|4k`), "2160p"},
	{regexp.MustCompile(`1440p|2k`), "1440p"},
	{regexp.MustCompile(`1080p|fhd`), "1080p"},
	{regexp.MustCompile(`720p|hd`), "720p"},
	{regexp.MustCompile(`480p|sd`), "480p"},
}

var qualityPriority = map[string]int{
	"144p": 1, "240p": 2, "360p": 3, "480p": 4,
	"720p": 5, "1080p": 6, "1440p": 7, "2160p": 8,
}

// unrankedPriority sorts files with no recognised quality last.
const unrankedPriority = 9

// SortKey is the canonical ordering key of a file name.
type SortKey struct {
	Season   int
	Episode  string
	Priority int
	Name     string
}

// Less orders keys by season, padded episode, quality priority, then name.
func (k SortKey) Less(other SortKey) bool {
	if k.Season != other.Season {
		return k.Season < other.Season
	}
	if k.Episode != other.Episode {
		return k.Episode < other.Episode
	}
	if k.Priority != other.Priority {
		return k.Priority < other.Priority
	}
	return k.Name < other.Name
}

// KeyOf computes the sort key of a file name.
func KeyOf(name string) SortKey {
	lower := strings.ToLower(name)
	key := SortKey{Name: lower, Priority: unrankedPriority}

	if m := seasonPattern.FindStringSubmatch(lower); m != nil {
		key.Season = atoi(m[1])
	}
	episode := 0
	if m := episodePattern.FindStringSubmatch(lower); m != nil {
		episode = atoi(m[1])
	} else if m := episodeAltPattern.FindStringSubmatch(lower); m != nil {
		episode = atoi(m[1])
	}
	key.Episode = fmt.Sprintf("%04d", episode)

	if p, ok := qualityPriority[coarseQuality(lower)]; ok {
		key.Priority = p
	}
	return key
}

// coarseQuality matches "hd" and "sd" anywhere in the name, so "hdrip"
// ranks as 720p.
func coarseQuality(lower string) string {
	for _, q := range coarseQualities {
		if q.pattern.MatchString(lower) {
			return q.label
		}
	}
	if m := genericQualityRegex.FindStringSubmatch(lower); m != nil {
		return m[1] + "p"
	}
	return "unknown"
}

func atoi(digits string) int {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// Sort returns files in canonical order without modifying the input.
func Sort(files []File) []File {
	type keyed struct {
		file File
		key  SortKey
	}
	items := make([]keyed, len(files))
	for i, f := range files {
		items[i] = keyed{file: f, key: KeyOf(f.FileName)}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].key.Less(items[j].key)
	})
	out := make([]File, len(items))
	for i, item := range items {
		out[i] = item.file
	}
	return out
}
