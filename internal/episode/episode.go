package episode

import (
	"regexp"
	"strings"
)

// DefaultSeason is reported when no rule captures a season.
const DefaultSeason = "01"

// Rule pairs a pattern with the meaning of its capture groups. When Season is
// set, group 1 is the season and group 2 the episode; otherwise group 1 is
// the episode.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Season  bool
}

// Rules is the ordered cascade evaluated by Extract.
var Rules = []Rule{
	{Name: "season-episode", Pattern: regexp.MustCompile(`(?i)S(\d{1,2})[_\- ]?E(\d{1,3})`), Season: true},
	{Name: "season-number", Pattern: regexp.MustCompile(`(?i)S(\d{1,2})[_\- ](\d{1,3})`), Season: true},
	{Name: "separated-e", Pattern: regexp.MustCompile(`(?i)[_\- ]E(\d{1,3})`)},
	{Name: "separated-number", Pattern: regexp.MustCompile(`(?i)[_\- ](\d{1,3})[_\- ]`)},
	{Name: "bracket-spaced-e", Pattern: regexp.MustCompile(`(?i)\[S(\d{1,2})[\s\-]+E(\d{1,3})\]`), Season: true},
	{Name: "bracket-spaced-number", Pattern: regexp.MustCompile(`(?i)\[S(\d{1,2})[\s\-]+(\d{1,3})\]`), Season: true},
	{Name: "bracket-space-e", Pattern: regexp.MustCompile(`(?i)\[S(\d{1,2})\s+E(\d{1,3})\]`), Season: true},
	{Name: "bracket-compact", Pattern: regexp.MustCompile(`(?i)\[S\s*(\d{1,2})\s*E\s*(\d{1,3})\]`), Season: true},
	{Name: "loose-e", Pattern: regexp.MustCompile(`(?i)S(\d{1,2})[\s\-]+E(\d{1,3})`), Season: true},
	{Name: "loose-number", Pattern: regexp.MustCompile(`(?i)S(\d{1,2})[\s\-]+(\d{1,3})`), Season: true},
	{Name: "compact", Pattern: regexp.MustCompile(`S(\d+)(?:E|EP)(\d+)`), Season: true},
	{Name: "compact-spaced", Pattern: regexp.MustCompile(`S(\d+)[\s-]*(?:E|EP)(\d+)`), Season: true},
	{Name: "spelled-out", Pattern: regexp.MustCompile(`(?i)Season\s*(\d+)\s*Episode\s*(\d+)`), Season: true},
	{Name: "double-bracket", Pattern: regexp.MustCompile(`\[S(\d+)\]\[E(\d+)\]`), Season: true},
	{Name: "season-then-number", Pattern: regexp.MustCompile(`S(\d+)[^\d]+(\d{1,3})\b`), Season: true},
	{Name: "marker", Pattern: regexp.MustCompile(`(?i)(?:E|EP|Episode)[\s_]*(\d+)`)},
	{Name: "standalone-number", Pattern: regexp.MustCompile(`\b(\d{1,3})\b`)},
}

var parenthesised = regexp.MustCompile(`\(.*?\)`)

// Match describes which rule produced a result.
type Match struct {
	Season  string
	Episode string
	Rule    string
}

// Extract returns the two-digit season and episode found in name. Season is
// DefaultSeason when absent; episode is empty when absent.
func Extract(name string) (season, episode string) {
	m, _ := Find(name)
	return m.Season, m.Episode
}

// Find is Extract plus the name of the rule that matched. ok is false when
// the cascade fell through.
func Find(name string) (Match, bool) {
	cleaned := parenthesised.ReplaceAllString(name, " ")
	for _, rule := range Rules {
		groups := rule.Pattern.FindStringSubmatch(cleaned)
		if groups == nil {
			continue
		}
		m := Match{Season: DefaultSeason, Rule: rule.Name}
		if rule.Season {
			if groups[1] != "" {
				m.Season = pad(groups[1])
			}
			m.Episode = pad(groups[2])
		} else {
			m.Episode = pad(groups[1])
		}
		return m, true
	}
	return Match{Season: DefaultSeason}, false
}

// pad left-pads value with zeros to two characters. Longer values are kept.
func pad(value string) string {
	if len(value) >= 2 {
		return value
	}
	return strings.Repeat("0", 2-len(value)) + value
}
