package api

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// The town hall shows population growth in slightly different markup per
// server and locale. The patterns are tried in order; first match wins.
var growthPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)population[_\s]?growth[^0-9]*?([\d,.]+)\s*(?:citizens?)?\s*/\s*h`),
	regexp.MustCompile(`(?i)growth[^0-9]*?([\d,.]+)\s*(?:citizens?)?\s*/\s*h`),
	regexp.MustCompile(`(?i)citizens?\s*/\s*h[^0-9]*?([\d,.]+)`),
	regexp.MustCompile(`(?i)(\d+[.,]?\d*)\s*citizens?\s*/\s*h`),
}

var firstNumberPattern = regexp.MustCompile(`([\d,.]+)`)

// extractGrowthRate pulls the citizens-per-hour rate out of a town hall
// response. It scans the rendered view HTML first, then falls back to any
// growth- or population-labelled template entry. Returns 0 when nothing
// matches, which downstream reads as "unknown".
func extractGrowthRate(env *envelope) float64 {
	for _, html := range env.viewHTML {
		for _, pattern := range growthPatterns {
			if m := pattern.FindStringSubmatch(html); m != nil {
				if rate, ok := parseRate(m[1]); ok {
					return rate
				}
			}
		}
	}

	for key, raw := range env.template {
		lower := strings.ToLower(key)
		if !strings.Contains(lower, "growth") && !strings.Contains(lower, "population") {
			continue
		}
		var entry struct {
			Text string `json:"text"`
		}
		if json.Unmarshal(raw, &entry) != nil || entry.Text == "" {
			continue
		}
		if m := firstNumberPattern.FindStringSubmatch(entry.Text); m != nil {
			if rate, ok := parseRate(m[1]); ok {
				return rate
			}
		}
	}
	return 0
}

func parseRate(s string) (float64, bool) {
	rate, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return rate, true
}
