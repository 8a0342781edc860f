package ledger

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

const maxSuggestDistance = 2

// SuggestName returns the previously used name that best completes input,
// or "" when nothing is close. A known name starting with input wins
// (shortest first); otherwise the nearest name within a small edit distance.
func SuggestName(input string, known []string) string {
	in := strings.ToLower(strings.TrimSpace(input))
	if in == "" {
		return ""
	}
	best, bestLen := "", 0
	for _, name := range known {
		lower := strings.ToLower(name)
		if lower == in {
			return ""
		}
		if strings.HasPrefix(lower, in) && (best == "" || len(name) < bestLen) {
			best, bestLen = name, len(name)
		}
	}
	if best != "" {
		return best
	}
	bestDist := min(maxSuggestDistance+1, len([]rune(in)))
	for _, name := range known {
		d := levenshtein.ComputeDistance(in, strings.ToLower(name))
		if d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}
