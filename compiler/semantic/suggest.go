package semantic

import (
	"fmt"

	"github.com/agnivade/levenshtein"
	"github.com/squintdb/squint/schema"
	"golang.org/x/exp/slices"
)

// didYouMean returns a suggestion suffix naming the candidate closest to
// name, or the empty string when nothing is near enough to be helpful.
func didYouMean(name string, candidates []string) string {
	folded := schema.Fold(name)
	best := ""
	bestDist := maxSuggestDistance(name)
	slices.Sort(candidates)
	candidates = slices.Compact(candidates)
	for _, cand := range candidates {
		d := levenshtein.ComputeDistance(folded, schema.Fold(cand))
		if d > 0 && d <= bestDist {
			best, bestDist = cand, d
		}
	}
	if best == "" {
		return ""
	}
	return fmt.Sprintf(" (did you mean %q?)", best)
}

func maxSuggestDistance(name string) int {
	if len(name) <= 4 {
		return 1
	}
	return 2
}
