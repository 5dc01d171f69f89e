// Package suggest finds "did you mean" candidates for mistyped names.
package suggest

import (
	"fmt"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Closest returns the candidate that best matches target, or "" when
// nothing matches. Matching is case-insensitive.
func Closest(target string, candidates []string) string {
	if target == "" || len(candidates) == 0 {
		return ""
	}

	ranks := fuzzy.RankFindFold(target, candidates)
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}

// Hint formats a suggestion for target, or returns "" when there is none
func Hint(target string, candidates []string) string {
	match := Closest(target, candidates)
	if match == "" {
		return ""
	}
	return fmt.Sprintf("did you mean %s?", match)
}
