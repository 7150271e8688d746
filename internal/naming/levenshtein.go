package naming

import (
	"slices"
)

// Levenshtein computes the edit distance between two strings: the minimum
// number of single-byte insertions, deletions, or substitutions required to
// transform one into the other.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}

	if len(a) == 0 {
		return len(b)
	}

	if len(b) == 0 {
		return len(a)
	}

	// keep a the shorter string so the rows stay small
	if len(a) > len(b) {
		a, b = b, a
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)

	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(b); j++ {
		curr[0] = j

		for i := 1; i <= len(a); i++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}

			curr[i] = min(
				prev[i]+1,      // deletion
				curr[i-1]+1,    // insertion
				prev[i-1]+cost, // substitution
			)
		}

		prev, curr = curr, prev
	}

	return prev[len(a)]
}

// Similarity is 1 - distance/maxLen over normalized identifiers: 1.0 for
// identical names, 0.0 for completely different ones.
func Similarity(a, b string) float64 {
	normA, normB := Normalize(a), Normalize(b)

	if len(normA) == 0 && len(normB) == 0 {
		return 1.0
	}

	return 1.0 - float64(Levenshtein(normA, normB))/float64(max(len(normA), len(normB)))
}

// DefaultThreshold is the minimum Similarity for Suggest.
const DefaultThreshold = 0.6

// Suggest returns up to limit candidates whose similarity to name is at
// least threshold, best first.
func Suggest(name string, candidates []string, threshold float64, limit int) []string {
	type scored struct {
		name  string
		score float64
	}

	var matches []scored

	for _, c := range candidates {
		if c == name {
			continue
		}

		if s := Similarity(name, c); s >= threshold {
			matches = append(matches, scored{c, s})
		}
	}

	slices.SortStableFunc(matches, func(a, b scored) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		default:
			return 0
		}
	})

	out := make([]string, 0, min(limit, len(matches)))
	for i := 0; i < len(matches) && i < limit; i++ {
		out = append(out, matches[i].name)
	}

	return out
}
