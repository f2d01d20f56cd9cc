package ui

import (
	"sort"
	"strings"
)

const (
	// DefaultMaxDistance is the largest edit distance still offered as a suggestion
	DefaultMaxDistance = 3
	// DefaultMaxSuggestions caps the number of suggestions returned
	DefaultMaxSuggestions = 3
	// minPrefixLen is the shortest input accepted as an abbreviation
	minPrefixLen = 2
)

// SuggestOptions configures name suggestions
type SuggestOptions struct {
	MaxDistance    int  // Maximum Levenshtein distance to consider (default: 3)
	MaxSuggestions int  // Maximum number of suggestions to return (default: 3)
	CaseSensitive  bool // Whether matching is case-sensitive (default: false)
}

type candidateScore struct {
	name     string
	distance int
	order    int
}

// SuggestNames returns the candidates closest to input, for "did you mean"
// hints on mistyped target and tool names. A candidate that starts with
// input is always offered, so abbreviations like "open" find "opencode".
//
// Example:
//
//	SuggestNames("cladue", []string{"claude", "copilot", "opencode"}, nil)
//	// Returns: ["claude"]
func SuggestNames(input string, candidates []string, opts *SuggestOptions) []string {
	o := SuggestOptions{}
	if opts != nil {
		o = *opts
	}
	if o.MaxDistance == 0 {
		o.MaxDistance = DefaultMaxDistance
	}
	if o.MaxSuggestions == 0 {
		o.MaxSuggestions = DefaultMaxSuggestions
	}

	in := input
	if !o.CaseSensitive {
		in = strings.ToLower(in)
	}
	if in == "" {
		return []string{}
	}

	var scored []candidateScore
	for i, candidate := range candidates {
		c := candidate
		if !o.CaseSensitive {
			c = strings.ToLower(c)
		}

		dist := EditDistance(in, c)
		if len(in) >= minPrefixLen && strings.HasPrefix(c, in) {
			dist = 0
		}
		if dist <= o.MaxDistance {
			scored = append(scored, candidateScore{name: candidate, distance: dist, order: i})
		}
	}

	// Closest first; ties keep the candidates' own order
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].distance < scored[j].distance
	})

	result := make([]string, 0, o.MaxSuggestions)
	for i := 0; i < len(scored) && i < o.MaxSuggestions; i++ {
		result = append(result, scored[i].name)
	}
	return result
}

// EditDistance returns the Levenshtein distance between two strings,
// counted in runes: the minimum number of single-rune insertions, deletions
// or substitutions that turn a into b.
func EditDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	// Two rolling rows of the classic matrix
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}
