package keyword

import (
	"strings"
	"unicode/utf8"
)

const (
	// ExactMatchScore is returned for case-insensitive equality.
	ExactMatchScore = 1.0
	// SubstringMatchScore is returned when the candidate contains the query.
	SubstringMatchScore = 0.8
)

// FuzzyScore rates how well candidate matches query, in [0, 1].
// Equality scores 1, containment 0.8; anything else is the edit distance
// normalized by the longer string's rune length.
func FuzzyScore(candidate, query string) float64 {
	c := strings.ToLower(candidate)
	q := strings.ToLower(query)
	if c == q {
		return ExactMatchScore
	}
	if strings.Contains(c, q) {
		return SubstringMatchScore
	}

	longest := max(utf8.RuneCountInString(c), utf8.RuneCountInString(q))
	if longest == 0 {
		return ExactMatchScore
	}
	score := 1 - float64(LevenshteinDistance(c, q))/float64(longest)
	if score < 0 {
		return 0
	}
	return score
}
