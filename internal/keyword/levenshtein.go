// Package keyword provides fuzzy string matching and query suggestions.
package keyword

// LevenshteinDistance returns the edit distance between a and b, counting
// rune insertions, deletions and substitutions at cost 1 each.
func LevenshteinDistance(a, b string) int {
	if a == b {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}
	if len(rb) == 0 {
		return len(ra)
	}

	// row holds the previous line of the DP table over the shorter string;
	// diag carries the upper-left cell while row is overwritten in place.
	row := make([]int, len(rb)+1)
	for j := range row {
		row[j] = j
	}
	for i, ca := range ra {
		diag := row[0]
		row[0] = i + 1
		for j, cb := range rb {
			up := row[j+1]
			sub := diag
			if ca != cb {
				sub++
			}
			row[j+1] = min(up+1, row[j]+1, sub)
			diag = up
		}
	}
	return row[len(rb)]
}
