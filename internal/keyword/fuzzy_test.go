package keyword

import (
	"math"
	"testing"
)

func TestFuzzyScore(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		query     string
		want      float64
	}{
		{"exact", "React", "react", 1.0},
		{"both empty", "", "", 1.0},
		{"substring", "React Native", "native", 0.8},
		{"empty query is a substring", "React", "", 0.8},
		{"one typo", "TypeScript", "typscript", 0.9},
		{"longer query", "react", "reactt", 1 - 1.0/6},
		{"unrelated", "Vue", "react", 0},
		{"empty candidate", "", "abc", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FuzzyScore(tt.candidate, tt.query)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("FuzzyScore(%q, %q) = %v, want %v", tt.candidate, tt.query, got, tt.want)
			}
		})
	}
}

func TestFuzzyScore_Bounds(t *testing.T) {
	words := []string{"a", "go", "react", "TypeScript", "kubernetes", "postgres", "データ", "zz"}
	for _, a := range words {
		if got := FuzzyScore(a, a); got != 1 {
			t.Errorf("FuzzyScore(%q, %q) = %v, want 1", a, a, got)
		}
		for _, b := range words {
			got := FuzzyScore(a, b)
			if got < 0 || got > 1 {
				t.Errorf("FuzzyScore(%q, %q) = %v, out of [0,1]", a, b, got)
			}
		}
	}
}
