package keyword

import "testing"

func TestLevenshteinDistance(t *testing.T) {
	tests := map[string]struct {
		a, b string
		want int
	}{
		"both empty":          {"", "", 0},
		"equal":               {"react", "react", 0},
		"equal multibyte":     {"東京", "東京", 0},
		"empty left":          {"", "abc", 3},
		"empty right":         {"vue", "", 3},
		"substitute":          {"vue", "vie", 1},
		"insert":              {"nuxt", "nuxtjs", 2},
		"delete":              {"svelte", "svelt", 1},
		"kitten sitting":      {"kitten", "sitting", 3},
		"flaw lawn":           {"flaw", "lawn", 2},
		"typo":                {"dashbord", "dashboard", 1},
		"case sensitive":      {"Go", "go", 1},
		"accent":              {"résumé", "resume", 2},
		"swap is two edits":   {"ab", "ba", 2},
		"disjoint":            {"abc", "xyz", 3},
		"prefix of the other": {"type", "typescript", 6},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := LevenshteinDistance(tt.a, tt.b); got != tt.want {
				t.Errorf("LevenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
			if got := LevenshteinDistance(tt.b, tt.a); got != tt.want {
				t.Errorf("LevenshteinDistance(%q, %q) = %d, want %d (reversed)", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestLevenshteinDistance_TriangleInequality(t *testing.T) {
	words := []string{"", "react", "preact", "redux", "remix", "rect", "vue"}
	for _, a := range words {
		for _, b := range words {
			for _, c := range words {
				ab, bc, ac := LevenshteinDistance(a, b), LevenshteinDistance(b, c), LevenshteinDistance(a, c)
				if ac > ab+bc {
					t.Errorf("d(%q,%q)=%d > d(%q,%q)+d(%q,%q)=%d", a, c, ac, a, b, b, c, ab+bc)
				}
			}
		}
	}
}

func BenchmarkLevenshteinDistance(b *testing.B) {
	pairs := []struct{ name, a, b string }{
		{"short", "kitten", "sitting"},
		{"long", "realtime analytics dashboard for saas teams", "reatlime analytcs dashbaord for sass teams"},
	}
	for _, p := range pairs {
		b.Run(p.name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				LevenshteinDistance(p.a, p.b)
			}
		})
	}
}
