package models

import "testing"

func ptr(b bool) *bool { return &b }

func TestFacets_Match(t *testing.T) {
	item := &Item{
		Category:     "SaaS",
		Technologies: []string{"React", "Node.js"},
		Featured:     true,
		LiveURL:      "https://demo.example.com",
	}

	tests := []struct {
		name   string
		facets Facets
		want   bool
	}{
		{"zero facets", Facets{}, true},
		{"category case-insensitive", Facets{Categories: []string{"saas"}}, true},
		{"any category", Facets{Categories: []string{"mobile", "saas"}}, true},
		{"wrong category", Facets{Categories: []string{"mobile"}}, false},
		{"tech substring", Facets{Technologies: []string{"node"}}, true},
		{"any tech", Facets{Technologies: []string{"vue", "react"}}, true},
		{"missing tech", Facets{Technologies: []string{"vue"}}, false},
		{"featured", Facets{Featured: ptr(true)}, true},
		{"not featured", Facets{Featured: ptr(false)}, false},
		{"live demo", Facets{HasLiveDemo: ptr(true)}, true},
		{"github required", Facets{HasGithub: ptr(true)}, false},
		{"github absent", Facets{HasGithub: ptr(false)}, true},
		{"all must hold", Facets{Categories: []string{"saas"}, HasGithub: ptr(true)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.facets.Match(item); got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFacets_IsZero(t *testing.T) {
	if !(Facets{}).IsZero() {
		t.Error("empty facets should be zero")
	}
	if (Facets{Featured: ptr(false)}).IsZero() {
		t.Error("facets with a boolean set should not be zero")
	}
}

func TestSearchQuery_Validate(t *testing.T) {
	tests := []struct {
		name     string
		limit    int
		maxLimit int
		want     int
	}{
		{"zero limit uses max", 0, 50, 50},
		{"negative limit uses max", -3, 50, 50},
		{"within range", 10, 50, 10},
		{"clamped", 500, 50, 50},
		{"default max", 0, 0, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &SearchQuery{Limit: tt.limit}
			q.Validate(tt.maxLimit)
			if q.Limit != tt.want {
				t.Errorf("Limit = %d, want %d", q.Limit, tt.want)
			}
		})
	}
}

func TestItem_Helpers(t *testing.T) {
	item := &Item{}
	if item.HasLiveDemo() || item.HasRepo() || item.HasCaseStudy() || item.HasMetrics() {
		t.Error("empty item should report no extras")
	}
	item = &Item{
		LiveURL:      "https://a",
		RepoURL:      "https://github.com/a/b",
		CaseStudyURL: "https://c",
		Metrics:      map[string]string{"users": "5k"},
	}
	if !item.HasLiveDemo() || !item.HasRepo() || !item.HasCaseStudy() || !item.HasMetrics() {
		t.Error("populated item should report all extras")
	}
}
