package keyword

import (
	"testing"

	"github.com/hyperjump/vitrine/internal/models"
)

func sampleItems() []*models.Item {
	return []*models.Item{
		{ID: "1", Title: "React Dashboard", Technologies: []string{"React", "TypeScript"}, Category: "saas"},
		{ID: "2", Title: "Vue Store", Technologies: []string{"Vue", "Node.js"}, Category: "ecommerce"},
		{ID: "3", Title: "Realtime Chat", Technologies: []string{"React", "WebSocket"}, Category: "saas"},
	}
}

func TestSuggester_Refresh_Deduplicates(t *testing.T) {
	s := NewSuggester()
	s.Refresh(sampleItems())
	// 3 titles + React, TypeScript, Vue, Node.js, WebSocket + saas, ecommerce
	if got := s.Size(); got != 10 {
		t.Errorf("Size() = %d, want 10", got)
	}
}

func TestSuggester_Suggest(t *testing.T) {
	s := NewSuggester()
	s.Refresh(sampleItems())

	got := s.Suggest("reac")
	if len(got) == 0 {
		t.Fatal("expected suggestions for prefix")
	}
	if got[0].Score != prefixMatchScore {
		t.Errorf("first suggestion score = %v, want prefix score %v", got[0].Score, prefixMatchScore)
	}
	if got[0].Text != "React Dashboard" {
		t.Errorf("first suggestion = %q, want title to rank before technology on ties", got[0].Text)
	}

	typo := s.Suggest("typscript")
	found := false
	for _, sg := range typo {
		if sg.Text == "TypeScript" && sg.Kind == KindTechnology {
			found = true
		}
	}
	if !found {
		t.Errorf("expected TypeScript suggestion for typo, got %+v", typo)
	}
}

func TestSuggester_EmptyQuery(t *testing.T) {
	s := NewSuggester()
	s.Refresh(sampleItems())
	if got := s.Suggest("   "); got != nil {
		t.Errorf("Suggest(blank) = %v, want nil", got)
	}
}

func TestSuggester_Options(t *testing.T) {
	s := NewSuggester(WithMaxSuggestions(1), WithThreshold(0.99))
	s.Refresh(sampleItems())
	got := s.Suggest("react")
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Text != "React" || got[0].Score != ExactMatchScore {
		t.Errorf("got %+v, want exact React", got[0])
	}
}
