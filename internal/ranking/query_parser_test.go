package ranking

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func boolPtr(b bool) *bool { return &b }

func TestQueryParser_Parse(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  *ParsedQuery
	}{
		{
			name:  "bare terms",
			query: "react dashboard",
			want: &ParsedQuery{
				Terms:        []string{"react", "dashboard"},
				ExactPhrases: []string{},
			},
		},
		{
			name:  "terms are lowercased",
			query: "React   DASHBOARD",
			want: &ParsedQuery{
				Terms:        []string{"react", "dashboard"},
				ExactPhrases: []string{},
			},
		},
		{
			name:  "multi token phrase and term",
			query: `"task management" react`,
			want: &ParsedQuery{
				Terms:        []string{"react"},
				ExactPhrases: []string{"task management"},
			},
		},
		{
			name:  "single token phrase",
			query: `"analytics" app`,
			want: &ParsedQuery{
				Terms:        []string{"app"},
				ExactPhrases: []string{"analytics"},
			},
		},
		{
			name:  "unterminated phrase consumes the rest",
			query: `web "real time chat app`,
			want: &ParsedQuery{
				Terms:        []string{"web"},
				ExactPhrases: []string{"real time chat app"},
			},
		},
		{
			name:  "field filters and modifier",
			query: "category:saas featured:true",
			want: &ParsedQuery{
				Terms:        []string{},
				ExactPhrases: []string{},
				FieldFilters: FieldFilters{Categories: []string{"saas"}},
				Modifiers:    Modifiers{Featured: boolPtr(true)},
			},
		},
		{
			name:  "multiple tech filters",
			query: "tech:React tech:node.js store",
			want: &ParsedQuery{
				Terms:        []string{"store"},
				ExactPhrases: []string{},
				FieldFilters: FieldFilters{Technologies: []string{"react", "node.js"}},
			},
		},
		{
			name:  "modifier values compare to true case-insensitively",
			query: "live:TRUE github:false featured:maybe",
			want: &ParsedQuery{
				Terms:        []string{},
				ExactPhrases: []string{},
				Modifiers: Modifiers{
					Featured: boolPtr(false),
					LiveDemo: boolPtr(true),
					Github:   boolPtr(false),
				},
			},
		},
		{
			name:  "empty field value",
			query: "category:",
			want: &ParsedQuery{
				Terms:        []string{},
				ExactPhrases: []string{},
				FieldFilters: FieldFilters{Categories: []string{""}},
			},
		},
		{
			name:  "unknown field is a term",
			query: "https://example.com",
			want: &ParsedQuery{
				Terms:        []string{"https://example.com"},
				ExactPhrases: []string{},
			},
		},
		{
			name:  "operators",
			query: "react AND vue or angular",
			want: &ParsedQuery{
				Terms:        []string{"react", "vue", "angular"},
				ExactPhrases: []string{},
				Operators:    []string{"AND", "OR"},
			},
		},
		{
			name:  "NOT excludes the next term",
			query: "dashboard NOT vue",
			want: &ParsedQuery{
				Terms:        []string{"dashboard"},
				ExactPhrases: []string{},
				Operators:    []string{"NOT"},
				Excluded:     []string{"vue"},
			},
		},
		{
			name:  "NOT excludes the next phrase",
			query: `not "legacy app" crm`,
			want: &ParsedQuery{
				Terms:        []string{"crm"},
				ExactPhrases: []string{},
				Operators:    []string{"NOT"},
				Excluded:     []string{"legacy app"},
			},
		},
		{
			name:  "empty",
			query: "   ",
			want: &ParsedQuery{
				Terms:        []string{},
				ExactPhrases: []string{},
			},
		},
	}

	parser := NewQueryParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parser.Parse(tt.query)
			tt.want.Original = tt.query
			if tt.want.FieldFilters.Categories == nil {
				tt.want.FieldFilters.Categories = []string{}
			}
			if tt.want.FieldFilters.Technologies == nil {
				tt.want.FieldFilters.Technologies = []string{}
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.query, diff)
			}
		})
	}
}

func TestParsedQuery_TotalTerms(t *testing.T) {
	q := Parse(`"task management" react vue category:saas`)
	if got := q.TotalTerms(); got != 3 {
		t.Errorf("TotalTerms() = %d, want 3", got)
	}
	if q.HasOperator(OperatorAnd) {
		t.Error("HasOperator(AND) = true, want false")
	}
}
