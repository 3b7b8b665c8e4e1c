package keyword

import (
	"sort"
	"strings"
	"sync"

	"github.com/hyperjump/vitrine/internal/models"
)

// Suggestion kinds.
const (
	KindTitle      = "title"
	KindTechnology = "technology"
	KindCategory   = "category"
)

// prefixMatchScore ranks prefix hits above plain substring hits.
const prefixMatchScore = 0.9

// Suggestion is a completion candidate for a partially typed query.
type Suggestion struct {
	Text  string  `json:"text"`
	Kind  string  `json:"kind"`
	Score float64 `json:"score"`
}

type dictEntry struct {
	text  string
	lower string
	kind  string
}

// Suggester proposes titles, technologies, and categories that resemble a query.
type Suggester struct {
	threshold      float64
	maxSuggestions int

	mu      sync.RWMutex
	entries []dictEntry
}

// SuggesterOption is a functional option for configuring Suggester.
type SuggesterOption func(*Suggester)

// WithThreshold sets the minimum FuzzyScore a candidate needs to be suggested.
func WithThreshold(t float64) SuggesterOption {
	return func(s *Suggester) {
		if t > 0 && t <= 1 {
			s.threshold = t
		}
	}
}

// WithMaxSuggestions sets the maximum number of suggestions returned.
func WithMaxSuggestions(n int) SuggesterOption {
	return func(s *Suggester) {
		if n > 0 {
			s.maxSuggestions = n
		}
	}
}

// NewSuggester creates a Suggester with an empty dictionary.
func NewSuggester(opts ...SuggesterOption) *Suggester {
	s := &Suggester{
		threshold:      0.35,
		maxSuggestions: 8,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh rebuilds the dictionary from items. Call it whenever the catalog changes.
func (s *Suggester) Refresh(items []*models.Item) {
	seen := make(map[string]struct{})
	entries := make([]dictEntry, 0, len(items)*3)
	add := func(text, kind string) {
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}
		lower := strings.ToLower(text)
		key := kind + "\x00" + lower
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		entries = append(entries, dictEntry{text: text, lower: lower, kind: kind})
	}
	for _, item := range items {
		add(item.Title, KindTitle)
		for _, tech := range item.Technologies {
			add(tech, KindTechnology)
		}
		add(item.Category, KindCategory)
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
}

// Suggest returns up to the configured number of candidates for query, best first.
func (s *Suggester) Suggest(query string) []Suggestion {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	s.mu.RLock()
	entries := s.entries
	s.mu.RUnlock()

	suggestions := make([]Suggestion, 0)
	for _, e := range entries {
		score := FuzzyScore(e.lower, q)
		if score < ExactMatchScore && strings.HasPrefix(e.lower, q) {
			score = prefixMatchScore
		}
		if score < s.threshold {
			continue
		}
		suggestions = append(suggestions, Suggestion{Text: e.text, Kind: e.kind, Score: score})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Score != suggestions[j].Score {
			return suggestions[i].Score > suggestions[j].Score
		}
		if kindRank(suggestions[i].Kind) != kindRank(suggestions[j].Kind) {
			return kindRank(suggestions[i].Kind) < kindRank(suggestions[j].Kind)
		}
		return suggestions[i].Text < suggestions[j].Text
	})

	if len(suggestions) > s.maxSuggestions {
		suggestions = suggestions[:s.maxSuggestions]
	}
	return suggestions
}

// Size returns the number of dictionary entries.
func (s *Suggester) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func kindRank(kind string) int {
	switch kind {
	case KindTitle:
		return 0
	case KindTechnology:
		return 1
	default:
		return 2
	}
}
