// Package ranking parses search queries and scores catalog items against them.
package ranking

import (
	"github.com/hyperjump/vitrine/internal/models"
)

// Field names reported in SearchResult.MatchedFields.
const (
	FieldTitle           = "title"
	FieldDescription     = "description"
	FieldLongDescription = "long_description"
	FieldTechnologies    = "technologies"
	FieldCategory        = "category"
)

// Boolean operator tokens recognized by the parser.
const (
	OperatorAnd = "AND"
	OperatorOr  = "OR"
	OperatorNot = "NOT"
)

// FieldFilters holds in-query field:value filters. An item may satisfy
// several technology filters at once, so both kinds are lists.
type FieldFilters struct {
	Categories   []string `json:"categories"`
	Technologies []string `json:"technologies"`
}

// Modifiers holds in-query boolean modifiers. Nil means unset.
type Modifiers struct {
	Featured *bool `json:"featured,omitempty"`
	LiveDemo *bool `json:"live,omitempty"`
	Github   *bool `json:"github,omitempty"`
}

// ParsedQuery is the structured form of a raw query string. Every input token
// lands in exactly one of Terms, ExactPhrases, FieldFilters, Modifiers, or
// Operators; a term or phrase preceded by NOT goes to Excluded instead.
type ParsedQuery struct {
	Original     string       `json:"original"`
	Terms        []string     `json:"terms"`
	ExactPhrases []string     `json:"exact_phrases"`
	FieldFilters FieldFilters `json:"field_filters"`
	Modifiers    Modifiers    `json:"modifiers"`
	Operators    []string     `json:"operators,omitempty"`
	Excluded     []string     `json:"excluded,omitempty"`
}

// TotalTerms is the number of terms plus exact phrases.
func (q *ParsedQuery) TotalTerms() int {
	return len(q.Terms) + len(q.ExactPhrases)
}

// HasOperator reports whether op appeared in the query.
func (q *ParsedQuery) HasOperator(op string) bool {
	for _, o := range q.Operators {
		if o == op {
			return true
		}
	}
	return false
}

// MergeFacets returns facets with any unset boolean filled from the query's modifiers.
// Facets chosen explicitly by the caller win over in-query modifiers.
func (q *ParsedQuery) MergeFacets(facets models.Facets) models.Facets {
	merged := facets
	if merged.Featured == nil {
		merged.Featured = q.Modifiers.Featured
	}
	if merged.HasLiveDemo == nil {
		merged.HasLiveDemo = q.Modifiers.LiveDemo
	}
	if merged.HasGithub == nil {
		merged.HasGithub = q.Modifiers.Github
	}
	return merged
}

// ScoringContext provides everything needed to score one item.
type ScoringContext struct {
	Query *ParsedQuery
	Item  *models.Item
	// MaxOrdinal is the largest Item.Ordinal in the candidate set.
	MaxOrdinal int
}

// Score accumulates scoring contributions for one item.
type Score struct {
	Value         int
	MatchedFields []string
	MatchCount    int

	contributions map[string]int
	current       string
}

func newScore() *Score {
	return &Score{contributions: make(map[string]int)}
}

// add records a query-driven match worth points in field.
func (s *Score) add(field string, points int) {
	s.Value += points
	s.MatchCount++
	s.contributions[s.current] += points
	for _, f := range s.MatchedFields {
		if f == field {
			return
		}
	}
	s.MatchedFields = append(s.MatchedFields, field)
}

// bonus records points that do not count as a match.
func (s *Score) bonus(points int) {
	if points <= 0 {
		return
	}
	s.Value += points
	s.contributions[s.current] += points
}

// Scorer adds query-driven contributions for one aspect of an item.
type Scorer interface {
	// Score records contributions for ctx.Item into s.
	Score(ctx *ScoringContext, s *Score)
	// Name returns the name of the scorer for debugging/logging.
	Name() string
}

// Bonus adds points that depend on what the scorers already found.
type Bonus interface {
	// Apply records the bonus for ctx.Item into s.
	Apply(ctx *ScoringContext, s *Score)
	// Name returns the name of the bonus for debugging/logging.
	Name() string
}

// ScoreBreakdown provides detailed scoring information for debugging.
type ScoreBreakdown struct {
	FinalScore    int            `json:"final_score"`
	MatchCount    int            `json:"match_count"`
	MatchedFields []string       `json:"matched_fields"`
	Contributions map[string]int `json:"contributions"`
}
