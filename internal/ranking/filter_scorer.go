package ranking

import (
	"math"
	"strings"

	"github.com/hyperjump/vitrine/internal/keyword"
)

// FilterScorer scores in-query category: and tech: filters.
type FilterScorer struct {
	config *RankingConfig
}

// NewFilterScorer creates a new FilterScorer with the given config.
func NewFilterScorer(config *RankingConfig) *FilterScorer {
	return &FilterScorer{config: config}
}

// Name returns the scorer name.
func (s *FilterScorer) Name() string {
	return "field_filters"
}

// Score adds a fixed amount per matching category filter and a fuzzy-weighted
// amount per (tech filter, item technology) pair above the threshold.
func (s *FilterScorer) Score(ctx *ScoringContext, score *Score) {
	for _, category := range ctx.Query.FieldFilters.Categories {
		if category != "" && strings.EqualFold(category, ctx.Item.Category) {
			score.add(FieldCategory, s.config.CategoryFilterScore)
		}
	}

	for _, filterTech := range ctx.Query.FieldFilters.Technologies {
		if filterTech == "" {
			continue
		}
		for _, itemTech := range ctx.Item.Technologies {
			similarity := keyword.FuzzyScore(itemTech, filterTech)
			if similarity > s.config.TechFilterThreshold {
				score.add(FieldTechnologies, int(math.Floor(s.config.TechFilterScale*similarity)))
			}
		}
	}
}
