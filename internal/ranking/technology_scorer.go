package ranking

import "strings"

// TechnologyScorer scores query terms against the item's technology tags.
type TechnologyScorer struct {
	config *RankingConfig
}

// NewTechnologyScorer creates a new TechnologyScorer with the given config.
func NewTechnologyScorer(config *RankingConfig) *TechnologyScorer {
	return &TechnologyScorer{config: config}
}

// Name returns the scorer name.
func (s *TechnologyScorer) Name() string {
	return "technologies"
}

// Score checks every (term, tag) pair. Exact equality and containment are
// independent checks, so an exact tag match earns both.
func (s *TechnologyScorer) Score(ctx *ScoringContext, score *Score) {
	if len(ctx.Item.Technologies) == 0 {
		return
	}
	for _, term := range ctx.Query.Terms {
		if term == "" {
			continue
		}
		for _, tech := range ctx.Item.Technologies {
			tech = strings.ToLower(tech)
			if tech == term {
				score.add(FieldTechnologies, s.config.TechExactMatchScore)
			}
			if strings.Contains(tech, term) {
				score.add(FieldTechnologies, s.config.TechSubstringMatchScore)
			}
		}
	}
}
