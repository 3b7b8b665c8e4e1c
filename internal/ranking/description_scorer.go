package ranking

import "strings"

// DescriptionScorer scores term matches in the short and long descriptions.
type DescriptionScorer struct {
	config *RankingConfig
}

// NewDescriptionScorer creates a new DescriptionScorer with the given config.
func NewDescriptionScorer(config *RankingConfig) *DescriptionScorer {
	return &DescriptionScorer{config: config}
}

// Name returns the scorer name.
func (s *DescriptionScorer) Name() string {
	return "description"
}

// Score adds a frequency-weighted contribution per term in the description and
// a flat contribution per term in the long description.
func (s *DescriptionScorer) Score(ctx *ScoringContext, score *Score) {
	description := strings.ToLower(ctx.Item.Description)
	longDescription := strings.ToLower(ctx.Item.LongDescription)

	for _, term := range ctx.Query.Terms {
		if term == "" {
			continue
		}
		if occurrences := strings.Count(description, term); occurrences > 0 {
			frequency := min(occurrences*s.config.DescriptionOccurrenceBonus, s.config.DescriptionMaxFrequencyBonus)
			score.add(FieldDescription, s.config.DescriptionTermBase+frequency)
		}
		if strings.Contains(longDescription, term) {
			score.add(FieldLongDescription, s.config.LongDescriptionTermScore)
		}
	}
}
