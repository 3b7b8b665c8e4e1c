package ranking

// Bonuses only apply to items that matched the query at least once, so an
// unrelated item still scores zero and is dropped.

// QualityBonus rewards items with richer presentation: featured, metrics, links.
type QualityBonus struct {
	config *RankingConfig
}

// NewQualityBonus creates a new QualityBonus.
func NewQualityBonus(config *RankingConfig) *QualityBonus {
	return &QualityBonus{config: config}
}

// Name returns the bonus name.
func (b *QualityBonus) Name() string {
	return "quality"
}

// Apply adds the fixed quality bonuses.
func (b *QualityBonus) Apply(ctx *ScoringContext, score *Score) {
	if score.MatchCount == 0 {
		return
	}
	item := ctx.Item
	if item.Featured {
		score.bonus(b.config.FeaturedBonus)
	}
	if item.HasMetrics() {
		score.bonus(b.config.MetricsBonus)
	}
	if item.HasLiveDemo() {
		score.bonus(b.config.LiveDemoBonus)
	}
	if item.HasRepo() {
		score.bonus(b.config.RepoBonus)
	}
	if item.HasCaseStudy() {
		score.bonus(b.config.CaseStudyBonus)
	}
}

// CompletenessBonus rewards items matching many parts of a multi-term query.
type CompletenessBonus struct {
	config *RankingConfig
}

// NewCompletenessBonus creates a new CompletenessBonus.
func NewCompletenessBonus(config *RankingConfig) *CompletenessBonus {
	return &CompletenessBonus{config: config}
}

// Name returns the bonus name.
func (b *CompletenessBonus) Name() string {
	return "completeness"
}

// Apply adds floor(matchCount / totalTerms * scale) when the query has more
// than one term or phrase and the item matched more than once.
func (b *CompletenessBonus) Apply(ctx *ScoringContext, score *Score) {
	total := ctx.Query.TotalTerms()
	if total <= 1 || score.MatchCount <= 1 {
		return
	}
	score.bonus(score.MatchCount * b.config.CompletenessScale / total)
}

// RecencyBonus favors newer items using their ordinal within the catalog.
type RecencyBonus struct {
	config *RankingConfig
}

// NewRecencyBonus creates a new RecencyBonus.
func NewRecencyBonus(config *RankingConfig) *RecencyBonus {
	return &RecencyBonus{config: config}
}

// Name returns the bonus name.
func (b *RecencyBonus) Name() string {
	return "recency"
}

// Apply adds floor(max * ordinal / maxOrdinal), bounded to [0, max].
func (b *RecencyBonus) Apply(ctx *ScoringContext, score *Score) {
	if score.MatchCount == 0 {
		return
	}
	score.bonus(RecencyPoints(ctx.Item.Ordinal, ctx.MaxOrdinal, b.config.RecencyMaxBonus))
}

// RecencyPoints maps an ordinal onto [0, maxBonus] relative to maxOrdinal.
func RecencyPoints(ordinal, maxOrdinal, maxBonus int) int {
	if ordinal <= 0 || maxOrdinal <= 0 {
		return 0
	}
	points := maxBonus * ordinal / maxOrdinal
	if points > maxBonus {
		return maxBonus
	}
	return points
}

// DefaultBonuses returns the standard bonus chain.
func DefaultBonuses(config *RankingConfig) []Bonus {
	return []Bonus{
		NewQualityBonus(config),
		NewCompletenessBonus(config),
		NewRecencyBonus(config),
	}
}
