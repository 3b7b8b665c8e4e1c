package ranking

import (
	"sort"
	"strings"

	"github.com/hyperjump/vitrine/internal/models"
)

// Ranker combines all scorers and bonuses to rank items.
type Ranker struct {
	parser  *QueryParser
	scorers []Scorer
	bonuses []Bonus
}

// NewRanker creates a new Ranker with the given configuration.
func NewRanker(config *RankingConfig) *Ranker {
	if config == nil {
		config = DefaultRankingConfig()
	}
	config.ApplyDefaults()

	return &Ranker{
		parser: NewQueryParser(),
		scorers: []Scorer{
			NewTitleScorer(config),
			NewDescriptionScorer(config),
			NewTechnologyScorer(config),
			NewFilterScorer(config),
		},
		bonuses: DefaultBonuses(config),
	}
}

// WithBonuses replaces the bonus chain.
func (r *Ranker) WithBonuses(bonuses []Bonus) *Ranker {
	r.bonuses = bonuses
	return r
}

// Parse parses a raw query string.
func (r *Ranker) Parse(raw string) *ParsedQuery {
	return r.parser.Parse(raw)
}

// Score computes the relevance score of item for query. It is a pure function
// of its inputs.
func (r *Ranker) Score(query *ParsedQuery, item *models.Item, maxOrdinal int) *Score {
	ctx := &ScoringContext{Query: query, Item: item, MaxOrdinal: maxOrdinal}
	score := newScore()
	for _, s := range r.scorers {
		score.current = s.Name()
		s.Score(ctx, score)
	}
	for _, b := range r.bonuses {
		score.current = b.Name()
		b.Apply(ctx, score)
	}
	score.current = ""
	return score
}

// Breakdown returns per-scorer contributions for debugging.
func (r *Ranker) Breakdown(query *ParsedQuery, item *models.Item, maxOrdinal int) *ScoreBreakdown {
	score := r.Score(query, item, maxOrdinal)
	contributions := make(map[string]int, len(score.contributions))
	for name, points := range score.contributions {
		contributions[name] = points
	}
	return &ScoreBreakdown{
		FinalScore:    score.Value,
		MatchCount:    score.MatchCount,
		MatchedFields: append([]string(nil), score.MatchedFields...),
		Contributions: contributions,
	}
}

// RankedItem holds an item with its computed score.
type RankedItem struct {
	Item  *models.Item
	Score *Score
}

// RankItems scores items, drops zero scores, and sorts the rest.
func (r *Ranker) RankItems(query *ParsedQuery, items []*models.Item, maxOrdinal int) []*RankedItem {
	ranked := make([]*RankedItem, 0, len(items))
	for _, item := range items {
		score := r.Score(query, item, maxOrdinal)
		if score.Value > 0 {
			ranked = append(ranked, &RankedItem{Item: item, Score: score})
		}
	}
	SortRanked(ranked)
	return ranked
}

// SortRanked orders by score, then match count, then featured, then presence
// of metrics (all descending), then title ascending.
func SortRanked(ranked []*RankedItem) {
	sort.SliceStable(ranked, func(i, j int) bool {
		return Less(ranked[i], ranked[j])
	})
}

// Less reports whether a ranks before b.
func Less(a, b *RankedItem) bool {
	if a.Score.Value != b.Score.Value {
		return a.Score.Value > b.Score.Value
	}
	if a.Score.MatchCount != b.Score.MatchCount {
		return a.Score.MatchCount > b.Score.MatchCount
	}
	if a.Item.Featured != b.Item.Featured {
		return a.Item.Featured
	}
	if a.Item.HasMetrics() != b.Item.HasMetrics() {
		return a.Item.HasMetrics()
	}
	at, bt := strings.ToLower(a.Item.Title), strings.ToLower(b.Item.Title)
	if at != bt {
		return at < bt
	}
	return a.Item.Title < b.Item.Title
}

// MaxOrdinal returns the largest ordinal among items.
func MaxOrdinal(items []*models.Item) int {
	maxOrdinal := 0
	for _, item := range items {
		if item.Ordinal > maxOrdinal {
			maxOrdinal = item.Ordinal
		}
	}
	return maxOrdinal
}

// TopN returns the top N results.
func TopN(ranked []*RankedItem, n int) []*RankedItem {
	if n <= 0 || n >= len(ranked) {
		return ranked
	}
	return ranked[:n]
}
