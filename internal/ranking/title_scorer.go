package ranking

import (
	"strings"
	"unicode/utf8"
)

// TitleScorer scores term and exact-phrase matches in the item title.
type TitleScorer struct {
	config *RankingConfig
}

// NewTitleScorer creates a new TitleScorer with the given config.
func NewTitleScorer(config *RankingConfig) *TitleScorer {
	return &TitleScorer{config: config}
}

// Name returns the scorer name.
func (s *TitleScorer) Name() string {
	return "title"
}

// Score adds one contribution per query term and per exact phrase found in the title.
func (s *TitleScorer) Score(ctx *ScoringContext, score *Score) {
	title := strings.ToLower(ctx.Item.Title)
	if title == "" {
		return
	}

	for _, term := range ctx.Query.Terms {
		idx := strings.Index(title, term)
		if idx < 0 {
			continue
		}
		points := s.config.TitleTermBase +
			s.config.positionPoints(runeIndex(title, idx), s.config.TermPositionBonus) +
			s.lengthPoints(term)
		score.add(FieldTitle, points)
	}

	for _, phrase := range ctx.Query.ExactPhrases {
		idx := strings.Index(title, phrase)
		if idx < 0 {
			continue
		}
		points := s.config.TitlePhraseBase + s.config.positionPoints(runeIndex(title, idx), s.config.PhrasePositionBonus)
		score.add(FieldTitle, points)
	}
}

// lengthPoints favors longer, more specific terms.
func (s *TitleScorer) lengthPoints(term string) int {
	if utf8.RuneCountInString(term) >= s.config.LongTermMinLength {
		return s.config.LongTermBonus
	}
	return s.config.ShortTermBonus
}

// runeIndex converts a byte offset into s to a character offset.
func runeIndex(s string, byteIdx int) int {
	return utf8.RuneCountInString(s[:byteIdx])
}
