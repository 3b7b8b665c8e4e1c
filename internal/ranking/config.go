package ranking

// PositionBonus holds the points awarded by where a match starts in a title.
type PositionBonus struct {
	Start int `yaml:"start"` // match at index 0
	Early int `yaml:"early"` // match within the early window
	Late  int `yaml:"late"`  // anywhere else
}

// RankingConfig holds all configuration for the ranking system.
//
// ApplyDefaults treats a zero field as unset and replaces it with its default,
// so a weight cannot be switched off by setting it to 0 in YAML. To make a
// contribution negligible, give it a small positive value, or drop the bonus
// from the chain with Ranker.WithBonuses.
type RankingConfig struct {
	// Title scoring
	TitleTermBase       int           `yaml:"title_term_base"`       // default: 10
	TitlePhraseBase     int           `yaml:"title_phrase_base"`     // default: 15
	TermPositionBonus   PositionBonus `yaml:"term_position_bonus"`   // default: 5/3/1
	PhrasePositionBonus PositionBonus `yaml:"phrase_position_bonus"` // default: 8/5/2
	EarlyPositionWindow int           `yaml:"early_position_window"` // default: 10
	LongTermBonus       int           `yaml:"long_term_bonus"`       // default: 2
	ShortTermBonus      int           `yaml:"short_term_bonus"`      // default: 1
	LongTermMinLength   int           `yaml:"long_term_min_length"`  // default: 4

	// Description scoring
	DescriptionTermBase          int `yaml:"description_term_base"`           // default: 5
	DescriptionOccurrenceBonus   int `yaml:"description_occurrence_bonus"`    // default: 2
	DescriptionMaxFrequencyBonus int `yaml:"description_max_frequency_bonus"` // default: 6
	LongDescriptionTermScore     int `yaml:"long_description_term_score"`     // default: 3

	// Technology scoring
	TechExactMatchScore     int `yaml:"tech_exact_match_score"`     // default: 12
	TechSubstringMatchScore int `yaml:"tech_substring_match_score"` // default: 8

	// Field filters
	CategoryFilterScore int     `yaml:"category_filter_score"` // default: 15
	TechFilterThreshold float64 `yaml:"tech_filter_threshold"` // default: 0.7
	TechFilterScale     float64 `yaml:"tech_filter_scale"`     // default: 10

	// Quality bonuses
	FeaturedBonus  int `yaml:"featured_bonus"`   // default: 3
	MetricsBonus   int `yaml:"metrics_bonus"`    // default: 2
	LiveDemoBonus  int `yaml:"live_demo_bonus"`  // default: 2
	RepoBonus      int `yaml:"repo_bonus"`       // default: 1
	CaseStudyBonus int `yaml:"case_study_bonus"` // default: 1

	// Multi-term completeness and recency
	CompletenessScale int `yaml:"completeness_scale"` // default: 5
	RecencyMaxBonus   int `yaml:"recency_max_bonus"`  // default: 5
}

// DefaultRankingConfig returns the default ranking configuration.
func DefaultRankingConfig() *RankingConfig {
	return &RankingConfig{
		TitleTermBase:       10,
		TitlePhraseBase:     15,
		TermPositionBonus:   PositionBonus{Start: 5, Early: 3, Late: 1},
		PhrasePositionBonus: PositionBonus{Start: 8, Early: 5, Late: 2},
		EarlyPositionWindow: 10,
		LongTermBonus:       2,
		ShortTermBonus:      1,
		LongTermMinLength:   4,

		DescriptionTermBase:          5,
		DescriptionOccurrenceBonus:   2,
		DescriptionMaxFrequencyBonus: 6,
		LongDescriptionTermScore:     3,

		TechExactMatchScore:     12,
		TechSubstringMatchScore: 8,

		CategoryFilterScore: 15,
		TechFilterThreshold: 0.7,
		TechFilterScale:     10,

		FeaturedBonus:  3,
		MetricsBonus:   2,
		LiveDemoBonus:  2,
		RepoBonus:      1,
		CaseStudyBonus: 1,

		CompletenessScale: 5,
		RecencyMaxBonus:   5,
	}
}

// ApplyDefaults fills in zero values with defaults. It is idempotent.
func (c *RankingConfig) ApplyDefaults() {
	d := DefaultRankingConfig()

	setInt := func(v *int, def int) {
		if *v == 0 {
			*v = def
		}
	}
	setPosition := func(v *PositionBonus, def PositionBonus) {
		if *v == (PositionBonus{}) {
			*v = def
		}
	}

	setInt(&c.TitleTermBase, d.TitleTermBase)
	setInt(&c.TitlePhraseBase, d.TitlePhraseBase)
	setPosition(&c.TermPositionBonus, d.TermPositionBonus)
	setPosition(&c.PhrasePositionBonus, d.PhrasePositionBonus)
	setInt(&c.EarlyPositionWindow, d.EarlyPositionWindow)
	setInt(&c.LongTermBonus, d.LongTermBonus)
	setInt(&c.ShortTermBonus, d.ShortTermBonus)
	setInt(&c.LongTermMinLength, d.LongTermMinLength)

	setInt(&c.DescriptionTermBase, d.DescriptionTermBase)
	setInt(&c.DescriptionOccurrenceBonus, d.DescriptionOccurrenceBonus)
	setInt(&c.DescriptionMaxFrequencyBonus, d.DescriptionMaxFrequencyBonus)
	setInt(&c.LongDescriptionTermScore, d.LongDescriptionTermScore)

	setInt(&c.TechExactMatchScore, d.TechExactMatchScore)
	setInt(&c.TechSubstringMatchScore, d.TechSubstringMatchScore)

	setInt(&c.CategoryFilterScore, d.CategoryFilterScore)
	if c.TechFilterThreshold == 0 {
		c.TechFilterThreshold = d.TechFilterThreshold
	}
	if c.TechFilterScale == 0 {
		c.TechFilterScale = d.TechFilterScale
	}

	setInt(&c.FeaturedBonus, d.FeaturedBonus)
	setInt(&c.MetricsBonus, d.MetricsBonus)
	setInt(&c.LiveDemoBonus, d.LiveDemoBonus)
	setInt(&c.RepoBonus, d.RepoBonus)
	setInt(&c.CaseStudyBonus, d.CaseStudyBonus)

	setInt(&c.CompletenessScale, d.CompletenessScale)
	setInt(&c.RecencyMaxBonus, d.RecencyMaxBonus)
}

// positionPoints picks the bonus for a match starting at character index idx.
func (c *RankingConfig) positionPoints(idx int, bonus PositionBonus) int {
	switch {
	case idx == 0:
		return bonus.Start
	case idx < c.EarlyPositionWindow:
		return bonus.Early
	default:
		return bonus.Late
	}
}
