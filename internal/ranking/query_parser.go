package ranking

import (
	"strings"

	"github.com/hyperjump/vitrine/internal/models"
)

const quote = `"`

// QueryParser turns raw query text into a ParsedQuery. It never fails: malformed
// input degrades to empty filter values or plain terms.
type QueryParser struct{}

// NewQueryParser creates a new QueryParser.
func NewQueryParser() *QueryParser {
	return &QueryParser{}
}

// Parse is shorthand for NewQueryParser().Parse(raw).
func Parse(raw string) *ParsedQuery {
	return NewQueryParser().Parse(raw)
}

// Parse tokenizes raw on whitespace and classifies tokens left to right.
//
// Supported syntax: bare terms, "quoted phrases", category:<v>, tech:<v>,
// featured:true|false, live:true|false, github:true|false, and the operators
// AND, OR, NOT. NOT excludes the term or phrase that follows it; AND and OR
// are recorded but do not change scoring.
func (p *QueryParser) Parse(raw string) *ParsedQuery {
	result := &ParsedQuery{
		Original:     raw,
		Terms:        []string{},
		ExactPhrases: []string{},
		FieldFilters: FieldFilters{
			Categories:   []string{},
			Technologies: []string{},
		},
	}

	tokens := strings.Fields(raw)
	negateNext := false

	for i := 0; i < len(tokens); i++ {
		token := tokens[i]

		if strings.HasPrefix(token, quote) {
			var phrase string
			phrase, i = p.capturePhrase(tokens, i)
			phrase = strings.ToLower(strings.TrimSpace(phrase))
			if phrase != "" {
				if negateNext {
					result.Excluded = append(result.Excluded, phrase)
				} else {
					result.ExactPhrases = append(result.ExactPhrases, phrase)
				}
			}
			negateNext = false
			continue
		}

		if op, ok := operatorToken(token); ok {
			result.Operators = append(result.Operators, op)
			negateNext = op == OperatorNot
			continue
		}

		if p.applyField(token, result) {
			negateNext = false
			continue
		}

		term := strings.ToLower(token)
		if negateNext {
			result.Excluded = append(result.Excluded, term)
			negateNext = false
		} else {
			result.Terms = append(result.Terms, term)
		}
	}

	return result
}

// capturePhrase reads a quoted phrase starting at tokens[start]. It returns the
// phrase text without quotes and the index of the last consumed token.
// An unterminated phrase consumes all remaining tokens.
func (p *QueryParser) capturePhrase(tokens []string, start int) (string, int) {
	first := tokens[start]
	if len(first) > 1 && strings.HasSuffix(first, quote) {
		return first[1 : len(first)-1], start
	}

	parts := []string{strings.TrimPrefix(first, quote)}
	i := start
	for i+1 < len(tokens) {
		i++
		next := tokens[i]
		if strings.HasSuffix(next, quote) {
			parts = append(parts, strings.TrimSuffix(next, quote))
			break
		}
		parts = append(parts, next)
	}
	return strings.Join(parts, " "), i
}

// applyField handles field:value and modifier:bool tokens. It reports whether
// the token was consumed.
func (p *QueryParser) applyField(token string, result *ParsedQuery) bool {
	field, value, ok := strings.Cut(token, ":")
	if !ok {
		return false
	}

	switch strings.ToLower(field) {
	case "category":
		result.FieldFilters.Categories = append(result.FieldFilters.Categories, strings.ToLower(value))
	case "tech":
		result.FieldFilters.Technologies = append(result.FieldFilters.Technologies, strings.ToLower(value))
	case "featured":
		result.Modifiers.Featured = parseModifier(value)
	case "live":
		result.Modifiers.LiveDemo = parseModifier(value)
	case "github":
		result.Modifiers.Github = parseModifier(value)
	default:
		return false
	}
	return true
}

func parseModifier(value string) *bool {
	v := strings.EqualFold(value, "true")
	return &v
}

func operatorToken(token string) (string, bool) {
	switch upper := strings.ToUpper(token); upper {
	case OperatorAnd, OperatorOr, OperatorNot:
		return upper, true
	}
	return "", false
}

// IsExcluded reports whether item contains any NOT-ed term or phrase in its
// title, descriptions, or technologies.
func IsExcluded(query *ParsedQuery, item *models.Item) bool {
	if len(query.Excluded) == 0 {
		return false
	}
	haystacks := []string{
		strings.ToLower(item.Title),
		strings.ToLower(item.Description),
		strings.ToLower(item.LongDescription),
	}
	for _, tech := range item.Technologies {
		haystacks = append(haystacks, strings.ToLower(tech))
	}
	for _, excluded := range query.Excluded {
		for _, h := range haystacks {
			if strings.Contains(h, excluded) {
				return true
			}
		}
	}
	return false
}
