package search

import (
	"html"
	"regexp"
	"sort"
	"strings"

	"github.com/hyperjump/vitrine/internal/ranking"
)

// Default match markers.
const (
	DefaultHighlightOpen  = "<mark>"
	DefaultHighlightClose = "</mark>"
)

// Highlighter wraps query matches in markers. Text outside the markers is
// HTML-escaped because the markers themselves are HTML.
type Highlighter struct {
	open  string
	close string
}

// NewHighlighter creates a Highlighter. Empty markers fall back to <mark>.
func NewHighlighter(open, close string) *Highlighter {
	if open == "" {
		open = DefaultHighlightOpen
	}
	if close == "" {
		close = DefaultHighlightClose
	}
	return &Highlighter{open: open, close: close}
}

type span struct {
	start, end int
}

// Highlight marks every case-insensitive occurrence of each exact phrase, then
// each term. A term occurrence overlapping an already marked phrase is skipped,
// so phrases stay in one piece.
func (h *Highlighter) Highlight(text string, query *ranking.ParsedQuery) string {
	if text == "" || query == nil {
		return html.EscapeString(text)
	}

	var spans []span
	for _, phrase := range query.ExactPhrases {
		spans = addMatches(spans, text, phrase)
	}
	for _, term := range query.Terms {
		spans = addMatches(spans, text, term)
	}
	if len(spans) == 0 {
		return html.EscapeString(text)
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	var b strings.Builder
	prev := 0
	for _, s := range spans {
		b.WriteString(html.EscapeString(text[prev:s.start]))
		b.WriteString(h.open)
		b.WriteString(html.EscapeString(text[s.start:s.end]))
		b.WriteString(h.close)
		prev = s.end
	}
	b.WriteString(html.EscapeString(text[prev:]))
	return b.String()
}

func addMatches(spans []span, text, needle string) []span {
	if strings.TrimSpace(needle) == "" {
		return spans
	}
	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(needle))
	if err != nil {
		return spans
	}
	for _, loc := range re.FindAllStringIndex(text, -1) {
		candidate := span{start: loc[0], end: loc[1]}
		if !overlaps(spans, candidate) {
			spans = append(spans, candidate)
		}
	}
	return spans
}

func overlaps(spans []span, c span) bool {
	for _, s := range spans {
		if c.start < s.end && s.start < c.end {
			return true
		}
	}
	return false
}
