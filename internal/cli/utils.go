// Package cli provides CLI output helpers for Vitrine.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hyperjump/vitrine/internal/keyword"
	"github.com/hyperjump/vitrine/internal/models"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// WriteSearchResults writes search results to w in the given format.
// Use OutputJSON for parseable output consumable by other apps.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, response)
	default:
		writeSearchResultsText(w, response)
		return nil
	}
}

func writeSearchResultsText(w io.Writer, response *models.SearchResponse) {
	fmt.Fprintf(w, "\nFound %d results for %q in %dms\n\n", response.Total, response.Query, response.QueryTime)
	for _, result := range response.Results {
		writeOneResult(w, result)
	}
	if len(response.Results) < response.Total {
		fmt.Fprintf(w, "(showing %d of %d)\n", len(response.Results), response.Total)
	}
	if len(response.Suggestions) > 0 {
		fmt.Fprintf(w, "Did you mean: %s?\n", strings.Join(response.Suggestions, ", "))
	}
}

func writeOneResult(w io.Writer, result *models.SearchResult) {
	fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
	fmt.Fprintf(w, "Rank: %d | Score: %d | Matched: %s\n",
		result.Rank, result.RelevanceScore, strings.Join(result.MatchedFields, ", "))
	fmt.Fprintf(w, "ID: %s\n", result.Item.ID)
	fmt.Fprintf(w, "Title: %s\n", result.Item.Title)
	if result.Item.Category != "" {
		fmt.Fprintf(w, "Category: %s\n", result.Item.Category)
	}
	if len(result.Item.Technologies) > 0 {
		fmt.Fprintf(w, "Tech: %s\n", strings.Join(result.Item.Technologies, ", "))
	}
	fmt.Fprintf(w, "\n%s\n", Truncate(result.Item.Description, 200))
	if result.Item.LongDescription != "" {
		fmt.Fprintf(w, "%s\n", TruncateWords(result.Item.LongDescription, 30))
	}
	fmt.Fprintln(w)
}

// WriteSuggestions writes completion candidates to w in the given format.
func WriteSuggestions(w io.Writer, suggestions []keyword.Suggestion, format OutputFormat) error {
	if format == OutputJSON {
		if suggestions == nil {
			suggestions = []keyword.Suggestion{}
		}
		return writeJSON(w, suggestions)
	}
	if len(suggestions) == 0 {
		fmt.Fprintln(w, "No suggestions")
		return nil
	}
	for _, s := range suggestions {
		fmt.Fprintf(w, "%-30s %-10s %.2f\n", s.Text, s.Kind, s.Score)
	}
	return nil
}

// PrintSearchResults prints search results to stdout in text format.
func PrintSearchResults(response *models.SearchResponse) {
	_ = WriteSearchResults(os.Stdout, response, OutputText)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Truncate truncates s to maxLen runes and appends "..." if truncated.
func Truncate(s string, maxLen int) string {
	r := []rune(s)
	if maxLen <= 0 || len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}

// TruncateWords returns up to maxWords from the space-separated string.
func TruncateWords(s string, maxWords int) string {
	words := strings.Fields(s)
	if len(words) <= maxWords {
		return s
	}
	return strings.Join(words[:maxWords], " ") + "..."
}
