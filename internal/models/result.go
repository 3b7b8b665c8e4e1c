package models

// SearchResult is one ranked item. Results are built fresh on every search
// and never mutated afterwards.
type SearchResult struct {
	Item                   *Item    `json:"item"`
	RelevanceScore         int      `json:"relevance_score"`
	MatchedFields          []string `json:"matched_fields"`
	MatchCount             int      `json:"match_count"`
	HighlightedTitle       string   `json:"highlighted_title"`
	HighlightedDescription string   `json:"highlighted_description"`
	Rank                   int      `json:"rank"`
}

// HasField reports whether field contributed to the score.
func (r *SearchResult) HasField(field string) bool {
	for _, f := range r.MatchedFields {
		if f == field {
			return true
		}
	}
	return false
}

// SearchResponse is the response for a search request.
type SearchResponse struct {
	Query     string          `json:"query"`
	Results   []*SearchResult `json:"results"`
	Total     int             `json:"total"`
	QueryTime int64           `json:"query_time_ms"`
	// Suggestions holds "did you mean" candidates when nothing matched.
	Suggestions []string `json:"suggestions,omitempty"`
}
