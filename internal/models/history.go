package models

import "time"

// SavedSearch is a named query the user chose to keep.
type SavedSearch struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Query     string    `json:"query"`
	Filters   Facets    `json:"filters"`
	CreatedAt time.Time `json:"created_at"`
	LastUsed  time.Time `json:"last_used"`
	UseCount  int       `json:"use_count"`
}

// HistoryEntry records one executed search.
type HistoryEntry struct {
	Query       string    `json:"query"`
	ResultCount int       `json:"result_count"`
	SearchedAt  time.Time `json:"searched_at"`
}

// PopularSearch is a query with the number of times it was run.
type PopularSearch struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}
