package models

import "strings"

// Facets are structured filters selected outside the free-text query.
// Nil booleans mean "no constraint".
type Facets struct {
	Categories   []string `json:"categories,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	Featured     *bool    `json:"featured,omitempty"`
	HasLiveDemo  *bool    `json:"has_live_demo,omitempty"`
	HasGithub    *bool    `json:"has_github,omitempty"`
}

// IsZero reports whether no facet is set.
func (f Facets) IsZero() bool {
	return len(f.Categories) == 0 && len(f.Technologies) == 0 &&
		f.Featured == nil && f.HasLiveDemo == nil && f.HasGithub == nil
}

// Match reports whether item satisfies every facet. Categories match
// case-insensitively; technologies match when any item technology contains
// any selected technology as a substring.
func (f Facets) Match(item *Item) bool {
	if len(f.Categories) > 0 {
		found := false
		for _, c := range f.Categories {
			if strings.EqualFold(c, item.Category) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(f.Technologies) > 0 {
		found := false
		for _, want := range f.Technologies {
			want = strings.ToLower(want)
			for _, tech := range item.Technologies {
				if strings.Contains(strings.ToLower(tech), want) {
					found = true
					break
				}
			}
			if found {
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Featured != nil && *f.Featured != item.Featured {
		return false
	}
	if f.HasLiveDemo != nil && *f.HasLiveDemo != item.HasLiveDemo() {
		return false
	}
	if f.HasGithub != nil && *f.HasGithub != item.HasRepo() {
		return false
	}
	return true
}

// SearchQuery is a search request: free text plus facet filters.
type SearchQuery struct {
	Query   string `json:"query"`
	Filters Facets `json:"filters,omitempty"`
	Limit   int    `json:"limit,omitempty"`
}

// Validate normalizes the limit to (0, maxLimit]. An empty query is valid and
// yields no results.
func (q *SearchQuery) Validate(maxLimit int) {
	if maxLimit <= 0 {
		maxLimit = 100
	}
	if q.Limit <= 0 || q.Limit > maxLimit {
		q.Limit = maxLimit
	}
}
