// Package models defines core data structures for catalog items, searches, and results.
package models

import "time"

// Item is a searchable catalog entry (a portfolio project, case study, etc.).
// The search engine treats items as read-only.
type Item struct {
	ID              string            `json:"id" yaml:"id"`
	Title           string            `json:"title" yaml:"title"`
	Description     string            `json:"description" yaml:"description"`
	LongDescription string            `json:"long_description,omitempty" yaml:"long_description"`
	Technologies    []string          `json:"technologies" yaml:"technologies"`
	Category        string            `json:"category" yaml:"category"`
	Featured        bool              `json:"featured" yaml:"featured"`
	LiveURL         string            `json:"live_url,omitempty" yaml:"live_url"`
	RepoURL         string            `json:"repo_url,omitempty" yaml:"repo_url"`
	CaseStudyURL    string            `json:"case_study_url,omitempty" yaml:"case_study_url"`
	Metrics         map[string]string `json:"metrics,omitempty" yaml:"metrics"`
	// Ordinal orders items by publication; higher is newer.
	Ordinal   int       `json:"ordinal" yaml:"ordinal"`
	CreatedAt time.Time `json:"created_at,omitempty" yaml:"created_at"`
}

// HasLiveDemo reports whether the item links to a running demo.
func (i *Item) HasLiveDemo() bool {
	return i.LiveURL != ""
}

// HasRepo reports whether the item links to its source code.
func (i *Item) HasRepo() bool {
	return i.RepoURL != ""
}

// HasCaseStudy reports whether the item links to a case study.
func (i *Item) HasCaseStudy() bool {
	return i.CaseStudyURL != ""
}

// HasMetrics reports whether the item carries analytics data.
func (i *Item) HasMetrics() bool {
	return len(i.Metrics) > 0
}
