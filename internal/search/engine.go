// Package search runs queries against the item catalog: facet pre-filtering,
// scoring, ordering, highlighting, and the search-history side effect.
package search

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/vitrine/internal/keyword"
	"github.com/hyperjump/vitrine/internal/models"
	"github.com/hyperjump/vitrine/internal/ranking"
)

// ItemSource supplies the current candidate items. Implementations must not
// mutate returned items.
type ItemSource interface {
	Items() []*models.Item
}

// Recorder persists executed queries.
type Recorder interface {
	RecordSearch(ctx context.Context, query string, resultCount int) error
}

// Observer receives per-search measurements.
type Observer interface {
	ObserveSearch(duration time.Duration, resultCount int)
}

// Subscriber receives every new response.
type Subscriber func(*models.SearchResponse)

// DefaultMaxResults caps the number of results returned per search.
const DefaultMaxResults = 50

// Engine runs searches over an ItemSource.
type Engine struct {
	source      ItemSource
	ranker      *ranking.Ranker
	highlighter *Highlighter
	suggester   *keyword.Suggester
	recorder    Recorder
	observer    Observer
	debouncer   *Debouncer
	logger      *zap.Logger
	maxResults  int

	mu          sync.RWMutex
	subscribers map[int]Subscriber
	nextSubID   int
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithRecorder records every non-empty query.
func WithRecorder(r Recorder) EngineOption {
	return func(e *Engine) { e.recorder = r }
}

// WithObserver reports search timings.
func WithObserver(o Observer) EngineOption {
	return func(e *Engine) { e.observer = o }
}

// WithHighlighter replaces the default <mark> highlighter.
func WithHighlighter(h *Highlighter) EngineOption {
	return func(e *Engine) {
		if h != nil {
			e.highlighter = h
		}
	}
}

// WithSuggester enables "did you mean" suggestions for empty result sets.
func WithSuggester(s *keyword.Suggester) EngineOption {
	return func(e *Engine) { e.suggester = s }
}

// WithDebounce sets the quiet period used by Submit.
func WithDebounce(delay time.Duration) EngineOption {
	return func(e *Engine) { e.debouncer = NewDebouncer(delay) }
}

// WithMaxResults caps results per search.
func WithMaxResults(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.maxResults = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an Engine. A nil ranker uses the default ranking config.
func NewEngine(source ItemSource, ranker *ranking.Ranker, opts ...EngineOption) *Engine {
	if ranker == nil {
		ranker = ranking.NewRanker(nil)
	}
	e := &Engine{
		source:      source,
		ranker:      ranker,
		highlighter: NewHighlighter("", ""),
		debouncer:   NewDebouncer(DefaultDebounce),
		logger:      zap.NewNop(),
		maxResults:  DefaultMaxResults,
		subscribers: make(map[int]Subscriber),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.Refresh()
	return e
}

// Refresh rebuilds derived state after the item source changed.
func (e *Engine) Refresh() {
	if e.suggester != nil {
		e.suggester.Refresh(e.source.Items())
	}
}

// Search runs query and notifies subscribers with the response. A blank query
// yields an empty response and is not recorded.
func (e *Engine) Search(ctx context.Context, query *models.SearchQuery) (*models.SearchResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	query.Validate(e.maxResults)

	response := &models.SearchResponse{
		Query:   query.Query,
		Results: []*models.SearchResult{},
	}
	if strings.TrimSpace(query.Query) == "" {
		e.publish(response)
		return response, nil
	}

	parsed := e.ranker.Parse(query.Query)
	items := e.source.Items()
	maxOrdinal := ranking.MaxOrdinal(items)

	ranked := e.ranker.RankItems(parsed, e.prefilter(items, parsed, query.Filters), maxOrdinal)
	response.Total = len(ranked)

	for i, r := range ranking.TopN(ranked, query.Limit) {
		response.Results = append(response.Results, &models.SearchResult{
			Item:                   r.Item,
			RelevanceScore:         r.Score.Value,
			MatchedFields:          r.Score.MatchedFields,
			MatchCount:             r.Score.MatchCount,
			HighlightedTitle:       e.highlighter.Highlight(r.Item.Title, parsed),
			HighlightedDescription: e.highlighter.Highlight(r.Item.Description, parsed),
			Rank:                   i + 1,
		})
	}

	if response.Total == 0 {
		response.Suggestions = e.suggestFor(parsed)
	}

	if e.recorder != nil {
		if err := e.recorder.RecordSearch(ctx, query.Query, response.Total); err != nil {
			e.logger.Warn("Failed to record search", zap.String("query", query.Query), zap.Error(err))
		}
	}

	elapsed := time.Since(start)
	response.QueryTime = elapsed.Milliseconds()
	if e.observer != nil {
		e.observer.ObserveSearch(elapsed, response.Total)
	}
	e.logger.Debug("Search completed",
		zap.String("query", query.Query),
		zap.Int("total", response.Total),
		zap.Duration("elapsed", elapsed),
	)

	e.publish(response)
	return response, nil
}

// prefilter drops items failing the facet filters (explicit facets plus
// in-query modifiers) or containing a NOT-ed term.
func (e *Engine) prefilter(items []*models.Item, parsed *ranking.ParsedQuery, facets models.Facets) []*models.Item {
	merged := parsed.MergeFacets(facets)
	out := make([]*models.Item, 0, len(items))
	for _, item := range items {
		if !merged.Match(item) || ranking.IsExcluded(parsed, item) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func (e *Engine) suggestFor(parsed *ranking.ParsedQuery) []string {
	if e.suggester == nil {
		return nil
	}
	text := strings.Join(parsed.Terms, " ")
	if text == "" && len(parsed.ExactPhrases) > 0 {
		text = parsed.ExactPhrases[0]
	}
	if text == "" && len(parsed.FieldFilters.Technologies) > 0 {
		text = parsed.FieldFilters.Technologies[0]
	}
	var out []string
	for _, s := range e.suggester.Suggest(text) {
		out = append(out, s.Text)
	}
	return out
}

// Suggest returns completions for a partial query.
func (e *Engine) Suggest(text string) []keyword.Suggestion {
	if e.suggester == nil {
		return nil
	}
	return e.suggester.Suggest(text)
}

// Submit runs query after the debounce period unless another Submit arrives
// first. The response reaches subscribers only.
func (e *Engine) Submit(ctx context.Context, query models.SearchQuery) {
	e.debouncer.Submit(func() {
		if _, err := e.Search(ctx, &query); err != nil {
			e.logger.Debug("Debounced search dropped", zap.Error(err))
		}
	})
}

// CancelPending drops a debounced query that has not run yet.
func (e *Engine) CancelPending() {
	e.debouncer.Cancel()
}

// Subscribe registers fn for every response and returns a function that
// removes it.
func (e *Engine) Subscribe(fn Subscriber) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextSubID
	e.nextSubID++
	e.subscribers[id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.subscribers, id)
	}
}

func (e *Engine) publish(response *models.SearchResponse) {
	e.mu.RLock()
	subs := make([]Subscriber, 0, len(e.subscribers))
	for _, fn := range e.subscribers {
		subs = append(subs, fn)
	}
	e.mu.RUnlock()
	for _, fn := range subs {
		fn(response)
	}
}

// Ranker returns the ranker in use.
func (e *Engine) Ranker() *ranking.Ranker {
	return e.ranker
}
