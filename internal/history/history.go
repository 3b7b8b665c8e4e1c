// Package history persists recent searches, the search log, query frequency,
// and saved searches in a storage.KV under a namespace prefix.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/vitrine/internal/models"
	"github.com/hyperjump/vitrine/internal/storage"
)

// Defaults for Manager limits.
const (
	DefaultNamespace      = "vitrine"
	DefaultRecentLimit    = 10
	DefaultHistoryLimit   = 50
	DefaultFrequencyLimit = 100
	DefaultPopularLimit   = 5
)

const (
	keyRecent    = "recent"
	keyHistory   = "history"
	keyFrequency = "frequency"
	keySaved     = "saved"
)

// Manager owns all persisted search state for one namespace. Every mutation
// is read-modify-write against the KV under mu, so a Manager is safe for
// concurrent use; separate processes sharing a KV are last-writer-wins.
type Manager struct {
	kv             storage.KV
	namespace      string
	recentLimit    int
	historyLimit   int
	frequencyLimit int
	popularLimit   int
	logger         *zap.Logger
	now            func() time.Time
	newID          func() string

	mu sync.Mutex
}

// Option configures a Manager.
type Option func(*Manager)

// WithNamespace sets the key prefix.
func WithNamespace(ns string) Option {
	return func(m *Manager) {
		if ns != "" {
			m.namespace = ns
		}
	}
}

// WithLimits sets the list caps. Non-positive values keep the defaults.
func WithLimits(recent, history, frequency, popular int) Option {
	return func(m *Manager) {
		if recent > 0 {
			m.recentLimit = recent
		}
		if history > 0 {
			m.historyLimit = history
		}
		if frequency > 0 {
			m.frequencyLimit = frequency
		}
		if popular > 0 {
			m.popularLimit = popular
		}
	}
}

// WithLogger sets the logger used to report corrupt state.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a Manager over kv.
func NewManager(kv storage.KV, opts ...Option) *Manager {
	m := &Manager{
		kv:             kv,
		namespace:      DefaultNamespace,
		recentLimit:    DefaultRecentLimit,
		historyLimit:   DefaultHistoryLimit,
		frequencyLimit: DefaultFrequencyLimit,
		popularLimit:   DefaultPopularLimit,
		logger:         zap.NewNop(),
		now:            time.Now,
		newID:          newSavedSearchID,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Namespace returns the key prefix in use.
func (m *Manager) Namespace() string {
	return m.namespace
}

func (m *Manager) key(name string) string {
	return m.namespace + ":" + name
}

// RecordSearch stores query in the recent list, the history log, and the
// frequency counter. Blank queries are ignored.
func (m *Manager) RecordSearch(ctx context.Context, query string, resultCount int) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	recent, err := loadValue[[]string](ctx, m, keyRecent)
	if err != nil {
		return err
	}
	recent = pushRecent(recent, query, m.recentLimit)
	if err := m.store(ctx, keyRecent, recent); err != nil {
		return err
	}

	log, err := loadValue[[]models.HistoryEntry](ctx, m, keyHistory)
	if err != nil {
		return err
	}
	log = append([]models.HistoryEntry{{Query: query, ResultCount: resultCount, SearchedAt: m.now()}}, log...)
	if len(log) > m.historyLimit {
		log = log[:m.historyLimit]
	}
	if err := m.store(ctx, keyHistory, log); err != nil {
		return err
	}

	frequency, err := loadValue[map[string]int](ctx, m, keyFrequency)
	if err != nil {
		return err
	}
	if frequency == nil {
		frequency = map[string]int{}
	}
	normalized := strings.ToLower(query)
	frequency[normalized]++
	trimFrequency(frequency, m.frequencyLimit, normalized)
	return m.store(ctx, keyFrequency, frequency)
}

// pushRecent front-inserts query, dropping any earlier case-insensitive
// duplicate, and caps the list.
func pushRecent(recent []string, query string, limit int) []string {
	out := make([]string, 0, len(recent)+1)
	out = append(out, query)
	for _, q := range recent {
		if !strings.EqualFold(q, query) {
			out = append(out, q)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// trimFrequency evicts the least frequent queries until at most limit remain.
// Ties evict the alphabetically last query. current is never evicted.
func trimFrequency(frequency map[string]int, limit int, current string) {
	ranked := rankFrequency(frequency)
	for i := len(ranked) - 1; i >= 0 && len(frequency) > limit; i-- {
		if ranked[i].Query != current {
			delete(frequency, ranked[i].Query)
		}
	}
}

func rankFrequency(frequency map[string]int) []models.PopularSearch {
	ranked := make([]models.PopularSearch, 0, len(frequency))
	for q, c := range frequency {
		ranked = append(ranked, models.PopularSearch{Query: q, Count: c})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Query < ranked[j].Query
	})
	return ranked
}

// Recent returns recent queries, most recent first.
func (m *Manager) Recent(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	recent, err := loadValue[[]string](ctx, m, keyRecent)
	if err != nil {
		return nil, err
	}
	if recent == nil {
		recent = []string{}
	}
	return recent, nil
}

// ClearRecent empties the recent list.
func (m *Manager) ClearRecent(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.kv.Delete(ctx, m.key(keyRecent))
}

// History returns the search log, newest first.
func (m *Manager) History(ctx context.Context) ([]models.HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	log, err := loadValue[[]models.HistoryEntry](ctx, m, keyHistory)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = []models.HistoryEntry{}
	}
	return log, nil
}

// Popular returns the n most frequent queries. n <= 0 uses the configured limit.
func (m *Manager) Popular(ctx context.Context, n int) ([]models.PopularSearch, error) {
	if n <= 0 {
		n = m.popularLimit
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	frequency, err := loadValue[map[string]int](ctx, m, keyFrequency)
	if err != nil {
		return nil, err
	}
	ranked := rankFrequency(frequency)
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked, nil
}

// ClearAll deletes every key in the namespace.
func (m *Manager) ClearAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys, err := m.kv.Keys(ctx, m.namespace+":")
	if err != nil {
		return fmt.Errorf("failed to list history keys: %w", err)
	}
	for _, k := range keys {
		if err := m.kv.Delete(ctx, k); err != nil {
			return fmt.Errorf("failed to delete %s: %w", k, err)
		}
	}
	return nil
}

// loadValue decodes the value stored at name. A missing key yields the zero
// value; so does corrupt JSON, which is logged and otherwise ignored.
func loadValue[T any](ctx context.Context, m *Manager, name string) (T, error) {
	var zero T
	key := m.key(name)
	raw, err := m.kv.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return zero, nil
	}
	if err != nil {
		return zero, fmt.Errorf("failed to read %s: %w", key, err)
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		m.logger.Warn("Discarding corrupt search state",
			zap.String("key", key),
			zap.Error(err),
		)
		return zero, nil
	}
	return v, nil
}

func (m *Manager) store(ctx context.Context, name string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	if err := m.kv.Set(ctx, m.key(name), raw); err != nil {
		return fmt.Errorf("failed to write %s: %w", m.key(name), err)
	}
	return nil
}
