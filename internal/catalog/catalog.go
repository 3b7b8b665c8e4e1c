package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/vitrine/internal/models"
	"github.com/hyperjump/vitrine/internal/storage"
	"github.com/hyperjump/vitrine/internal/watcher"
)

// Catalog holds the current item set. It satisfies search.ItemSource.
type Catalog struct {
	path     string
	mirror   storage.ItemStore
	logger   *zap.Logger
	debounce time.Duration

	mu       sync.RWMutex
	items    []*models.Item
	byID     map[string]*models.Item
	loadedAt time.Time
	onReload []func([]*models.Item)
	watcher  *watcher.Watcher
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithMirror copies every successfully loaded item set into store.
func WithMirror(store storage.ItemStore) Option {
	return func(c *Catalog) { c.mirror = store }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Catalog) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithReloadDebounce sets how long file writes must settle before a reload.
func WithReloadDebounce(d time.Duration) Option {
	return func(c *Catalog) { c.debounce = d }
}

// New creates an empty catalog backed by the YAML file at path.
func New(path string, opts ...Option) *Catalog {
	c := &Catalog{
		path:   path,
		logger: zap.NewNop(),
		byID:   make(map[string]*models.Item),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FromItems builds a catalog with no backing file.
func FromItems(items []*models.Item, opts ...Option) (*Catalog, error) {
	c := New("", opts...)
	if err := Prepare(items); err != nil {
		return nil, err
	}
	if err := c.replace(context.Background(), items); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads the backing file and replaces the item set. On error the
// previous items stay in place.
func (c *Catalog) Load(ctx context.Context) error {
	if c.path == "" {
		return fmt.Errorf("catalog has no backing file")
	}
	items, err := LoadFile(c.path)
	if err != nil {
		return err
	}
	if err := c.replace(ctx, items); err != nil {
		return err
	}
	c.logger.Info("Catalog loaded", zap.String("path", c.path), zap.Int("items", len(items)))
	return nil
}

func (c *Catalog) replace(ctx context.Context, items []*models.Item) error {
	if c.mirror != nil {
		if err := c.mirror.ReplaceItems(ctx, items); err != nil {
			return fmt.Errorf("failed to mirror catalog: %w", err)
		}
	}

	byID := make(map[string]*models.Item, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	c.mu.Lock()
	c.items = items
	c.byID = byID
	c.loadedAt = time.Now()
	hooks := append([]func([]*models.Item){}, c.onReload...)
	c.mu.Unlock()

	for _, fn := range hooks {
		fn(items)
	}
	return nil
}

// OnReload registers fn to run after each successful load.
func (c *Catalog) OnReload(fn func([]*models.Item)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onReload = append(c.onReload, fn)
}

// Items returns the current items. Callers must not modify them.
func (c *Catalog) Items() []*models.Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.items
}

// Get returns the item with id.
func (c *Catalog) Get(id string) (*models.Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.byID[id]
	return item, ok
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// LoadedAt returns when the current item set was installed.
func (c *Catalog) LoadedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadedAt
}

// Path returns the backing file.
func (c *Catalog) Path() string {
	return c.path
}

// Watch reloads the catalog whenever its file changes, until ctx is done or
// Close is called. A reload that fails is logged and the old items are kept.
func (c *Catalog) Watch(ctx context.Context) error {
	if c.path == "" {
		return fmt.Errorf("catalog has no backing file")
	}
	opts := []watcher.WatcherOption{watcher.WithLogger(c.logger)}
	if c.debounce > 0 {
		opts = append(opts, watcher.WithDebounce(c.debounce))
	}
	w := watcher.NewWatcher([]string{c.path},
		func(string) {
			if err := c.Load(ctx); err != nil {
				c.logger.Warn("Catalog reload failed; keeping previous items", zap.Error(err))
			}
		},
		func(path string) {
			c.logger.Warn("Catalog file removed; keeping previous items", zap.String("path", path))
		},
		opts...,
	)
	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("failed to watch catalog: %w", err)
	}
	c.mu.Lock()
	c.watcher = w
	c.mu.Unlock()
	return nil
}

// Close stops watching.
func (c *Catalog) Close() {
	c.mu.Lock()
	w := c.watcher
	c.watcher = nil
	c.mu.Unlock()
	if w != nil {
		w.Stop()
	}
}
