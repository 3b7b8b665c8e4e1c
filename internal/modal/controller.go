package modal

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Defaults for Controller options.
const (
	DefaultMaxModals      = 10
	DefaultBaseStackIndex = 1000
)

// Actions reported to an Observer.
const (
	ActionOpen     = "open"
	ActionClose    = "close"
	ActionEvict    = "evict"
	ActionMinimize = "minimize"
	ActionMaximize = "maximize"
	ActionRestore  = "restore"
	ActionFront    = "front"
)

// Observer receives modal activity.
type Observer interface {
	ModalEvent(action string)
	ModalsOpen(n int)
}

// Subscriber receives the record list, ordered by stack index, after every change.
type Subscriber func([]Record)

// Controller is the modal registry. All methods are safe for concurrent use.
// Callbacks and host calls run outside the internal lock, so they may call
// back into the Controller.
type Controller struct {
	maxModals int
	focus     FocusHost
	scroll    ScrollLocker
	observer  Observer
	logger    *zap.Logger
	now       func() time.Time

	mu           sync.Mutex
	records      map[string]*Record
	counter      int
	seq          uint64
	trap         *FocusTrap
	scrollLocked bool
	subscribers  map[int]Subscriber
	nextSubID    int
}

// Option configures a Controller.
type Option func(*Controller)

// WithMaxModals caps the registry size.
func WithMaxModals(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.maxModals = n
		}
	}
}

// WithBaseStackIndex seeds the stack counter.
func WithBaseStackIndex(base int) Option {
	return func(c *Controller) { c.counter = base }
}

// WithFocusHost enables focus trapping and restoration.
func WithFocusHost(host FocusHost) Option {
	return func(c *Controller) { c.focus = host }
}

// WithScrollLocker enables background scroll locking.
func WithScrollLocker(l ScrollLocker) Option {
	return func(c *Controller) { c.scroll = l }
}

// WithObserver reports modal activity.
func WithObserver(o Observer) Option {
	return func(c *Controller) { c.observer = o }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock overrides time.Now for OpenedAt.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// NewController creates an empty Controller.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		maxModals:   DefaultMaxModals,
		counter:     DefaultBaseStackIndex,
		logger:      zap.NewNop(),
		now:         time.Now,
		records:     make(map[string]*Record),
		subscribers: make(map[int]Subscriber),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OpenModal opens cfg.ID or, if it is already registered, updates it from cfg,
// clears minimized/maximized, and brings it to front. Opening a new id at
// capacity first evicts the oldest record by insertion order.
func (c *Controller) OpenModal(cfg Config) (Record, error) {
	if cfg.ID == "" {
		return Record{}, ErrMissingID
	}

	previousFocus := ""
	if c.focus != nil {
		previousFocus = c.focus.ActiveElement()
	}

	c.mu.Lock()
	var evicted *Record
	r, exists := c.records[cfg.ID]
	if !exists {
		if len(c.records) >= c.maxModals {
			evicted = c.oldestLocked()
			delete(c.records, evicted.ID)
		}
		c.seq++
		r = &Record{
			ID:           cfg.ID,
			seq:          c.seq,
			OpenedAt:     c.now(),
			restoreFocus: previousFocus,
		}
		c.records[cfg.ID] = r
	}
	applyConfig(r, cfg)
	r.IsOpen = true
	r.IsMinimized = false
	r.IsMaximized = false
	c.counter++
	r.StackIndex = c.counter
	snapshot := *r
	c.mu.Unlock()

	if evicted != nil {
		c.logger.Debug("Evicted oldest modal", zap.String("id", evicted.ID))
		c.event(ActionEvict)
		if evicted.onClose != nil {
			evicted.onClose(evicted.ID)
		}
	}
	c.event(ActionOpen)
	if cfg.OnOpen != nil {
		cfg.OnOpen(cfg.ID)
	}
	c.reconcile("")
	return snapshot, nil
}

func applyConfig(r *Record, cfg Config) {
	r.Title = cfg.Title
	r.Content = cfg.Content
	r.Size = cfg.Size
	if !r.Size.Valid() {
		r.Size = SizeMedium
	}
	r.Closable = flag(cfg.Closable)
	r.Backdrop = flag(cfg.Backdrop)
	r.BackdropClosable = flag(cfg.BackdropClosable)
	r.Keyboard = flag(cfg.Keyboard)
	r.InitialFocus = cfg.InitialFocus
	r.onClose = cfg.OnClose
}

func (c *Controller) oldestLocked() *Record {
	var oldest *Record
	for _, r := range c.records {
		if oldest == nil || r.seq < oldest.seq {
			oldest = r
		}
	}
	return oldest
}

// CloseModal removes id, invokes its OnClose, and restores focus. It reports
// whether id was registered.
func (c *Controller) CloseModal(id string) bool {
	c.mu.Lock()
	r, ok := c.records[id]
	if ok {
		delete(c.records, id)
	}
	c.mu.Unlock()
	if !ok {
		return false
	}

	c.event(ActionClose)
	if r.onClose != nil {
		r.onClose(id)
	}
	c.reconcile(r.restoreFocus)
	return true
}

// CloseAll removes every record, invoking each OnClose exactly once. It
// returns the number of modals closed.
func (c *Controller) CloseAll() int {
	c.mu.Lock()
	closed := make([]*Record, 0, len(c.records))
	for _, r := range c.records {
		closed = append(closed, r)
	}
	c.records = make(map[string]*Record)
	c.mu.Unlock()

	if len(closed) == 0 {
		return 0
	}
	sort.Slice(closed, func(i, j int) bool { return closed[i].seq < closed[j].seq })
	for _, r := range closed {
		c.event(ActionClose)
		if r.onClose != nil {
			r.onClose(r.ID)
		}
	}
	// Focus returns to where it was before the first of them opened.
	c.reconcile(closed[0].restoreFocus)
	return len(closed)
}

// Minimize hides id without closing it.
func (c *Controller) Minimize(id string) bool {
	return c.mutate(id, ActionMinimize, func(r *Record) {
		r.IsMinimized = true
		r.IsMaximized = false
	})
}

// Maximize expands id.
func (c *Controller) Maximize(id string) bool {
	return c.mutate(id, ActionMaximize, func(r *Record) {
		r.IsMaximized = true
		r.IsMinimized = false
	})
}

// Restore returns id to its normal state. A minimized modal is also brought
// to front.
func (c *Controller) Restore(id string) bool {
	return c.mutate(id, ActionRestore, func(r *Record) {
		if r.IsMinimized {
			c.counter++
			r.StackIndex = c.counter
		}
		r.IsMinimized = false
		r.IsMaximized = false
	})
}

// BringToFront gives id the highest stack index.
func (c *Controller) BringToFront(id string) bool {
	return c.mutate(id, ActionFront, func(r *Record) {
		c.counter++
		r.StackIndex = c.counter
	})
}

func (c *Controller) mutate(id, action string, fn func(*Record)) bool {
	c.mu.Lock()
	r, ok := c.records[id]
	if ok {
		fn(r)
	}
	c.mu.Unlock()
	if !ok {
		return false
	}
	c.event(action)
	c.reconcile("")
	return true
}

// HandleKey processes a key press. Escape closes the active modal when it is
// both keyboard-dismissible and closable; Tab cycles focus within it. It
// reports whether the key was consumed.
func (c *Controller) HandleKey(key Key, shift bool) bool {
	switch key {
	case KeyEscape:
		active, ok := c.Active()
		if !ok || !active.Keyboard || !active.Closable {
			return false
		}
		return c.CloseModal(active.ID)
	case KeyTab:
		c.mu.Lock()
		trap := c.trap
		c.mu.Unlock()
		if trap == nil {
			return false
		}
		return trap.Cycle(shift)
	}
	return false
}

// HandleBackdropClick closes id if it shows a backdrop that dismisses it.
func (c *Controller) HandleBackdropClick(id string) bool {
	r, ok := c.Get(id)
	if !ok || !r.Visible() || !r.Backdrop || !r.BackdropClosable || !r.Closable {
		return false
	}
	return c.CloseModal(id)
}

// Active returns the open, non-minimized record with the highest stack index.
func (c *Controller) Active() (Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r := c.activeLocked()
	if r == nil {
		return Record{}, false
	}
	return *r, true
}

func (c *Controller) activeLocked() *Record {
	var top *Record
	for _, r := range c.records {
		if !r.Visible() {
			continue
		}
		if top == nil || r.StackIndex > top.StackIndex {
			top = r
		}
	}
	return top
}

// Get returns a copy of the record for id.
func (c *Controller) Get(id string) (Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.records[id]
	if !ok {
		return Record{}, false
	}
	return *r, true
}

// IsOpen reports whether id is registered.
func (c *Controller) IsOpen(id string) bool {
	_, ok := c.Get(id)
	return ok
}

// IsMinimized reports whether id is registered and minimized.
func (c *Controller) IsMinimized(id string) bool {
	r, ok := c.Get(id)
	return ok && r.IsMinimized
}

// IsMaximized reports whether id is registered and maximized.
func (c *Controller) IsMaximized(id string) bool {
	r, ok := c.Get(id)
	return ok && r.IsMaximized
}

// Records returns copies of all records ordered by stack index.
func (c *Controller) Records() []Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recordsLocked()
}

func (c *Controller) recordsLocked() []Record {
	out := make([]Record, 0, len(c.records))
	for _, r := range c.records {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StackIndex < out[j].StackIndex })
	return out
}

// Len returns the number of registered modals.
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}

// Subscribe registers fn for every change and returns a function that removes it.
func (c *Controller) Subscribe(fn Subscriber) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subscribers, id)
	}
}

// reconcile brings the focus trap, scroll lock, observers, and subscribers in
// line with the registry. restore is the element to refocus after a close.
func (c *Controller) reconcile(restore string) {
	c.mu.Lock()
	active := c.activeLocked()
	var activeID, initial string
	if active != nil {
		activeID, initial = active.ID, active.InitialFocus
	}

	var newTrap *FocusTrap
	trapChanged := false
	switch {
	case active == nil && c.trap != nil:
		c.trap = nil
		trapChanged = true
	case active != nil && (c.trap == nil || c.trap.ModalID() != activeID) && c.focus != nil:
		c.trap = NewFocusTrap(c.focus, activeID)
		newTrap = c.trap
		trapChanged = true
	}

	lock, unlock := false, false
	if active != nil && !c.scrollLocked {
		c.scrollLocked, lock = true, true
	} else if active == nil && c.scrollLocked {
		c.scrollLocked, unlock = false, true
	}

	open := len(c.records)
	records := c.recordsLocked()
	subs := make([]Subscriber, 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	if c.scroll != nil {
		if lock {
			c.scroll.LockScroll()
		}
		if unlock {
			c.scroll.UnlockScroll()
		}
	}

	if c.focus != nil {
		switch {
		case newTrap != nil && restore != "" && contains(c.focus.Focusables(activeID), restore):
			c.focus.Focus(restore)
		case newTrap != nil:
			newTrap.Activate(initial)
		case active == nil && trapChanged && restore != "":
			c.focus.Focus(restore)
		}
	}

	if c.observer != nil {
		c.observer.ModalsOpen(open)
	}
	for _, fn := range subs {
		fn(records)
	}
}

func (c *Controller) event(action string) {
	if c.observer != nil {
		c.observer.ModalEvent(action)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
