package modal

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type fakeHost struct {
	mu       sync.Mutex
	active   string
	elements map[string][]string
}

func newFakeHost(active string) *fakeHost {
	return &fakeHost{active: active, elements: make(map[string][]string)}
}

func (h *fakeHost) ActiveElement() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.active
}

func (h *fakeHost) Focus(el string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.active = el
}

func (h *fakeHost) Focusables(id string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.elements[id]
}

type fakeScroll struct {
	locks, unlocks int
}

func (s *fakeScroll) LockScroll()   { s.locks++ }
func (s *fakeScroll) UnlockScroll() { s.unlocks++ }

type fakeObserver struct {
	events map[string]int
	open   int
}

func (o *fakeObserver) ModalEvent(action string) { o.events[action]++ }
func (o *fakeObserver) ModalsOpen(n int)         { o.open = n }

func ids(records []Record) []string {
	out := []string{}
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func mustOpen(t *testing.T, c *Controller, cfg Config) Record {
	t.Helper()
	r, err := c.OpenModal(cfg)
	if err != nil {
		t.Fatalf("OpenModal(%q) error = %v", cfg.ID, err)
	}
	return r
}

func TestController_OpenOrdersByStackIndex(t *testing.T) {
	c := NewController()
	a := mustOpen(t, c, Config{ID: "a", Title: "A"})
	b := mustOpen(t, c, Config{ID: "b", Title: "B", Size: SizeLarge})

	if a.StackIndex != DefaultBaseStackIndex+1 || b.StackIndex != DefaultBaseStackIndex+2 {
		t.Errorf("stack indexes = %d, %d", a.StackIndex, b.StackIndex)
	}
	if a.Size != SizeMedium || b.Size != SizeLarge {
		t.Errorf("sizes = %q, %q", a.Size, b.Size)
	}
	if !a.Closable || !a.Backdrop || !a.BackdropClosable || !a.Keyboard {
		t.Error("flags should default to true")
	}
	active, ok := c.Active()
	if !ok || active.ID != "b" {
		t.Errorf("Active() = %q, want b", active.ID)
	}
}

func TestController_OpenMissingID(t *testing.T) {
	c := NewController()
	if _, err := c.OpenModal(Config{Title: "nameless"}); !errors.Is(err, ErrMissingID) {
		t.Errorf("OpenModal() error = %v, want ErrMissingID", err)
	}
	if c.Len() != 0 {
		t.Error("failed open changed state")
	}
}

func TestController_OpenDuplicateUpdatesAndRaises(t *testing.T) {
	c := NewController()
	mustOpen(t, c, Config{ID: "a", Title: "Old"})
	mustOpen(t, c, Config{ID: "b"})
	c.Minimize("a")

	r := mustOpen(t, c, Config{ID: "a", Title: "New", Keyboard: Bool(false)})

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if r.Title != "New" || r.Keyboard {
		t.Errorf("record not updated: %+v", r)
	}
	if r.IsMinimized {
		t.Error("reopen should restore a minimized modal")
	}
	if diff := cmp.Diff([]string{"b", "a"}, ids(c.Records())); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestController_EvictsOldestByInsertion(t *testing.T) {
	var closed []string
	onClose := func(id string) { closed = append(closed, id) }

	c := NewController(WithMaxModals(2))
	mustOpen(t, c, Config{ID: "a", OnClose: onClose})
	mustOpen(t, c, Config{ID: "b", OnClose: onClose})
	c.BringToFront("a")
	mustOpen(t, c, Config{ID: "c", OnClose: onClose})

	if diff := cmp.Diff([]string{"b", "c"}, ids(c.Records())); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a"}, closed); diff != "" {
		t.Errorf("evicted onClose mismatch (-want +got):\n%s", diff)
	}

	// Reopening an existing id at capacity does not evict.
	mustOpen(t, c, Config{ID: "b"})
	if c.Len() != 2 || len(closed) != 1 {
		t.Errorf("reopen evicted: len=%d closed=%v", c.Len(), closed)
	}
}

func TestController_CloseInvokesOnCloseOnce(t *testing.T) {
	calls := 0
	c := NewController()
	mustOpen(t, c, Config{ID: "a", OnClose: func(string) { calls++ }})

	if !c.CloseModal("a") {
		t.Fatal("CloseModal() = false")
	}
	if c.CloseModal("a") {
		t.Error("second CloseModal() = true")
	}
	if calls != 1 {
		t.Errorf("onClose called %d times, want 1", calls)
	}
	if c.CloseModal("missing") {
		t.Error("CloseModal(missing) = true")
	}
}

func TestController_CloseAll(t *testing.T) {
	c := NewController()
	counts := map[string]int{}
	for _, id := range []string{"a", "b", "c"} {
		mustOpen(t, c, Config{ID: id, OnClose: func(id string) {
			counts[id]++
			// Re-entrant close of an already removed modal is a no-op.
			c.CloseModal(id)
		}})
	}
	c.Minimize("b")

	if n := c.CloseAll(); n != 3 {
		t.Errorf("CloseAll() = %d, want 3", n)
	}
	if diff := cmp.Diff(map[string]int{"a": 1, "b": 1, "c": 1}, counts); diff != "" {
		t.Errorf("onClose counts mismatch (-want +got):\n%s", diff)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d after CloseAll", c.Len())
	}
	if c.CloseAll() != 0 {
		t.Error("CloseAll() on empty registry should return 0")
	}
}

func TestController_MinimizeMaximizeExclusive(t *testing.T) {
	c := NewController()
	mustOpen(t, c, Config{ID: "a"})

	c.Maximize("a")
	if !c.IsMaximized("a") || c.IsMinimized("a") {
		t.Error("maximize state wrong")
	}
	c.Minimize("a")
	if c.IsMaximized("a") || !c.IsMinimized("a") {
		t.Error("minimize should clear maximized")
	}
	c.Maximize("a")
	if !c.IsMaximized("a") || c.IsMinimized("a") {
		t.Error("maximize should clear minimized")
	}
	c.Restore("a")
	if c.IsMaximized("a") || c.IsMinimized("a") || !c.IsOpen("a") {
		t.Error("restore should return to normal")
	}

	for name, op := range map[string]func(string) bool{
		"Minimize": c.Minimize, "Maximize": c.Maximize,
		"Restore": c.Restore, "BringToFront": c.BringToFront,
	} {
		if op("missing") {
			t.Errorf("%s(missing) = true", name)
		}
	}
}

func TestController_ActiveSkipsMinimized(t *testing.T) {
	c := NewController()
	mustOpen(t, c, Config{ID: "a"})
	mustOpen(t, c, Config{ID: "b"})

	c.Minimize("b")
	if active, _ := c.Active(); active.ID != "a" {
		t.Errorf("Active() = %q, want a", active.ID)
	}

	before, _ := c.Get("b")
	c.Restore("b")
	after, _ := c.Get("b")
	if after.StackIndex <= before.StackIndex {
		t.Error("restoring a minimized modal should bring it to front")
	}
	if active, _ := c.Active(); active.ID != "b" {
		t.Errorf("Active() = %q, want b", active.ID)
	}

	c.Minimize("a")
	c.Minimize("b")
	if _, ok := c.Active(); ok {
		t.Error("no modal should be active when all are minimized")
	}
}

func TestController_Escape(t *testing.T) {
	c := NewController()
	mustOpen(t, c, Config{ID: "a"})
	mustOpen(t, c, Config{ID: "b"})
	c.BringToFront("a")

	if !c.HandleKey(KeyEscape, false) {
		t.Fatal("Escape not consumed")
	}
	if c.IsOpen("a") || !c.IsOpen("b") {
		t.Error("Escape must close the modal with the highest stack index")
	}

	mustOpen(t, c, Config{ID: "locked", Keyboard: Bool(false)})
	if c.HandleKey(KeyEscape, false) {
		t.Error("Escape consumed by a keyboard-disabled modal")
	}
	mustOpen(t, c, Config{ID: "sticky", Closable: Bool(false)})
	if c.HandleKey(KeyEscape, false) {
		t.Error("Escape consumed by a non-closable modal")
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
	if c.HandleKey(Key("Enter"), false) {
		t.Error("unhandled key consumed")
	}
}

func TestController_BackdropClick(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{"defaults", Config{ID: "m"}, true},
		{"no backdrop", Config{ID: "m", Backdrop: Bool(false)}, false},
		{"backdrop not closable", Config{ID: "m", BackdropClosable: Bool(false)}, false},
		{"not closable", Config{ID: "m", Closable: Bool(false)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController()
			mustOpen(t, c, tt.cfg)
			if got := c.HandleBackdropClick("m"); got != tt.want {
				t.Errorf("HandleBackdropClick() = %v, want %v", got, tt.want)
			}
			if c.IsOpen("m") == tt.want {
				t.Error("open state does not match the click result")
			}
		})
	}

	c := NewController()
	mustOpen(t, c, Config{ID: "m"})
	c.Minimize("m")
	if c.HandleBackdropClick("m") {
		t.Error("minimized modal has no backdrop to click")
	}
}

func TestController_FocusTrapAndRestore(t *testing.T) {
	host := newFakeHost("search-input")
	host.elements["a"] = []string{"a-close", "a-name", "a-submit"}
	host.elements["b"] = []string{"b-close", "b-ok"}
	c := NewController(WithFocusHost(host))

	mustOpen(t, c, Config{ID: "a"})
	if host.ActiveElement() != "a-close" {
		t.Fatalf("focus = %q, want first focusable", host.ActiveElement())
	}

	var got []string
	for i := 0; i < 3; i++ {
		c.HandleKey(KeyTab, false)
		got = append(got, host.ActiveElement())
	}
	c.HandleKey(KeyTab, true)
	got = append(got, host.ActiveElement())
	want := []string{"a-name", "a-submit", "a-close", "a-submit"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tab order mismatch (-want +got):\n%s", diff)
	}

	mustOpen(t, c, Config{ID: "b", InitialFocus: "b-ok"})
	if host.ActiveElement() != "b-ok" {
		t.Errorf("focus = %q, want initial focus b-ok", host.ActiveElement())
	}
	c.HandleKey(KeyTab, false)
	if host.ActiveElement() != "b-close" {
		t.Errorf("trap did not move to b: focus = %q", host.ActiveElement())
	}

	c.CloseModal("b")
	if host.ActiveElement() != "a-submit" {
		t.Errorf("focus = %q, want a-submit restored", host.ActiveElement())
	}
	c.CloseModal("a")
	if host.ActiveElement() != "search-input" {
		t.Errorf("focus = %q, want search-input restored", host.ActiveElement())
	}
	if c.HandleKey(KeyTab, false) {
		t.Error("Tab consumed with no modal open")
	}
}

func TestController_ScrollLock(t *testing.T) {
	scroll := &fakeScroll{}
	c := NewController(WithScrollLocker(scroll))

	mustOpen(t, c, Config{ID: "a"})
	mustOpen(t, c, Config{ID: "b"})
	if scroll.locks != 1 || scroll.unlocks != 0 {
		t.Errorf("after open: locks=%d unlocks=%d", scroll.locks, scroll.unlocks)
	}

	c.Minimize("a")
	c.Minimize("b")
	if scroll.unlocks != 1 {
		t.Errorf("all minimized: unlocks=%d, want 1", scroll.unlocks)
	}

	c.Restore("a")
	if scroll.locks != 2 {
		t.Errorf("after restore: locks=%d, want 2", scroll.locks)
	}
	c.CloseAll()
	if scroll.unlocks != 2 {
		t.Errorf("after CloseAll: unlocks=%d, want 2", scroll.unlocks)
	}
}

func TestController_SubscribeAndObserve(t *testing.T) {
	obs := &fakeObserver{events: map[string]int{}}
	c := NewController(WithObserver(obs), WithBaseStackIndex(0))

	var snapshots [][]string
	unsubscribe := c.Subscribe(func(records []Record) {
		snapshots = append(snapshots, ids(records))
	})

	mustOpen(t, c, Config{ID: "a"})
	mustOpen(t, c, Config{ID: "b"})
	c.BringToFront("a")
	unsubscribe()
	c.CloseModal("a")

	want := [][]string{{"a"}, {"a", "b"}, {"b", "a"}}
	if diff := cmp.Diff(want, snapshots); diff != "" {
		t.Errorf("snapshots mismatch (-want +got):\n%s", diff)
	}
	if obs.events[ActionOpen] != 2 || obs.events[ActionFront] != 1 || obs.events[ActionClose] != 1 {
		t.Errorf("events = %v", obs.events)
	}
	if obs.open != 1 {
		t.Errorf("open gauge = %d, want 1", obs.open)
	}
	if r, _ := c.Get("b"); r.StackIndex != 2 {
		t.Errorf("StackIndex = %d, want 2 with base 0", r.StackIndex)
	}
}

func TestController_ConcurrentUse(t *testing.T) {
	c := NewController(WithMaxModals(5))
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("m%d", i%8)
			_, _ = c.OpenModal(Config{ID: id})
			c.BringToFront(id)
			c.HandleKey(KeyEscape, false)
			c.Minimize(id)
		}(i)
	}
	wg.Wait()

	if c.Len() > 5 {
		t.Errorf("Len() = %d exceeds capacity", c.Len())
	}
	seen := map[int]bool{}
	for _, r := range c.Records() {
		if seen[r.StackIndex] {
			t.Errorf("duplicate stack index %d", r.StackIndex)
		}
		seen[r.StackIndex] = true
	}
}
