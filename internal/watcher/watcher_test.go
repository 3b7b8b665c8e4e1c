package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu      sync.Mutex
	changed []string
	removed []string
}

func (r *recorder) onChange(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changed = append(r.changed, path)
}

func (r *recorder) onRemove(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed = append(r.removed, path)
}

func (r *recorder) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.changed), len(r.removed)
}

func startWatcher(t *testing.T, files []string, rec *recorder) *Watcher {
	t.Helper()
	w := NewWatcher(files, rec.onChange, rec.onRemove, WithDebounce(50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(w.Stop)
	return w
}

func TestWatcher_DebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	catalog := filepath.Join(dir, "catalog.yaml")
	if err := os.WriteFile(catalog, []byte("[]"), 0644); err != nil {
		t.Fatal(err)
	}
	rec := &recorder{}
	startWatcher(t, []string{catalog}, rec)

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(catalog, []byte("- id: x\n"), 0644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(5 * time.Millisecond)
	}
	// Unwatched sibling files are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	time.Sleep(300 * time.Millisecond)
	changed, removed := rec.counts()
	if changed != 1 {
		t.Errorf("changed %d times, want 1", changed)
	}
	if removed != 0 {
		t.Errorf("removed %d times, want 0", removed)
	}
}

func TestWatcher_AtomicRenameSave(t *testing.T) {
	dir := t.TempDir()
	catalog := filepath.Join(dir, "catalog.yaml")
	if err := os.WriteFile(catalog, []byte("[]"), 0644); err != nil {
		t.Fatal(err)
	}
	rec := &recorder{}
	startWatcher(t, []string{catalog}, rec)

	tmp := filepath.Join(dir, ".catalog.yaml.tmp")
	if err := os.WriteFile(tmp, []byte("- id: y\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, catalog); err != nil {
		t.Fatal(err)
	}

	time.Sleep(300 * time.Millisecond)
	if changed, _ := rec.counts(); changed < 1 {
		t.Error("rename over the watched file was not reported")
	}
}

func TestWatcher_Remove(t *testing.T) {
	dir := t.TempDir()
	catalog := filepath.Join(dir, "catalog.yaml")
	if err := os.WriteFile(catalog, []byte("[]"), 0644); err != nil {
		t.Fatal(err)
	}
	rec := &recorder{}
	startWatcher(t, []string{catalog}, rec)

	if err := os.Remove(catalog); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)
	if _, removed := rec.counts(); removed != 1 {
		t.Errorf("removed %d times, want 1", removed)
	}
}

func TestWatcher_AddRemoveFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	b := filepath.Join(dir, "b.yaml")
	rec := &recorder{}
	w := startWatcher(t, nil, rec)

	if err := w.AddFile(a); err != nil {
		t.Fatal(err)
	}
	if err := w.AddFile(b); err != nil {
		t.Fatal(err)
	}
	if err := w.AddFile(a); err != nil {
		t.Fatal(err)
	}
	if got := len(w.Files()); got != 2 {
		t.Errorf("Files() len = %d, want 2", got)
	}

	if err := w.RemoveFile(a); err != nil {
		t.Fatal(err)
	}
	if got := len(w.Files()); got != 1 {
		t.Errorf("Files() len after remove = %d, want 1", got)
	}

	// The directory stays watched for b.
	if err := os.WriteFile(b, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(a, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.changed) != 1 || rec.changed[0] != b {
		t.Errorf("changed = %v, want only %s", rec.changed, b)
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w := NewWatcher(nil, nil, nil)
	w.Stop()
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	w.Stop()
	w.Stop()
}
