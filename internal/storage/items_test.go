package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/hyperjump/vitrine/internal/models"
)

func TestSQLiteStorage_Items(t *testing.T) {
	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "vitrine.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()

	items := []*models.Item{
		{ID: "old", Title: "Old Project", Ordinal: 1, Technologies: []string{"Go"}},
		{ID: "new", Title: "New Project", Ordinal: 2, Metrics: map[string]string{"users": "2k"}},
	}
	if err := store.ReplaceItems(ctx, items); err != nil {
		t.Fatal(err)
	}

	count, err := store.CountItems(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("CountItems() = %d, want 2", count)
	}

	list, err := store.ListItems(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID != "new" {
		t.Errorf("ListItems() order wrong: %+v", list)
	}

	got, err := store.GetItem(ctx, "new")
	if err != nil {
		t.Fatal(err)
	}
	if got.Metrics["users"] != "2k" {
		t.Errorf("GetItem() metrics = %v", got.Metrics)
	}

	if _, err := store.GetItem(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetItem(missing) error = %v, want ErrNotFound", err)
	}

	// Replacing drops items not in the new set.
	if err := store.ReplaceItems(ctx, items[:1]); err != nil {
		t.Fatal(err)
	}
	if count, _ := store.CountItems(ctx); count != 1 {
		t.Errorf("CountItems() after replace = %d, want 1", count)
	}
}
