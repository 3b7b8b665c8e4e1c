// Package catalog loads the searchable items from a YAML file and keeps them
// current when the file changes.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hyperjump/vitrine/internal/models"
)

var (
	// ErrDuplicateID is returned when two items share an id.
	ErrDuplicateID = errors.New("duplicate item id")
	// ErrMissingID is returned for an item without an id.
	ErrMissingID = errors.New("item id is required")
)

// document is the on-disk shape: either a bare list or {items: [...]}.
type document struct {
	Items []*models.Item `yaml:"items"`
}

// LoadFile reads and validates a catalog file.
func LoadFile(path string) ([]*models.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	items, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return items, nil
}

// Parse decodes catalog YAML, validates ids, and assigns missing ordinals.
func Parse(data []byte) ([]*models.Item, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	var items []*models.Item
	if len(root.Content) > 0 {
		body := root.Content[0]
		if body.Kind == yaml.SequenceNode {
			if err := body.Decode(&items); err != nil {
				return nil, fmt.Errorf("failed to parse catalog: %w", err)
			}
		} else {
			var doc document
			if err := body.Decode(&doc); err != nil {
				return nil, fmt.Errorf("failed to parse catalog: %w", err)
			}
			items = doc.Items
		}
	}
	if err := Prepare(items); err != nil {
		return nil, err
	}
	return items, nil
}

// Prepare validates items in place and fills missing ordinals.
func Prepare(items []*models.Item) error {
	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		if item == nil {
			return fmt.Errorf("item %d: %w", i, ErrMissingID)
		}
		item.ID = strings.TrimSpace(item.ID)
		if item.ID == "" {
			return fmt.Errorf("item %d (%q): %w", i, item.Title, ErrMissingID)
		}
		if _, dup := seen[item.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateID, item.ID)
		}
		seen[item.ID] = struct{}{}
	}
	AssignOrdinals(items)
	return nil
}

// AssignOrdinals gives every item without an ordinal one derived from its
// created_at, oldest first, numbered after the largest explicit ordinal.
// Items without created_at sort before dated ones, in file order.
func AssignOrdinals(items []*models.Item) {
	maxExplicit := 0
	var missing []*models.Item
	for _, item := range items {
		if item.Ordinal > 0 {
			maxExplicit = max(maxExplicit, item.Ordinal)
			continue
		}
		missing = append(missing, item)
	}
	sort.SliceStable(missing, func(i, j int) bool {
		return missing[i].CreatedAt.Before(missing[j].CreatedAt)
	})
	for i, item := range missing {
		item.Ordinal = maxExplicit + i + 1
	}
}
