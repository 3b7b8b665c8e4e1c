package history

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/hyperjump/vitrine/internal/models"
)

var (
	// ErrSavedSearchNotFound is returned for an unknown saved-search id.
	ErrSavedSearchNotFound = errors.New("saved search not found")
	// ErrEmptyQuery is returned when saving a blank query.
	ErrEmptyQuery = errors.New("saved search query is empty")
)

func newSavedSearchID() string {
	return uuid.NewString()
}

// Save stores a new saved search. An empty name defaults to the query.
func (m *Manager) Save(ctx context.Context, name, query string, filters models.Facets) (*models.SavedSearch, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = query
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	saved, err := loadValue[[]models.SavedSearch](ctx, m, keySaved)
	if err != nil {
		return nil, err
	}
	now := m.now()
	s := models.SavedSearch{
		ID:        m.newID(),
		Name:      name,
		Query:     query,
		Filters:   filters,
		CreatedAt: now,
		LastUsed:  now,
	}
	saved = append([]models.SavedSearch{s}, saved...)
	if err := m.store(ctx, keySaved, saved); err != nil {
		return nil, err
	}
	return &s, nil
}

// Saved lists saved searches, newest first.
func (m *Manager) Saved(ctx context.Context) ([]models.SavedSearch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	saved, err := loadValue[[]models.SavedSearch](ctx, m, keySaved)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		saved = []models.SavedSearch{}
	}
	return saved, nil
}

// GetSaved returns one saved search.
func (m *Manager) GetSaved(ctx context.Context, id string) (*models.SavedSearch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	saved, err := loadValue[[]models.SavedSearch](ctx, m, keySaved)
	if err != nil {
		return nil, err
	}
	i := indexOf(saved, id)
	if i < 0 {
		return nil, ErrSavedSearchNotFound
	}
	s := saved[i]
	return &s, nil
}

// UseSaved marks a saved search as used: UseCount is incremented and LastUsed
// refreshed. The caller runs the returned query.
func (m *Manager) UseSaved(ctx context.Context, id string) (*models.SavedSearch, error) {
	return m.updateSaved(ctx, id, func(s *models.SavedSearch) {
		s.UseCount++
		s.LastUsed = m.now()
	})
}

// RenameSaved changes a saved search's display name.
func (m *Manager) RenameSaved(ctx context.Context, id, name string) (*models.SavedSearch, error) {
	name = strings.TrimSpace(name)
	return m.updateSaved(ctx, id, func(s *models.SavedSearch) {
		if name != "" {
			s.Name = name
		}
	})
}

// DeleteSaved removes a saved search.
func (m *Manager) DeleteSaved(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	saved, err := loadValue[[]models.SavedSearch](ctx, m, keySaved)
	if err != nil {
		return err
	}
	i := indexOf(saved, id)
	if i < 0 {
		return ErrSavedSearchNotFound
	}
	saved = append(saved[:i], saved[i+1:]...)
	return m.store(ctx, keySaved, saved)
}

func (m *Manager) updateSaved(ctx context.Context, id string, fn func(*models.SavedSearch)) (*models.SavedSearch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	saved, err := loadValue[[]models.SavedSearch](ctx, m, keySaved)
	if err != nil {
		return nil, err
	}
	i := indexOf(saved, id)
	if i < 0 {
		return nil, ErrSavedSearchNotFound
	}
	fn(&saved[i])
	if err := m.store(ctx, keySaved, saved); err != nil {
		return nil, err
	}
	s := saved[i]
	return &s, nil
}

func indexOf(saved []models.SavedSearch, id string) int {
	for i := range saved {
		if saved[i].ID == id {
			return i
		}
	}
	return -1
}
