// Package catalog holds the in-memory menu. Every mutation is visible to
// the next List call; there is no caching layer in front of it.
package catalog

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"fastfood/internal/apperr"
	"fastfood/internal/models"
	"fastfood/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultImageURL = "https://images.unsplash.com/photo-1546069901-ba9599a7e63c"

// Store is the catalog provider. Items keep insertion order.
type Store struct {
	mu     sync.RWMutex
	items  []models.FoodItem
	logger *zap.Logger
}

// NewStore creates a catalog seeded with the given items.
func NewStore(seed []models.FoodItem) *Store {
	items := make([]models.FoodItem, len(seed))
	copy(items, seed)
	util.CatalogItemsTotal.Set(float64(len(items)))
	return &Store{
		items:  items,
		logger: util.GetLogger(),
	}
}

// List returns all items in insertion order.
func (s *Store) List() []models.FoodItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.FoodItem, len(s.items))
	copy(out, s.items)
	return out
}

// Get returns a single item by ID.
func (s *Store) Get(id string) (models.FoodItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, item := range s.items {
		if item.ID == id {
			return item, nil
		}
	}
	return models.FoodItem{}, fmt.Errorf("food item %s: %w", id, apperr.ErrNotFound)
}

// Categories returns the distinct category labels in first-seen order.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	for _, item := range s.items {
		if !seen[item.Category] {
			seen[item.Category] = true
			out = append(out, item.Category)
		}
	}
	return out
}

// Add validates a draft and appends a new item. Name, description,
// category and a positive price are required; the image falls back to a
// default like the original menu entries.
func (s *Store) Add(draft models.FoodItemDraft) (models.FoodItem, error) {
	if err := validateDraft(draft); err != nil {
		return models.FoodItem{}, err
	}

	item := models.FoodItem{
		ID:          uuid.New().String(),
		Name:        draft.Name,
		Description: draft.Description,
		PriceCents:  draft.PriceCents,
		ImageURL:    draft.ImageURL,
		Category:    draft.Category,
		Available:   true,
	}
	if item.ImageURL == "" {
		item.ImageURL = defaultImageURL
	}

	s.mu.Lock()
	s.items = append(s.items, item)
	util.CatalogItemsTotal.Set(float64(len(s.items)))
	s.mu.Unlock()

	s.logger.Info("Food item added",
		zap.String("item_id", item.ID),
		zap.String("name", item.Name))
	return item, nil
}

// Update applies a patch to an existing item. Fields left nil are
// untouched; supplied fields are validated like the draft fields.
func (s *Store) Update(id string, patch models.FoodItemPatch) (models.FoodItem, error) {
	if err := validatePatch(patch); err != nil {
		return models.FoodItem{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		item := &s.items[i]
		if patch.Name != nil {
			item.Name = *patch.Name
		}
		if patch.Description != nil {
			item.Description = *patch.Description
		}
		if patch.PriceCents != nil {
			item.PriceCents = *patch.PriceCents
		}
		if patch.ImageURL != nil {
			item.ImageURL = *patch.ImageURL
		}
		if patch.Category != nil {
			item.Category = *patch.Category
		}
		if patch.Available != nil {
			item.Available = *patch.Available
		}
		s.logger.Info("Food item updated", zap.String("item_id", id))
		return *item, nil
	}
	return models.FoodItem{}, fmt.Errorf("food item %s: %w", id, apperr.ErrNotFound)
}

// SetAvailability toggles whether an item can be ordered.
func (s *Store) SetAvailability(id string, available bool) (models.FoodItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Available = available
			s.logger.Info("Food item availability changed",
				zap.String("item_id", id),
				zap.Bool("available", available))
			return s.items[i], nil
		}
	}
	return models.FoodItem{}, fmt.Errorf("food item %s: %w", id, apperr.ErrNotFound)
}

// Remove deletes an item. Orders keep their own snapshots, so nothing
// else is invalidated.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			util.CatalogItemsTotal.Set(float64(len(s.items)))
			s.logger.Info("Food item removed", zap.String("item_id", id))
			return nil
		}
	}
	return fmt.Errorf("food item %s: %w", id, apperr.ErrNotFound)
}

func validateDraft(draft models.FoodItemDraft) error {
	var missing []string
	if strings.TrimSpace(draft.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(draft.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(draft.Category) == "" {
		missing = append(missing, "category")
	}
	if draft.PriceCents <= 0 {
		missing = append(missing, "price_cents")
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("required fields %s: %w", strings.Join(missing, ", "), apperr.ErrValidation)
	}
	return nil
}

func validatePatch(patch models.FoodItemPatch) error {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return fmt.Errorf("name must not be empty: %w", apperr.ErrValidation)
	}
	if patch.Description != nil && strings.TrimSpace(*patch.Description) == "" {
		return fmt.Errorf("description must not be empty: %w", apperr.ErrValidation)
	}
	if patch.Category != nil && strings.TrimSpace(*patch.Category) == "" {
		return fmt.Errorf("category must not be empty: %w", apperr.ErrValidation)
	}
	if patch.PriceCents != nil && *patch.PriceCents <= 0 {
		return fmt.Errorf("price must be positive: %w", apperr.ErrValidation)
	}
	return nil
}
