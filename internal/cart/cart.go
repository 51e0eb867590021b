// Package cart tracks the in-progress selection for each logged-in user.
// Carts never survive a restart.
package cart

import (
	"fmt"
	"sync"

	"fastfood/internal/apperr"
	"fastfood/internal/models"
	"fastfood/internal/util"

	"go.uber.org/zap"
)

// Manager holds one ordered line list per user. At most one line exists
// per item ID; a line at quantity 0 is removed, never retained.
type Manager struct {
	mu     sync.Mutex
	carts  map[string][]models.CartLine
	logger *zap.Logger
}

func NewManager() *Manager {
	return &Manager{
		carts:  make(map[string][]models.CartLine),
		logger: util.GetLogger(),
	}
}

// AddItem inserts a new line at quantity 1 and reports whether it did.
// Adding an item already in the cart is a no-op returning false; the
// quantity is adjusted through SetQuantity instead.
func (m *Manager) AddItem(userID string, item models.FoodItem) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, line := range m.carts[userID] {
		if line.Item.ID == item.ID {
			return false
		}
	}
	m.carts[userID] = append(m.carts[userID], models.CartLine{Item: item, Quantity: 1})
	util.CartItemsAddedTotal.Inc()
	m.logger.Debug("Cart line added",
		zap.String("user_id", userID),
		zap.String("item_id", item.ID))
	return true
}

// SetQuantity replaces the quantity of an existing line. Quantities below
// one are rejected; RemoveItem is the way to drop a line.
func (m *Manager) SetQuantity(userID, itemID string, qty int) error {
	if qty < 1 {
		return fmt.Errorf("quantity must be at least 1: %w", apperr.ErrValidation)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	lines := m.carts[userID]
	for i := range lines {
		if lines[i].Item.ID == itemID {
			lines[i].Quantity = qty
			return nil
		}
	}
	return fmt.Errorf("cart line %s: %w", itemID, apperr.ErrNotFound)
}

// RemoveItem deletes the line unconditionally. Removing an absent line is
// not an error.
func (m *Manager) RemoveItem(userID, itemID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lines := m.carts[userID]
	for i := range lines {
		if lines[i].Item.ID == itemID {
			m.carts[userID] = append(lines[:i], lines[i+1:]...)
			return
		}
	}
}

// Clear empties the cart. Used on logout and after checkout.
func (m *Manager) Clear(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, userID)
}

// Lines returns a copy of the cart in insertion order.
func (m *Manager) Lines(userID string) []models.CartLine {
	m.mu.Lock()
	defer m.mu.Unlock()

	lines := m.carts[userID]
	out := make([]models.CartLine, len(lines))
	copy(out, lines)
	return out
}

// TotalCents is the sum of price times quantity over all lines.
func (m *Manager) TotalCents(userID string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	var total int64
	for _, line := range m.carts[userID] {
		total += line.Item.PriceCents * int64(line.Quantity)
	}
	return total
}
