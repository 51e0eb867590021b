// Package orders keeps the placed-order history for the current process.
package orders

import (
	"fmt"
	"sync"
	"time"

	"fastfood/internal/apperr"
	"fastfood/internal/models"
	"fastfood/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store holds placed orders in placement order. Order content is frozen at
// placement; only the status field ever changes.
type Store struct {
	mu     sync.RWMutex
	orders []models.Order
	logger *zap.Logger
}

// NewStore creates an order store seeded with the given history.
func NewStore(seed []models.Order) *Store {
	orders := make([]models.Order, len(seed))
	for i, o := range seed {
		orders[i] = o
		orders[i].Lines = copyLines(o.Lines)
	}
	return &Store{
		orders: orders,
		logger: util.GetLogger(),
	}
}

// Place creates a pending order from the given cart lines. The lines are
// deep-copied so later cart mutations cannot reach the order. Clearing the
// cart is the caller's job.
func (s *Store) Place(userID string, lines []models.CartLine) (models.Order, error) {
	if len(lines) == 0 {
		return models.Order{}, fmt.Errorf("place order for user %s: %w", userID, apperr.ErrEmptyCart)
	}

	var total int64
	for _, line := range lines {
		total += line.Item.PriceCents * int64(line.Quantity)
	}

	order := models.Order{
		ID:         uuid.New().String(),
		UserID:     userID,
		Lines:      copyLines(lines),
		TotalCents: total,
		Status:     models.OrderStatusPending,
		CreatedAt:  time.Now(),
	}

	s.mu.Lock()
	s.orders = append(s.orders, order)
	s.mu.Unlock()

	s.logger.Info("Order placed",
		zap.String("order_id", order.ID),
		zap.String("user_id", userID),
		zap.Int64("total_cents", total))
	return orderCopy(order), nil
}

// Get returns one order by ID.
func (s *Store) Get(orderID string) (models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, o := range s.orders {
		if o.ID == orderID {
			return orderCopy(o), nil
		}
	}
	return models.Order{}, fmt.Errorf("order %s: %w", orderID, apperr.ErrNotFound)
}

// SetStatus assigns any known status directly. No transition table is
// enforced; the admin surface may move an order backwards.
func (s *Store) SetStatus(orderID string, status models.OrderStatus) (models.Order, error) {
	if !models.ValidStatus(status) {
		return models.Order{}, fmt.Errorf("unknown status %q: %w", status, apperr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].ID == orderID {
			s.orders[i].Status = status
			s.logger.Info("Order status changed",
				zap.String("order_id", orderID),
				zap.String("status", string(status)))
			return orderCopy(s.orders[i]), nil
		}
	}
	return models.Order{}, fmt.Errorf("order %s: %w", orderID, apperr.ErrNotFound)
}

// ListFor returns the orders owned by one user, oldest first.
func (s *Store) ListFor(userID string) []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, orderCopy(o))
		}
	}
	return out
}

// ListAll returns every order, oldest first. Administrative use only.
func (s *Store) ListAll() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Order, len(s.orders))
	for i, o := range s.orders {
		out[i] = orderCopy(o)
	}
	return out
}

// Remove deletes an order from the history.
func (s *Store) Remove(orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].ID == orderID {
			s.orders = append(s.orders[:i], s.orders[i+1:]...)
			s.logger.Info("Order removed", zap.String("order_id", orderID))
			return nil
		}
	}
	return fmt.Errorf("order %s: %w", orderID, apperr.ErrNotFound)
}

func copyLines(lines []models.CartLine) []models.CartLine {
	out := make([]models.CartLine, len(lines))
	copy(out, lines)
	return out
}

func orderCopy(o models.Order) models.Order {
	o.Lines = copyLines(o.Lines)
	return o
}
