package service

import (
	"context"
	"errors"
	"time"

	"fastfood/internal/apperr"
	"fastfood/internal/broker"
	"fastfood/internal/cart"
	"fastfood/internal/models"
	"fastfood/internal/orders"
	"fastfood/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService orchestrates checkout and administrative status changes.
type OrderService struct {
	orders    *orders.Store
	carts     *cart.Manager
	publisher broker.Publisher
	logger    *zap.Logger
}

func NewOrderService(orderStore *orders.Store, carts *cart.Manager, publisher broker.Publisher) *OrderService {
	return &OrderService{
		orders:    orderStore,
		carts:     carts,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// Checkout snapshots the user's cart into a pending order and clears the
// cart. The two steps are not interleaved with any other user action, so
// from the caller's view they are atomic. The cart survives untouched when
// placement fails.
func (s *OrderService) Checkout(ctx context.Context, userID string) (models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.Checkout")
	defer span.End()

	start := time.Now()
	defer func() {
		util.CheckoutLatency.Observe(time.Since(start).Seconds())
	}()

	lines := s.carts.Lines(userID)
	order, err := s.orders.Place(userID, lines)
	if err != nil {
		if errors.Is(err, apperr.ErrEmptyCart) {
			util.OrdersFailedTotal.WithLabelValues("empty_cart").Inc()
		} else {
			util.OrdersFailedTotal.WithLabelValues("place_failed").Inc()
		}
		return models.Order{}, err
	}

	s.carts.Clear(userID)
	util.OrdersPlacedTotal.Inc()

	event := &models.OrderPlacedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderPlaced,
			Timestamp: time.Now(),
		},
		OrderID:    order.ID,
		UserID:     order.UserID,
		TotalCents: order.TotalCents,
		Lines:      eventLines(order.Lines),
	}
	if err := s.publisher.PublishOrderPlaced(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderPlaced event",
			zap.String("order_id", order.ID),
			zap.Error(err))
	}

	return order, nil
}

// ChangeStatus assigns a new status and announces the change. Any known
// status is accepted in any order; monotonicity is not enforced.
func (s *OrderService) ChangeStatus(ctx context.Context, orderID string, status models.OrderStatus) (models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.ChangeStatus")
	defer span.End()

	before, err := s.orders.Get(orderID)
	if err != nil {
		return models.Order{}, err
	}

	order, err := s.orders.SetStatus(orderID, status)
	if err != nil {
		return models.Order{}, err
	}
	util.OrderStatusChangesTotal.WithLabelValues(string(status)).Inc()

	event := &models.OrderStatusChangedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderStatusChanged,
			Timestamp: time.Now(),
		},
		OrderID:   order.ID,
		UserID:    order.UserID,
		OldStatus: before.Status,
		NewStatus: order.Status,
	}
	if err := s.publisher.PublishOrderStatusChanged(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderStatusChanged event",
			zap.String("order_id", order.ID),
			zap.Error(err))
	}

	return order, nil
}

func eventLines(lines []models.CartLine) []models.OrderLineData {
	out := make([]models.OrderLineData, len(lines))
	for i, line := range lines {
		out[i] = models.OrderLineData{
			ItemID:     line.Item.ID,
			Name:       line.Item.Name,
			PriceCents: line.Item.PriceCents,
			Quantity:   line.Quantity,
		}
	}
	return out
}
