package broker

import (
	"context"
	"fmt"

	"fastfood/internal/models"
)

// Publisher emits order lifecycle events for external consumers. Nothing
// in this process consumes them; publish failures are logged by callers
// and never fail the originating user action.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error
	PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error
}

// EventPublisher publishes domain events through a Kafka producer.
type EventPublisher struct {
	producer *Producer
}

func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

func (ep *EventPublisher) PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	return ep.producer.PublishEvent(ctx, orderKey(event.OrderID), event)
}

func (ep *EventPublisher) PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error {
	return ep.producer.PublishEvent(ctx, orderKey(event.OrderID), event)
}

func orderKey(orderID string) string {
	return fmt.Sprintf("order-%s", orderID)
}

// NoopPublisher discards events. Used when Kafka is disabled and in tests.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	return nil
}

func (NoopPublisher) PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error {
	return nil
}
