package models

import "time"

// Event types published to the order events topic
const (
	EventTypeOrderPlaced        = "order.placed"
	EventTypeOrderStatusChanged = "order.status_changed"
)

// BaseEvent contains fields common to all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderLineData is a flattened cart line carried inside events
type OrderLineData struct {
	ItemID     string `json:"item_id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int    `json:"quantity"`
}

// OrderPlacedEvent is published when a checkout succeeds
type OrderPlacedEvent struct {
	BaseEvent
	OrderID    string          `json:"order_id"`
	UserID     string          `json:"user_id"`
	TotalCents int64           `json:"total_cents"`
	Lines      []OrderLineData `json:"lines"`
}

// OrderStatusChangedEvent is published when an admin reassigns a status
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID   string      `json:"order_id"`
	UserID    string      `json:"user_id"`
	OldStatus OrderStatus `json:"old_status"`
	NewStatus OrderStatus `json:"new_status"`
}
