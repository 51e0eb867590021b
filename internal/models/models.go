package models

import (
	"fmt"
	"time"
)

// Role of an authenticated user
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents an authenticated principal. Password hashes live in the
// identity service, never here, so a User is always safe to serialize.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// FoodItem represents a purchasable item in the catalog
type FoodItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	ImageURL    string `json:"image_url,omitempty"`
	Category    string `json:"category"`
	Available   bool   `json:"available"`
}

// FoodItemDraft is the payload for an administrative add. All fields except
// ImageURL are required.
type FoodItemDraft struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	ImageURL    string `json:"image_url"`
	Category    string `json:"category"`
}

// FoodItemPatch is the payload for an administrative edit. Nil fields are
// left untouched.
type FoodItemPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	PriceCents  *int64  `json:"price_cents,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	Category    *string `json:"category,omitempty"`
	Available   *bool   `json:"available,omitempty"`
}

// CartLine is one item in a cart. It holds its own copy of the FoodItem so
// later catalog edits or deletes do not reach into carts or orders.
type CartLine struct {
	Item     FoodItem `json:"item"`
	Quantity int      `json:"quantity"`
}

// OrderStatus values. Intended flow is pending -> approved -> completed,
// but the admin surface may assign any of the three directly.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusApproved  OrderStatus = "approved"
	OrderStatusCompleted OrderStatus = "completed"
)

// ValidStatus reports whether s is one of the known order statuses.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusApproved, OrderStatusCompleted:
		return true
	}
	return false
}

// Order is an immutable snapshot of a cart at checkout time. Only Status
// ever changes after placement.
type Order struct {
	ID         string      `json:"id"`
	UserID     string      `json:"user_id"`
	Lines      []CartLine  `json:"lines"`
	TotalCents int64       `json:"total_cents"`
	Status     OrderStatus `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
}

// SalesRecord is derived from the order store on every read, never stored.
type SalesRecord struct {
	TotalOrders       int     `json:"total_orders"`
	CompletedOrders   int     `json:"completed_orders"`
	CompletionRate    float64 `json:"completion_rate"`
	TotalRevenueCents int64   `json:"total_revenue_cents"`
}

// FormatCents renders a cent amount as a two-decimal string for display.
// Amounts stay in cents everywhere else.
func FormatCents(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
