// Package seed holds the fixed data every process start begins from.
// Catalog, carts and orders are in-memory only; nothing here survives a
// restart except the identity slot managed elsewhere.
package seed

import (
	"time"

	"fastfood/internal/models"
)

// Account pairs a user with its plaintext seed password. The identity
// service hashes the password at startup and discards the plaintext.
type Account struct {
	User     models.User
	Password string
}

// FoodItems returns the seed menu.
func FoodItems() []models.FoodItem {
	return []models.FoodItem{
		{
			ID:          "1",
			Name:        "Classic Burger",
			Description: "Juicy beef patty with lettuce, tomato, and special sauce",
			PriceCents:  1299,
			ImageURL:    "https://images.unsplash.com/photo-1568901346375-23c9450c58cd",
			Category:    "Burgers",
			Available:   true,
		},
		{
			ID:          "2",
			Name:        "Margherita Pizza",
			Description: "Fresh tomatoes, mozzarella cheese, and basil on thin crust",
			PriceCents:  1499,
			ImageURL:    "https://images.unsplash.com/photo-1513104890138-7c749659a591",
			Category:    "Pizza",
			Available:   true,
		},
		{
			ID:          "3",
			Name:        "Caesar Salad",
			Description: "Crisp romaine lettuce, croutons, parmesan cheese with Caesar dressing",
			PriceCents:  999,
			ImageURL:    "https://images.unsplash.com/photo-1512621776951-a57141f2eefd",
			Category:    "Salads",
			Available:   true,
		},
		{
			ID:          "4",
			Name:        "Chicken Wings",
			Description: "Spicy buffalo wings served with blue cheese dip",
			PriceCents:  1199,
			ImageURL:    "https://images.unsplash.com/photo-1567620832903-9fc6debc209f",
			Category:    "Appetizers",
			Available:   true,
		},
		{
			ID:          "5",
			Name:        "Chocolate Brownie",
			Description: "Rich chocolate brownie with vanilla ice cream",
			PriceCents:  699,
			ImageURL:    "https://images.unsplash.com/photo-1564355808539-22fda35bed7e",
			Category:    "Desserts",
			Available:   true,
		},
		{
			ID:          "6",
			Name:        "Pasta Carbonara",
			Description: "Creamy pasta with bacon and parmesan cheese",
			PriceCents:  1399,
			ImageURL:    "https://images.unsplash.com/photo-1546549032-9571cd6b27df",
			Category:    "Pasta",
			Available:   true,
		},
	}
}

// Accounts returns the fixed credential list.
func Accounts() []Account {
	return []Account{
		{
			User: models.User{
				ID:    "1",
				Name:  "John Doe",
				Email: "user@example.com",
				Role:  models.RoleUser,
			},
			Password: "password123",
		},
		{
			User: models.User{
				ID:    "2",
				Name:  "Admin User",
				Email: "admin@example.com",
				Role:  models.RoleAdmin,
			},
			Password: "admin123",
		},
	}
}

// Orders returns the seed order history. Totals follow from the lines.
func Orders() []models.Order {
	items := FoodItems()
	now := time.Now()
	return []models.Order{
		{
			ID:     "1",
			UserID: "1",
			Lines: []models.CartLine{
				{Item: items[0], Quantity: 2},
				{Item: items[4], Quantity: 1},
			},
			TotalCents: 3297,
			Status:     models.OrderStatusPending,
			CreatedAt:  now,
		},
		{
			ID:     "2",
			UserID: "2",
			Lines: []models.CartLine{
				{Item: items[1], Quantity: 1},
			},
			TotalCents: 1499,
			Status:     models.OrderStatusApproved,
			CreatedAt:  now,
		},
		{
			ID:     "3",
			UserID: "1",
			Lines: []models.CartLine{
				{Item: items[2], Quantity: 1},
				{Item: items[3], Quantity: 1},
			},
			TotalCents: 2198,
			Status:     models.OrderStatusCompleted,
			CreatedAt:  now,
		},
	}
}
