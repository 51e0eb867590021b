package service

import "fastfood/internal/models"

// SalesReport derives the dashboard aggregate from the order history.
// Revenue counts completed orders only. Deriving on every read instead of
// keeping a running counter means status reassignment can never drift the
// totals.
func SalesReport(orders []models.Order) models.SalesRecord {
	record := models.SalesRecord{TotalOrders: len(orders)}

	for _, o := range orders {
		if o.Status == models.OrderStatusCompleted {
			record.CompletedOrders++
			record.TotalRevenueCents += o.TotalCents
		}
	}

	if record.TotalOrders > 0 {
		record.CompletionRate = float64(record.CompletedOrders) / float64(record.TotalOrders)
	}
	return record
}
