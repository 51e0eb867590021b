package service

import (
	"strings"

	"fastfood/internal/models"
)

// AllCategories is the pseudo-category that disables category filtering.
const AllCategories = "All"

// FilterMenu narrows the catalog by category and search term. It is a pure
// function recomputed on demand; nothing caches its result. The search term
// matches name or description case-insensitively.
func FilterMenu(items []models.FoodItem, category, searchTerm string) []models.FoodItem {
	out := make([]models.FoodItem, 0, len(items))
	term := strings.ToLower(strings.TrimSpace(searchTerm))

	for _, item := range items {
		if category != "" && category != AllCategories && item.Category != category {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(item.Name), term) &&
			!strings.Contains(strings.ToLower(item.Description), term) {
			continue
		}
		out = append(out, item)
	}
	return out
}
