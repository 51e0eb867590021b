package cart

import (
	"testing"

	"fastfood/internal/apperr"
	"fastfood/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func testItem(id string, priceCents int64) models.FoodItem {
	return models.FoodItem{
		ID:         id,
		Name:       "item-" + id,
		PriceCents: priceCents,
		Category:   "Test",
		Available:  true,
	}
}

func TestAddItemRepeatIsNoOp(t *testing.T) {
	m := NewManager()
	burger := testItem("1", 1299)

	assert.True(t, m.AddItem("u1", burger))
	assert.False(t, m.AddItem("u1", burger))

	lines := m.Lines("u1")
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
	assert.Equal(t, int64(1299), m.TotalCents("u1"))
}

func TestSetQuantity(t *testing.T) {
	m := NewManager()
	m.AddItem("u1", testItem("1", 500))

	require.NoError(t, m.SetQuantity("u1", "1", 3))
	assert.Equal(t, int64(1500), m.TotalCents("u1"))

	err := m.SetQuantity("u1", "1", 0)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	err = m.SetQuantity("u1", "missing", 2)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRemoveItem(t *testing.T) {
	m := NewManager()
	m.AddItem("u1", testItem("1", 500))
	m.AddItem("u1", testItem("2", 700))

	m.RemoveItem("u1", "1")
	lines := m.Lines("u1")
	require.Len(t, lines, 1)
	assert.Equal(t, "2", lines[0].Item.ID)

	// removing an absent line is not an error
	m.RemoveItem("u1", "1")
	assert.Len(t, m.Lines("u1"), 1)
}

func TestClear(t *testing.T) {
	m := NewManager()
	m.AddItem("u1", testItem("1", 500))
	m.AddItem("u2", testItem("2", 700))

	m.Clear("u1")
	assert.Empty(t, m.Lines("u1"))
	assert.Equal(t, int64(0), m.TotalCents("u1"))
	assert.Len(t, m.Lines("u2"), 1)
}

func TestCartsAreScopedPerUser(t *testing.T) {
	m := NewManager()
	m.AddItem("u1", testItem("1", 500))
	m.AddItem("u2", testItem("1", 500))

	require.NoError(t, m.SetQuantity("u2", "1", 5))
	assert.Equal(t, int64(500), m.TotalCents("u1"))
	assert.Equal(t, int64(2500), m.TotalCents("u2"))
}

// For any sequence of add/remove/setQuantity calls the total equals the sum
// over surviving lines and no two lines share an item ID.
func TestTotalInvariantProperty(t *testing.T) {
	items := []models.FoodItem{
		testItem("1", 1299),
		testItem("2", 1499),
		testItem("3", 999),
		testItem("4", 699),
	}

	rapid.Check(t, func(t *rapid.T) {
		m := NewManager()
		model := make(map[string]int)

		ops := rapid.IntRange(1, 50).Draw(t, "ops")
		for i := 0; i < ops; i++ {
			item := items[rapid.IntRange(0, len(items)-1).Draw(t, "item")]
			switch rapid.IntRange(0, 2).Draw(t, "op") {
			case 0:
				if m.AddItem("u", item) {
					model[item.ID] = 1
				}
			case 1:
				qty := rapid.IntRange(1, 9).Draw(t, "qty")
				if err := m.SetQuantity("u", item.ID, qty); err == nil {
					model[item.ID] = qty
				}
			case 2:
				m.RemoveItem("u", item.ID)
				delete(model, item.ID)
			}
		}

		var want int64
		for id, qty := range model {
			for _, item := range items {
				if item.ID == id {
					want += item.PriceCents * int64(qty)
				}
			}
		}
		if got := m.TotalCents("u"); got != want {
			t.Fatalf("total mismatch: got %d, want %d", got, want)
		}

		seen := make(map[string]bool)
		for _, line := range m.Lines("u") {
			if seen[line.Item.ID] {
				t.Fatalf("duplicate line for item %s", line.Item.ID)
			}
			seen[line.Item.ID] = true
			if line.Quantity < 1 {
				t.Fatalf("line %s has quantity %d", line.Item.ID, line.Quantity)
			}
		}
	})
}
