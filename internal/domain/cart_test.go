package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func line(pid, color, size string, price string, qty int) CartLineItem {
	return CartLineItem{
		LineKey:  LineKey{ProductID: pid, Color: color, Size: size},
		Title:    "Product " + pid,
		Price:    decimal.RequireFromString(price),
		Quantity: qty,
	}
}

// ============================================================================
// LineKey Tests
// ============================================================================

func TestLineKey_ID(t *testing.T) {
	k := LineKey{ProductID: "1", Color: "Red", Size: "M"}
	assert.Equal(t, "1-Red-M", k.ID())
}

func TestLineKey_Complete(t *testing.T) {
	assert.True(t, LineKey{ProductID: "1", Color: "Red", Size: "M"}.Complete())
	assert.False(t, LineKey{ProductID: "", Color: "Red", Size: "M"}.Complete())
	assert.False(t, LineKey{ProductID: "1", Color: "", Size: "M"}.Complete())
	assert.False(t, LineKey{ProductID: "1", Color: "Red", Size: ""}.Complete())
}

// ============================================================================
// ItemCount / Subtotal Tests
// ============================================================================

func TestItemCount_Empty(t *testing.T) {
	assert.Equal(t, 0, ItemCount(nil))
	assert.Equal(t, 0, ItemCount([]CartLineItem{}))
}

func TestItemCount_SumsQuantities(t *testing.T) {
	items := []CartLineItem{
		line("1", "Red", "M", "10", 2),
		line("1", "Blue", "M", "10", 3),
		line("2", "Red", "S", "5", 1),
	}
	assert.Equal(t, 6, ItemCount(items))
}

func TestSubtotal_IsExact(t *testing.T) {
	items := []CartLineItem{
		line("1", "Red", "M", "0.1", 3),
		line("2", "Red", "M", "109.95", 2),
	}
	assert.True(t, decimal.RequireFromString("220.2").Equal(Subtotal(items)), Subtotal(items).String())
}

func TestLineTotal(t *testing.T) {
	assert.Equal(t, "22.5", line("1", "Red", "M", "7.5", 3).LineTotal().String())
}

// ============================================================================
// FindItemIndex Tests
// ============================================================================

func TestFindItemIndex(t *testing.T) {
	items := []CartLineItem{
		line("1", "Red", "M", "10", 1),
		line("1", "Red", "L", "10", 1),
	}

	assert.Equal(t, 0, FindItemIndex(items, LineKey{"1", "Red", "M"}))
	assert.Equal(t, 1, FindItemIndex(items, LineKey{"1", "Red", "L"}))
	assert.Equal(t, -1, FindItemIndex(items, LineKey{"1", "Blue", "M"}))
	assert.Equal(t, -1, FindItemIndex(nil, LineKey{"1", "Red", "M"}))
}
