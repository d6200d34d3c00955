package service

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

func TestCartStore_AddItem_MergesSameKey(t *testing.T) {
	cart := NewCartStore(newTestLogger())

	require.NoError(t, cart.AddItem(lineItem("1", "Red", "M", 2, "10")))
	require.NoError(t, cart.AddItem(lineItem("1", "Red", "M", 3, "10")))

	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "1-Red-M", items[0].ID())
	assert.Equal(t, 5, items[0].Quantity)
}

func TestCartStore_AddItem_KeepsInsertionOrder(t *testing.T) {
	cart := NewCartStore(newTestLogger())

	require.NoError(t, cart.AddItem(lineItem("2", "Blue", "S", 1, "10")))
	require.NoError(t, cart.AddItem(lineItem("1", "Red", "M", 1, "10")))
	require.NoError(t, cart.AddItem(lineItem("1", "Red", "L", 1, "10")))
	require.NoError(t, cart.AddItem(lineItem("2", "Blue", "S", 1, "10")))

	items := cart.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "2-Blue-S", items[0].ID())
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "1-Red-M", items[1].ID())
	assert.Equal(t, "1-Red-L", items[2].ID())
}

func TestCartStore_AddItem_Rejects(t *testing.T) {
	tests := []struct {
		name string
		item domain.CartLineItem
	}{
		{name: "zero quantity", item: lineItem("1", "Red", "M", 0, "10")},
		{name: "negative quantity", item: lineItem("1", "Red", "M", -2, "10")},
		{name: "missing color", item: lineItem("1", "", "M", 1, "10")},
		{name: "missing product", item: lineItem("", "Red", "M", 1, "10")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := NewCartStore(newTestLogger())
			err := cart.AddItem(tt.item)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
			assert.Empty(t, cart.Items())
		})
	}
}

func TestCartStore_AddItem_RejectsQuantityOverflow(t *testing.T) {
	cart := NewCartStore(newTestLogger())
	require.NoError(t, cart.AddItem(lineItem("1", "Red", "M", math.MaxInt, "10")))

	err := cart.AddItem(lineItem("1", "Red", "M", 1, "10"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, math.MaxInt, items[0].Quantity, "a rejected merge leaves the line unchanged")
	assert.Positive(t, cart.ItemCount())
}

func TestCartStore_RemoveItem(t *testing.T) {
	cart := NewCartStore(newTestLogger())
	require.NoError(t, cart.AddItem(lineItem("1", "Red", "M", 2, "10")))
	require.NoError(t, cart.AddItem(lineItem("2", "Blue", "S", 1, "10")))

	cart.RemoveItem(domain.LineKey{ProductID: "9", Color: "Red", Size: "M"})
	assert.Len(t, cart.Items(), 2, "removing an unknown key is a no-op")

	cart.RemoveItem(domain.LineKey{ProductID: "1", Color: "Red", Size: "M"})
	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "2-Blue-S", items[0].ID())
}

func TestCartStore_UpdateQuantity(t *testing.T) {
	cart := NewCartStore(newTestLogger())
	key := domain.LineKey{ProductID: "1", Color: "Red", Size: "M"}
	require.NoError(t, cart.AddItem(lineItem("1", "Red", "M", 2, "10")))

	require.NoError(t, cart.UpdateQuantity(key, 7))
	assert.Equal(t, 7, cart.ItemCount())

	err := cart.UpdateQuantity(key, 0)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Equal(t, 7, cart.ItemCount(), "rejected update leaves state unchanged")

	require.NoError(t, cart.UpdateQuantity(domain.LineKey{ProductID: "3", Color: "Red", Size: "M"}, 4))
	assert.Len(t, cart.Items(), 1, "updating an unknown key is a no-op")
}

func TestCartStore_ItemCountAndSubtotal(t *testing.T) {
	cart := NewCartStore(newTestLogger())
	assert.Equal(t, 0, cart.ItemCount())
	assert.True(t, cart.Subtotal().IsZero())

	require.NoError(t, cart.AddItem(lineItem("1", "Red", "M", 2, "109.95")))
	require.NoError(t, cart.AddItem(lineItem("2", "Blue", "S", 3, "22.3")))
	assert.Equal(t, 5, cart.ItemCount())
	assert.Equal(t, "286.8", cart.Subtotal().String())

	cart.Clear()
	assert.Equal(t, 0, cart.ItemCount())
	assert.NotNil(t, cart.Items())
	assert.Empty(t, cart.Items())
}

func TestCartStore_ItemsIsACopy(t *testing.T) {
	cart := NewCartStore(newTestLogger())
	require.NoError(t, cart.AddItem(lineItem("1", "Red", "M", 1, "10")))

	items := cart.Items()
	items[0].Quantity = 99
	assert.Equal(t, 1, cart.ItemCount())
}

func TestCartStore_ConcurrentAdds(t *testing.T) {
	cart := NewCartStore(newTestLogger())

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = cart.AddItem(lineItem("1", "Red", "M", 1, "10"))
		}()
	}
	wg.Wait()

	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 50, items[0].Quantity)
}
