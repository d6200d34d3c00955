package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

func newTestStorefront(t *testing.T) (*Storefront, *mockCatalogClient) {
	t.Helper()
	client := new(mockCatalogClient)
	client.On("ListProducts", mock.Anything).Return(testProducts(), nil).Once()
	client.On("ListCategories", mock.Anything).Return(testCategories(), nil).Once()

	sf := NewStorefront(client, Options{RedirectDelay: time.Hour}, newTestLogger())
	t.Cleanup(sf.Close)
	require.NoError(t, sf.Catalog().LoadCatalog(context.Background()))
	return sf, client
}

func TestStorefront_AddProduct(t *testing.T) {
	sf, _ := newTestStorefront(t)

	item, err := sf.AddProduct(context.Background(), AddProductInput{ProductID: 1, Color: "Red", Size: "M", Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, "1-Red-M", item.ID())
	assert.Equal(t, "Fjallraven Backpack", item.Title)
	assert.Equal(t, "109.95", item.Price.String())
	assert.Equal(t, "https://img/1.jpg", item.Image)

	_, err = sf.AddProduct(context.Background(), AddProductInput{ProductID: 1, Color: "Red", Size: "M", Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 5, sf.Cart().ItemCount())
}

func TestStorefront_AddProduct_FetchesUnloadedProduct(t *testing.T) {
	sf, client := newTestStorefront(t)
	client.On("GetProduct", mock.Anything, 14).
		Return(&domain.Product{ID: 14, Title: "Samsung 49-Inch Monitor"}, nil).Once()
	client.On("GetProduct", mock.Anything, 99).
		Return(nil, &catalog.FetchError{Op: "GetProduct", Kind: catalog.KindNotFound}).Once()

	item, err := sf.AddProduct(context.Background(), AddProductInput{ProductID: 14, Color: "Blue", Size: "XL", Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, "14-Blue-XL", item.ID())

	_, err = sf.AddProduct(context.Background(), AddProductInput{ProductID: 99, Color: "Blue", Size: "XL", Quantity: 1})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, 1, sf.Cart().ItemCount())
}

func TestStorefront_AddProduct_Rejects(t *testing.T) {
	sf, _ := newTestStorefront(t)

	tests := []struct {
		name string
		in   AddProductInput
	}{
		{name: "unknown color", in: AddProductInput{ProductID: 1, Color: "Purple", Size: "M", Quantity: 1}},
		{name: "unknown size", in: AddProductInput{ProductID: 1, Color: "Red", Size: "XXL", Quantity: 1}},
		{name: "zero quantity", in: AddProductInput{ProductID: 1, Color: "Red", Size: "M", Quantity: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sf.AddProduct(context.Background(), tt.in)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}
	assert.Equal(t, 0, sf.Cart().ItemCount())
}

func TestStorefront_CheckoutLifecycle(t *testing.T) {
	sf, _ := newTestStorefront(t)
	_, ok := sf.Checkout()
	assert.False(t, ok)

	_, err := sf.AddProduct(context.Background(), AddProductInput{ProductID: 2, Color: "Green", Size: "L", Quantity: 1})
	require.NoError(t, err)

	first := sf.StartCheckout()
	current, ok := sf.Checkout()
	require.True(t, ok)
	assert.Same(t, first, current)

	second := sf.StartCheckout()
	current, _ = sf.Checkout()
	assert.Same(t, second, current)
	assert.NotSame(t, first, second)

	sf.EndCheckout()
	_, ok = sf.Checkout()
	assert.False(t, ok)
}

func TestStorefront_SearchGoesThroughDebouncer(t *testing.T) {
	sf, _ := newTestStorefront(t)

	sf.Search().Input("drive")
	assert.Equal(t, "drive", sf.Catalog().SearchQuery())
	filtered := sf.Catalog().FilteredProducts("")
	require.Len(t, filtered, 1)
	assert.Equal(t, 9, filtered[0].ID)
}
