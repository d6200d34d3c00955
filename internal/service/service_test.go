package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/utafrali/storefront/internal/domain"
)

// --- Mock Catalog Client ---

type mockCatalogClient struct {
	mock.Mock
}

func (m *mockCatalogClient) ListProducts(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockCatalogClient) ListCategories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockCatalogClient) ListProductsByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockCatalogClient) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testProducts() []domain.Product {
	return []domain.Product{
		{ID: 1, Title: "Fjallraven Backpack", Price: decimal.RequireFromString("109.95"), Category: "men's clothing", Image: "https://img/1.jpg"},
		{ID: 2, Title: "Mens Casual T-Shirt", Price: decimal.RequireFromString("22.3"), Category: "men's clothing", Image: "https://img/2.jpg"},
		{ID: 5, Title: "Dragon Station Chain Bracelet", Price: decimal.RequireFromString("695"), Category: "jewelery", Image: "https://img/5.jpg"},
		{ID: 9, Title: "WD 2TB Portable Drive", Price: decimal.RequireFromString("64"), Category: "electronics", Image: "https://img/9.jpg"},
	}
}

func testCategories() []string {
	return []string{"electronics", "jewelery", "men's clothing", "women's clothing"}
}

func lineItem(productID, color, size string, qty int, price string) domain.CartLineItem {
	return domain.CartLineItem{
		LineKey:  domain.LineKey{ProductID: productID, Color: color, Size: size},
		Title:    "Product " + productID,
		Price:    decimal.RequireFromString(price),
		Quantity: qty,
	}
}

func validShipping() domain.ShippingInfo {
	return domain.ShippingInfo{
		FullName: "Wang Xiaoming",
		Phone:    "0912345678",
		Email:    "ming@example.com",
		City:     "台北市",
		Area:     "大安區",
		Address:  "No. 1, Section 4, Roosevelt Rd.",
	}
}

func validPayment() domain.PaymentInfo {
	return domain.PaymentInfo{
		CardNumber: "4111111111111111",
		ExpiryDate: "12/29",
		CVV:        "123",
	}
}
