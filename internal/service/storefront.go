package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// Options configures a Storefront.
type Options struct {
	RedirectDelay  time.Duration
	SearchDebounce time.Duration
	// OnRedirect runs when a completed checkout signals the redirect home.
	OnRedirect func()
}

// Storefront owns the catalog, the cart and at most one live checkout flow.
type Storefront struct {
	catalog *CatalogStore
	cart    *CartStore
	search  *SearchDebouncer
	opts    Options
	logger  *slog.Logger

	mu       sync.Mutex
	checkout *CheckoutFlow
}

// NewStorefront creates the state container around a catalog client.
func NewStorefront(client CatalogClient, opts Options, logger *slog.Logger) *Storefront {
	catalog := NewCatalogStore(client, logger.With(slog.String("component", "catalog")))
	return &Storefront{
		catalog: catalog,
		cart:    NewCartStore(logger.With(slog.String("component", "cart"))),
		search:  NewSearchDebouncer(opts.SearchDebounce, catalog.SetSearchQuery),
		opts:    opts,
		logger:  logger,
	}
}

// Catalog returns the catalog store.
func (s *Storefront) Catalog() *CatalogStore { return s.catalog }

// Cart returns the cart store.
func (s *Storefront) Cart() *CartStore { return s.cart }

// Search returns the debouncer in front of the catalog's search query.
func (s *Storefront) Search() *SearchDebouncer { return s.search }

// StartCheckout begins a fresh checkout flow, disposing any previous one.
func (s *Storefront) StartCheckout() *CheckoutFlow {
	flow := NewCheckoutFlow(s.cart, CheckoutConfig{
		RedirectDelay: s.opts.RedirectDelay,
		OnRedirect:    s.opts.OnRedirect,
	}, s.logger.With(slog.String("component", "checkout")))

	s.mu.Lock()
	prev := s.checkout
	s.checkout = flow
	s.mu.Unlock()

	if prev != nil {
		prev.Dispose()
	}
	s.logger.Info("checkout started", slog.Int("selected", len(flow.Selected())))
	return flow
}

// Checkout returns the live checkout flow, if any.
func (s *Storefront) Checkout() (*CheckoutFlow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkout, s.checkout != nil
}

// EndCheckout disposes the live checkout flow.
func (s *Storefront) EndCheckout() {
	s.mu.Lock()
	flow := s.checkout
	s.checkout = nil
	s.mu.Unlock()

	if flow != nil {
		flow.Dispose()
	}
}

// AddProductInput is a request to put a product in the cart.
type AddProductInput struct {
	ProductID int    `json:"product_id" validate:"gt=0"`
	Color     string `json:"color" validate:"required"`
	Size      string `json:"size" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
}

// AddProduct adds qty of a product in the given color and size to the
// cart. Title, price and image are copied from the catalog product.
func (s *Storefront) AddProduct(ctx context.Context, in AddProductInput) (domain.CartLineItem, error) {
	if !domain.ValidColor(in.Color) {
		return domain.CartLineItem{}, apperrors.InvalidInput(
			fmt.Sprintf("color must be one of: %s", strings.Join(domain.Colors, ", ")))
	}
	if !domain.ValidSize(in.Size) {
		return domain.CartLineItem{}, apperrors.InvalidInput(
			fmt.Sprintf("size must be one of: %s", strings.Join(domain.Sizes, ", ")))
	}

	product, err := s.catalog.Product(ctx, in.ProductID)
	if err != nil {
		return domain.CartLineItem{}, err
	}

	item := domain.CartLineItem{
		LineKey:  domain.LineKey{ProductID: product.Key(), Color: in.Color, Size: in.Size},
		Title:    product.Title,
		Price:    product.Price,
		Quantity: in.Quantity,
		Image:    product.Image,
	}
	if err := s.cart.AddItem(item); err != nil {
		return domain.CartLineItem{}, err
	}

	s.logger.InfoContext(ctx, "product added to cart",
		slog.String("line", item.ID()),
		slog.Int("quantity", item.Quantity),
	)
	return item, nil
}

// Close stops pending timers.
func (s *Storefront) Close() {
	s.search.Stop()
	s.EndCheckout()
}
