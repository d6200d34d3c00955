package service

import (
	"log/slog"
	"math"
	"slices"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// CartStore is the in-memory cart. Line items keep insertion order and are
// unique per LineKey.
type CartStore struct {
	logger *slog.Logger

	mu    sync.RWMutex
	items []domain.CartLineItem
}

// NewCartStore creates an empty cart.
func NewCartStore(logger *slog.Logger) *CartStore {
	return &CartStore{logger: logger}
}

// AddItem merges item into the cart: an existing line with the same key
// has its quantity increased, otherwise the item is appended.
func (s *CartStore) AddItem(item domain.CartLineItem) error {
	if !item.Complete() {
		return apperrors.InvalidInput("product id, color and size are required")
	}
	if item.Quantity < 1 {
		return apperrors.InvalidInput("quantity must be at least 1")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := domain.FindItemIndex(s.items, item.LineKey); idx >= 0 {
		if s.items[idx].Quantity > math.MaxInt-item.Quantity {
			return apperrors.InvalidInput("quantity exceeds the maximum for a cart line")
		}
		s.items[idx].Quantity += item.Quantity
		s.logger.Debug("cart line merged",
			slog.String("line", item.ID()),
			slog.Int("quantity", s.items[idx].Quantity),
		)
	} else {
		s.items = append(s.items, item)
		s.logger.Debug("cart line added",
			slog.String("line", item.ID()),
			slog.Int("quantity", item.Quantity),
		)
	}
	cartOperations.WithLabelValues("add").Inc()
	return nil
}

// RemoveItem deletes the line matching key. Unknown keys are ignored.
func (s *CartStore) RemoveItem(key domain.LineKey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := domain.FindItemIndex(s.items, key)
	if idx < 0 {
		return
	}
	s.items = slices.Delete(s.items, idx, idx+1)
	cartOperations.WithLabelValues("remove").Inc()
	s.logger.Debug("cart line removed", slog.String("line", key.ID()))
}

// UpdateQuantity sets the absolute quantity of the line matching key.
// Unknown keys are ignored; quantities below 1 are rejected.
func (s *CartStore) UpdateQuantity(key domain.LineKey, quantity int) error {
	if quantity < 1 {
		return apperrors.InvalidInput("quantity must be at least 1")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := domain.FindItemIndex(s.items, key)
	if idx < 0 {
		return nil
	}
	s.items[idx].Quantity = quantity
	cartOperations.WithLabelValues("update_quantity").Inc()
	return nil
}

// Clear empties the cart.
func (s *CartStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	cartOperations.WithLabelValues("clear").Inc()
}

// Items returns a copy of the line items in insertion order.
func (s *CartStore) Items() []domain.CartLineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.items) == 0 {
		return []domain.CartLineItem{}
	}
	return slices.Clone(s.items)
}

// ItemCount returns the total quantity across all lines.
func (s *CartStore) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.ItemCount(s.items)
}

// Subtotal returns the exact sum of price × quantity.
func (s *CartStore) Subtotal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Subtotal(s.items)
}

// Contains reports whether a line with key is in the cart.
func (s *CartStore) Contains(key domain.LineKey) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.FindItemIndex(s.items, key) >= 0
}
