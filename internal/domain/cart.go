package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// LineKey is the composite identity of a cart line: at most one line exists
// per distinct key.
type LineKey struct {
	ProductID string `json:"product_id"`
	Color     string `json:"color"`
	Size      string `json:"size"`
}

// ID renders the key in its synthesized "productId-color-size" form.
func (k LineKey) ID() string {
	return fmt.Sprintf("%s-%s-%s", k.ProductID, k.Color, k.Size)
}

// Complete reports whether every part of the key is set.
func (k LineKey) Complete() bool {
	return k.ProductID != "" && k.Color != "" && k.Size != ""
}

// CartLineItem is one distinct (product, color, size) entry in the cart.
// Title, Price and Image are copied from the product when it is added.
type CartLineItem struct {
	LineKey
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Image    string          `json:"image,omitempty"`
}

// LineTotal is price × quantity.
func (i CartLineItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ItemCount returns the sum of quantities across items.
func ItemCount(items []CartLineItem) int {
	var count int
	for _, item := range items {
		count += item.Quantity
	}
	return count
}

// Subtotal returns the exact sum of price × quantity across items.
func Subtotal(items []CartLineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// FindItemIndex returns the index of the line matching key, or -1.
func FindItemIndex(items []CartLineItem, key LineKey) int {
	for i := range items {
		if items[i].LineKey == key {
			return i
		}
	}
	return -1
}
