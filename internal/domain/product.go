package domain

import (
	"slices"
	"strconv"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry as served by the remote catalog. It is
// immutable once fetched.
type Product struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Rating      Rating          `json:"rating"`
}

// Rating is the aggregate customer rating of a product.
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Key returns the stringified product identifier used in line keys.
func (p Product) Key() string {
	return strconv.Itoa(p.ID)
}

// Purchasable option sets offered on every product. The first entry of each
// is the default selection.
var (
	Colors = []string{"Red", "Blue", "Green", "Yellow"}
	Sizes  = []string{"S", "M", "L", "XL"}
)

// ProductDetail is a product together with its purchasable options.
type ProductDetail struct {
	Product
	Colors       []string `json:"colors"`
	Sizes        []string `json:"sizes"`
	DefaultColor string   `json:"default_color"`
	DefaultSize  string   `json:"default_size"`
}

// NewProductDetail decorates p with the standard option sets.
func NewProductDetail(p Product) ProductDetail {
	return ProductDetail{
		Product:      p,
		Colors:       slices.Clone(Colors),
		Sizes:        slices.Clone(Sizes),
		DefaultColor: Colors[0],
		DefaultSize:  Sizes[0],
	}
}

// ValidColor reports whether c is one of the offered colors.
func ValidColor(c string) bool {
	return slices.Contains(Colors, c)
}

// ValidSize reports whether s is one of the offered sizes.
func ValidSize(s string) bool {
	return slices.Contains(Sizes, s)
}
