package domain

import "github.com/shopspring/decimal"

var (
	// ShippingFee is the flat shipping charge per order.
	ShippingFee = decimal.NewFromInt(60)
	// FreeShippingThreshold is the subtotal above which shipping is waived.
	FreeShippingThreshold = decimal.NewFromInt(100)
)

// OrderSummary totals a set of line items for display.
type OrderSummary struct {
	ItemCount        int             `json:"item_count"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	ShippingFee      decimal.Decimal `json:"shipping_fee"`
	ShippingDiscount decimal.Decimal `json:"shipping_discount"`
	Total            decimal.Decimal `json:"total"`
}

// NewOrderSummary computes the summary over items. The subtotal is floored
// to whole currency units before shipping is applied; shipping is waived
// when the floored subtotal exceeds FreeShippingThreshold.
func NewOrderSummary(items []CartLineItem) OrderSummary {
	subtotal := Subtotal(items).Floor()

	discount := decimal.Zero
	if subtotal.GreaterThan(FreeShippingThreshold) {
		discount = ShippingFee
	}

	return OrderSummary{
		ItemCount:        ItemCount(items),
		Subtotal:         subtotal,
		ShippingFee:      ShippingFee,
		ShippingDiscount: discount,
		Total:            subtotal.Add(ShippingFee).Sub(discount),
	}
}
