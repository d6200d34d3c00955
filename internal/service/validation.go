package service

import (
	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/pkg/validator"
)

// shippingForm mirrors domain.ShippingInfo with its validation rules.
type shippingForm struct {
	FullName string `json:"fullName" validate:"trimmed_required"`
	Phone    string `json:"phone" validate:"digits=10"`
	Email    string `json:"email" validate:"loose_email"`
	City     string `json:"city" validate:"required"`
	Area     string `json:"area" validate:"required"`
	Address  string `json:"address" validate:"trimmed_required"`
}

// paymentForm mirrors domain.PaymentInfo with its validation rules.
type paymentForm struct {
	CardNumber string `json:"cardNumber" validate:"digits=16"`
	ExpiryDate string `json:"expiryDate" validate:"trimmed_required"`
	CVV        string `json:"cvv" validate:"digits=3"`
}

// Field names accepted by the per-field setters, in form order.
var (
	ShippingFields = []string{"fullName", "phone", "email", "city", "area", "address"}
	PaymentFields  = []string{"cardNumber", "expiryDate", "cvv"}
)

// ValidateShipping returns a *validator.ValidationError naming every
// invalid field of info, or nil.
func ValidateShipping(info domain.ShippingInfo) error {
	return validator.Validate(shippingForm(info))
}

// ValidatePayment returns a *validator.ValidationError naming every
// invalid field of info, or nil.
func ValidatePayment(info domain.PaymentInfo) error {
	return validator.Validate(paymentForm(info))
}

func shippingErrors(info domain.ShippingInfo) map[string]string {
	return validator.FieldErrors(shippingForm(info))
}

func paymentErrors(info domain.PaymentInfo) map[string]string {
	return validator.FieldErrors(paymentForm(info))
}

func validity(fields []string, errs map[string]string) map[string]bool {
	m := make(map[string]bool, len(fields))
	for _, f := range fields {
		_, bad := errs[f]
		m[f] = !bad
	}
	return m
}
