package domain

import (
	"fmt"
	"strings"
)

// Step is a stage of the checkout flow.
type Step int

const (
	StepCartReview Step = iota
	StepShipping
	StepPayment
	StepReview
	StepComplete
)

var stepNames = [...]string{"cart_review", "shipping", "payment", "review", "complete"}

func (s Step) String() string {
	if s < StepCartReview || s > StepComplete {
		return fmt.Sprintf("step(%d)", int(s))
	}
	return stepNames[s]
}

// MarshalText renders the step by name in JSON and logs.
func (s Step) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a step name.
func (s *Step) UnmarshalText(b []byte) error {
	for i, name := range stepNames {
		if name == string(b) {
			*s = Step(i)
			return nil
		}
	}
	return fmt.Errorf("unknown checkout step %q", string(b))
}

// Next returns the following step. Complete has no successor.
func (s Step) Next() Step {
	if s >= StepComplete {
		return StepComplete
	}
	return s + 1
}

// Prev returns the preceding step. CartReview and Complete stay where they are.
func (s Step) Prev() Step {
	if s <= StepCartReview || s >= StepComplete {
		return s
	}
	return s - 1
}

// ShippingInfo is the delivery record collected in the Shipping step.
type ShippingInfo struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	City     string `json:"city"`
	Area     string `json:"area"`
	Address  string `json:"address"`
}

// PaymentInfo is the card record collected in the Payment step. It is only
// validated for shape and never transmitted.
type PaymentInfo struct {
	CardNumber string `json:"cardNumber"`
	ExpiryDate string `json:"expiryDate"`
	CVV        string `json:"cvv"`
}

// Masked returns a copy safe for display: the card number reduced to its
// last four digits and the CVV dropped.
func (p PaymentInfo) Masked() PaymentInfo {
	return PaymentInfo{
		CardNumber: MaskCardNumber(p.CardNumber),
		ExpiryDate: p.ExpiryDate,
	}
}

// MaskCardNumber replaces all but the last four characters with '*'.
func MaskCardNumber(number string) string {
	r := []rune(number)
	if len(r) <= 4 {
		return number
	}
	return strings.Repeat("*", len(r)-4) + string(r[len(r)-4:])
}

// Reference option sets for the shipping form. Validation only requires
// city and area to be non-empty.
var (
	Cities = []string{"台北市", "台中市", "高雄市"}
	Areas  = []string{"大安區", "中山區", "信義區"}
)
