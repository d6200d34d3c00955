package service

import (
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"sync"
	"time"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// ErrEmptySelection is returned when leaving CartReview with no selected
// line item left in the cart.
var ErrEmptySelection = &apperrors.AppError{
	Code:    "EMPTY_SELECTION",
	Message: "select at least one cart item to check out",
	Status:  http.StatusBadRequest,
	Err:     apperrors.ErrInvalidInput,
}

var errCheckoutComplete = apperrors.Conflict("checkout is already complete")

// CheckoutConfig configures a CheckoutFlow.
type CheckoutConfig struct {
	// RedirectDelay is the wait after completion before the redirect
	// signal fires. Zero or less fires it at once.
	RedirectDelay time.Duration
	// OnRedirect, if set, runs once when the redirect signal fires.
	OnRedirect func()
}

// CheckoutState is the read model of a checkout flow. The card number is
// masked and the CVV is never included.
type CheckoutState struct {
	Step          domain.Step           `json:"step"`
	Shipping      domain.ShippingInfo   `json:"shipping"`
	Payment       domain.PaymentInfo    `json:"payment"`
	ShippingValid map[string]bool       `json:"shipping_valid"`
	PaymentValid  map[string]bool       `json:"payment_valid"`
	Submitted     bool                  `json:"submitted"`
	Errors        map[string]string     `json:"errors"`
	Selection     []domain.LineKey      `json:"selection"`
	Items         []domain.CartLineItem `json:"items"`
	Summary       domain.OrderSummary   `json:"summary"`
	Redirected    bool                  `json:"redirected"`
}

// CheckoutFlow is the multi-step checkout state machine:
// CartReview → Shipping → Payment → Review → Complete.
type CheckoutFlow struct {
	cart       *CartStore
	logger     *slog.Logger
	delay      time.Duration
	onRedirect func()
	redirected chan struct{}

	mu            sync.Mutex
	step          domain.Step
	shipping      domain.ShippingInfo
	payment       domain.PaymentInfo
	shippingValid map[string]bool
	paymentValid  map[string]bool
	submitted     bool
	selection     map[domain.LineKey]struct{}
	completed     []domain.CartLineItem
	timer         *time.Timer
	fired         bool
	disposed      bool
}

// NewCheckoutFlow starts a flow at CartReview with nothing selected.
func NewCheckoutFlow(cart *CartStore, cfg CheckoutConfig, logger *slog.Logger) *CheckoutFlow {
	f := &CheckoutFlow{
		cart:          cart,
		logger:        logger,
		delay:         cfg.RedirectDelay,
		onRedirect:    cfg.OnRedirect,
		redirected:    make(chan struct{}),
		step:          domain.StepCartReview,
		shippingValid: validity(ShippingFields, shippingErrors(domain.ShippingInfo{})),
		paymentValid:  validity(PaymentFields, paymentErrors(domain.PaymentInfo{})),
		selection:     make(map[domain.LineKey]struct{}),
	}
	return f
}

// Step returns the current step.
func (f *CheckoutFlow) Step() domain.Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// Advance moves to the next step when the current one's gate passes.
// A failed record validation marks the flow submitted and returns a
// *validator.ValidationError; the step does not change.
func (f *CheckoutFlow) Advance() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	from := f.step
	switch from {
	case domain.StepComplete:
		return nil
	case domain.StepCartReview:
		if len(f.selectedItemsLocked()) == 0 {
			return ErrEmptySelection
		}
	case domain.StepShipping:
		if err := ValidateShipping(f.shipping); err != nil {
			f.submitted = true
			f.shippingValid = validity(ShippingFields, shippingErrors(f.shipping))
			return err
		}
	case domain.StepPayment:
		if err := ValidatePayment(f.payment); err != nil {
			f.submitted = true
			f.paymentValid = validity(PaymentFields, paymentErrors(f.payment))
			return err
		}
	}

	f.step = from.Next()
	f.submitted = false
	checkoutTransitions.WithLabelValues(from.String(), f.step.String()).Inc()
	f.logger.Info("checkout advanced",
		slog.String("from", from.String()),
		slog.String("to", f.step.String()),
	)

	if f.step == domain.StepComplete {
		f.completeLocked()
	}
	return nil
}

// completeLocked clears the cart, discards the forms and arms the redirect.
func (f *CheckoutFlow) completeLocked() {
	f.completed = f.selectedItemsLocked()
	f.cart.Clear()

	f.shipping = domain.ShippingInfo{}
	f.payment = domain.PaymentInfo{}
	f.selection = make(map[domain.LineKey]struct{})

	if f.disposed {
		return
	}
	f.timer = time.AfterFunc(f.delay, f.fireRedirect)
}

// Retreat moves one step back without re-validating. It does nothing at
// CartReview and at Complete.
func (f *CheckoutFlow) Retreat() {
	f.mu.Lock()
	defer f.mu.Unlock()

	from := f.step
	f.step = from.Prev()
	if f.step != from {
		checkoutTransitions.WithLabelValues(from.String(), f.step.String()).Inc()
	}
}

// Redirect fires the redirect signal now instead of waiting for the delay.
func (f *CheckoutFlow) Redirect() error {
	f.mu.Lock()
	if f.step != domain.StepComplete {
		f.mu.Unlock()
		return apperrors.Conflict("checkout is not complete")
	}
	if f.timer != nil {
		f.timer.Stop()
	}
	f.mu.Unlock()

	f.fireRedirect()
	return nil
}

func (f *CheckoutFlow) fireRedirect() {
	f.mu.Lock()
	if f.disposed || f.fired {
		f.mu.Unlock()
		return
	}
	f.fired = true
	close(f.redirected)
	cb := f.onRedirect
	f.mu.Unlock()

	f.logger.Debug("checkout redirect fired")
	if cb != nil {
		cb()
	}
}

// Redirected is closed once the post-completion redirect fires.
func (f *CheckoutFlow) Redirected() <-chan struct{} {
	return f.redirected
}

// Dispose stops any pending redirect. The signal never fires afterwards.
func (f *CheckoutFlow) Dispose() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disposed = true
	if f.timer != nil {
		f.timer.Stop()
	}
}

// SetShippingField stores one shipping field and re-validates it.
func (f *CheckoutFlow) SetShippingField(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step == domain.StepComplete {
		return errCheckoutComplete
	}

	switch name {
	case "fullName":
		f.shipping.FullName = value
	case "phone":
		f.shipping.Phone = value
	case "email":
		f.shipping.Email = value
	case "city":
		f.shipping.City = value
	case "area":
		f.shipping.Area = value
	case "address":
		f.shipping.Address = value
	default:
		return apperrors.InvalidInput(fmt.Sprintf("unknown shipping field %q", name))
	}

	_, bad := shippingErrors(f.shipping)[name]
	f.shippingValid[name] = !bad
	return nil
}

// SetPaymentField stores one payment field and re-validates it.
func (f *CheckoutFlow) SetPaymentField(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step == domain.StepComplete {
		return errCheckoutComplete
	}

	switch name {
	case "cardNumber":
		f.payment.CardNumber = value
	case "expiryDate":
		f.payment.ExpiryDate = value
	case "cvv":
		f.payment.CVV = value
	default:
		return apperrors.InvalidInput(fmt.Sprintf("unknown payment field %q", name))
	}

	_, bad := paymentErrors(f.payment)[name]
	f.paymentValid[name] = !bad
	return nil
}

// SetShipping replaces the shipping record and re-validates every field.
func (f *CheckoutFlow) SetShipping(info domain.ShippingInfo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step == domain.StepComplete {
		return errCheckoutComplete
	}
	f.shipping = info
	f.shippingValid = validity(ShippingFields, shippingErrors(info))
	return nil
}

// SetPayment replaces the payment record and re-validates every field.
func (f *CheckoutFlow) SetPayment(info domain.PaymentInfo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step == domain.StepComplete {
		return errCheckoutComplete
	}
	f.payment = info
	f.paymentValid = validity(PaymentFields, paymentErrors(info))
	return nil
}

// Select adds cart lines to the selection. Keys not in the cart are rejected.
func (f *CheckoutFlow) Select(keys ...domain.LineKey) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.selectableLocked(); err != nil {
		return err
	}
	for _, k := range keys {
		if !f.cart.Contains(k) {
			return apperrors.NotFound("cart item", k.ID())
		}
	}
	for _, k := range keys {
		f.selection[k] = struct{}{}
	}
	return nil
}

// SetSelection replaces the selection with keys.
func (f *CheckoutFlow) SetSelection(keys []domain.LineKey) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.selectableLocked(); err != nil {
		return err
	}
	for _, k := range keys {
		if !f.cart.Contains(k) {
			return apperrors.NotFound("cart item", k.ID())
		}
	}
	f.selection = make(map[domain.LineKey]struct{}, len(keys))
	for _, k := range keys {
		f.selection[k] = struct{}{}
	}
	return nil
}

// Deselect removes cart lines from the selection.
func (f *CheckoutFlow) Deselect(keys ...domain.LineKey) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.selectableLocked(); err != nil {
		return err
	}
	for _, k := range keys {
		delete(f.selection, k)
	}
	return nil
}

// SelectAll selects every line currently in the cart.
func (f *CheckoutFlow) SelectAll() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.selectableLocked(); err != nil {
		return err
	}
	for _, item := range f.cart.Items() {
		f.selection[item.LineKey] = struct{}{}
	}
	return nil
}

// ClearSelection deselects everything.
func (f *CheckoutFlow) ClearSelection() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.selectableLocked(); err != nil {
		return err
	}
	clear(f.selection)
	return nil
}

// Selected returns the selected keys still present in the cart, in cart order.
func (f *CheckoutFlow) Selected() []domain.LineKey {
	f.mu.Lock()
	defer f.mu.Unlock()
	return lineKeys(f.selectedItemsLocked())
}

func (f *CheckoutFlow) selectableLocked() error {
	if f.step != domain.StepCartReview {
		return apperrors.Conflict("selection can only change during cart review")
	}
	return nil
}

func (f *CheckoutFlow) selectedItemsLocked() []domain.CartLineItem {
	selected := []domain.CartLineItem{}
	for _, item := range f.cart.Items() {
		if _, ok := f.selection[item.LineKey]; ok {
			selected = append(selected, item)
		}
	}
	return selected
}

// State returns the flow's read model. Field errors are only visible once
// an advance from the current step has been attempted.
func (f *CheckoutFlow) State() CheckoutState {
	f.mu.Lock()
	defer f.mu.Unlock()

	items := f.completed
	if f.step != domain.StepComplete {
		items = f.selectedItemsLocked()
	}

	errs := map[string]string{}
	if f.submitted {
		switch f.step {
		case domain.StepShipping:
			errs = shippingErrors(f.shipping)
		case domain.StepPayment:
			errs = paymentErrors(f.payment)
		}
	}

	return CheckoutState{
		Step:          f.step,
		Shipping:      f.shipping,
		Payment:       f.payment.Masked(),
		ShippingValid: maps.Clone(f.shippingValid),
		PaymentValid:  maps.Clone(f.paymentValid),
		Submitted:     f.submitted,
		Errors:        errs,
		Selection:     lineKeys(items),
		Items:         items,
		Summary:       domain.NewOrderSummary(items),
		Redirected:    f.fired,
	}
}

func lineKeys(items []domain.CartLineItem) []domain.LineKey {
	keys := make([]domain.LineKey, 0, len(items))
	for _, item := range items {
		keys = append(keys, item.LineKey)
	}
	return keys
}
