package http

import (
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"slices"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/service"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httputil"
)

// homePath is where a completed checkout sends the shopper.
const homePath = "/"

var errNoCheckout = &apperrors.AppError{
	Code:    "NOT_FOUND",
	Message: "no checkout in progress",
	Status:  http.StatusNotFound,
	Err:     apperrors.ErrNotFound,
}

// CheckoutHandler handles HTTP requests driving the checkout flow.
type CheckoutHandler struct {
	storefront *service.Storefront
	logger     *slog.Logger
}

// NewCheckoutHandler creates a new checkout HTTP handler.
func NewCheckoutHandler(sf *service.Storefront, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		storefront: sf,
		logger:     logger,
	}
}

// --- Request / response DTOs ---

// SelectionRequest is the JSON request body for replacing the selection.
// All selects every cart line and takes precedence over Items.
type SelectionRequest struct {
	All   bool             `json:"all"`
	Items []domain.LineKey `json:"items"`
}

type checkoutResponse struct {
	service.CheckoutState
	RedirectTo string `json:"redirect_to,omitempty"`
}

// --- Handlers ---

// StartCheckout handles POST /api/v1/checkout
func (h *CheckoutHandler) StartCheckout(w http.ResponseWriter, r *http.Request) {
	flow := h.storefront.StartCheckout()
	h.writeState(w, http.StatusCreated, flow)
}

// GetCheckout handles GET /api/v1/checkout
func (h *CheckoutHandler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	flow, ok := h.flow(w, r)
	if !ok {
		return
	}
	h.writeState(w, http.StatusOK, flow)
}

// EndCheckout handles DELETE /api/v1/checkout
func (h *CheckoutHandler) EndCheckout(w http.ResponseWriter, r *http.Request) {
	h.storefront.EndCheckout()
	w.WriteHeader(http.StatusNoContent)
}

// SetSelection handles PUT /api/v1/checkout/selection
func (h *CheckoutHandler) SetSelection(w http.ResponseWriter, r *http.Request) {
	flow, ok := h.flow(w, r)
	if !ok {
		return
	}

	var req SelectionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var err error
	if req.All {
		err = flow.SelectAll()
	} else {
		err = flow.SetSelection(req.Items)
	}
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.writeState(w, http.StatusOK, flow)
}

// SelectItem handles PUT /api/v1/checkout/selection/{productId}/{color}/{size}
func (h *CheckoutHandler) SelectItem(w http.ResponseWriter, r *http.Request) {
	h.changeSelection(w, r, func(flow *service.CheckoutFlow) error {
		return flow.Select(lineKeyFromPath(r))
	})
}

// DeselectItem handles DELETE /api/v1/checkout/selection/{productId}/{color}/{size}
func (h *CheckoutHandler) DeselectItem(w http.ResponseWriter, r *http.Request) {
	h.changeSelection(w, r, func(flow *service.CheckoutFlow) error {
		return flow.Deselect(lineKeyFromPath(r))
	})
}

// ClearSelection handles DELETE /api/v1/checkout/selection
func (h *CheckoutHandler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	h.changeSelection(w, r, (*service.CheckoutFlow).ClearSelection)
}

func (h *CheckoutHandler) changeSelection(w http.ResponseWriter, r *http.Request, change func(*service.CheckoutFlow) error) {
	flow, ok := h.flow(w, r)
	if !ok {
		return
	}
	if err := change(flow); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	h.writeState(w, http.StatusOK, flow)
}

// ReplaceShipping handles PUT /api/v1/checkout/shipping. Every field is
// re-validated.
func (h *CheckoutHandler) ReplaceShipping(w http.ResponseWriter, r *http.Request) {
	var info domain.ShippingInfo
	h.replace(w, r, &info, func(flow *service.CheckoutFlow) error {
		return flow.SetShipping(info)
	})
}

// ReplacePayment handles PUT /api/v1/checkout/payment.
func (h *CheckoutHandler) ReplacePayment(w http.ResponseWriter, r *http.Request) {
	var info domain.PaymentInfo
	h.replace(w, r, &info, func(flow *service.CheckoutFlow) error {
		return flow.SetPayment(info)
	})
}

func (h *CheckoutHandler) replace(w http.ResponseWriter, r *http.Request, dst any, apply func(*service.CheckoutFlow) error) {
	flow, ok := h.flow(w, r)
	if !ok {
		return
	}
	if !decodeBody(w, r, dst) {
		return
	}
	if err := apply(flow); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	h.writeState(w, http.StatusOK, flow)
}

// PatchShipping handles PATCH /api/v1/checkout/shipping. The body maps
// shipping field names to new values.
func (h *CheckoutHandler) PatchShipping(w http.ResponseWriter, r *http.Request) {
	h.patchFields(w, r, service.ShippingFields, (*service.CheckoutFlow).SetShippingField)
}

// PatchPayment handles PATCH /api/v1/checkout/payment. The body maps
// payment field names to new values.
func (h *CheckoutHandler) PatchPayment(w http.ResponseWriter, r *http.Request) {
	h.patchFields(w, r, service.PaymentFields, (*service.CheckoutFlow).SetPaymentField)
}

func (h *CheckoutHandler) patchFields(
	w http.ResponseWriter,
	r *http.Request,
	known []string,
	set func(*service.CheckoutFlow, string, string) error,
) {
	flow, ok := h.flow(w, r)
	if !ok {
		return
	}

	fields, ok := decodeFields(w, r)
	if !ok {
		return
	}

	names := slices.Sorted(maps.Keys(fields))
	for _, name := range names {
		if !slices.Contains(known, name) {
			httputil.WriteError(w, r, apperrors.InvalidInput(fmt.Sprintf("unknown field %q", name)), h.logger)
			return
		}
	}
	for _, name := range names {
		if err := set(flow, name, fields[name]); err != nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
	}

	h.writeState(w, http.StatusOK, flow)
}

// Advance handles POST /api/v1/checkout/advance
func (h *CheckoutHandler) Advance(w http.ResponseWriter, r *http.Request) {
	flow, ok := h.flow(w, r)
	if !ok {
		return
	}

	if err := flow.Advance(); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.writeState(w, http.StatusOK, flow)
}

// Retreat handles POST /api/v1/checkout/retreat
func (h *CheckoutHandler) Retreat(w http.ResponseWriter, r *http.Request) {
	flow, ok := h.flow(w, r)
	if !ok {
		return
	}

	flow.Retreat()
	h.writeState(w, http.StatusOK, flow)
}

// Redirect handles POST /api/v1/checkout/redirect
func (h *CheckoutHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	flow, ok := h.flow(w, r)
	if !ok {
		return
	}

	if err := flow.Redirect(); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.writeState(w, http.StatusOK, flow)
}

func (h *CheckoutHandler) flow(w http.ResponseWriter, r *http.Request) (*service.CheckoutFlow, bool) {
	flow, ok := h.storefront.Checkout()
	if !ok {
		httputil.WriteError(w, r, errNoCheckout, h.logger)
		return nil, false
	}
	return flow, true
}

func (h *CheckoutHandler) writeState(w http.ResponseWriter, status int, flow *service.CheckoutFlow) {
	resp := checkoutResponse{CheckoutState: flow.State()}
	if resp.Redirected {
		resp.RedirectTo = homePath
	}
	httputil.WriteData(w, status, resp)
}
