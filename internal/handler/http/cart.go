package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/pkg/httputil"
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	storefront *service.Storefront
	logger     *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(sf *service.Storefront, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		storefront: sf,
		logger:     logger,
	}
}

// --- Request / response DTOs ---

// UpdateQuantityRequest is the JSON request body for updating an item's quantity.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type cartResponse struct {
	Items     []domain.CartLineItem `json:"items"`
	ItemCount int                   `json:"item_count"`
	Subtotal  decimal.Decimal       `json:"subtotal"`
}

type addItemResponse struct {
	Item domain.CartLineItem `json:"item"`
	Cart cartResponse        `json:"cart"`
}

// --- Handlers ---

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, h.snapshot())
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.storefront.Cart().Clear()
	w.WriteHeader(http.StatusNoContent)
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req service.AddProductInput
	if !decodeBody(w, r, &req) {
		return
	}

	item, err := h.storefront.AddProduct(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusCreated, addItemResponse{Item: item, Cart: h.snapshot()})
}

// UpdateItemQuantity handles PUT /api/v1/cart/items/{productId}/{color}/{size}
func (h *CartHandler) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuantityRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.storefront.Cart().UpdateQuantity(lineKeyFromPath(r), req.Quantity); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, h.snapshot())
}

// RemoveItem handles DELETE /api/v1/cart/items/{productId}/{color}/{size}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.storefront.Cart().RemoveItem(lineKeyFromPath(r))
	httputil.WriteData(w, http.StatusOK, h.snapshot())
}

func (h *CartHandler) snapshot() cartResponse {
	items := h.storefront.Cart().Items()
	return cartResponse{
		Items:     items,
		ItemCount: domain.ItemCount(items),
		Subtotal:  domain.Subtotal(items),
	}
}

func lineKeyFromPath(r *http.Request) domain.LineKey {
	return domain.LineKey{
		ProductID: chi.URLParam(r, "productId"),
		Color:     chi.URLParam(r, "color"),
		Size:      chi.URLParam(r, "size"),
	}
}
