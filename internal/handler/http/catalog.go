package http

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/pagination"
)

// CatalogHandler handles HTTP requests for catalog browsing and search.
type CatalogHandler struct {
	storefront *service.Storefront
	logger     *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(sf *service.Storefront, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		storefront: sf,
		logger:     logger,
	}
}

// --- Request / response DTOs ---

type catalogResponse struct {
	Loading       bool     `json:"loading"`
	Error         string   `json:"error,omitempty"`
	Categories    []string `json:"categories"`
	Query         string   `json:"query"`
	ProductCount  int      `json:"product_count"`
	FilteredCount int      `json:"filtered_count"`
}

// SearchRequest is the JSON request body for updating the search query.
type SearchRequest struct {
	Query string `json:"query"`
}

type searchResponse struct {
	Query        string `json:"query"`
	Pending      bool   `json:"pending"`
	PendingQuery string `json:"pending_query,omitempty"`
}

type referenceResponse struct {
	Cities []string `json:"cities"`
	Areas  []string `json:"areas"`
	Colors []string `json:"colors"`
	Sizes  []string `json:"sizes"`
}

// --- Handlers ---

// GetCatalog handles GET /api/v1/catalog
func (h *CatalogHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	catalog := h.storefront.Catalog()
	state := catalog.Snapshot()

	httputil.WriteData(w, http.StatusOK, catalogResponse{
		Loading:       state.Loading,
		Error:         state.Error,
		Categories:    state.Categories,
		Query:         state.Query,
		ProductCount:  len(state.Products),
		FilteredCount: len(catalog.FilteredProducts("")),
	})
}

// ReloadCatalog handles POST /api/v1/catalog/reload
func (h *CatalogHandler) ReloadCatalog(w http.ResponseWriter, r *http.Request) {
	if err := h.storefront.Catalog().LoadCatalog(r.Context()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	h.GetCatalog(w, r)
}

// ListProducts handles GET /api/v1/products?category=&q=&page=&per_page=
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	catalog := h.storefront.Catalog()
	query := r.URL.Query()

	if query.Has("q") {
		catalog.SetSearchQuery(query.Get("q"))
	}

	category := query.Get("category")
	if name, ok := catalog.ResolveCategory(category); ok {
		category = name
	}

	h.writeProducts(w, r, catalog.FilteredProducts(category))
}

// GetProduct handles GET /api/v1/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	detail, err := h.storefront.Catalog().ProductDetail(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, detail)
}

// ListCategories handles GET /api/v1/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, h.storefront.Catalog().Categories())
}

// ListCategoryProducts handles GET /api/v1/categories/{category}/products.
// The category may be given by name or slug. With source=remote the listing
// comes straight from the catalog service.
func (h *CatalogHandler) ListCategoryProducts(w http.ResponseWriter, r *http.Request) {
	catalog := h.storefront.Catalog()

	key, err := url.PathUnescape(chi.URLParam(r, "category"))
	if err != nil {
		httputil.WriteBadRequest(w, r, err)
		return
	}
	name, known := catalog.ResolveCategory(key)

	if r.URL.Query().Get("source") == "remote" {
		if !known {
			name = key
		}
		products, err := catalog.FetchCategory(r.Context(), name)
		if err != nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
		h.writeProducts(w, r, products)
		return
	}

	if !known {
		httputil.WriteJSON(w, http.StatusNotFound, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "NOT_FOUND", Message: "unknown category: " + key},
		})
		return
	}
	h.writeProducts(w, r, catalog.FilteredProducts(name))
}

// SetSearch handles PUT /api/v1/search
func (h *CatalogHandler) SetSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if !decodeBody(w, r, &req) {
		return
	}

	search := h.storefront.Search()
	search.Input(req.Query)

	pendingQuery, pending := search.Pending()
	resp := searchResponse{
		Query:   h.storefront.Catalog().SearchQuery(),
		Pending: pending,
	}
	if pending {
		resp.PendingQuery = pendingQuery
	}
	status := http.StatusOK
	if pending {
		status = http.StatusAccepted
	}
	httputil.WriteData(w, status, resp)
}

// GetReference handles GET /api/v1/reference/shipping
func (h *CatalogHandler) GetReference(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, referenceResponse{
		Cities: domain.Cities,
		Areas:  domain.Areas,
		Colors: domain.Colors,
		Sizes:  domain.Sizes,
	})
}

func (h *CatalogHandler) writeProducts(w http.ResponseWriter, r *http.Request, products []domain.Product) {
	if pagination.Requested(r) {
		httputil.WriteData(w, http.StatusOK, pagination.Slice(products, pagination.FromRequest(r)))
		return
	}
	httputil.WriteData(w, http.StatusOK, products)
}
