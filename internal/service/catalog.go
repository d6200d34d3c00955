package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/slug"
)

// User-facing messages for failed catalog fetches.
const (
	MsgCatalogLoadFailed  = "failed to load products and categories"
	MsgProductLoadFailed  = "failed to load product details"
	MsgCategoryLoadFailed = "failed to load category products"
)

// CatalogClient is the read side of the remote catalog.
type CatalogClient interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
	ListProductsByCategory(ctx context.Context, category string) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int) (*domain.Product, error)
}

// CatalogState is a consistent copy of the catalog store.
type CatalogState struct {
	Products   []domain.Product `json:"products"`
	Categories []string         `json:"categories"`
	Loading    bool             `json:"loading"`
	Error      string           `json:"error,omitempty"`
	Query      string           `json:"query"`
}

// CatalogStore holds the products and categories fetched for the session
// together with the active search query.
type CatalogStore struct {
	client CatalogClient
	logger *slog.Logger

	mu         sync.RWMutex
	products   []domain.Product
	categories []string
	loading    bool
	loaded     bool
	errMsg     string
	query      string
	gen        uint64
}

// NewCatalogStore creates a store in the loading state.
func NewCatalogStore(client CatalogClient, logger *slog.Logger) *CatalogStore {
	return &CatalogStore{
		client:     client,
		logger:     logger,
		products:   []domain.Product{},
		categories: []string{},
		loading:    true,
	}
}

// catalogUnavailable reports a failed fetch as a 502 with a user-facing message.
func catalogUnavailable(message string, cause error) *apperrors.AppError {
	appErr := apperrors.Upstream(message, cause)
	appErr.Code = "CATALOG_UNAVAILABLE"
	return appErr
}

// LoadCatalog fetches products and categories concurrently. Both must
// succeed for either to be stored; on failure the previous data stays and
// the user-facing error is set. Only the most recent load applies its result.
func (s *CatalogStore) LoadCatalog(ctx context.Context) error {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()

	var (
		g          errgroup.Group
		products   []domain.Product
		categories []string
	)
	g.Go(func() error {
		var err error
		products, err = s.client.ListProducts(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.client.ListCategories(ctx)
		return err
	})
	err := g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		if err != nil {
			return catalogUnavailable(MsgCatalogLoadFailed, err)
		}
		return nil
	}
	s.loading = false

	if err != nil {
		s.errMsg = MsgCatalogLoadFailed
		catalogLoads.WithLabelValues("failure").Inc()
		s.logger.ErrorContext(ctx, "catalog load failed", slog.String("error", err.Error()))
		return catalogUnavailable(MsgCatalogLoadFailed, err)
	}

	if products == nil {
		products = []domain.Product{}
	}
	if categories == nil {
		categories = []string{}
	}
	s.products = products
	s.categories = categories
	s.loaded = true
	catalogLoads.WithLabelValues("success").Inc()
	s.logger.InfoContext(ctx, "catalog loaded",
		slog.Int("products", len(products)),
		slog.Int("categories", len(categories)),
	)
	return nil
}

// SetSearchQuery replaces the active query. Filtering happens on read.
func (s *CatalogStore) SetSearchQuery(query string) {
	s.mu.Lock()
	s.query = query
	s.mu.Unlock()
}

// SearchQuery returns the active query.
func (s *CatalogStore) SearchQuery() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// FilteredProducts returns the loaded products matching category and the
// active query. An empty category matches all.
func (s *CatalogStore) FilteredProducts(category string) []domain.Product {
	s.mu.RLock()
	products, query := s.products, s.query
	s.mu.RUnlock()
	return domain.FilterProducts(products, category, query)
}

// Snapshot returns a copy of the store's state.
func (s *CatalogStore) Snapshot() CatalogState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return CatalogState{
		Products:   slices.Clone(s.products),
		Categories: slices.Clone(s.categories),
		Loading:    s.loading,
		Error:      s.errMsg,
		Query:      s.query,
	}
}

// Categories returns the loaded category names.
func (s *CatalogStore) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.categories)
}

// Ready reports an error until a load has succeeded and while the last
// load failed.
func (s *CatalogStore) Ready(context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case s.errMsg != "":
		return apperrors.ServiceUnavailable(s.errMsg)
	case !s.loaded:
		return apperrors.ServiceUnavailable("catalog not loaded")
	}
	return nil
}

// ResolveCategory maps a category name or slug to the loaded category name.
func (s *CatalogStore) ResolveCategory(key string) (string, bool) {
	return slug.Resolve(key, s.Categories())
}

// Product returns a product from the loaded catalog, fetching it when it
// has not been loaded.
func (s *CatalogStore) Product(ctx context.Context, id int) (domain.Product, error) {
	s.mu.RLock()
	idx := slices.IndexFunc(s.products, func(p domain.Product) bool { return p.ID == id })
	var p domain.Product
	if idx >= 0 {
		p = s.products[idx]
	}
	s.mu.RUnlock()
	if idx >= 0 {
		return p, nil
	}

	fetched, err := s.fetchProduct(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	return *fetched, nil
}

// ProductDetail fetches a product and decorates it with its purchasable
// options.
func (s *CatalogStore) ProductDetail(ctx context.Context, id int) (*domain.ProductDetail, error) {
	p, err := s.fetchProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := domain.NewProductDetail(*p)
	return &detail, nil
}

func (s *CatalogStore) fetchProduct(ctx context.Context, id int) (*domain.Product, error) {
	p, err := s.client.GetProduct(ctx, id)
	if err != nil {
		if catalog.IsNotFound(err) {
			return nil, apperrors.NotFound("product", strconv.Itoa(id))
		}
		s.logger.ErrorContext(ctx, "product fetch failed",
			slog.Int("product_id", id),
			slog.String("error", err.Error()),
		)
		return nil, catalogUnavailable(MsgProductLoadFailed, err)
	}
	return p, nil
}

// FetchCategory lists a category's products straight from the remote
// catalog. Results are not stored.
func (s *CatalogStore) FetchCategory(ctx context.Context, category string) ([]domain.Product, error) {
	products, err := s.client.ListProductsByCategory(ctx, category)
	if err != nil {
		if catalog.IsNotFound(err) {
			return nil, &apperrors.AppError{
				Code:    "NOT_FOUND",
				Message: fmt.Sprintf("category %q not found", category),
				Status:  http.StatusNotFound,
				Err:     apperrors.ErrNotFound,
			}
		}
		s.logger.ErrorContext(ctx, "category fetch failed",
			slog.String("category", category),
			slog.String("error", err.Error()),
		)
		return nil, catalogUnavailable(MsgCategoryLoadFailed, fmt.Errorf("category %q: %w", category, err))
	}
	return products, nil
}
