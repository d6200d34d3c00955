package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/pkg/health"
	"github.com/utafrali/storefront/pkg/middleware"
)

const serviceName = "storefront"

// referenceMaxAge is how long clients may cache the static option sets.
const referenceMaxAge = 3600

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	sf *service.Storefront,
	healthHandler *health.Handler,
	allowedOrigins []string,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.CorrelationIDHeader},
		ExposedHeaders: []string{middleware.CorrelationIDHeader},
		MaxAge:         300,
	}))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	catalogHandler := NewCatalogHandler(sf, logger)
	cartHandler := NewCartHandler(sf, logger)
	checkoutHandler := NewCheckoutHandler(sf, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/catalog", catalogHandler.GetCatalog)
		r.Post("/catalog/reload", catalogHandler.ReloadCatalog)
		r.Get("/products", catalogHandler.ListProducts)
		r.Get("/products/{id}", catalogHandler.GetProduct)
		r.With(middleware.CacheControl(referenceMaxAge)).
			Get("/categories", catalogHandler.ListCategories)
		r.Get("/categories/{category}/products", catalogHandler.ListCategoryProducts)
		r.Put("/search", catalogHandler.SetSearch)

		r.With(middleware.CacheControl(referenceMaxAge)).
			Get("/reference/shipping", catalogHandler.GetReference)

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.NoStore)

			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)

			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{productId}/{color}/{size}", cartHandler.UpdateItemQuantity)
			r.Delete("/items/{productId}/{color}/{size}", cartHandler.RemoveItem)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Use(middleware.NoStore)

			r.Post("/", checkoutHandler.StartCheckout)
			r.Get("/", checkoutHandler.GetCheckout)
			r.Delete("/", checkoutHandler.EndCheckout)

			r.Put("/selection", checkoutHandler.SetSelection)
			r.Delete("/selection", checkoutHandler.ClearSelection)
			r.Put("/selection/{productId}/{color}/{size}", checkoutHandler.SelectItem)
			r.Delete("/selection/{productId}/{color}/{size}", checkoutHandler.DeselectItem)

			r.Put("/shipping", checkoutHandler.ReplaceShipping)
			r.Patch("/shipping", checkoutHandler.PatchShipping)
			r.Put("/payment", checkoutHandler.ReplacePayment)
			r.Patch("/payment", checkoutHandler.PatchPayment)

			r.Post("/advance", checkoutHandler.Advance)
			r.Post("/retreat", checkoutHandler.Retreat)
			r.Post("/redirect", checkoutHandler.Redirect)
		})
	})

	return r
}
