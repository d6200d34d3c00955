package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/config"
	handler "github.com/utafrali/storefront/internal/handler/http"
	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/pkg/health"
	"github.com/utafrali/storefront/pkg/httpclient"
	"github.com/utafrali/storefront/pkg/logger"
	"github.com/utafrali/storefront/pkg/tracing"
)

const serviceName = "storefront"

// App wires together all dependencies and runs the storefront.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	storefront     *service.Storefront
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, version string, log *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize tracing. A disabled tracer installs nothing.
	tracerShutdown, err := tracing.InitTracer(ctx, cfg.Tracing(serviceName, version))
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Catalog transport: fixed timeout, optional rate limit, circuit breaker.
	breaker := httpclient.NewCircuitBreakerClient(
		httpclient.New(cfg.HTTPClient()),
		cfg.CircuitBreaker(),
		logger.WithComponent(log, "httpclient"),
	)
	catalogClient := catalog.NewClient(breaker, cfg.CatalogBaseURL, logger.WithComponent(log, "catalog_client"))
	log.Info("catalog client initialized",
		slog.String("base_url", cfg.CatalogBaseURL),
		slog.Duration("timeout", cfg.CatalogTimeout()),
	)

	sf := service.NewStorefront(catalogClient, service.Options{
		RedirectDelay:  cfg.RedirectDelay(),
		SearchDebounce: cfg.SearchDebounce(),
		OnRedirect: func() {
			log.Info("checkout complete, redirecting home")
		},
	}, log)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("catalog", sf.Catalog().Ready)
	healthHandler.RegisterNonCritical(breaker.Name()+"_breaker", func(context.Context) error {
		if breaker.State() == gobreaker.StateOpen {
			return fmt.Errorf("circuit %s open", breaker.Name())
		}
		return nil
	})

	// HTTP router.
	router := handler.NewRouter(sf, healthHandler, cfg.CORSAllowedOrigins, log)

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         log,
		storefront:     sf,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server, loads the catalog and blocks until the
// context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	// A failed initial load leaves the catalog in its error state; clients
	// retry through POST /api/v1/catalog/reload.
	go func() {
		_ = a.storefront.Catalog().LoadCatalog(ctx)
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		_ = a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	// Stop pending checkout redirects and search debounces.
	a.storefront.Close()

	if err := a.tracerShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
