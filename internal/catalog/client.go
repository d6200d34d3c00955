package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/pkg/httpclient"
	"github.com/utafrali/storefront/pkg/tracing"
)

const maxBodyBytes = 8 << 20

// HTTPDoer is the interface for executing HTTP requests.
// Both httpclient.Client and httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client reads the remote product catalog. Every call issues exactly one
// request and never retries.
type Client struct {
	http    HTTPDoer
	baseURL string
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewClient creates a catalog client rooted at baseURL.
func NewClient(httpClient HTTPDoer, baseURL string, logger *slog.Logger) *Client {
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
		tracer:  tracing.Tracer("github.com/utafrali/storefront/internal/catalog"),
	}
}

// ListProducts returns every product in the catalog.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.get(ctx, "ListProducts", "/products", false, &products); err != nil {
		return nil, err
	}
	return nonNil(products), nil
}

// ListCategories returns every category name.
func (c *Client) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.get(ctx, "ListCategories", "/products/categories", false, &categories); err != nil {
		return nil, err
	}
	return nonNil(categories), nil
}

// ListProductsByCategory returns the products the catalog files under category.
func (c *Client) ListProductsByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	var products []domain.Product
	path := "/products/category/" + url.PathEscape(category)
	if err := c.get(ctx, "ListProductsByCategory", path, false, &products); err != nil {
		return nil, err
	}
	return nonNil(products), nil
}

// GetProduct returns a single product. The catalog answers unknown ids
// either with 404 or with 200 and an empty or null body; both are
// reported as KindNotFound.
func (c *Client) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	var product domain.Product
	if err := c.get(ctx, "GetProduct", "/products/"+strconv.Itoa(id), true, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) get(ctx context.Context, op, path string, emptyIsNotFound bool, dst any) (err error) {
	target := c.baseURL + path

	ctx, span := c.tracer.Start(ctx, "catalog."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			semconv.HTTPMethod(http.MethodGet),
			semconv.HTTPURL(target),
			attribute.String("catalog.operation", op),
		),
	)
	start := time.Now()
	defer func() {
		outcome := outcomeSuccess
		var fe *FetchError
		if errors.As(err, &fe) {
			outcome = string(fe.Kind)
		}
		elapsed := time.Since(start)
		requestDuration.WithLabelValues(op, outcome).Observe(elapsed.Seconds())
		tracing.EndSpan(span, err)

		if err != nil {
			c.logger.WarnContext(ctx, "catalog request failed",
				slog.String("operation", op),
				slog.String("outcome", outcome),
				slog.Duration("duration", elapsed),
				slog.Bool("timeout", httpclient.IsTimeout(err)),
				slog.String("error", err.Error()),
			)
			return
		}
		c.logger.DebugContext(ctx, "catalog request",
			slog.String("operation", op),
			slog.Duration("duration", elapsed),
		)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return &FetchError{Op: op, Kind: KindNetwork, Err: fmt.Errorf("create request: %w", err)}
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		var statusErr *httpclient.StatusError
		if errors.As(err, &statusErr) {
			return &FetchError{Op: op, Kind: KindStatus, StatusCode: statusErr.StatusCode, Err: err}
		}
		return &FetchError{Op: op, Kind: KindNetwork, Err: err}
	}
	span.SetAttributes(semconv.HTTPStatusCode(resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := httpclient.ParseResponseError(resp)
		kind := KindStatus
		if statusErr.NotFound() {
			kind = KindNotFound
		}
		return &FetchError{Op: op, Kind: kind, StatusCode: resp.StatusCode, Err: statusErr}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &FetchError{Op: op, Kind: KindNetwork, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	trimmed := bytes.TrimSpace(body)
	if emptyIsNotFound && (len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))) {
		return &FetchError{Op: op, Kind: KindNotFound, StatusCode: resp.StatusCode}
	}

	if err := json.Unmarshal(trimmed, dst); err != nil {
		return &FetchError{Op: op, Kind: KindDecode, StatusCode: resp.StatusCode, Err: err}
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
