package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/pkg/health"
	"github.com/utafrali/storefront/pkg/httputil"
)

// ============================================================================
// Mock CatalogClient
// ============================================================================

type mockCatalogClient struct {
	mock.Mock
}

func (m *mockCatalogClient) ListProducts(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockCatalogClient) ListCategories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockCatalogClient) ListProductsByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockCatalogClient) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

// ============================================================================
// Test helpers
// ============================================================================

type envelope struct {
	Data  json.RawMessage         `json:"data"`
	Error *httputil.ErrorResponse `json:"error"`
}

type testEnv struct {
	router     http.Handler
	client     *mockCatalogClient
	storefront *service.Storefront
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testProducts() []domain.Product {
	return []domain.Product{
		{ID: 1, Title: "Fjallraven Backpack", Price: decimal.RequireFromString("109.95"), Category: "men's clothing", Image: "https://img/1.jpg"},
		{ID: 2, Title: "Mens Casual T-Shirt", Price: decimal.RequireFromString("22.3"), Category: "men's clothing", Image: "https://img/2.jpg"},
		{ID: 5, Title: "Dragon Station Chain Bracelet", Price: decimal.RequireFromString("695"), Category: "jewelery", Image: "https://img/5.jpg"},
		{ID: 9, Title: "WD 2TB Portable Drive", Price: decimal.RequireFromString("64"), Category: "electronics", Image: "https://img/9.jpg"},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	client := new(mockCatalogClient)
	client.On("ListProducts", mock.Anything).Return(testProducts(), nil).Once()
	client.On("ListCategories", mock.Anything).
		Return([]string{"electronics", "jewelery", "men's clothing", "women's clothing"}, nil).Once()

	sf := service.NewStorefront(client, service.Options{RedirectDelay: time.Hour}, testLogger())
	t.Cleanup(sf.Close)
	require.NoError(t, sf.Catalog().LoadCatalog(context.Background()))

	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("catalog", sf.Catalog().Ready)

	return &testEnv{
		router:     NewRouter(sf, healthHandler, []string{"http://localhost:3000"}, testLogger()),
		client:     client,
		storefront: sf,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	require.Nil(t, env.Error, rec.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, dst))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) *httputil.ErrorResponse {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	require.NotNil(t, env.Error, rec.Body.String())
	return env.Error
}

type checkoutView struct {
	Step       string             `json:"step"`
	Submitted  bool               `json:"submitted"`
	Errors     map[string]string  `json:"errors"`
	RedirectTo string             `json:"redirect_to"`
	Payment    domain.PaymentInfo `json:"payment"`
	Summary    struct {
		ItemCount int    `json:"item_count"`
		Subtotal  string `json:"subtotal"`
		Total     string `json:"total"`
	} `json:"summary"`
}

func newRequest(method, path, body string) *http.Request {
	return httptest.NewRequest(method, path, bytes.NewBufferString(body))
}

func serve(e *testEnv, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}
