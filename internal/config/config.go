package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	pkgconfig "github.com/utafrali/storefront/pkg/config"
	"github.com/utafrali/storefront/pkg/httpclient"
	"github.com/utafrali/storefront/pkg/tracing"
)

// Config holds all configuration for the storefront process.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"json"`

	// Local presentation API
	HTTPAddr string `env:"STOREFRONT_HTTP_ADDR" envDefault:"127.0.0.1:8080"`

	// Remote catalog
	CatalogBaseURL        string  `env:"CATALOG_BASE_URL" envDefault:"https://fakestoreapi.com"`
	CatalogTimeoutSeconds int     `env:"CATALOG_TIMEOUT_SECONDS" envDefault:"10"`
	CatalogRateLimitRPS   float64 `env:"CATALOG_RATE_LIMIT_RPS" envDefault:"0"`
	CatalogRateLimitBurst int     `env:"CATALOG_RATE_LIMIT_BURST" envDefault:"4"`
	CatalogUserAgent      string  `env:"CATALOG_USER_AGENT" envDefault:"storefront/1.0"`

	// Circuit breaker settings for catalog calls
	CBMaxRequests  uint32  `env:"CB_MAX_REQUESTS" envDefault:"1"`
	CBInterval     int     `env:"CB_INTERVAL_SECONDS" envDefault:"60"`
	CBTimeout      int     `env:"CB_TIMEOUT_SECONDS" envDefault:"30"`
	CBFailureRatio float64 `env:"CB_FAILURE_RATIO" envDefault:"0.5"`
	CBMinRequests  uint32  `env:"CB_MIN_REQUESTS" envDefault:"5"`

	// Client behaviour
	CheckoutRedirectDelayMs int `env:"CHECKOUT_REDIRECT_DELAY_MS" envDefault:"2000"`
	SearchDebounceMs        int `env:"SEARCH_DEBOUNCE_MS" envDefault:"0"`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000,http://127.0.0.1:3000" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFrom is Load over an explicit environment, used by tests.
func LoadFrom(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.LoadFrom(cfg, environ); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration invariants. It is exported so command-line
// overrides can be re-checked after they are applied.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.HTTPAddr); err != nil {
		return fmt.Errorf("invalid STOREFRONT_HTTP_ADDR %q: %w", c.HTTPAddr, err)
	}
	u, err := url.ParseRequestURI(c.CatalogBaseURL)
	if err != nil {
		return fmt.Errorf("invalid CATALOG_BASE_URL %q: %w", c.CatalogBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("CATALOG_BASE_URL must be http or https, got %q", u.Scheme)
	}
	if c.CatalogTimeoutSeconds < 1 {
		return fmt.Errorf("CATALOG_TIMEOUT_SECONDS must be positive, got %d", c.CatalogTimeoutSeconds)
	}
	if c.CatalogRateLimitRPS < 0 {
		return fmt.Errorf("CATALOG_RATE_LIMIT_RPS must not be negative, got %f", c.CatalogRateLimitRPS)
	}
	if c.CBFailureRatio <= 0 || c.CBFailureRatio > 1.0 {
		return fmt.Errorf("CB_FAILURE_RATIO must be in (0.0, 1.0], got %f", c.CBFailureRatio)
	}
	if c.CheckoutRedirectDelayMs < 0 {
		return fmt.Errorf("CHECKOUT_REDIRECT_DELAY_MS must not be negative, got %d", c.CheckoutRedirectDelayMs)
	}
	if c.SearchDebounceMs < 0 {
		return fmt.Errorf("SEARCH_DEBOUNCE_MS must not be negative, got %d", c.SearchDebounceMs)
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate)
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	return nil
}

// CatalogTimeout is the fixed per-request timeout for catalog calls.
func (c *Config) CatalogTimeout() time.Duration {
	return time.Duration(c.CatalogTimeoutSeconds) * time.Second
}

// RedirectDelay is how long the completed checkout waits before redirecting home.
func (c *Config) RedirectDelay() time.Duration {
	return time.Duration(c.CheckoutRedirectDelayMs) * time.Millisecond
}

// SearchDebounce is the quiet period before a typed search query is applied.
func (c *Config) SearchDebounce() time.Duration {
	return time.Duration(c.SearchDebounceMs) * time.Millisecond
}

// HTTPClient returns the transport settings for the catalog client.
func (c *Config) HTTPClient() httpclient.Config {
	cfg := httpclient.DefaultConfig()
	cfg.Timeout = c.CatalogTimeout()
	cfg.UserAgent = c.CatalogUserAgent
	cfg.RateLimit = c.CatalogRateLimitRPS
	cfg.RateBurst = c.CatalogRateLimitBurst
	return cfg
}

// CircuitBreaker returns the breaker settings for the catalog client.
func (c *Config) CircuitBreaker() httpclient.CircuitBreakerConfig {
	return httpclient.CircuitBreakerConfig{
		Name:         "catalog",
		MaxRequests:  c.CBMaxRequests,
		Interval:     time.Duration(c.CBInterval) * time.Second,
		Timeout:      time.Duration(c.CBTimeout) * time.Second,
		FailureRatio: c.CBFailureRatio,
		MinRequests:  c.CBMinRequests,
	}
}

// Tracing returns the OpenTelemetry settings.
func (c *Config) Tracing(serviceName, version string) tracing.Config {
	return tracing.Config{
		ServiceName:    serviceName,
		ServiceVersion: version,
		Environment:    c.Environment,
		OTLPEndpoint:   c.OTELEndpoint,
		SampleRate:     c.OTELSampleRate,
		Enabled:        c.OTELEnabled,
	}
}
