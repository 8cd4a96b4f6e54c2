// Package canvas provides the Canvas LMS HTTP client: authenticated
// requests, Link-header cursor pagination, and grade submission.
package canvas

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gradebook-tools/canvas-sync/pkg/cache"
	"github.com/gradebook-tools/canvas-sync/pkg/ratelimit"
)

// Prometheus metrics for Canvas client operations.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gradesync_requests_total",
		Help: "Total Canvas requests by method and status",
	}, []string{"method", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gradesync_request_duration_seconds",
		Help:    "Canvas request duration in seconds by method",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"method"})

	pagesFetchedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gradesync_pages_fetched_total",
		Help: "Total pagination pages fetched",
	})
)

// Client is the Canvas API client.
type Client struct {
	httpClient *http.Client
	config     Config
	cache      *cache.Manager
	quota      *ratelimit.Quota
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is the Canvas instance root, scheme-prefixed with no
	// trailing slash (e.g. "https://school.instructure.com"). The
	// configuration provider guarantees that shape.
	BaseURL string

	// Token is the bearer access token.
	Token string

	// Timeout per HTTP round trip.
	Timeout time.Duration

	// Cache is the optional response cache; nil disables caching.
	Cache *cache.Manager

	// MaxPages bounds a pagination chain as a guard against a server that
	// never drops the rel="next" link.
	MaxPages int
}

// DefaultMaxPages is the pagination loop guard.
const DefaultMaxPages = 1000

// New creates a Canvas client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if !strings.HasPrefix(cfg.BaseURL, "http://") && !strings.HasPrefix(cfg.BaseURL, "https://") {
		return nil, fmt.Errorf("base URL must carry a scheme (got %q)", cfg.BaseURL)
	}
	if strings.HasSuffix(cfg.BaseURL, "/") {
		return nil, fmt.Errorf("base URL must not end with a slash (got %q)", cfg.BaseURL)
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("access token is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = DefaultMaxPages
	}

	logger := log.With().Str("component", "canvas-client").Logger()

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		config:     cfg,
		cache:      cfg.Cache,
		quota:      ratelimit.NewQuota(),
		logger:     logger,
	}, nil
}

// Quota exposes the rate limit state observed on responses, for pacing
// batch submissions.
func (c *Client) Quota() *ratelimit.Quota {
	return c.quota
}

// BaseURL returns the configured Canvas instance root.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// do executes one authenticated round trip and updates quota state and
// metrics. Transport failures come back as *TransportError.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+c.config.Token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	requestDuration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())

	if err != nil {
		requestsTotal.WithLabelValues(req.Method, "transport_error").Inc()
		c.logger.Error().Err(err).Str("url", req.URL.String()).Msg("HTTP request failed")
		return nil, &TransportError{URL: req.URL.String(), Err: err}
	}

	c.quota.UpdateFromHeaders(resp.Header)
	requestsTotal.WithLabelValues(req.Method, fmt.Sprintf("%d", resp.StatusCode)).Inc()

	c.logger.Debug().
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Int("status", resp.StatusCode).
		Msg("Canvas request")

	return resp, nil
}
