package provider

import (
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Client fetches OHLCV series from the quote provider's chart endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	limiter    *rate.Limiter

	maxRetries     int
	initialBackoff time.Duration
	maxBackoff     time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new chart API client.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:         slog.Default(),
		limiter:        rate.NewLimiter(rate.Limit(2.0), 1),
		maxRetries:     3,
		initialBackoff: 2 * time.Second,
		maxBackoff:     60 * time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRetries sets the retry ceiling and the first backoff delay.
// Subsequent delays double, capped at 60s.
func WithRetries(max int, backoff time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = max
		if backoff > 0 {
			c.initialBackoff = backoff
		}
	}
}

// WithRateLimit caps outgoing calls at rps requests per second, so the
// spacing between consecutive calls is at least 1/rps.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}
