// Package perses provides a client for the Perses HTTP API as exposed by the
// platform's embedded Perses backend.
package perses

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/donaldgifford/perses-gateway/internal/metrics"
)

// DefaultBasePath is the prefix under which the platform mounts Perses.
const DefaultBasePath = "/perses/api"

// ErrNotFound is returned when Perses answers 404 for a single resource.
var ErrNotFound = errors.New("perses resource not found")

// Client talks to the Perses API.
type Client struct {
	baseURL     string
	basePath    string
	client      *http.Client
	tokens      TokenProvider
	rateLimiter *RateLimiter
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithBasePath overrides DefaultBasePath.
func WithBasePath(p string) Option {
	return func(c *Client) {
		c.basePath = strings.TrimRight(p, "/")
	}
}

// WithTokenProvider sets the source of the bearer token sent with every
// request. Without one requests are unauthenticated.
func WithTokenProvider(tp TokenProvider) Option {
	return func(c *Client) {
		c.tokens = tp
	}
}

// WithRateLimiter throttles every request through r.
func WithRateLimiter(r *RateLimiter) Option {
	return func(c *Client) {
		c.rateLimiter = r
	}
}

// NewClient creates a Perses client for the server at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		basePath: DefaultBasePath,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-2xx answer from Perses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("perses API error (status %d): %s", e.StatusCode, e.Body)
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + c.basePath + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// get performs a GET against path and decodes the JSON answer into dst.
// op labels the request in metrics.
func (c *Client) get(
	ctx context.Context,
	op, path string,
	query url.Values,
	dst any,
) error {
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, query), http.NoBody)
	if err != nil {
		return fmt.Errorf("creating HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("getting auth token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	metrics.PersesRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.PersesRequestsTotal.WithLabelValues(op, "error").Inc()
		return fmt.Errorf("executing %s request: %w", op, err)
	}
	defer resp.Body.Close()

	metrics.PersesRequestsTotal.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Inc()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("parsing %s response: %w", op, err)
	}
	return nil
}

// Ping checks that Perses answers. It lists projects, which every
// authenticated caller may do.
func (c *Client) Ping(ctx context.Context) error {
	var projects []json.RawMessage
	return c.get(ctx, "ping", "/api/v1/projects", nil, &projects)
}
