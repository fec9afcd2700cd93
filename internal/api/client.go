// Package api is the HTTP client for the bookstore REST API.
package api

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
	"strings"
	"time"

	"github.com/Veraticus/toko/internal/common"
	"github.com/Veraticus/toko/internal/service"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// DefaultBaseURL is where the store API listens in development.
const DefaultBaseURL = "http://localhost:3000/api"

const maxResponseBytes = 10 << 20

// Config configures a Client.
type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	// Retries is the number of attempts for idempotent requests.
	Retries int
}

// Client talks to the store API. A Client without a token can only reach the
// public endpoints; WithToken derives an authenticated copy.
type Client struct {
	httpClient *http.Client
	base       *http.Transport
	baseURL    string
	userAgent  string
	token      string
	retry      common.RetryOptions
}

var (
	_ service.Catalog       = (*Client)(nil)
	_ service.Authenticator = (*Client)(nil)
	_ service.Account       = (*Client)(nil)
)

// New creates an unauthenticated client.
func New(cfg Config) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: api base url %q: %w", common.ErrInvalidConfig, baseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("%w: api base url %q must be http or https", common.ErrInvalidConfig, baseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	retries := cfg.Retries
	if retries <= 0 {
		retries = 3
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "toko"
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		base:       transport,
		httpClient: &http.Client{Timeout: timeout, Transport: transport},
		retry: common.RetryOptions{
			MaxAttempts:  retries,
			InitialDelay: 200 * time.Millisecond,
			MaxDelay:     5 * time.Second,
			Multiplier:   2,
		},
	}, nil
}

// WithToken returns a copy of the client that sends token as a bearer
// credential on every request. The copy shares the connection pool.
func (c *Client) WithToken(token string) *Client {
	authed := *c
	authed.token = token
	authed.httpClient = &http.Client{
		Timeout: c.httpClient.Timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
			Base:   c.base,
		},
	}
	return &authed
}

// BaseURL returns the normalized API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Authenticated reports whether the client carries a token.
func (c *Client) Authenticated() bool {
	return c.token != ""
}

// Close releases idle connections.
func (c *Client) Close() {
	c.base.CloseIdleConnections()
}

// get performs an idempotent request with retries.
func (c *Client) get(ctx context.Context, path string, out any) error {
	return common.WithRetry(ctx, func() error {
		return c.do(ctx, http.MethodGet, path, nil, out)
	}, c.retry)
}

// requireToken guards endpoints that need a logged-in customer.
func (c *Client) requireToken() error {
	if c.token == "" {
		return common.ErrNoSession
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if ctx == nil {
		return fmt.Errorf("context cannot be nil")
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &common.RetryableError{
			Err:       fmt.Errorf("%s %s: request failed: %w", method, path, err),
			Retryable: true,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &common.RetryableError{
			Err:       fmt.Errorf("%s %s: failed to read response: %w", method, path, err),
			Retryable: true,
		}
	}

	slog.Debug("API request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newError(method, path, requestID, resp.StatusCode, resp.Header, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s %s: %w", common.ErrInvalidResponse, method, path, err)
	}
	return nil
}

// IsAPIError reports whether err carries an API error with the given status.
func IsAPIError(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}
