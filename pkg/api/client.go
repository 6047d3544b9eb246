// Package api is the Go client for the food-ordering backend. Every resource
// of the REST API has a typed method on Client; the AI chat reply stream is
// exposed through Client.Stream.
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

	"github.com/google/uuid"

	"github.com/forkline/forkline/pkg/logger"
)

const (
	// DefaultTimeout bounds request/response calls.
	DefaultTimeout = 15 * time.Second

	// DefaultUserAgent is sent when no user agent is configured.
	DefaultUserAgent = "forkline"

	// RequestIDHeader carries a per-request UUID for correlating backend logs.
	RequestIDHeader = "X-Request-ID"

	// maxErrorBody caps how much of a failed response is kept for diagnostics.
	maxErrorBody = 64 * 1024
)

// TokenSource yields the current bearer token. It is consulted on every
// request so a token rotated between calls is honored without rebuilding the
// Client. An empty token means "send no Authorization header".
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// Client talks to the ordering backend.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	streamClient *http.Client
	tokens       TokenSource
	userAgent    string
	logger       *slog.Logger
}

// Option configures a Client created with NewClient.
type Option func(*Client)

// WithHTTPClient sets the client used for request/response calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithStreamHTTPClient sets the client used for streaming calls. It should not
// carry an overall Timeout; streams are bounded by context cancellation.
func WithStreamHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.streamClient = hc
		}
	}
}

// WithTimeout sets the timeout of the default request/response HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithTokenSource sets where bearer tokens come from.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger sets the client's logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a Client for the API rooted at baseURL, for example
// "http://localhost:8000/api".
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing api target %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api target %q must be an http or https URL", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("api target %q has no host", baseURL)
	}

	c := &Client{
		baseURL:      strings.TrimRight(u.String(), "/"),
		httpClient:   &http.Client{Timeout: DefaultTimeout},
		streamClient: &http.Client{},
		userAgent:    DefaultUserAgent,
		logger:       logger.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// BaseURL returns the normalized API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get issues a GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues a POST with in as the JSON body and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, in, out)
}

// Put issues a PUT with in as the JSON body and decodes the response into out.
func (c *Client) Put(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, in, out)
}

// Delete issues a DELETE and decodes the response into out.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, out)
}

// newRequest builds an authenticated request. The token is read from the
// TokenSource now, not when the Client was built.
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, in any) (*http.Request, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("marshaling %s %s request: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("creating %s %s request: %w", method, path, err)
	}

	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, uuid.NewString())

	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return req, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	req, err := c.newRequest(ctx, method, path, query, in)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Method: method, URL: req.URL.String(), Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", req.Header.Get(RequestIDHeader),
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return newProtocolError(resp, body)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Method: method, URL: req.URL.String(), Err: err}
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}

	return nil
}

// isCancellation reports whether err stems from the caller's context.
func isCancellation(ctx context.Context, err error) bool {
	return ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded))
}
