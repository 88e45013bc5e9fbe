// ABOUTME: HTTP client for the forum REST API
// ABOUTME: Wraps API calls with auth, rate limiting and user-friendly errors

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const apiPrefix = "/api/v1"

// TokenSource supplies the current bearer token, or "" when logged out.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed TokenSource.
type StaticToken string

func (s StaticToken) Token() string { return string(s) }

// Client is the API client for the forum backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	limiter    *rate.Limiter
	logger     *slog.Logger
	inflight   singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithTokenSource sets where authenticated calls get their token.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithRateLimit caps outgoing requests. rps <= 0 disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a new API client with the given base URL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		tokens: StaticToken(""),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	hc := *c.httpClient
	next := hc.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	hc.Transport = &loggingTransport{next: next, logger: c.logger}
	c.httpClient = &hc
	return c
}

// BaseURL returns the backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// get performs a GET and decodes the JSON response into out. Identical
// concurrent GETs share one round trip.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	target := apiPrefix + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	ch := c.inflight.DoChan(target, func() (any, error) {
		return c.roundTrip(ctx, http.MethodGet, target, nil, false)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return c.handleRequestError(ctx, ctx.Err())
	case res = <-ch:
	}
	if res.Err != nil {
		return res.Err
	}
	return decode(res.Val.([]byte), out)
}

// send performs a write request with an optional JSON body.
func (c *Client) send(ctx context.Context, method, path string, in, out any, authenticated bool) error {
	var body []byte
	if in != nil {
		var err error
		body, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal input: %w", err)
		}
	}

	data, err := c.roundTrip(ctx, method, apiPrefix+path, body, authenticated)
	if err != nil {
		return err
	}
	return decode(data, out)
}

func (c *Client) roundTrip(ctx context.Context, method, target string, body []byte, authenticated bool) ([]byte, error) {
	var token string
	if authenticated {
		token = c.tokens.Token()
		if token == "" {
			return nil, ErrNotLoggedIn
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil, c.handleRequestError(ctx, err)
			}
			return nil, fmt.Errorf("request timed out: %w", err)
		}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, handleErrorResponse(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return data, nil
}

func decode(data []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}
