// ABOUTME: HTTP client for the FlyAir REST API
// ABOUTME: Decodes {success,data,message} envelopes and maps failures to the error taxonomy

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds every request unless overridden with WithTimeout.
const DefaultTimeout = 30 * time.Second

// Envelope is the response wrapper every FlyAir endpoint uses.
type Envelope[T any] struct {
	Success *bool  `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

// Client is the API client for the FlyAir backend
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type options struct {
	timeout     time.Duration
	credentials CredentialSource
	dial        DialContextFunc
	transport   http.RoundTripper
	middlewares []Middleware
}

// Option configures a Client.
type Option func(*options)

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithCredentials attaches bearer tokens from src and reports 401s back to it.
func WithCredentials(src CredentialSource) Option {
	return func(o *options) { o.credentials = src }
}

// WithDialContext routes connections through dial, e.g. an SSH tunnel.
func WithDialContext(dial DialContextFunc) Option {
	return func(o *options) { o.dial = dial }
}

// WithTransport replaces the base transport. Used by tests.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// WithMiddleware appends middleware inside the built-in chain.
func WithMiddleware(m ...Middleware) Option {
	return func(o *options) { o.middlewares = append(o.middlewares, m...) }
}

// New creates a new API client with the given base URL
func New(baseURL string, opts ...Option) *Client {
	o := options{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	base := o.transport
	if base == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if o.dial != nil {
			transport.DialContext = o.dial
		}
		base = transport
	}

	chain := append([]Middleware{RequestID(), Authorization(o.credentials)}, o.middlewares...)

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   o.timeout,
			Transport: Chain(base, chain...),
		},
	}
}

// call performs one request and decodes the envelope's data into a T.
func call[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var zero T

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return zero, fmt.Errorf("failed to marshal input: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return zero, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return zero, c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return zero, c.handleErrorResponse(ctx, req, resp)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, fmt.Errorf("invalid response from backend: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return zero, nil
	}

	var env Envelope[T]
	if err := json.Unmarshal(raw, &env); err != nil {
		return zero, fmt.Errorf("invalid response from backend: %w", err)
	}
	if env.Success != nil && !*env.Success {
		return zero, &DomainError{Message: env.Message}
	}
	return env.Data, nil
}

// handleRequestError converts context errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("request canceled: %w", context.Canceled)
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", context.DeadlineExceeded)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("request timed out: %w", err)
	}
	return fmt.Errorf("cannot connect to backend at %s: %w", c.baseURL, err)
}

// handleErrorResponse parses API error responses
func (c *Client) handleErrorResponse(ctx context.Context, req *http.Request, resp *http.Response) error {
	var env Envelope[json.RawMessage]
	message := ""
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&env); err == nil {
		message = env.Message
	}

	if resp.StatusCode == http.StatusUnauthorized && authRecoveryDisabled(ctx) {
		if message != "" {
			return fmt.Errorf("%w: %s", ErrInvalidCredentials, message)
		}
		return ErrInvalidCredentials
	}
	return &APIError{Status: resp.StatusCode, Message: message, Path: req.URL.Path}
}
