// Package api is the gateway to the review backend. Every HTTP exchange in
// the program flows through Client, which is the single point where transport
// and status failures are translated into the error taxonomy the rest of the
// code consumes. No other package inspects HTTP status codes.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultTimeout = 30 * time.Second

// Client issues requests against the backend REST API.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// Option customizes client construction.
type Option func(*Client)

// WithHTTPClient overrides the underlying transport (primarily for tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger attaches a logger for request diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithTimeout sets the per-request transport timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// New builds a client for the backend at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("api: base URL is required")
	}
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// BaseURL reports the configured backend root.
func (c *Client) BaseURL() string { return c.baseURL }

// do performs one request and decodes the response into out. A JSON content
// type is decoded as JSON; anything else is treated as plain text and only
// assignable when out is a *string. Non-2xx responses become an *APIError,
// unreachable backends a *TransportError.
func (c *Client) do(ctx context.Context, method, path string, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("api: build request %s %s: %w", method, path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err))
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Err: err}
	}
	c.log.Debug("request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)))

	isJSON := strings.Contains(resp.Header.Get("Content-Type"), "application/json")
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    failureMessage(payload, isJSON, resp.Status),
		}
	}
	if out == nil {
		return nil
	}
	if isJSON {
		if err := json.Unmarshal(payload, out); err != nil {
			return fmt.Errorf("api: decode %s %s response: %w", method, path, err)
		}
		return nil
	}
	if text, ok := out.(*string); ok {
		*text = string(payload)
		return nil
	}
	return fmt.Errorf("api: %s %s returned %q, expected JSON", method, path, resp.Header.Get("Content-Type"))
}

// failureMessage derives a human-readable message from an error response
// body. Structured bodies surface their detail field; everything else falls
// back to the raw body, then the status line.
func failureMessage(payload []byte, isJSON bool, statusLine string) string {
	if isJSON {
		var parsed struct {
			Detail string `json:"detail"`
		}
		if err := json.Unmarshal(payload, &parsed); err == nil && strings.TrimSpace(parsed.Detail) != "" {
			return parsed.Detail
		}
	}
	if msg := strings.TrimSpace(string(payload)); msg != "" {
		return msg
	}
	return statusLine
}

// getJSON is sugar for GET endpoints.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, "", nil, out)
}

// sendJSON marshals body and issues a request with a JSON content type.
func (c *Client) sendJSON(ctx context.Context, method, path string, body any, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("api: encode %s %s body: %w", method, path, err)
	}
	return c.do(ctx, method, path, "application/json", bytes.NewReader(encoded), out)
}
