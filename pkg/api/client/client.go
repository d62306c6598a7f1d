// Package client provides typed access to the fairdesk REST API for the
// CLI and the web shell.
//
// Transport-level failures (connection refused, DNS, timeout) are retried
// with exponential backoff; any completed HTTP response is terminal, so a
// non-2xx status is surfaced to the caller as an APIError and never
// replayed. Replaying a completed write could duplicate server-side state.
package client

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
)

// Client issues authenticated requests against the fairdesk API.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	retry          RetryPolicy
	onUnauthorized func()
	logger         *slog.Logger
}

// Option customises client instantiation.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithRetryPolicy overrides the transport retry policy.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) {
		c.retry = p.normalized()
	}
}

// WithUnauthorizedHook registers a callback invoked whenever the API
// answers 401, before the error reaches the caller. The session store
// hangs its clearing logic here so a stale token is never retried on the
// next call.
func WithUnauthorizedHook(hook func()) Option {
	return func(c *Client) {
		c.onUnauthorized = hook
	}
}

// WithLogger attaches a logger for retry diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.logger = log
		}
	}
}

// New constructs a Client pointing at the provided API base URL.
func New(base string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		trimmed = "http://localhost:3001"
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		trimmed = "http://" + trimmed
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	cli := &Client{
		baseURL:    strings.TrimRight(trimmed, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		retry:      DefaultRetryPolicy(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(cli)
	}
	return cli, nil
}

// APIError represents a completed error response from the API.
type APIError struct {
	Status  int
	Message string
}

func (e APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api request failed with status %d", e.Status)
	}
	return fmt.Sprintf("api request failed (%d): %s", e.Status, e.Message)
}

// IsUnauthorized reports whether err is an APIError with status 401.
func IsUnauthorized(err error) bool {
	var apiErr APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// do runs a JSON exchange against the API and decodes the response into v.
func (c *Client) do(ctx context.Context, method, path string, body any, token string, v any) error {
	return c.exchange(ctx, method, path, body, token, v, true)
}

// exchange is do with control over the unauthorized hook. The login
// endpoint disables it: a rejected credential is not a lapsed session,
// and clearing there would wipe a previously established one.
func (c *Client) exchange(ctx context.Context, method, path string, body any, token string, v any, fireHook bool) error {
	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		payload = encoded
	}
	build := func() (*http.Request, error) {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return nil, err
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		return req, nil
	}
	resp, err := c.roundTrip(ctx, method, path, token, build)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp, fireHook); err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	return decodeJSON(resp.Body, v)
}

func decodeJSON(r io.Reader, v any) error {
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// roundTrip executes the request with transport-level retry. A fresh
// request is built per attempt so the body can be re-read; all attempts
// of one logical call share a single request id.
func (c *Client) roundTrip(ctx context.Context, method, path, token string, build func() (*http.Request, error)) (*http.Response, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	requestID := uuid.NewString()
	var lastErr error
	for attempt := 0; attempt < c.retry.MaxAttempts; attempt++ {
		req, err := build()
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("X-Request-Id", requestID)
		if t := strings.TrimSpace(token); t != "" {
			req.Header.Set("Authorization", "Bearer "+t)
		}

		resp, err := c.httpClient.Do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = fmt.Errorf("perform request: %w", err)
		if ctx.Err() != nil {
			return nil, lastErr
		}
		if attempt+1 >= c.retry.MaxAttempts {
			break
		}
		delay := c.retry.Backoff(attempt)
		c.logger.Warn("request failed, retrying",
			"method", method, "path", path,
			"attempt", attempt+1, "delay", delay, "request_id", requestID,
			"error", err)
		if err := sleep(ctx, delay); err != nil {
			return nil, lastErr
		}
	}
	return nil, lastErr
}

// checkStatus converts non-2xx responses into APIError and, when
// fireHook is set, fires the unauthorized hook on 401. The body is
// consumed for error statuses.
func (c *Client) checkStatus(resp *http.Response, fireHook bool) error {
	if resp.StatusCode < http.StatusBadRequest {
		return nil
	}
	msg := extractMessage(resp.Body)
	if resp.StatusCode == http.StatusUnauthorized && fireHook && c.onUnauthorized != nil {
		c.onUnauthorized()
	}
	return APIError{Status: resp.StatusCode, Message: msg}
}

// extractMessage pulls a human-readable message from an error body. The
// API answers {"message": ...}; a few older endpoints still use
// {"error": ...}, and anything else falls back to the raw text.
func extractMessage(body io.Reader) string {
	if body == nil {
		return ""
	}
	data, err := io.ReadAll(body)
	if err != nil || len(data) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return strings.TrimSpace(string(data))
	}
	if payload.Message != "" {
		return strings.TrimSpace(payload.Message)
	}
	if payload.Error != "" {
		return strings.TrimSpace(payload.Error)
	}
	return strings.TrimSpace(string(data))
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
