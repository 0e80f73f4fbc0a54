// Package api is the outbound HTTP client for the remote platform API. It
// attaches the bearer token, enforces a fixed timeout, and centralizes error
// interpretation: a 401 from any endpoint becomes ErrSessionInvalidated so
// the session store can clear state, and transport failures map to the
// transient error sentinels. No call is retried automatically.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eventra/gateway/core"
)

// DefaultTimeout bounds every upstream call; on expiry the caller gets
// core.ErrUpstreamTimeout.
const DefaultTimeout = 10 * time.Second

// Client talks to the platform API.
type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

var _ core.PlatformAPI = (*Client)(nil)

// NewClient creates a platform API client. A zero timeout falls back to
// DefaultTimeout; a nil logger falls back to slog's default.
func NewClient(baseURL string, timeout time.Duration, log *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// do performs one JSON round-trip. token may be empty for public endpoints;
// out may be nil when the response body is irrelevant.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	resp, err := c.send(ctx, method, path, token, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := interpretStatus(resp); err != nil {
		return err
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", core.ErrMalformedResponse, err)
	}
	return nil
}

// send performs the round-trip without consuming the body. Used directly by
// export streaming.
func (c *Client) send(ctx context.Context, method, path, token string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		mapped := mapTransportError(err)
		c.log.Warn("platform api call failed",
			"method", method, "path", path, "err", mapped, "elapsed", time.Since(start))
		return nil, mapped
	}

	c.log.Debug("platform api call",
		"method", method, "path", path, "status", resp.StatusCode, "elapsed", time.Since(start))
	return resp, nil
}

func mapTransportError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return core.ErrUpstreamTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return core.ErrUpstreamTimeout
	}
	return fmt.Errorf("%w: %v", core.ErrUpstreamUnavailable, err)
}

// interpretStatus turns non-2xx responses into the gateway error taxonomy.
// The body is consumed only on failure.
func interpretStatus(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	defer func() { _, _ = io.Copy(io.Discard, resp.Body) }()

	if resp.StatusCode == http.StatusUnauthorized {
		return core.ErrSessionInvalidated
	}

	return &core.APIError{
		Status:  resp.StatusCode,
		Message: upstreamMessage(resp.Body, resp.StatusCode),
	}
}

// upstreamMessage extracts the platform's own error message so forms can show
// it verbatim.
func upstreamMessage(body io.Reader, status int) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(body, 4096)).Decode(&payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return http.StatusText(status)
}
