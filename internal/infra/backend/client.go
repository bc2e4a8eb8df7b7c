// Package backend is the single outbound chokepoint to the remote REST
// backend: it attaches the bearer token, serializes JSON, retries
// timed-out requests a bounded number of times and normalizes every
// failure into the apierror taxonomy.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"medash/config"
	"medash/internal/domain/apierror"
	"medash/internal/errors"
)

// TokenSource supplies the current bearer token. An empty string means
// the request goes out unauthenticated.
type TokenSource interface {
	Token() string
}

// Client wraps a single *http.Client against the backend base URL.
// All resource API modules forward through it and never talk to the
// network directly.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	tokens       TokenSource
	logger       *slog.Logger
	maxRetries   int
	retryBackoff time.Duration

	mu            sync.RWMutex
	expiryWatcher []func()
}

// NewClient is the constructor for Client.
func NewClient(cfg *config.Config, tokens TokenSource, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.Backend.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Backend.Timeout,
		},
		tokens:       tokens,
		logger:       logger,
		maxRetries:   cfg.Backend.MaxRetries,
		retryBackoff: cfg.Backend.RetryBackoff,
	}
}

// OnAuthExpired registers a callback invoked whenever any backend call
// comes back 401. The session layer subscribes here; the transport layer
// itself never touches navigation or storage.
func (c *Client) OnAuthExpired(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expiryWatcher = append(c.expiryWatcher, fn)
}

func (c *Client) notifyAuthExpired() {
	c.mu.RLock()
	watchers := make([]func(), len(c.expiryWatcher))
	copy(watchers, c.expiryWatcher)
	c.mu.RUnlock()

	for _, fn := range watchers {
		fn()
	}
}

// Get issues a GET request and decodes the response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST request with a JSON body and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT request with a JSON body and decodes the response into out.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// Patch issues a PATCH request with a JSON body and decodes the response into out.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

// Delete issues a DELETE request and decodes the response into out.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}

// do runs one logical call: up to maxRetries+1 attempts, where only
// timed-out attempts are retried. 4xx/5xx responses are definite
// outcomes and never retried.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "marshal request body")
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		resp, err := c.attempt(ctx, method, path, payload)
		if err != nil {
			if isTimeout(err) && ctx.Err() == nil && attempt < c.maxRetries {
				lastErr = err
				time.Sleep(c.retryBackoff)

				continue
			}

			return &apierror.NetworkUnreachableError{Err: err}
		}

		return c.decode(resp, method, path, out)
	}

	return &apierror.NetworkUnreachableError{Err: lastErr}
}

func (c *Client) attempt(ctx context.Context, method, path string, payload []byte) (*http.Response, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.httpClient.Do(req)
}

func (c *Client) decode(resp *http.Response, method, path string, out any) error {
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &apierror.NetworkUnreachableError{Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		c.logger.Warn("backend rejected token",
			slog.String("method", method),
			slog.String("path", path),
		)
		c.notifyAuthExpired()

		return &apierror.AuthExpiredError{}

	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return &apierror.ClientError{
			Status: resp.StatusCode,
			Msg:    apierror.MessageFromBody(raw, resp.StatusCode),
		}

	case resp.StatusCode >= 500:
		c.logger.Error("backend call failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
		)

		return &apierror.ServerError{Status: resp.StatusCode}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		// Some endpoints answer with bare text instead of JSON.
		if s, ok := out.(*string); ok {
			*s = string(raw)

			return nil
		}

		return errors.Wrapf(err, "decode %s %s response", method, path)
	}

	return nil
}

func isTimeout(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return true
	}

	return errors.Is(err, context.DeadlineExceeded)
}

// queryString renders non-empty values into an encoded query suffix,
// starting with "?", or returns an empty string.
func queryString(values url.Values) string {
	for key, vals := range values {
		clean := vals[:0]
		for _, v := range vals {
			if v != "" {
				clean = append(clean, v)
			}
		}
		if len(clean) == 0 {
			values.Del(key)
		} else {
			values[key] = clean
		}
	}

	if len(values) == 0 {
		return ""
	}

	return "?" + values.Encode()
}
