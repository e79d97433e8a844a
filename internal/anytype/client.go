// Package anytype is a client for the Anytype desktop app's local HTTP API.
//
// Every request carries a bearer token, taken from the configured API key
// when set and otherwise from the paired key in the KV store. Failures are
// classified into the sentinels in errors.go; nothing is retried.
package anytype

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
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/nextlevelbuilder/anyctl/internal/config"
	"github.com/nextlevelbuilder/anyctl/internal/kv"
	"github.com/nextlevelbuilder/anyctl/internal/notify"
)

const (
	// APIVersion is the API version this client was written against.
	APIVersion = "2025-05-20"

	// VersionHeader carries the server's API version on every response.
	VersionHeader = "Anytype-Version"
	// LegacyVersionHeader is sent by older app builds.
	LegacyVersionHeader = "X-API-Version"

	// bestEffortTimeout bounds icon and export fetches, which fail soft.
	bestEffortTimeout = 500 * time.Millisecond
)

// Client issues requests against the local API.
type Client struct {
	baseURL   string
	staticKey string
	store     kv.Store
	http      *http.Client
	limiter   *rate.Limiter
	notifier  notify.Notifier
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithNotifier sets where rate-limit notices go.
func WithNotifier(n notify.Notifier) Option {
	return func(c *Client) { c.notifier = n }
}

// NewClient builds a client from the API config. store supplies the paired
// key when cfg.Key is empty.
func NewClient(cfg config.APIConfig, store kv.Store, opts ...Option) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}
	c := &Client{
		baseURL:   baseURL,
		staticKey: cfg.Key,
		store:     store,
		http:      &http.Client{},
		notifier:  notify.Discard{},
	}
	if cfg.RequestsPerMinute > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// Token returns the bearer token used for requests. The configured key
// wins over the stored one.
func (c *Client) Token(ctx context.Context) (string, error) {
	if c.staticKey != "" {
		return c.staticKey, nil
	}
	if c.store == nil {
		return "", nil
	}
	tok, _, err := c.store.Get(ctx, kv.KeyAPIKey)
	if err != nil {
		return "", fmt.Errorf("read api key: %w", err)
	}
	return tok, nil
}

// Do sends a JSON request and decodes the response into out (if non-nil).
// path is relative to the base URL and may carry a query string.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) (http.Header, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	token, err := c.Token(ctx)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(VersionHeader, APIVersion)

	reqID := uuid.NewString()[:8]
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if isConnectionError(err) {
			slog.Debug("anytype unreachable", "req", reqID, "method", method, "path", path, "error", err)
			return nil, ErrConnection
		}
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.Header, fmt.Errorf("read response: %w", err)
	}
	slog.Debug("anytype request", "req", reqID, "method", method, "path", path,
		"status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(resp.StatusCode, http.StatusText(resp.StatusCode), data)
		if resp.StatusCode == http.StatusTooManyRequests {
			slog.Warn("anytype rate limit reached", "req", reqID, "path", path)
			c.notifier.Notify(notify.Notice{
				Style:   notify.Info,
				Title:   "Rate limit reached",
				Message: "Anytype is throttling requests, try again shortly",
			})
		}
		return resp.Header, apiErr
	}

	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.Header, &ParseError{Err: err}
		}
	}
	return resp.Header, nil
}

// ServerVersion extracts the API version from response headers.
func ServerVersion(h http.Header) string {
	if h == nil {
		return ""
	}
	if v := h.Get(VersionHeader); v != "" {
		return v
	}
	return h.Get(LegacyVersionHeader)
}

func (c *Client) get(ctx context.Context, path string, out any) (http.Header, error) {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// pageQuery appends offset/limit to path.
func pageQuery(path string, p Page) string {
	q := url.Values{}
	q.Set("offset", fmt.Sprint(p.Offset))
	limit := p.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	q.Set("limit", fmt.Sprint(limit))
	return path + "?" + q.Encode()
}

func esc(s string) string { return url.PathEscape(s) }

// isTimeout reports deadline and timeout errors from best-effort fetches.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne interface{ Timeout() bool }
	return errors.As(err, &ne) && ne.Timeout()
}
