package reference

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
)

// ErrUnexpectedStatus is wrapped by fetch errors for non-2xx responses.
var ErrUnexpectedStatus = errors.New("reference: unexpected status")

// Lister is the reference data surface the session depends on.
type Lister interface {
	Countries(ctx context.Context, lang string) ([]Entity, error)
	Cities(ctx context.Context, country, lang string) ([]Entity, error)
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithPaths overrides the list endpoints relative to the base URL.
func WithPaths(countries, cities string) Option {
	return func(cl *Client) {
		if countries != "" {
			cl.countriesPath = countries
		}
		if cities != "" {
			cl.citiesPath = cities
		}
	}
}

// WithLogger sets the logger used for fetch failures.
func WithLogger(logger *slog.Logger) Option {
	return func(cl *Client) {
		if logger != nil {
			cl.logger = logger
		}
	}
}

// Client fetches reference lists over HTTP.
type Client struct {
	base          string
	http          *http.Client
	countriesPath string
	citiesPath    string
	logger        *slog.Logger
}

var _ Lister = (*Client)(nil)

// NewClient builds a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		base:          strings.TrimRight(baseURL, "/"),
		http:          &http.Client{Timeout: 10 * time.Second},
		countriesPath: "/api/countries",
		citiesPath:    "/api/cities",
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Countries fetches the country list for lang. On failure it returns an empty
// list together with the error so callers can render an empty control.
func (c *Client) Countries(ctx context.Context, lang string) ([]Entity, error) {
	return c.fetch(ctx, c.countriesPath, url.Values{"lang": {langOrDefault(lang)}})
}

// Cities fetches the cities of country, identified by its code.
func (c *Client) Cities(ctx context.Context, country, lang string) ([]Entity, error) {
	if strings.TrimSpace(country) == "" {
		return []Entity{}, fmt.Errorf("reference: country is required")
	}
	return c.fetch(ctx, c.citiesPath, url.Values{"country": {country}, "lang": {langOrDefault(lang)}})
}

func (c *Client) fetch(ctx context.Context, path string, query url.Values) ([]Entity, error) {
	endpoint := c.base + path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return []Entity{}, fmt.Errorf("reference: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("reference fetch failed", "path", path, "error", err)
		return []Entity{}, fmt.Errorf("reference: fetch %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("reference fetch failed", "path", path, "status", resp.StatusCode)
		return []Entity{}, fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, path, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return []Entity{}, fmt.Errorf("reference: read %s: %w", path, err)
	}
	list, err := decodeList(body)
	if err != nil {
		return []Entity{}, fmt.Errorf("reference: decode %s: %w", path, err)
	}
	return list, nil
}

// decodeList accepts a bare array or an object with a data array.
func decodeList(body []byte) ([]Entity, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return []Entity{}, nil
	}
	if trimmed[0] == '[' {
		var list []Entity
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, err
		}
		return list, nil
	}
	var wrapped struct {
		Data []Entity `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, err
	}
	if wrapped.Data == nil {
		return []Entity{}, nil
	}
	return wrapped.Data, nil
}

func langOrDefault(lang string) string {
	if strings.TrimSpace(lang) == "" {
		return "en"
	}
	return lang
}
