// Package cover resolves cover art URLs for game titles through the
// cover lookup endpoint.
package cover

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Resolver maps a title to a cover image URL.
// Implementations never fail: "" means no cover was found.
type Resolver interface {
	Resolve(ctx context.Context, title string) string
}

// ResolverFunc adapts a plain function to Resolver.
type ResolverFunc func(ctx context.Context, title string) string

func (f ResolverFunc) Resolve(ctx context.Context, title string) string { return f(ctx, title) }

// Response is the payload of GET /api/igdb/cover-url.
type Response struct {
	Title   string  `json:"title"`
	ImageID *string `json:"imageId"`
	URL     *string `json:"url"`
}

// Client calls the cover lookup endpoint over HTTP.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client for the endpoint served at baseURL,
// e.g. "http://localhost:3000".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Resolve returns the cover URL for title, or "" on any failure.
func (c *Client) Resolve(ctx context.Context, title string) string {
	u, err := c.lookup(ctx, title)
	if err != nil {
		slog.Warn("cover lookup failed", "title", title, "err", err)
		return ""
	}
	return u
}

func (c *Client) lookup(ctx context.Context, title string) (string, error) {
	endpoint := c.baseURL + "/api/igdb/cover-url?title=" + url.QueryEscape(title)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("cover request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("cover error %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var result Response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode cover response: %w", err)
	}
	if result.URL == nil {
		return "", nil
	}
	return *result.URL, nil
}
