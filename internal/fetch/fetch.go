// Package fetch retrieves listing pages over HTTP.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Listing portals serve different markup to unknown clients, so requests
// go out with a desktop browser User-Agent.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// maxBodySize caps HTML downloads at 10 MB.
const maxBodySize = 10 << 20

// StatusError is a non-2xx HTTP response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetching %s: unexpected status %d", e.URL, e.StatusCode)
}

// Client fetches HTML documents from listing portals.
type Client struct {
	logger *slog.Logger
	client *http.Client
}

// NewClient creates a fetch client with the given per-request timeout.
func NewClient(logger *slog.Logger, timeout time.Duration) *Client {
	return &Client{
		logger: logger,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchHTML downloads the document at url and returns its body.
// Non-2xx responses return a *StatusError.
func (c *Client) FetchHTML(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("reading body from %s: %w", url, err)
	}

	c.logger.Debug("fetched page",
		"url", url,
		"status", resp.StatusCode,
		"bytes", len(body),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return string(body), nil
}

// ResolveFinalURL issues a HEAD request and returns the URL the server
// redirected to. Used to turn aggregator links into the realtor's own
// listing page. A non-2xx final response returns a *StatusError: a 404
// landing page is not a resolved listing.
func (c *Client) ResolveFinalURL(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return "", fmt.Errorf("building request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	final := resp.Request.URL.String()
	c.logger.Debug("resolved redirect", "url", url, "final_url", final)
	return final, nil
}
