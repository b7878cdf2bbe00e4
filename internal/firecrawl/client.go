// Package firecrawl is a minimal client for the Firecrawl scrape API.
package firecrawl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// ScrapeMetadata carries the page metadata Firecrawl returns alongside
// the scraped content. The twitter card shows up either as a nested
// object or as flat "twitter:image" keys depending on the page.
type ScrapeMetadata struct {
	Title        string            `json:"title,omitempty"`
	OGImage      string            `json:"ogImage,omitempty"`
	OGImageAlt   string            `json:"og:image,omitempty"`
	Twitter      map[string]string `json:"twitter,omitempty"`
	TwitterImage string            `json:"twitter:image,omitempty"`
}

// ScrapeData is the payload of a successful scrape.
type ScrapeData struct {
	Markdown string         `json:"markdown"`
	Metadata ScrapeMetadata `json:"metadata"`
}

type scrapeResponse struct {
	Success bool       `json:"success"`
	Data    ScrapeData `json:"data"`
	Error   string     `json:"error,omitempty"`
}

type scrapeRequest struct {
	URL     string   `json:"url"`
	Formats []string `json:"formats"`
}

// Client calls the Firecrawl v1 API.
type Client struct {
	logger  *slog.Logger
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewClient creates a Firecrawl client. An empty apiKey disables the
// client; callers should check Enabled before use.
func NewClient(logger *slog.Logger, baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		logger:  logger,
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// Scrape fetches a page through Firecrawl and returns its markdown
// rendition plus metadata.
func (c *Client) Scrape(ctx context.Context, url string) (*ScrapeData, error) {
	payload, err := json.Marshal(scrapeRequest{URL: url, Formats: []string{"markdown"}})
	if err != nil {
		return nil, fmt.Errorf("encoding scrape request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/scrape", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building scrape request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling firecrawl: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading firecrawl response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("firecrawl returned status %d: %s", resp.StatusCode, body)
	}

	var result scrapeResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decoding firecrawl response: %w", err)
	}
	if !result.Success {
		return nil, fmt.Errorf("firecrawl scrape failed: %s", result.Error)
	}

	c.logger.Debug("firecrawl scrape completed", "url", url, "markdown_len", len(result.Data.Markdown))
	return &result.Data, nil
}
