package provider

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/joakiti/boliganalyse-ai-server/internal/firecrawl"
)

// Scraper fetches a page through a scraping service.
type Scraper interface {
	Enabled() bool
	Scrape(ctx context.Context, url string) (*firecrawl.ScrapeData, error)
}

var markdownImagePattern = regexp.MustCompile(`!\[.*?\]\((https?://[^\)]+)\)`)

// FirecrawlProvider scrapes pages through Firecrawl. It is the general
// fallback for portals without a dedicated provider, and only matches
// when an API key is configured.
type FirecrawlProvider struct {
	logger  *slog.Logger
	scraper Scraper
}

// NewFirecrawlProvider creates the Firecrawl provider.
func NewFirecrawlProvider(logger *slog.Logger, scraper Scraper) *FirecrawlProvider {
	return &FirecrawlProvider{logger: logger, scraper: scraper}
}

func (p *FirecrawlProvider) Name() string {
	return "Firecrawl"
}

func (p *FirecrawlProvider) CanHandle(_, _ string) bool {
	return p.scraper != nil && p.scraper.Enabled()
}

// Parse scrapes the page fresh through Firecrawl; the fetched HTML is
// ignored since Firecrawl renders the page itself. A scrape failure
// still produces a result so the analysis can report what went wrong.
func (p *FirecrawlProvider) Parse(ctx context.Context, url, _ string) (*ParseResult, error) {
	data, err := p.scraper.Scrape(ctx, url)
	if err != nil {
		p.logger.Error("firecrawl scrape failed", "url", url, "error", err)
		return &ParseResult{
			ExtractedText: fmt.Sprintf("Failed to scrape content from %s using Firecrawl: %v", url, err),
		}, nil
	}

	return &ParseResult{
		ExtractedText: data.Markdown,
		ImageURL:      imageFromScrape(data),
	}, nil
}

// imageFromScrape picks a property image from scrape metadata, falling
// back to the first image reference in the markdown.
func imageFromScrape(data *firecrawl.ScrapeData) string {
	meta := data.Metadata
	switch {
	case meta.OGImage != "":
		return meta.OGImage
	case meta.OGImageAlt != "":
		return meta.OGImageAlt
	case meta.Twitter != nil && meta.Twitter["image"] != "":
		return meta.Twitter["image"]
	case meta.TwitterImage != "":
		return meta.TwitterImage
	}

	if match := markdownImagePattern.FindStringSubmatch(data.Markdown); match != nil {
		return match[1]
	}
	return ""
}
