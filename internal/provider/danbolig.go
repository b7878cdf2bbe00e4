package provider

import (
	"context"
	"log/slog"
	"strings"

	"github.com/joakiti/boliganalyse-ai-server/internal/urlutil"
)

// Markers around danbolig's cookie consent banner and contact footer in
// Firecrawl's markdown rendition. Content between them is the listing.
const (
	danboligStartMarker = "Kun nødvendige formålOK til valgteTilpas"
	danboligEndMarker   = "## Kontakt os"
)

// DanboligProvider handles danbolig.dk by scraping through Firecrawl
// and trimming danbolig-specific boilerplate from the markdown.
type DanboligProvider struct {
	logger    *slog.Logger
	firecrawl *FirecrawlProvider
}

// NewDanboligProvider creates the danbolig.dk provider on top of the
// shared Firecrawl provider.
func NewDanboligProvider(logger *slog.Logger, firecrawl *FirecrawlProvider) *DanboligProvider {
	return &DanboligProvider{logger: logger, firecrawl: firecrawl}
}

func (p *DanboligProvider) Name() string {
	return "Danbolig"
}

func (p *DanboligProvider) CanHandle(url, htmlContent string) bool {
	// Without Firecrawl there is no scrape to clean up
	if !p.firecrawl.CanHandle(url, htmlContent) {
		return false
	}
	return urlutil.ExtractDomain(url) == "danbolig.dk"
}

func (p *DanboligProvider) Parse(ctx context.Context, url, htmlContent string) (*ParseResult, error) {
	result, err := p.firecrawl.Parse(ctx, url, htmlContent)
	if err != nil {
		return nil, err
	}

	if result.ExtractedText != "" {
		result.ExtractedText = p.cleanMarkdown(result.ExtractedText)
	} else {
		p.logger.Warn("no extracted text from firecrawl to clean", "url", url)
	}
	return result, nil
}

// cleanMarkdown slices the markdown between the last occurrence of the
// consent banner and the contact footer. When the markers appear in an
// unexpected order, the original text comes back untouched rather than
// an empty string.
func (p *DanboligProvider) cleanMarkdown(markdown string) string {
	start := 0
	if idx := strings.LastIndex(markdown, danboligStartMarker); idx != -1 {
		start = idx + len(danboligStartMarker)
	}

	end := len(markdown)
	if idx := strings.LastIndex(markdown, danboligEndMarker); idx != -1 {
		end = idx
	}

	if start >= end {
		p.logger.Warn("danbolig cleanup markers out of order, keeping original markdown")
		return markdown
	}

	return strings.TrimSpace(markdown[start:end])
}
