package provider

import (
	"context"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/joakiti/boliganalyse-ai-server/internal/htmlutil"
	"github.com/joakiti/boliganalyse-ai-server/internal/urlutil"
)

// Selectors for home.dk's gallery markup, tried before the generic
// image heuristics.
const homeImageSelectors = ".property-details-main__header img, .image-gallery-preview img"

// HomeProvider handles home.dk listing pages.
type HomeProvider struct {
	logger *slog.Logger
}

// NewHomeProvider creates the home.dk provider.
func NewHomeProvider(logger *slog.Logger) *HomeProvider {
	return &HomeProvider{logger: logger}
}

func (p *HomeProvider) Name() string {
	return "Home.dk"
}

func (p *HomeProvider) CanHandle(url, _ string) bool {
	return urlutil.ExtractDomain(url) == "home.dk"
}

func (p *HomeProvider) Parse(_ context.Context, url, htmlContent string) (*ParseResult, error) {
	return &ParseResult{
		// Direct realtor link, so the page itself is the source
		OriginalLink:  url,
		ExtractedText: htmlutil.ExtractText(htmlContent),
		ImageURL:      p.extractImageURL(url, htmlContent),
	}, nil
}

// extractImageURL prefers og:image, then home.dk's own gallery
// selectors, then the generic heuristics.
func (p *HomeProvider) extractImageURL(url, htmlContent string) string {
	if htmlContent == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return ""
	}

	if content, ok := doc.Find(`meta[property="og:image"]`).First().Attr("content"); ok && content != "" {
		return content
	}

	var found string
	doc.Find(homeImageSelectors).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src, _ := s.Attr("src")
		if strings.HasPrefix(src, "http") {
			found = src
			return false
		}
		return true
	})
	if found != "" {
		return found
	}

	return htmlutil.ExtractFirstImageURL(htmlContent, url)
}
