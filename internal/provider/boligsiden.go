package provider

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/joakiti/boliganalyse-ai-server/internal/htmlutil"
	"github.com/joakiti/boliganalyse-ai-server/internal/urlutil"
)

// RedirectResolver follows redirects to a final URL, typically a HEAD
// request.
type RedirectResolver interface {
	ResolveFinalURL(ctx context.Context, url string) (string, error)
}

// Boilerplate phrases boligsiden injects into every listing page. They
// add noise without property information, so they are stripped before
// analysis.
var boligsidenBoilerplate = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Se hvilke internetforbindelser, der er tilgængelige på adressen\. Bemærk, at mobildækning ikke er oplyst\.`),
	regexp.MustCompile(`(?i)RadonrisikoRadonrisikoen vurderes til at være ukendtUkendt`),
}

// BoligsidenProvider handles boligsiden.dk aggregator pages. Besides
// text extraction it resolves the udbud redirect to find the realtor's
// own listing page.
type BoligsidenProvider struct {
	logger   *slog.Logger
	resolver RedirectResolver
}

// NewBoligsidenProvider creates the boligsiden.dk provider.
func NewBoligsidenProvider(logger *slog.Logger, resolver RedirectResolver) *BoligsidenProvider {
	return &BoligsidenProvider{logger: logger, resolver: resolver}
}

func (p *BoligsidenProvider) Name() string {
	return "Boligsiden.dk"
}

func (p *BoligsidenProvider) CanHandle(url, _ string) bool {
	return urlutil.ExtractDomain(url) == "boligsiden.dk"
}

func (p *BoligsidenProvider) Parse(ctx context.Context, url, htmlContent string) (*ParseResult, error) {
	text := htmlutil.ExtractText(htmlContent)
	for _, phrase := range boligsidenBoilerplate {
		text = phrase.ReplaceAllString(text, "")
	}
	text = strings.Join(strings.Fields(text), " ")

	return &ParseResult{
		OriginalLink:  p.resolveSourceURL(ctx, url),
		ExtractedText: text,
		ImageURL:      htmlutil.ExtractFirstImageURL(htmlContent, url),
	}, nil
}

// resolveSourceURL follows boligsiden's viderestilling redirect to the
// realtor's own listing. Returns empty if the link has no udbud ID or
// the redirect never leaves the redirector.
func (p *BoligsidenProvider) resolveSourceURL(ctx context.Context, url string) string {
	caseID := urlutil.UdbudID(url)
	if caseID == "" {
		p.logger.Info("no udbud parameter in boligsiden URL", "url", url)
		return ""
	}

	redirectURL := "https://www.boligsiden.dk/viderestilling/" + caseID
	finalURL, err := p.resolver.ResolveFinalURL(ctx, redirectURL)
	if err != nil {
		p.logger.Error("failed to resolve boligsiden redirect", "url", redirectURL, "error", err)
		return ""
	}

	if strings.Contains(finalURL, "boligsiden.dk/viderestilling") {
		p.logger.Warn("boligsiden redirect did not resolve to a source listing", "url", url)
		return ""
	}

	p.logger.Info("resolved boligsiden redirect", "url", url, "final_url", finalURL)
	return finalURL
}
