package provider

import (
	"context"
	"log/slog"
)

// Registry holds providers in priority order: portal-specific providers
// first, content-sniffing and scraping fallbacks last.
type Registry struct {
	logger    *slog.Logger
	providers []Provider
}

// NewRegistry creates an empty provider registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{logger: logger}
}

// Register appends a provider. Registration order is match order.
func (r *Registry) Register(p Provider) {
	r.providers = append(r.providers, p)
	r.logger.Debug("registered provider", "provider", p.Name())
}

// Providers returns the registered providers in match order.
func (r *Registry) Providers() []Provider {
	return r.providers
}

// ProviderFor returns the first provider that can handle the URL and
// content. A panicking CanHandle counts as a non-match so one broken
// provider cannot take down the pipeline.
func (r *Registry) ProviderFor(url, htmlContent string) (Provider, error) {
	for _, p := range r.providers {
		if r.safeCanHandle(p, url, htmlContent) {
			r.logger.Info("selected provider", "provider", p.Name(), "url", url)
			return p, nil
		}
	}
	r.logger.Error("no provider matched", "url", url)
	return nil, ErrNoProvider
}

func (r *Registry) safeCanHandle(p Provider, url, htmlContent string) (matched bool) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("provider CanHandle panicked", "provider", p.Name(), "panic", rec)
			matched = false
		}
	}()
	return p.CanHandle(url, htmlContent)
}

// Ensure interface compliance at compile time.
var (
	_ Provider = (*BoligsidenProvider)(nil)
	_ Provider = (*HomeProvider)(nil)
	_ Provider = (*DanboligProvider)(nil)
	_ Provider = (*EDCProvider)(nil)
	_ Provider = (*JSONLDProvider)(nil)
	_ Provider = (*FirecrawlProvider)(nil)
)

// DefaultRegistry wires the standard provider order: specific portals
// first, then JSON-LD content sniffing, then Firecrawl as the general
// scraping fallback.
func DefaultRegistry(logger *slog.Logger, fetcher RedirectResolver, scraper Scraper) *Registry {
	registry := NewRegistry(logger)
	firecrawl := NewFirecrawlProvider(logger, scraper)

	registry.Register(NewBoligsidenProvider(logger, fetcher))
	registry.Register(NewHomeProvider(logger))
	registry.Register(NewDanboligProvider(logger, firecrawl))
	registry.Register(NewEDCProvider(logger))
	registry.Register(NewJSONLDProvider(logger))
	registry.Register(firecrawl)
	return registry
}

// ParseOrEmpty runs p.Parse and never lets a provider panic escape.
func ParseOrEmpty(ctx context.Context, logger *slog.Logger, p Provider, url, htmlContent string) (result *ParseResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("provider Parse panicked", "provider", p.Name(), "panic", rec)
			result = &ParseResult{}
		}
	}()
	return p.Parse(ctx, url, htmlContent)
}
