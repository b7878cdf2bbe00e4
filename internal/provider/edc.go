package provider

import (
	"context"
	"log/slog"

	"github.com/joakiti/boliganalyse-ai-server/internal/urlutil"
)

// EDCProvider handles edc.dk, whose pages carry JSON-LD structured
// data. It narrows the generic JSON-LD provider to the edc.dk domain so
// it wins over lower-priority fallbacks.
type EDCProvider struct {
	logger *slog.Logger
	jsonLD *JSONLDProvider
}

// NewEDCProvider creates the edc.dk provider.
func NewEDCProvider(logger *slog.Logger) *EDCProvider {
	return &EDCProvider{logger: logger, jsonLD: NewJSONLDProvider(logger)}
}

func (p *EDCProvider) Name() string {
	return "EDC"
}

// CanHandle requires both the edc.dk domain and JSON-LD content; edc
// pages without structured data fall through to other providers.
func (p *EDCProvider) CanHandle(url, htmlContent string) bool {
	if urlutil.ExtractDomain(url) != "edc.dk" {
		return false
	}
	if !p.jsonLD.CanHandle(url, htmlContent) {
		p.logger.Debug("edc.dk page without JSON-LD", "url", url)
		return false
	}
	return true
}

func (p *EDCProvider) Parse(ctx context.Context, url, htmlContent string) (*ParseResult, error) {
	return p.jsonLD.Parse(ctx, url, htmlContent)
}
