package service

import (
	"log/slog"

	"github.com/joakiti/boliganalyse-ai-server/internal/config"
	"github.com/joakiti/boliganalyse-ai-server/internal/dst"
	"github.com/joakiti/boliganalyse-ai-server/internal/fetch"
	"github.com/joakiti/boliganalyse-ai-server/internal/firecrawl"
	"github.com/joakiti/boliganalyse-ai-server/internal/provider"
	"github.com/joakiti/boliganalyse-ai-server/internal/repository"
	"github.com/joakiti/boliganalyse-ai-server/internal/tools"
)

// Services holds all service instances.
type Services struct {
	Analysis *AnalysisService
	Analyzer *Analyzer
}

// NewServices wires the fetcher, providers, analysis tools and the LLM
// analyzer into the pipeline services.
func NewServices(cfg *config.Config, repos *repository.Repositories, logger *slog.Logger) *Services {
	fetcher := fetch.NewClient(logger, cfg.FetchTimeout)

	var scraper provider.Scraper
	if cfg.FirecrawlEnabled() {
		scraper = firecrawl.NewClient(logger, cfg.FirecrawlBaseURL, cfg.FirecrawlAPIKey, cfg.FetchTimeout)
	} else {
		logger.Warn("no Firecrawl API key configured, scraping fallback disabled")
	}
	providers := provider.DefaultRegistry(logger, fetcher, scraper)

	toolRegistry := tools.NewRegistry(logger)
	tools.RegisterDSTTools(toolRegistry, dst.NewClient(logger, cfg.DSTBaseURL))

	analyzer := NewAnalyzer(logger, AnalyzerConfig{
		APIKey:     cfg.AnthropicAPIKey,
		Model:      cfg.AnthropicModel,
		Timeout:    cfg.LLMTimeout,
		MaxRetries: cfg.LLMMaxRetries,
		RetryDelay: cfg.LLMRetryDelay,
	}, toolRegistry)

	analysis := NewAnalysisService(logger, repos.Listing, fetcher, providers, analyzer, cfg.StripWWW)

	return &Services{
		Analysis: analysis,
		Analyzer: analyzer,
	}
}
