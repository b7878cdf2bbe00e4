// Package service implements the analysis pipeline: URL intake, content
// extraction, LLM-driven insight generation and status tracking.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/joakiti/boliganalyse-ai-server/internal/fetch"
	"github.com/joakiti/boliganalyse-ai-server/internal/models"
	"github.com/joakiti/boliganalyse-ai-server/internal/provider"
	"github.com/joakiti/boliganalyse-ai-server/internal/repository"
	"github.com/joakiti/boliganalyse-ai-server/internal/urlutil"
)

// ErrListingNotFound is returned when a status lookup misses.
var ErrListingNotFound = errors.New("listing not found")

// insightGenerator produces a structured analysis from listing text.
type insightGenerator interface {
	GenerateInsights(ctx context.Context, listingText string) (*models.AnalysisResult, error)
}

// htmlFetcher is the slice of fetch.Client the pipeline needs.
type htmlFetcher interface {
	FetchHTML(ctx context.Context, url string) (string, error)
}

// AnalysisService orchestrates the listing pipeline from submission to
// completed analysis.
type AnalysisService struct {
	logger    *slog.Logger
	repo      repository.ListingRepository
	fetcher   htmlFetcher
	providers *provider.Registry
	analyzer  insightGenerator
	stripWWW  bool
}

func NewAnalysisService(
	logger *slog.Logger,
	repo repository.ListingRepository,
	fetcher htmlFetcher,
	providers *provider.Registry,
	analyzer insightGenerator,
	stripWWW bool,
) *AnalysisService {
	return &AnalysisService{
		logger:    logger.With("component", "analysis"),
		repo:      repo,
		fetcher:   fetcher,
		providers: providers,
		analyzer:  analyzer,
		stripWWW:  stripWWW,
	}
}

// Submit validates and registers a listing URL for analysis. Resubmitting
// a URL whose analysis failed terminally requeues it; resubmitting one
// that is pending, running or completed returns the existing listing.
func (s *AnalysisService) Submit(ctx context.Context, rawURL string) (*models.Listing, error) {
	if err := urlutil.ValidateListingURL(rawURL); err != nil {
		return nil, err
	}

	candidate := rawURL
	if s.stripWWW {
		candidate = urlutil.StripWWW(rawURL)
	}
	normalized := urlutil.NormalizeURL(candidate)
	if normalized == "" {
		return nil, &urlutil.ValidationError{Message: urlutil.MsgInvalidLink}
	}

	existing, err := s.repo.GetByNormalizedURL(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("lookup listing: %w", err)
	}
	if existing != nil {
		if existing.Status.IsTerminalError() {
			s.logger.Info("requeueing failed listing", "listing_id", existing.ID, "previous_status", existing.Status)
			if err := s.repo.Requeue(ctx, existing.ID); err != nil {
				return nil, fmt.Errorf("requeue listing: %w", err)
			}
			return s.repo.GetByID(ctx, existing.ID)
		}
		return existing, nil
	}

	now := time.Now().UTC()
	listing := &models.Listing{
		ID:            ulid.Make().String(),
		URL:           rawURL,
		NormalizedURL: normalized,
		Status:        models.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, listing); err != nil {
		// Concurrent submission of the same URL loses the insert race;
		// the winner's row is the answer either way.
		if repository.IsUniqueViolation(err) {
			return s.repo.GetByNormalizedURL(ctx, normalized)
		}
		return nil, fmt.Errorf("create listing: %w", err)
	}
	s.logger.Info("listing submitted", "listing_id", listing.ID, "url", rawURL)
	return listing, nil
}

// GetStatus returns the current state of a listing.
func (s *AnalysisService) GetStatus(ctx context.Context, id string) (*models.Listing, error) {
	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}
	return listing, nil
}

// Run processes a claimed listing end to end. Any pipeline failure is
// classified and persisted on the listing; Run itself only returns an
// error when the failure could not be recorded.
func (s *AnalysisService) Run(ctx context.Context, listing *models.Listing) error {
	if err := s.process(ctx, listing); err != nil {
		status := classifyFailure(err)
		s.logger.Error("analysis failed",
			"listing_id", listing.ID, "status", status, "error", err)
		if setErr := s.repo.SetError(ctx, listing.ID, status, err.Error()); setErr != nil {
			return fmt.Errorf("record failure (%v): %w", err, setErr)
		}
		return nil
	}
	return nil
}

// process walks the listing through the pipeline. The caller owns the
// failure boundary.
func (s *AnalysisService) process(ctx context.Context, listing *models.Listing) error {
	log := s.logger.With("listing_id", listing.ID)

	html, err := s.fetcher.FetchHTML(ctx, listing.URL)
	if err != nil {
		return fmt.Errorf("fetch listing page: %w", err)
	}

	if err := s.setStatus(ctx, listing, models.StatusParsingData); err != nil {
		return err
	}
	prov, err := s.providers.ProviderFor(listing.URL, html)
	if err != nil {
		return err
	}
	log.Info("parsing listing", "provider", prov.Name())
	result, err := provider.ParseOrEmpty(ctx, s.logger, prov, listing.URL, html)
	if err != nil {
		return fmt.Errorf("parse listing page: %w", err)
	}

	listing.TextExtracted = result.ExtractedText
	listing.PropertyImageURL = result.ImageURL
	listing.URLRedirect = result.OriginalLink
	listing.TextExtractedRedirect = ""

	// An aggregator page can point at the realtor's own listing; fetch
	// that too so the analysis sees both sources. Secondary failures are
	// logged and ignored, the primary text carries the analysis.
	if result.OriginalLink != "" && result.OriginalLink != listing.URL {
		if err := s.setStatus(ctx, listing, models.StatusPreparingAnalysis); err != nil {
			return err
		}
		s.fetchSecondary(ctx, listing, result.OriginalLink)
	}

	if err := s.repo.Update(ctx, listing); err != nil {
		return fmt.Errorf("persist extracted content: %w", err)
	}

	if err := s.setStatus(ctx, listing, models.StatusGeneratingInsights); err != nil {
		return err
	}
	combined := combineTexts(listing.TextExtracted, listing.TextExtractedRedirect)
	if strings.TrimSpace(combined) == "" {
		return errors.New("no text could be extracted from the listing")
	}

	analysis, err := s.analyzer.GenerateInsights(ctx, combined)
	if err != nil {
		return fmt.Errorf("generate insights: %w", err)
	}

	if err := s.setStatus(ctx, listing, models.StatusFinalizing); err != nil {
		return err
	}
	resultJSON, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("encode analysis result: %w", err)
	}
	if err := s.repo.SaveResult(ctx, listing.ID, string(resultJSON)); err != nil {
		return fmt.Errorf("save analysis result: %w", err)
	}
	listing.Status = models.StatusCompleted
	log.Info("analysis completed")
	return nil
}

func (s *AnalysisService) fetchSecondary(ctx context.Context, listing *models.Listing, sourceURL string) {
	log := s.logger.With("listing_id", listing.ID, "source_url", sourceURL)

	html, err := s.fetcher.FetchHTML(ctx, sourceURL)
	if err != nil {
		log.Warn("secondary fetch failed", "error", err)
		return
	}
	prov, err := s.providers.ProviderFor(sourceURL, html)
	if err != nil {
		log.Warn("no provider for secondary source")
		return
	}
	result, err := provider.ParseOrEmpty(ctx, s.logger, prov, sourceURL, html)
	if err != nil {
		log.Warn("secondary parse failed", "error", err)
		return
	}
	listing.TextExtractedRedirect = result.ExtractedText
	if listing.PropertyImageURL == "" {
		listing.PropertyImageURL = result.ImageURL
	}
}

func (s *AnalysisService) setStatus(ctx context.Context, listing *models.Listing, status models.AnalysisStatus) error {
	if err := s.repo.UpdateStatus(ctx, listing.ID, status); err != nil {
		return fmt.Errorf("update status to %s: %w", status, err)
	}
	listing.Status = status
	return nil
}

// combineTexts assembles the analysis input. When a secondary source
// exists the two are labeled so the model knows which is authoritative.
func combineTexts(primary, secondary string) string {
	primary = strings.TrimSpace(primary)
	secondary = strings.TrimSpace(secondary)
	switch {
	case primary != "" && secondary != "":
		return "PRIMARY SOURCE:\n" + primary + "\n\nSECONDARY SOURCE:\n" + secondary
	case primary != "":
		return primary
	default:
		return secondary
	}
}

// classifyFailure maps a pipeline error to the terminal status persisted
// on the listing.
func classifyFailure(err error) models.AnalysisStatus {
	if errors.Is(err, context.DeadlineExceeded) {
		return models.StatusTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return models.StatusTimeout
	}

	var validationErr *urlutil.ValidationError
	if errors.As(err, &validationErr) {
		return models.StatusInvalidURL
	}
	var statusErr *fetch.StatusError
	if errors.As(err, &statusErr) {
		return models.StatusInvalidURL
	}
	if errors.Is(err, provider.ErrNoProvider) {
		return models.StatusInvalidURL
	}

	return models.StatusError
}
