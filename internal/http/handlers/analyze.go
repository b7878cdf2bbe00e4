package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joakiti/boliganalyse-ai-server/internal/models"
	"github.com/joakiti/boliganalyse-ai-server/internal/service"
	"github.com/joakiti/boliganalyse-ai-server/internal/urlutil"
)

// AnalyzeHandler handles listing analysis endpoints.
type AnalyzeHandler struct {
	analysisSvc *service.AnalysisService
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(analysisSvc *service.AnalysisService) *AnalyzeHandler {
	return &AnalyzeHandler{analysisSvc: analysisSvc}
}

// SubmitAnalysisInput represents an analysis submission.
type SubmitAnalysisInput struct {
	Body struct {
		URL string `json:"url" doc:"Listing URL from a supported Danish property portal"`
	}
}

// SubmitAnalysisOutput represents the submission response.
type SubmitAnalysisOutput struct {
	Body struct {
		Message   string                `json:"message"`
		Status    models.AnalysisStatus `json:"status"`
		ListingID string                `json:"listing_id"`
	}
}

// SubmitAnalysis registers a listing URL for analysis. Resubmitting a
// URL that failed terminally requeues it; any other resubmission
// returns the existing listing.
func (h *AnalyzeHandler) SubmitAnalysis(ctx context.Context, input *SubmitAnalysisInput) (*SubmitAnalysisOutput, error) {
	listing, err := h.analysisSvc.Submit(ctx, input.Body.URL)
	if err != nil {
		var validationErr *urlutil.ValidationError
		if errors.As(err, &validationErr) {
			return nil, huma.Error400BadRequest(validationErr.Message)
		}
		return nil, huma.Error500InternalServerError("failed to submit listing")
	}

	out := &SubmitAnalysisOutput{}
	out.Body.Message = "Analysis started"
	out.Body.Status = listing.Status
	out.Body.ListingID = listing.ID
	return out, nil
}

// GetAnalysisInput identifies the listing to look up.
type GetAnalysisInput struct {
	ListingID string `path:"listing_id" doc:"Listing ID returned by the submission endpoint"`
}

// GetAnalysisOutput represents the status response.
type GetAnalysisOutput struct {
	Body struct {
		ListingID string                `json:"listing_id"`
		Status    models.AnalysisStatus `json:"status"`
		Result    json.RawMessage       `json:"result,omitempty"`
		Error     string                `json:"error,omitempty"`
		URL       string                `json:"url"`
		Realtor   string                `json:"realtor,omitempty"`
		CreatedAt time.Time             `json:"created_at"`
		UpdatedAt time.Time             `json:"updated_at"`
	}
}

// GetAnalysis returns the current state of a listing analysis,
// including the result once completed.
func (h *AnalyzeHandler) GetAnalysis(ctx context.Context, input *GetAnalysisInput) (*GetAnalysisOutput, error) {
	listing, err := h.analysisSvc.GetStatus(ctx, input.ListingID)
	if err != nil {
		if errors.Is(err, service.ErrListingNotFound) {
			return nil, huma.Error404NotFound("Listing not found")
		}
		return nil, huma.Error500InternalServerError("failed to load listing")
	}

	out := &GetAnalysisOutput{}
	out.Body.ListingID = listing.ID
	out.Body.Status = listing.Status
	out.Body.Error = listing.ErrorMessage
	out.Body.URL = listing.URL
	out.Body.Realtor = realtorDomain(listing)
	out.Body.CreatedAt = listing.CreatedAt
	out.Body.UpdatedAt = listing.UpdatedAt
	if listing.AnalysisResultJSON != "" {
		out.Body.Result = json.RawMessage(listing.AnalysisResultJSON)
	}
	return out, nil
}

// realtorDomain names the realtor behind the listing: the domain of the
// resolved source URL when an aggregator pointed elsewhere, otherwise
// the domain of the submitted URL.
func realtorDomain(listing *models.Listing) string {
	if listing.URLRedirect != "" {
		return urlutil.ExtractDomain(listing.URLRedirect)
	}
	return urlutil.ExtractDomain(listing.URL)
}
