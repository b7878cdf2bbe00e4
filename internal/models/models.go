// Package models defines the domain models for the application.
package models

import (
	"time"
)

// AnalysisStatus represents the lifecycle state of a listing analysis.
type AnalysisStatus string

const (
	StatusPending            AnalysisStatus = "pending"
	StatusQueued             AnalysisStatus = "queued"
	StatusFetchingHTML       AnalysisStatus = "fetching_html"
	StatusParsingData        AnalysisStatus = "parsing_data"
	StatusPreparingAnalysis  AnalysisStatus = "preparing_analysis"
	StatusGeneratingInsights AnalysisStatus = "generating_insights"
	StatusFinalizing         AnalysisStatus = "finalizing"
	StatusCompleted          AnalysisStatus = "completed"
	StatusError              AnalysisStatus = "error"
	StatusInvalidURL         AnalysisStatus = "invalid_url"
	StatusTimeout            AnalysisStatus = "timeout"
	StatusCancelled          AnalysisStatus = "cancelled"
)

// IsTerminalError returns true for terminal states that allow a
// re-submission to requeue the listing.
func (s AnalysisStatus) IsTerminalError() bool {
	switch s {
	case StatusError, StatusInvalidURL, StatusTimeout, StatusCancelled:
		return true
	}
	return false
}

// IsClaimable returns true for states the worker may claim for processing.
func (s AnalysisStatus) IsClaimable() bool {
	return s == StatusPending || s == StatusQueued
}

// InProgress returns true while the background pipeline owns the listing.
func (s AnalysisStatus) InProgress() bool {
	switch s {
	case StatusFetchingHTML, StatusParsingData, StatusPreparingAnalysis,
		StatusGeneratingInsights, StatusFinalizing:
		return true
	}
	return false
}

// Listing is the persisted unit of work: one submitted property URL and
// everything derived from it.
type Listing struct {
	ID                    string         `json:"id"`
	URL                   string         `json:"url"`
	NormalizedURL         string         `json:"normalized_url"`
	Status                AnalysisStatus `json:"status"`
	URLRedirect           string         `json:"url_redirect,omitempty"`
	PropertyImageURL      string         `json:"property_image_url,omitempty"`
	TextExtracted         string         `json:"text_extracted,omitempty"`
	TextExtractedRedirect string         `json:"text_extracted_redirect,omitempty"`
	AnalysisResultJSON    string         `json:"analysis_result,omitempty"`
	ErrorMessage          string         `json:"error_message,omitempty"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
}
