// Package repository defines repository interfaces for data access.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/joakiti/boliganalyse-ai-server/internal/models"
)

// ListingRepository defines methods for listing data access.
type ListingRepository interface {
	Create(ctx context.Context, listing *models.Listing) error
	GetByID(ctx context.Context, id string) (*models.Listing, error)
	GetByNormalizedURL(ctx context.Context, normalizedURL string) (*models.Listing, error)
	Update(ctx context.Context, listing *models.Listing) error
	UpdateStatus(ctx context.Context, id string, status models.AnalysisStatus) error
	SetError(ctx context.Context, id string, status models.AnalysisStatus, message string) error
	SaveResult(ctx context.Context, id string, resultJSON string) error
	// Requeue resets a terminally failed listing so the worker picks it up again.
	Requeue(ctx context.Context, id string) error
	// ClaimPending atomically claims the next queued listing and returns it.
	ClaimPending(ctx context.Context) (*models.Listing, error)
	// MarkStaleRunningFailed times out listings stuck mid-pipeline longer than
	// maxAge. Returns the number of listings affected.
	MarkStaleRunningFailed(ctx context.Context, maxAge time.Duration) (int64, error)
}

// Repositories holds all repository instances.
type Repositories struct {
	Listing ListingRepository
}

// NewRepositories creates all repository instances.
func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Listing: NewSQLiteListingRepository(db),
	}
}
