package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/joakiti/boliganalyse-ai-server/internal/models"
)

// maxErrorMessageLen caps stored error messages so a huge upstream
// response body never bloats the row.
const maxErrorMessageLen = 1000

const listingColumns = `id, url, normalized_url, status, url_redirect, property_image_url,
		text_extracted, text_extracted_redirect, analysis_result, error_message,
		created_at, updated_at`

// SQLiteListingRepository implements ListingRepository for SQLite.
type SQLiteListingRepository struct {
	db *sql.DB
}

// NewSQLiteListingRepository creates a new SQLite listing repository.
func NewSQLiteListingRepository(db *sql.DB) *SQLiteListingRepository {
	return &SQLiteListingRepository{db: db}
}

func (r *SQLiteListingRepository) Create(ctx context.Context, listing *models.Listing) error {
	query := `
		INSERT INTO listings (id, url, normalized_url, status, url_redirect, property_image_url,
			text_extracted, text_extracted_redirect, analysis_result, error_message,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		listing.ID,
		listing.URL,
		listing.NormalizedURL,
		listing.Status,
		nullString(listing.URLRedirect),
		nullString(listing.PropertyImageURL),
		nullString(listing.TextExtracted),
		nullString(listing.TextExtractedRedirect),
		nullString(listing.AnalysisResultJSON),
		nullString(listing.ErrorMessage),
		listing.CreatedAt.Format(time.RFC3339),
		listing.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}
	return nil
}

func (r *SQLiteListingRepository) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = ?`
	return r.scanListing(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteListingRepository) GetByNormalizedURL(ctx context.Context, normalizedURL string) (*models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE normalized_url = ?`
	return r.scanListing(r.db.QueryRowContext(ctx, query, normalizedURL))
}

func (r *SQLiteListingRepository) Update(ctx context.Context, listing *models.Listing) error {
	query := `
		UPDATE listings SET status = ?, url_redirect = ?, property_image_url = ?,
			text_extracted = ?, text_extracted_redirect = ?, analysis_result = ?,
			error_message = ?, updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.ExecContext(ctx, query,
		listing.Status,
		nullString(listing.URLRedirect),
		nullString(listing.PropertyImageURL),
		nullString(listing.TextExtracted),
		nullString(listing.TextExtractedRedirect),
		nullString(listing.AnalysisResultJSON),
		nullString(listing.ErrorMessage),
		time.Now().Format(time.RFC3339),
		listing.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update listing: %w", err)
	}
	return nil
}

func (r *SQLiteListingRepository) UpdateStatus(ctx context.Context, id string, status models.AnalysisStatus) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE listings SET status = ?, updated_at = ? WHERE id = ?",
		status, time.Now().Format(time.RFC3339), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update listing status: %w", err)
	}
	return nil
}

func (r *SQLiteListingRepository) SetError(ctx context.Context, id string, status models.AnalysisStatus, message string) error {
	if len(message) > maxErrorMessageLen {
		message = message[:maxErrorMessageLen]
	}
	_, err := r.db.ExecContext(ctx,
		"UPDATE listings SET status = ?, error_message = ?, updated_at = ? WHERE id = ?",
		status, message, time.Now().Format(time.RFC3339), id,
	)
	if err != nil {
		return fmt.Errorf("failed to set listing error: %w", err)
	}
	return nil
}

func (r *SQLiteListingRepository) SaveResult(ctx context.Context, id string, resultJSON string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE listings SET status = ?, analysis_result = ?, error_message = NULL, updated_at = ? WHERE id = ?",
		models.StatusCompleted, resultJSON, time.Now().Format(time.RFC3339), id,
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis result: %w", err)
	}
	return nil
}

func (r *SQLiteListingRepository) Requeue(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE listings SET status = ?, error_message = NULL, analysis_result = NULL,
			text_extracted = NULL, text_extracted_redirect = NULL, updated_at = ?
		WHERE id = ?`,
		models.StatusQueued, time.Now().Format(time.RFC3339), id,
	)
	if err != nil {
		return fmt.Errorf("failed to requeue listing: %w", err)
	}
	return nil
}

func (r *SQLiteListingRepository) ClaimPending(ctx context.Context) (*models.Listing, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	// UPDATE ... RETURNING claims and fetches atomically. The claimed row
	// moves straight to the first pipeline state so no other worker can
	// pick it up again.
	now := time.Now().Format(time.RFC3339)
	query := `
		UPDATE listings
		SET status = ?, updated_at = ?
		WHERE id = (
			SELECT id FROM listings
			WHERE status IN (?, ?)
			ORDER BY created_at ASC
			LIMIT 1
		)
		RETURNING ` + listingColumns

	listing, err := r.scanListing(tx.QueryRowContext(ctx, query,
		models.StatusFetchingHTML, now, models.StatusPending, models.StatusQueued))
	if err == sql.ErrNoRows || listing == nil {
		// No queued listings, the normal idle case
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to claim listing: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true

	return listing, nil
}

func (r *SQLiteListingRepository) MarkStaleRunningFailed(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge).Format(time.RFC3339)
	now := time.Now().Format(time.RFC3339)

	query := `
		UPDATE listings
		SET status = ?, error_message = ?, updated_at = ?
		WHERE status IN (?, ?, ?, ?, ?) AND updated_at < ?
	`
	result, err := r.db.ExecContext(ctx, query,
		models.StatusTimeout,
		"Analysen blev afbrudt: serveren genstartede eller behandlingen tog for lang tid",
		now,
		models.StatusFetchingHTML,
		models.StatusParsingData,
		models.StatusPreparingAnalysis,
		models.StatusGeneratingInsights,
		models.StatusFinalizing,
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark stale listings: %w", err)
	}

	count, _ := result.RowsAffected()
	return count, nil
}

func (r *SQLiteListingRepository) scanListing(row *sql.Row) (*models.Listing, error) {
	var listing models.Listing
	var createdAt, updatedAt string
	var urlRedirect, imageURL, textExtracted, textRedirect, analysisResult, errorMessage sql.NullString

	err := row.Scan(
		&listing.ID, &listing.URL, &listing.NormalizedURL, &listing.Status,
		&urlRedirect, &imageURL, &textExtracted, &textRedirect,
		&analysisResult, &errorMessage, &createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan listing: %w", err)
	}

	listing.URLRedirect = urlRedirect.String
	listing.PropertyImageURL = imageURL.String
	listing.TextExtracted = textExtracted.String
	listing.TextExtractedRedirect = textRedirect.String
	listing.AnalysisResultJSON = analysisResult.String
	listing.ErrorMessage = errorMessage.String
	listing.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	listing.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

	return &listing, nil
}

// IsUniqueViolation reports whether err is a UNIQUE constraint failure,
// used to detect a concurrent insert of the same normalized URL.
func IsUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
