package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/joakiti/boliganalyse-ai-server/internal/database/migrations"
	_ "github.com/tursodatabase/go-libsql"
)

// setupTestDB creates an in-memory SQLite database for testing.
// It runs migrations and returns a database connection that will be cleaned up
// when the test completes.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("libsql", ":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if err := migrations.Run(db, nil); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

// insertTestListing inserts a listing row directly, bypassing the repository.
func insertTestListing(t *testing.T, db *sql.DB, id, normalizedURL, status string) {
	t.Helper()
	query := `
		INSERT INTO listings (id, url, normalized_url, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := db.Exec(query, id, "https://"+normalizedURL, normalizedURL, status, now, now); err != nil {
		t.Fatalf("failed to insert test listing: %v", err)
	}
}
