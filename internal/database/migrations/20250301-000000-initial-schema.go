package migrations

func init() {
	Register(Migration{
		Timestamp:   "20250301-000000",
		Description: "Initial schema",
		Up: []string{
			// Listings - one row per submitted property URL.
			// normalized_url is the dedup key; url keeps the form the
			// user actually submitted.
			`CREATE TABLE IF NOT EXISTS listings (
				id TEXT PRIMARY KEY,
				url TEXT NOT NULL,
				normalized_url TEXT UNIQUE NOT NULL,
				status TEXT NOT NULL DEFAULT 'pending',
				url_redirect TEXT,
				property_image_url TEXT,
				text_extracted TEXT,
				text_extracted_redirect TEXT,
				analysis_result TEXT,
				error_message TEXT,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_listings_status ON listings(status)`,
			`CREATE INDEX IF NOT EXISTS idx_listings_created_at ON listings(created_at)`,
		},
	})
}
