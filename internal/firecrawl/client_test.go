package firecrawl

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discard{}, nil))
}

func TestScrape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/scrape" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req["url"] != "https://www.danbolig.dk/bolig/1" {
			t.Errorf("unexpected url %v", req["url"])
		}

		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"markdown": "# Testvej 1\n\nDejlig bolig",
				"metadata": map[string]any{
					"ogImage": "https://cdn.danbolig.dk/foto.jpg",
				},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(testLogger(), srv.URL, "test-key", 5*time.Second)
	data, err := client.Scrape(context.Background(), "https://www.danbolig.dk/bolig/1")
	if err != nil {
		t.Fatalf("Scrape failed: %v", err)
	}
	if data.Markdown == "" {
		t.Error("expected markdown content")
	}
	if data.Metadata.OGImage != "https://cdn.danbolig.dk/foto.jpg" {
		t.Errorf("unexpected ogImage: %q", data.Metadata.OGImage)
	}
}

func TestScrapeAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"success":false,"error":"insufficient credits"}`))
	}))
	defer srv.Close()

	client := NewClient(testLogger(), srv.URL, "test-key", 5*time.Second)
	if _, err := client.Scrape(context.Background(), "https://www.danbolig.dk/bolig/1"); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestEnabled(t *testing.T) {
	if NewClient(testLogger(), "https://api.firecrawl.dev", "", time.Second).Enabled() {
		t.Error("expected disabled without API key")
	}
	if !NewClient(testLogger(), "https://api.firecrawl.dev", "k", time.Second).Enabled() {
		t.Error("expected enabled with API key")
	}
}
