package handlers

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joakiti/boliganalyse-ai-server/internal/models"
	"github.com/joakiti/boliganalyse-ai-server/internal/provider"
	"github.com/joakiti/boliganalyse-ai-server/internal/service"
	"github.com/joakiti/boliganalyse-ai-server/internal/urlutil"
)

func TestHealthCheck(t *testing.T) {
	output, err := HealthCheck(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.Body.Status != "healthy" {
		t.Errorf("Status = %q, want %q", output.Body.Status, "healthy")
	}
	if output.Body.Version == "" {
		t.Error("Version should not be empty")
	}
}

func TestLivez(t *testing.T) {
	output, err := Livez(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.Body.Status != "ok" {
		t.Errorf("Status = %q, want %q", output.Body.Status, "ok")
	}
}

type mockDBPinger struct {
	err error
}

func (m *mockDBPinger) Ping() error { return m.err }

func TestReadyzSuccess(t *testing.T) {
	handler := NewReadyzHandler(&mockDBPinger{})
	output, err := handler.Readyz(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.Body.Status != "ok" {
		t.Errorf("Status = %q, want %q", output.Body.Status, "ok")
	}
}

func TestReadyzDBError(t *testing.T) {
	handler := NewReadyzHandler(&mockDBPinger{err: errors.New("connection refused")})
	_, err := handler.Readyz(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error")
	}
	var statusErr huma.StatusError
	if !errors.As(err, &statusErr) || statusErr.GetStatus() != 503 {
		t.Errorf("expected 503, got %v", err)
	}
}

// memListingRepo is the minimal in-memory repository the handler tests need.
type memListingRepo struct {
	listings map[string]*models.Listing
}

func newMemListingRepo() *memListingRepo {
	return &memListingRepo{listings: map[string]*models.Listing{}}
}

func (r *memListingRepo) Create(_ context.Context, listing *models.Listing) error {
	r.listings[listing.ID] = listing
	return nil
}

func (r *memListingRepo) GetByID(_ context.Context, id string) (*models.Listing, error) {
	return r.listings[id], nil
}

func (r *memListingRepo) GetByNormalizedURL(_ context.Context, normalizedURL string) (*models.Listing, error) {
	for _, listing := range r.listings {
		if listing.NormalizedURL == normalizedURL {
			return listing, nil
		}
	}
	return nil, nil
}

func (r *memListingRepo) Update(context.Context, *models.Listing) error { return nil }
func (r *memListingRepo) UpdateStatus(context.Context, string, models.AnalysisStatus) error {
	return nil
}
func (r *memListingRepo) SetError(context.Context, string, models.AnalysisStatus, string) error {
	return nil
}
func (r *memListingRepo) SaveResult(context.Context, string, string) error { return nil }
func (r *memListingRepo) Requeue(context.Context, string) error { return nil }
func (r *memListingRepo) ClaimPending(context.Context) (*models.Listing, error) {
	return nil, nil
}
func (r *memListingRepo) MarkStaleRunningFailed(context.Context, time.Duration) (int64, error) {
	return 0, nil
}

type nopFetcher struct{}

func (nopFetcher) FetchHTML(context.Context, string) (string, error) { return "", nil }

type nopAnalyzer struct{}

func (nopAnalyzer) GenerateInsights(context.Context, string) (*models.AnalysisResult, error) {
	return nil, errors.New("not implemented")
}

type silent struct{}

func (silent) Write(p []byte) (int, error) { return len(p), nil }

func newAnalyzeHandler(repo *memListingRepo) *AnalyzeHandler {
	logger := slog.New(slog.NewTextHandler(silent{}, nil))
	svc := service.NewAnalysisService(logger, repo, nopFetcher{}, provider.NewRegistry(logger), nopAnalyzer{}, false)
	return NewAnalyzeHandler(svc)
}

func TestSubmitAnalysisAccepted(t *testing.T) {
	handler := newAnalyzeHandler(newMemListingRepo())

	input := &SubmitAnalysisInput{}
	input.Body.URL = "https://home.dk/bolig/12345"
	output, err := handler.SubmitAnalysis(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.Body.ListingID == "" {
		t.Error("expected a listing ID")
	}
	if output.Body.Status != models.StatusPending {
		t.Errorf("Status = %q, want %q", output.Body.Status, models.StatusPending)
	}
	if output.Body.Message != "Analysis started" {
		t.Errorf("Message = %q", output.Body.Message)
	}
}

func TestSubmitAnalysisValidationError(t *testing.T) {
	handler := newAnalyzeHandler(newMemListingRepo())

	tests := []struct {
		name string
		url  string
		want string
	}{
		{"empty", "", urlutil.MsgMissingLink},
		{"unsupported", "https://example.com/hus", urlutil.MsgUnsupportedPortal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := &SubmitAnalysisInput{}
			input.Body.URL = tt.url
			_, err := handler.SubmitAnalysis(context.Background(), input)
			if err == nil {
				t.Fatal("expected error")
			}
			var statusErr huma.StatusError
			if !errors.As(err, &statusErr) || statusErr.GetStatus() != 400 {
				t.Fatalf("expected 400, got %v", err)
			}
			if got := statusErr.Error(); !strings.Contains(got, tt.want) {
				t.Errorf("error %q does not mention %q", got, tt.want)
			}
		})
	}
}

func TestGetAnalysisNotFound(t *testing.T) {
	handler := newAnalyzeHandler(newMemListingRepo())

	_, err := handler.GetAnalysis(context.Background(), &GetAnalysisInput{ListingID: "missing"})
	if err == nil {
		t.Fatal("expected error")
	}
	var statusErr huma.StatusError
	if !errors.As(err, &statusErr) || statusErr.GetStatus() != 404 {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestGetAnalysisCompleted(t *testing.T) {
	repo := newMemListingRepo()
	repo.listings["01ABC"] = &models.Listing{
		ID:                 "01ABC",
		URL:                "https://www.boligsiden.dk/adresse/testvej-1?udbud=abc",
		URLRedirect:        "https://home.dk/bolig/12345",
		Status:             models.StatusCompleted,
		AnalysisResultJSON: `{"summary":"ok","risks":[],"highlights":[]}`,
		CreatedAt:          time.Now().UTC(),
		UpdatedAt:          time.Now().UTC(),
	}
	handler := newAnalyzeHandler(repo)

	output, err := handler.GetAnalysis(context.Background(), &GetAnalysisInput{ListingID: "01ABC"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.Body.Status != models.StatusCompleted {
		t.Errorf("Status = %q", output.Body.Status)
	}
	if len(output.Body.Result) == 0 {
		t.Error("expected result payload")
	}
	if output.Body.Realtor != "home.dk" {
		t.Errorf("Realtor = %q, want %q", output.Body.Realtor, "home.dk")
	}
}

func TestRealtorDomainFallsBackToURL(t *testing.T) {
	listing := &models.Listing{URL: "https://www.danbolig.dk/bolig/1"}
	if got := realtorDomain(listing); got != "danbolig.dk" {
		t.Errorf("realtorDomain = %q, want %q", got, "danbolig.dk")
	}
}
