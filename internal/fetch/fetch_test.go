package fetch

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(testWriter{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

type testWriter struct{}

func (testWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestFetchHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("User-Agent"), "Mozilla/5.0") {
			t.Errorf("missing browser User-Agent, got %q", r.Header.Get("User-Agent"))
		}
		w.Write([]byte("<html><body>Testvej 1</body></html>"))
	}))
	defer srv.Close()

	client := NewClient(testLogger(), 5*time.Second)
	body, err := client.FetchHTML(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchHTML failed: %v", err)
	}
	if !strings.Contains(body, "Testvej 1") {
		t.Errorf("unexpected body: %q", body)
	}
}

func TestFetchHTMLStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(testLogger(), 5*time.Second)
	_, err := client.FetchHTML(context.Background(), srv.URL)

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", statusErr.StatusCode)
	}
}

func TestResolveFinalURL(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer target.Close()

	redirector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target.URL+"/bolig/1", http.StatusFound)
	}))
	defer redirector.Close()

	client := NewClient(testLogger(), 5*time.Second)
	final, err := client.ResolveFinalURL(context.Background(), redirector.URL)
	if err != nil {
		t.Fatalf("ResolveFinalURL failed: %v", err)
	}
	if final != target.URL+"/bolig/1" {
		t.Errorf("got %q, want %q", final, target.URL+"/bolig/1")
	}
}

func TestResolveFinalURLStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(testLogger(), 5*time.Second)
	final, err := client.ResolveFinalURL(context.Background(), srv.URL)

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", statusErr.StatusCode)
	}
	if final != "" {
		t.Errorf("expected empty final URL, got %q", final)
	}
}

func TestFetchHTMLContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(testLogger(), 5*time.Second)
	if _, err := client.FetchHTML(ctx, srv.URL); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
