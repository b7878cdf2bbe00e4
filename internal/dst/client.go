// Package dst is a client for the Danmarks Statistik (DST) statbank API.
package dst

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultBaseURL is the public statbank endpoint.
const DefaultBaseURL = "https://api.statbank.dk/v1"

// Data requests can return large tables, so they get a longer timeout
// than the metadata endpoints.
const dataTimeout = 60 * time.Second

// VariableSelection picks values for one table variable. Use ["*"] to
// select all values.
type VariableSelection struct {
	Code   string   `json:"code"`
	Values []string `json:"values"`
}

// SubjectsParams filters the subject hierarchy query.
type SubjectsParams struct {
	Subjects  []string `json:"subjects,omitempty"`
	Recursive bool     `json:"recursive"`
	Lang      string   `json:"lang"`
	Format    string   `json:"format"`
}

// TablesParams filters the table listing query.
type TablesParams struct {
	Subjects        []string `json:"subjects,omitempty"`
	PastDays        int      `json:"pastDays,omitempty"`
	IncludeInactive bool     `json:"includeInactive"`
	Lang            string   `json:"lang"`
	Format          string   `json:"format"`
}

type tableInfoParams struct {
	Table  string `json:"table"`
	Lang   string `json:"lang"`
	Format string `json:"format"`
}

type dataParams struct {
	Table     string              `json:"table"`
	Format    string              `json:"format"`
	Lang      string              `json:"lang"`
	Variables []VariableSelection `json:"variables"`
}

// APIError is a non-2xx response from the DST API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("DST API request failed: %d", e.StatusCode)
}

// Client calls the DST statbank API.
type Client struct {
	logger  *slog.Logger
	client  *http.Client
	baseURL string
}

// NewClient creates a DST client. Pass DefaultBaseURL outside tests.
func NewClient(logger *slog.Logger, baseURL string) *Client {
	return &Client{
		logger:  logger,
		client:  &http.Client{Timeout: dataTimeout},
		baseURL: baseURL,
	}
}

// Subjects retrieves subject categories, optionally scoped to parents.
func (c *Client) Subjects(ctx context.Context, params SubjectsParams) (string, error) {
	if params.Lang == "" {
		params.Lang = "en"
	}
	params.Format = "JSON"
	return c.post(ctx, "/subjects", params)
}

// Tables retrieves the table listing, optionally filtered by subject
// and update recency.
func (c *Client) Tables(ctx context.Context, params TablesParams) (string, error) {
	if params.Lang == "" {
		params.Lang = "en"
	}
	params.Format = "JSON"
	return c.post(ctx, "/tables", params)
}

// TableInfo retrieves metadata for one table: variables, values and
// available time periods.
func (c *Client) TableInfo(ctx context.Context, tableID, lang string) (string, error) {
	if lang == "" {
		lang = "en"
	}
	return c.post(ctx, "/tableinfo", tableInfoParams{Table: tableID, Lang: lang, Format: "JSON"})
}

// Data retrieves table data for the given variable selections.
func (c *Client) Data(ctx context.Context, tableID, format, lang string, variables []VariableSelection) (string, error) {
	if lang == "" {
		lang = "en"
	}
	if format == "" {
		format = "JSONSTAT"
	}
	return c.post(ctx, "/data", dataParams{Table: tableID, Format: format, Lang: lang, Variables: variables})
}

func (c *Client) post(ctx context.Context, path string, payload any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding DST request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building DST request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling DST API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading DST response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	c.logger.Debug("DST request completed", "path", path, "status", resp.StatusCode, "bytes", len(respBody))
	return string(respBody), nil
}
