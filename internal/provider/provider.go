// Package provider extracts listing content per portal. Each provider
// knows one portal's markup quirks; a registry picks the first one that
// can handle a given URL and document.
package provider

import (
	"context"
	"errors"
)

// ErrNoProvider is returned when no registered provider can handle a
// URL and its content.
var ErrNoProvider = errors.New("no provider can handle this listing")

// ParseResult is the extracted content of one listing page.
type ParseResult struct {
	// OriginalLink points at the realtor's own listing when the input
	// URL was an aggregator page. Empty when the input is the source.
	OriginalLink string

	// ExtractedText is the cleaned page text handed to the analyzer.
	ExtractedText string

	// ImageURL is the best property photo candidate, if any.
	ImageURL string
}

// Provider handles one portal or one extraction mechanism.
type Provider interface {
	// Name identifies the provider in logs.
	Name() string

	// CanHandle reports whether this provider applies to the URL and,
	// for content-sniffing providers, the fetched HTML.
	CanHandle(url, htmlContent string) bool

	// Parse extracts text, a property image and possibly the original
	// source link from the page.
	Parse(ctx context.Context, url, htmlContent string) (*ParseResult, error)
}
