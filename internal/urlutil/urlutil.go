// Package urlutil normalizes, resolves and validates listing URLs.
package urlutil

import (
	"net/url"
	"strings"
)

// NormalizeURL canonicalizes a URL for deduplication: lowercase scheme,
// host and path, default ports removed, query and fragment dropped.
// Returns an empty string for anything that is not an absolute URL.
func NormalizeURL(raw string) string {
	if raw == "" {
		return ""
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return ""
	}

	scheme := strings.ToLower(parsed.Scheme)
	host := strings.ToLower(parsed.Host)

	if scheme == "http" {
		host = strings.TrimSuffix(host, ":80")
	} else if scheme == "https" {
		host = strings.TrimSuffix(host, ":443")
	}

	path := strings.ToLower(parsed.Path)
	if path != "/" {
		// Trailing slash carries no meaning on listing pages
		path = strings.TrimSuffix(path, "/")
	}

	return scheme + "://" + host + path
}

// ExtractDomain returns the lowercase hostname of a URL with any
// leading "www." stripped. Returns an empty string if the URL has no
// usable hostname.
func ExtractDomain(raw string) string {
	if raw == "" {
		return ""
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := strings.ToLower(parsed.Hostname())
	if after, ok := strings.CutPrefix(host, "www."); ok && after != "" {
		host = after
	}
	return host
}

// StripWWW removes a leading "www." from the host of an absolute URL,
// leaving the rest of the URL untouched.
func StripWWW(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return raw
	}
	if after, ok := strings.CutPrefix(parsed.Host, "www."); ok && after != "" {
		parsed.Host = after
		return parsed.String()
	}
	return raw
}

// IsAbsoluteURL reports whether a URL has both a scheme and a host.
func IsAbsoluteURL(raw string) bool {
	if raw == "" {
		return false
	}
	parsed, err := url.Parse(raw)
	return err == nil && parsed.Scheme != "" && parsed.Host != ""
}

// ResolveURL resolves a possibly relative URL against a base. An empty
// relative URL yields the base; an empty base yields the relative URL
// unchanged. Returns an empty string when resolution cannot produce an
// absolute URL.
func ResolveURL(base, relative string) string {
	if relative == "" {
		return base
	}
	if base == "" {
		return relative
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return ""
	}
	relURL, err := url.Parse(relative)
	if err != nil {
		return ""
	}

	resolved := baseURL.ResolveReference(relURL)
	if resolved.Scheme == "" || resolved.Host == "" {
		return ""
	}
	return resolved.String()
}
