package urlutil

import (
	"testing"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases scheme and host", "HTTPS://WWW.Home.DK/Bolig/123", "https://www.home.dk/bolig/123"},
		{"strips query and fragment", "https://www.boligsiden.dk/adresse/x?udbud=abc#top", "https://www.boligsiden.dk/adresse/x"},
		{"strips default https port", "https://www.edc.dk:443/bolig/1", "https://www.edc.dk/bolig/1"},
		{"strips default http port", "http://www.edc.dk:80/bolig/1", "http://www.edc.dk/bolig/1"},
		{"keeps explicit port", "https://www.edc.dk:8443/bolig/1", "https://www.edc.dk:8443/bolig/1"},
		{"strips trailing slash", "https://www.danbolig.dk/bolig/1/", "https://www.danbolig.dk/bolig/1"},
		{"keeps root path", "https://www.danbolig.dk/", "https://www.danbolig.dk/"},
		{"empty input", "", ""},
		{"no scheme", "www.home.dk/bolig/123", ""},
		{"garbage", "not a url", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeURL(tt.in); got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.boligsiden.dk/adresse/x", "boligsiden.dk"},
		{"https://home.dk/bolig/1", "home.dk"},
		{"HTTPS://WWW.EDC.DK/", "edc.dk"},
		{"https://sub.nybolig.dk/a", "sub.nybolig.dk"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ExtractDomain(tt.in); got != tt.want {
			t.Errorf("ExtractDomain(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStripWWW(t *testing.T) {
	if got := StripWWW("https://www.home.dk/bolig/1"); got != "https://home.dk/bolig/1" {
		t.Errorf("unexpected result: %q", got)
	}
	if got := StripWWW("https://home.dk/bolig/1"); got != "https://home.dk/bolig/1" {
		t.Errorf("expected unchanged URL, got %q", got)
	}
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		relative string
		want     string
	}{
		{"relative path", "https://www.home.dk/bolig/1", "/images/foto.jpg", "https://www.home.dk/images/foto.jpg"},
		{"absolute relative wins", "https://www.home.dk/", "https://cdn.home.dk/x.jpg", "https://cdn.home.dk/x.jpg"},
		{"empty relative returns base", "https://www.home.dk/", "", "https://www.home.dk/"},
		{"empty base returns relative", "", "/images/foto.jpg", "/images/foto.jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveURL(tt.base, tt.relative); got != tt.want {
				t.Errorf("ResolveURL(%q, %q) = %q, want %q", tt.base, tt.relative, got, tt.want)
			}
		})
	}
}

func TestIsAbsoluteURL(t *testing.T) {
	if !IsAbsoluteURL("https://www.home.dk/bolig/1") {
		t.Error("expected absolute")
	}
	if IsAbsoluteURL("/bolig/1") {
		t.Error("expected relative")
	}
	if IsAbsoluteURL("") {
		t.Error("expected empty to be non-absolute")
	}
}

func TestValidateListingURL(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr string
	}{
		{"empty", "", MsgMissingLink},
		{"boligsiden with udbud", "https://www.boligsiden.dk/adresse/testvej-1?udbud=abc-123", ""},
		{"boligsiden without udbud", "https://www.boligsiden.dk/adresse/testvej-1", MsgMissingUdbudID},
		{"boligsiden with empty udbud", "https://boligsiden.dk/bolig?udbud=", MsgMissingUdbudID},
		{"viewpage is not for sale", "https://www.boligsiden.dk/ViewPage/salg.aspx?udbud=abc", MsgNotForSale},
		{"supported portal", "https://www.home.dk/bolig/123", ""},
		{"supported without www", "https://edc.dk/bolig/123", ""},
		{"unsupported portal", "https://www.dba.dk/bolig/123", MsgUnsupportedPortal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateListingURL(tt.in)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if err.Error() != tt.wantErr {
				t.Errorf("got %q, want %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestUdbudID(t *testing.T) {
	if got := UdbudID("https://www.boligsiden.dk/adresse/x?udbud=abc-123"); got != "abc-123" {
		t.Errorf("got %q", got)
	}
	if got := UdbudID("https://www.boligsiden.dk/adresse/x"); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}
