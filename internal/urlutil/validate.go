package urlutil

import (
	"net/url"
	"strings"
)

// SupportedDomains is the whitelist of Danish real estate portals the
// service accepts, compared without a "www." prefix.
var SupportedDomains = []string{
	// Major aggregators
	"boligsiden.dk",

	// Major real estate chains
	"home.dk",
	"nybolig.dk",
	"edc.dk",
	"danbolig.dk",
	"estate.dk",
	"realmaeglerne.dk",

	// Rental properties
	"lejebolig.dk",
	"boligportal.dk",

	// Other real estate agencies
	"lokalbolig.dk",
	"boligone.dk",
	"1848.dk",
	"dinmaegler.dk",
	"lilholts.dk",
	"coldwellbanker.dk",
}

// User-facing validation messages, in Danish like the rest of the API.
const (
	MsgMissingLink       = "Link er ikke angivet"
	MsgInvalidLink       = "Linket er ugyldigt"
	MsgMissingUdbudID    = "Linket skal indeholde en udbuds-ID (udbud=...)"
	MsgNotForSale        = "Linket ser ud til at være en bolig der ikke er til salg."
	MsgUnsupportedPortal = "Linket skal være fra en understøttet boligportal. Se listen over understøttede portaler på forsiden."
)

// ValidationError is a rejected listing URL with a user-facing message.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateListingURL checks that a URL points at a sale listing on a
// supported portal. The returned error is always a *ValidationError
// whose message is safe to show to the user.
func ValidateListingURL(raw string) error {
	if raw == "" {
		return &ValidationError{Message: MsgMissingLink}
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return &ValidationError{Message: MsgInvalidLink}
	}

	// "ViewPage" paths are sold or delisted properties
	if strings.Contains(strings.ToLower(parsed.Path), "viewpage") {
		return &ValidationError{Message: MsgNotForSale}
	}

	domain := ExtractDomain(raw)
	if domain == "" {
		return &ValidationError{Message: MsgInvalidLink}
	}

	// Boligsiden aggregates other portals, so its links need an offer ID
	// we can follow to the underlying listing.
	if domain == "boligsiden.dk" {
		if parsed.Query().Get("udbud") == "" {
			return &ValidationError{Message: MsgMissingUdbudID}
		}
		return nil
	}

	for _, supported := range SupportedDomains {
		if domain == supported {
			return nil
		}
	}
	return &ValidationError{Message: MsgUnsupportedPortal}
}

// UdbudID returns the udbud query parameter of a boligsiden link.
func UdbudID(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return parsed.Query().Get("udbud")
}
