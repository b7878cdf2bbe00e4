package provider

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/joakiti/boliganalyse-ai-server/internal/htmlutil"
)

// JSONLDProvider handles any page that embeds JSON-LD structured data.
// The structured data plus the page text together give the analyzer a
// much richer view than the text alone.
type JSONLDProvider struct {
	logger *slog.Logger
}

// NewJSONLDProvider creates the JSON-LD provider.
func NewJSONLDProvider(logger *slog.Logger) *JSONLDProvider {
	return &JSONLDProvider{logger: logger}
}

func (p *JSONLDProvider) Name() string {
	return "JSON-LD Provider"
}

// CanHandle matches on content, not domain: any page with at least one
// ld+json script block qualifies.
func (p *JSONLDProvider) CanHandle(_, htmlContent string) bool {
	if htmlContent == "" {
		return false
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return false
	}
	return doc.Find(`script[type="application/ld+json"]`).Length() > 0
}

func (p *JSONLDProvider) Parse(_ context.Context, url, htmlContent string) (*ParseResult, error) {
	blocks := p.extractBlocks(htmlContent)
	text := htmlutil.ExtractText(htmlContent)

	jsonLD, err := json.MarshalIndent(blocks, "", "  ")
	if err != nil {
		jsonLD = []byte("[]")
	}

	return &ParseResult{
		// Pages carrying JSON-LD are usually the realtor's own
		OriginalLink:  url,
		ExtractedText: "JSON-LD Data:\n" + string(jsonLD) + "\n\nExtracted Page Text:\n" + text,
		ImageURL:      p.extractImageURL(url, htmlContent, blocks),
	}, nil
}

// extractBlocks collects every JSON-LD object on the page, flattening
// top-level arrays.
func (p *JSONLDProvider) extractBlocks(htmlContent string) []any {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil
	}

	blocks := []any{}
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return
		}
		var data any
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			p.logger.Warn("failed to parse JSON-LD block", "error", err)
			return
		}
		if list, ok := data.([]any); ok {
			blocks = append(blocks, list...)
		} else {
			blocks = append(blocks, data)
		}
	})
	return blocks
}

// extractImageURL looks for an image in the JSON-LD data first, then
// falls back to the generic page heuristics.
func (p *JSONLDProvider) extractImageURL(url, htmlContent string, blocks []any) string {
	for _, block := range blocks {
		item, ok := block.(map[string]any)
		if !ok {
			continue
		}
		if img := imageFromJSONLD(item); img != "" {
			return img
		}
	}
	return htmlutil.ExtractFirstImageURL(htmlContent, url)
}

func imageFromJSONLD(item map[string]any) string {
	switch image := item["image"].(type) {
	case string:
		if strings.HasPrefix(image, "http") {
			return image
		}
	case []any:
		if len(image) > 0 {
			if first, ok := image[0].(string); ok && strings.HasPrefix(first, "http") {
				return first
			}
		}
	}

	// Product/Offer schemas nest the image under offers.itemOffered
	if offers, ok := item["offers"].(map[string]any); ok {
		if offered, ok := offers["itemOffered"].(map[string]any); ok {
			if img, ok := offered["image"].(string); ok && strings.HasPrefix(img, "http") {
				return img
			}
		}
	}
	return ""
}
