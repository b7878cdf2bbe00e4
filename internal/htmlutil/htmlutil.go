// Package htmlutil extracts readable text and images from listing pages.
package htmlutil

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/joakiti/boliganalyse-ai-server/internal/urlutil"
)

// Tags whose content never carries listing text. Nav and footer stay in
// since portals put address and realtor details there.
var textIgnoreTags = []string{"script", "style", "noscript", "iframe", "header"}

// Substrings that mark an img src as chrome rather than a property photo.
var imageDenylist = []string{
	".svg", "base64,", "logo", "icon", "avatar", "spinner", "loading", "placeholder",
}

// ExtractText returns the readable text of an HTML document: the title,
// the meta description and the visible body text, whitespace-collapsed
// into a single line.
func ExtractText(htmlContent string) string {
	if htmlContent == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return ""
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	metaDesc, _ := doc.Find(`meta[name="description"]`).First().Attr("content")
	metaDesc = strings.TrimSpace(metaDesc)

	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}
	body.Find(strings.Join(textIgnoreTags, ", ")).Remove()

	var sb strings.Builder
	for _, node := range body.Nodes {
		collectText(node, &sb)
	}

	parts := make([]string, 0, 3)
	for _, part := range []string{title, metaDesc, sb.String()} {
		if part != "" {
			parts = append(parts, part)
		}
	}

	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// collectText walks text nodes only, which skips comments and other
// non-content node types.
func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		if text := strings.TrimSpace(n.Data); text != "" {
			sb.WriteString(text)
			sb.WriteByte(' ')
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}

// ExtractFirstImageURL finds the most likely property photo: og:image
// first, then twitter:image, then the first img tag whose resolved src
// is not obviously page chrome. Relative srcs resolve against baseURL.
// Returns an empty string when nothing suitable is found.
func ExtractFirstImageURL(htmlContent, baseURL string) string {
	if htmlContent == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return ""
	}

	var found string
	doc.Find("meta[property]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		prop, _ := s.Attr("property")
		content, _ := s.Attr("content")
		if strings.EqualFold(prop, "og:image") && content != "" {
			found = urlutil.ResolveURL(baseURL, content)
			return false
		}
		return true
	})
	if found != "" {
		return found
	}

	doc.Find("meta[name]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		name, _ := s.Attr("name")
		content, _ := s.Attr("content")
		lower := strings.ToLower(name)
		if (lower == "twitter:image" || lower == "twitter:image:src") && content != "" {
			found = urlutil.ResolveURL(baseURL, content)
			return false
		}
		return true
	})
	if found != "" {
		return found
	}

	doc.Find("img").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src, _ := s.Attr("src")
		if src == "" {
			return true
		}
		resolved := urlutil.ResolveURL(baseURL, src)
		if IsLikelyPropertyImage(resolved) {
			found = resolved
			return false
		}
		return true
	})

	return found
}

// IsLikelyPropertyImage reports whether a resolved image URL looks like
// a content photo rather than an icon, logo or loading placeholder.
func IsLikelyPropertyImage(resolved string) bool {
	if resolved == "" || !strings.HasPrefix(resolved, "http") {
		return false
	}
	lower := strings.ToLower(resolved)
	for _, marker := range imageDenylist {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	return true
}
