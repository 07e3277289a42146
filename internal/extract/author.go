package extract

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gildedpress/luxwire/internal/collector"
)

// bylineRe matches an inline "By First Last" credit. Requires at least two
// capitalized words so it skips "by design", "by Tuesday" and the like.
var bylineRe = regexp.MustCompile(`\b[Bb]y\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)+)`)

// AuthorResolver resolves the byline for an extracted article. Resolution
// order: JSON-LD structured data, then the readability byline, then an
// inline "By ..." credit.
type AuthorResolver struct{}

// NewAuthorResolver constructs an AuthorResolver.
func NewAuthorResolver() *AuthorResolver {
	return &AuthorResolver{}
}

// Resolve returns the best available author name, or the Unknown sentinel.
func (r *AuthorResolver) Resolve(ext collector.Extraction) string {
	if name := jsonLDAuthor(ext.HTML); name != "" {
		return name
	}
	for _, a := range ext.Authors {
		if name := cleanAuthor(a); name != "" {
			return name
		}
	}
	haystack := ext.Title + "\n" + ext.MetaDescription + "\n" + ext.Text
	if m := bylineRe.FindStringSubmatch(haystack); m != nil {
		return m[1]
	}
	return collector.UnknownAuthor
}

// jsonLDAuthor scans the page's ld+json scripts for an author name.
// Malformed blocks are skipped, not fatal; many pages carry several.
func jsonLDAuthor(html []byte) string {
	if len(html) == 0 {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return ""
	}

	var found string
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var data any
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			return true
		}
		if name := authorFromLD(data); name != "" {
			found = name
			return false
		}
		return true
	})
	return found
}

// authorFromLD walks a decoded JSON-LD value. Handles a top-level object or
// a list of objects, with the author either a string, an object with a
// name, or a list of either.
func authorFromLD(data any) string {
	switch v := data.(type) {
	case []any:
		for _, item := range v {
			if name := authorFromLD(item); name != "" {
				return name
			}
		}
	case map[string]any:
		if author, ok := v["author"]; ok {
			if name := nameFromLD(author); name != "" {
				return name
			}
		}
	}
	return ""
}

func nameFromLD(author any) string {
	switch v := author.(type) {
	case string:
		return cleanAuthor(v)
	case map[string]any:
		if name, ok := v["name"].(string); ok {
			return cleanAuthor(name)
		}
	case []any:
		for _, item := range v {
			if name := nameFromLD(item); name != "" {
				return name
			}
		}
	}
	return ""
}

func cleanAuthor(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "By ")
	s = strings.TrimPrefix(s, "by ")
	return strings.TrimSpace(s)
}
