// Package extract turns downloaded article HTML into clean text plus the
// metadata the scorer and the output records need.
package extract

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"

	"github.com/gildedpress/luxwire/internal/collector"
)

// DefaultMinChars is the shortest extracted body accepted as an article.
// Anything below is a stub page, a paywall teaser, or a block page.
const DefaultMinChars = 150

// Extractor wraps the readability parser behind the collector.Extractor
// interface.
type Extractor struct {
	// MinChars overrides DefaultMinChars when positive.
	MinChars int
}

// New returns an Extractor with the default length floor.
func New() *Extractor {
	return &Extractor{MinChars: DefaultMinChars}
}

// Extract parses the page and returns the readable body. Pages whose body
// falls below the length floor return collector.ErrContentTooShort; the
// partial extraction is still returned so callers can log what was found.
func (e *Extractor) Extract(pageURL string, html []byte) (collector.Extraction, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return collector.Extraction{}, fmt.Errorf("parse url %s: %w", pageURL, err)
	}

	parser := readability.NewParser()
	article, err := parser.Parse(bytes.NewReader(html), parsed)
	if err != nil {
		return collector.Extraction{}, &collector.ParseError{URL: pageURL, Err: err}
	}

	ext := collector.Extraction{
		Title:           strings.TrimSpace(article.Title),
		Text:            normalizeWhitespace(article.TextContent),
		MetaDescription: strings.TrimSpace(article.Excerpt),
		HTML:            html,
	}
	if byline := strings.TrimSpace(article.Byline); byline != "" {
		ext.Authors = []string{byline}
	}

	min := e.MinChars
	if min <= 0 {
		min = DefaultMinChars
	}
	if len(ext.Text) < min {
		return ext, collector.ErrContentTooShort
	}
	return ext, nil
}

// normalizeWhitespace collapses runs of whitespace so length checks and
// keyword matching see the prose, not the layout.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
