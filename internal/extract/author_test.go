package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gildedpress/luxwire/internal/collector"
)

func ldPage(script string) []byte {
	return []byte(`<html><head><script type="application/ld+json">` + script + `</script></head><body></body></html>`)
}

func TestResolveJSONLDObjectAuthor(t *testing.T) {
	r := NewAuthorResolver()

	ext := collector.Extraction{HTML: ldPage(`{"@type":"NewsArticle","author":{"@type":"Person","name":"Sarah Jordan"}}`)}
	assert.Equal(t, "Sarah Jordan", r.Resolve(ext))
}

func TestResolveJSONLDStringAndListAuthors(t *testing.T) {
	r := NewAuthorResolver()

	ext := collector.Extraction{HTML: ldPage(`{"author":"Rachael Taylor"}`)}
	assert.Equal(t, "Rachael Taylor", r.Resolve(ext))

	ext = collector.Extraction{HTML: ldPage(`[{"@type":"WebPage"},{"author":[{"name":"Milena Lazazzera"}]}]`)}
	assert.Equal(t, "Milena Lazazzera", r.Resolve(ext))
}

func TestResolveSkipsMalformedJSONLD(t *testing.T) {
	r := NewAuthorResolver()

	html := []byte(`<html><head>
<script type="application/ld+json">{not json</script>
<script type="application/ld+json">{"author":{"name":"Annie Davidson"}}</script>
</head><body></body></html>`)
	assert.Equal(t, "Annie Davidson", r.Resolve(collector.Extraction{HTML: html}))
}

func TestResolveFallsBackToExtractedByline(t *testing.T) {
	r := NewAuthorResolver()

	ext := collector.Extraction{Authors: []string{"By Victoria Gomelsky"}}
	assert.Equal(t, "Victoria Gomelsky", r.Resolve(ext))
}

func TestResolveFallsBackToInlineCredit(t *testing.T) {
	r := NewAuthorResolver()

	ext := collector.Extraction{Text: "Exclusive report by Kate Matthams on the Geneva auctions."}
	assert.Equal(t, "Kate Matthams", r.Resolve(ext))
}

func TestResolveIgnoresLowercasePhrases(t *testing.T) {
	r := NewAuthorResolver()

	ext := collector.Extraction{Text: "The piece was inspired by nature and by design choices."}
	assert.Equal(t, collector.UnknownAuthor, r.Resolve(ext))
}

func TestResolveUnknownWhenNothingFound(t *testing.T) {
	r := NewAuthorResolver()
	assert.Equal(t, collector.UnknownAuthor, r.Resolve(collector.Extraction{}))
}
