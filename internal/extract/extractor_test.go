package extract

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gildedpress/luxwire/internal/collector"
)

func articleHTML(body string) []byte {
	return []byte(`<!DOCTYPE html>
<html><head>
<title>Cartier unveils new high jewellery collection</title>
<meta name="description" content="The maison presents a diamond and sapphire suite.">
</head><body>
<article>
<h1>Cartier unveils new high jewellery collection</h1>
<p>` + body + `</p>
</article>
</body></html>`)
}

func TestExtractReadableBody(t *testing.T) {
	body := strings.Repeat("The diamond necklace anchors the maison's new high jewellery suite. ", 10)
	ext, err := New().Extract("https://example.com/cartier", articleHTML(body))
	require.NoError(t, err)

	assert.Equal(t, "Cartier unveils new high jewellery collection", ext.Title)
	assert.Contains(t, ext.Text, "diamond necklace")
	assert.NotContains(t, ext.Text, "<p>")
	assert.Equal(t, "The maison presents a diamond and sapphire suite.", ext.MetaDescription)
	assert.NotEmpty(t, ext.HTML)
}

func TestExtractTooShort(t *testing.T) {
	ext, err := New().Extract("https://example.com/stub", articleHTML("Short teaser."))
	require.Error(t, err)
	assert.True(t, errors.Is(err, collector.ErrContentTooShort))
	// The partial extraction still surfaces what was found.
	assert.Equal(t, "Cartier unveils new high jewellery collection", ext.Title)
}

func TestExtractBadURL(t *testing.T) {
	_, err := New().Extract("http://example.com/%zz", articleHTML("x"))
	assert.Error(t, err)
}

func TestExtractNormalizesWhitespace(t *testing.T) {
	body := strings.Repeat("Gold   and\n\nplatinum pieces dominate the autumn jewellery auctions this year. ", 5)
	ext, err := New().Extract("https://example.com/auctions", articleHTML(body))
	require.NoError(t, err)
	assert.NotContains(t, ext.Text, "  ")
	assert.NotContains(t, ext.Text, "\n")
}
