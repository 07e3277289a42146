package relevance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestURLFilterKeywordMatch(t *testing.T) {
	f := NewURLFilter(Keywords{}, nil)

	assert.True(t, f.IsRelevant("https://www.vogue.co.uk/article/diamond-season"))
	assert.True(t, f.IsRelevant("https://example.com/JEWELLERY/new-collection"))
	assert.False(t, f.IsRelevant("https://example.com/sport/football-results"))
}

func TestURLFilterDenylistWinsOverKeywords(t *testing.T) {
	f := NewURLFilter(Keywords{}, DefaultDenylist())

	// The diamonds-gems section page contains "diamond" but is a category
	// index, not an article.
	assert.False(t, f.IsRelevant("https://nationaljeweler.com/diamonds-gems"))
	assert.True(t, f.IsRelevant("https://nationaljeweler.com/diamonds-gems/cartier-unveils-diamond-suite"))
}

func TestURLFilterDenylistTrailingSlash(t *testing.T) {
	f := NewURLFilter(Keywords{}, []string{"https://example.com/style"})

	assert.False(t, f.IsRelevant("https://example.com/style"))
	assert.False(t, f.IsRelevant("https://example.com/style/"))
}
