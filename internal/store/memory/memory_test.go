package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gildedpress/luxwire/internal/collector"
)

func rec(id, url string, published time.Time, score float64) collector.ArticleRecord {
	return collector.ArticleRecord{
		ID: id, Title: "t-" + id, URL: url,
		Publication: "Pub", Published: published, Score: score,
	}
}

func TestAppendSkipsDuplicateURLs(t *testing.T) {
	s := New()
	now := time.Now()

	require.NoError(t, s.AppendArticles(context.Background(), []collector.ArticleRecord{
		rec("1", "https://example.com/a", now, 5),
	}))
	require.NoError(t, s.AppendArticles(context.Background(), []collector.ArticleRecord{
		rec("2", "https://example.com/a", now, 9),
		rec("3", "https://example.com/b", now, 1),
	}))
	assert.Equal(t, 2, s.Len())
}

func TestGetRecentArticlesNewestFirst(t *testing.T) {
	s := New()
	base := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.AppendArticles(context.Background(), []collector.ArticleRecord{
		rec("1", "https://example.com/old", base, 5),
		rec("2", "https://example.com/new", base.Add(48*time.Hour), 5),
		rec("3", "https://example.com/mid", base.Add(24*time.Hour), 5),
	}))

	got, err := s.GetRecentArticles(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "https://example.com/new", got[0].URL)
	assert.Equal(t, "https://example.com/mid", got[1].URL)
}

func TestGetPitchingMenuWindowAndOrder(t *testing.T) {
	s := New()
	now := time.Date(2025, 8, 20, 12, 0, 0, 0, time.UTC)
	s.nowFn = func() time.Time { return now }

	require.NoError(t, s.AppendArticles(context.Background(), []collector.ArticleRecord{
		rec("1", "https://example.com/stale", now.Add(-8*24*time.Hour), 99),
		rec("2", "https://example.com/low", now.Add(-time.Hour), 2),
		rec("3", "https://example.com/high", now.Add(-2*time.Hour), 10),
	}))

	menu, err := s.GetPitchingMenu(context.Background())
	require.NoError(t, err)
	require.Len(t, menu, 2)
	assert.Contains(t, menu[0], "https://example.com/high")
	assert.Contains(t, menu[1], "https://example.com/low")
}
