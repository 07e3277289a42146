package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gildedpress/luxwire/internal/collector"
)

func testRecord(now time.Time) collector.ArticleRecord {
	return collector.ArticleRecord{
		ID:            "f4b0a1de-0000-4000-8000-000000000001",
		Title:         "Cartier unveils new high jewellery collection",
		URL:           "https://example.com/cartier",
		Publication:   "Vogue UK",
		Author:        "Sarah Jordan",
		Published:     now,
		Summary:       "A diamond and sapphire suite.",
		FullText:      "The maison presented...",
		Score:         18.0,
		Keywords:      []string{"cartier", "diamond"},
		ContentLength: 22,
	}
}

func TestAppendArticlesInsertsRows(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewArticleStoreWithPool(mock, "articles")
	require.NoError(t, err)

	now := time.Unix(1700000000, 0).UTC()
	rec := testRecord(now)

	mock.ExpectExec("INSERT INTO articles").
		WithArgs(
			rec.ID,
			rec.Title,
			rec.URL,
			rec.Publication,
			rec.Author,
			rec.Published,
			rec.Summary,
			rec.FullText,
			rec.Score,
			[]byte(`["cartier","diamond"]`),
			rec.ContentLength,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, store.AppendArticles(context.Background(), []collector.ArticleRecord{rec}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendArticlesRequiresID(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewArticleStoreWithPool(mock, "articles")
	require.NoError(t, err)

	rec := testRecord(time.Now())
	rec.ID = ""
	assert.Error(t, store.AppendArticles(context.Background(), []collector.ArticleRecord{rec}))
}

func TestGetRecentArticlesScansRows(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewArticleStoreWithPool(mock, "articles")
	require.NoError(t, err)

	now := time.Unix(1700000000, 0).UTC()
	rec := testRecord(now)

	rows := pgxmock.NewRows([]string{
		"id", "title", "url", "publication", "author", "published_date",
		"summary", "full_content", "relevance_score", "keywords_found", "content_length",
	}).AddRow(
		rec.ID, rec.Title, rec.URL, rec.Publication, rec.Author, rec.Published,
		rec.Summary, rec.FullText, rec.Score, []byte(`["cartier","diamond"]`), rec.ContentLength,
	)
	mock.ExpectQuery("SELECT id, title, url").WithArgs(5).WillReturnRows(rows)

	got, err := store.GetRecentArticles(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, rec, got[0])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPitchingMenuFormatsLines(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewArticleStoreWithPool(mock, "articles")
	require.NoError(t, err)

	rows := pgxmock.NewRows([]string{"title", "publication", "url", "relevance_score"}).
		AddRow("Cartier unveils new high jewellery collection", "Vogue UK", "https://example.com/cartier", 18.0)
	mock.ExpectQuery("SELECT title, publication, url").WillReturnRows(rows)

	menu, err := store.GetPitchingMenu(context.Background())
	require.NoError(t, err)
	require.Len(t, menu, 1)
	assert.Equal(t,
		"Cartier unveils new high jewellery collection [Vogue UK, score 18.0] https://example.com/cartier",
		menu[0])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewArticleStoreWithPoolValidatesTable(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	_, err = NewArticleStoreWithPool(mock, "drop table; --")
	assert.Error(t, err)
	_, err = NewArticleStoreWithPool(nil, "articles")
	assert.Error(t, err)
}
