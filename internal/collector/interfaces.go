package collector

import (
	"context"
	"time"
)

// Fetcher performs one paced, identity-rotated HTTP GET. Implementations
// classify failures via the error taxonomy in errors.go and never retry
// non-200 responses.
type Fetcher interface {
	Fetch(ctx context.Context, url string, timeout time.Duration) (FetchResult, error)
}

// SitemapResolver expands a sitemap (index or urlset) into flat entries.
type SitemapResolver interface {
	Resolve(ctx context.Context, sitemapURL string) ([]SitemapEntry, error)
}

// FeedResolver parses one syndication feed into title-gated candidates.
type FeedResolver interface {
	Resolve(ctx context.Context, publication, feedURL string) ([]Candidate, error)
}

// Extractor turns a fetched HTML body into structured article content.
type Extractor interface {
	Extract(url string, html []byte) (Extraction, error)
}

// AuthorResolver determines a byline for an extracted article.
type AuthorResolver interface {
	Resolve(ext Extraction) string
}

// Scorer is the two-stage keyword relevance scorer.
type Scorer interface {
	TitleScore(title, url string) (float64, []string)
	ContentScore(title, content string) (float64, []string)
	PassesDomainValidation(title, content string) bool
}

// URLFilter is the cheap lexical pre-filter applied to sitemap URLs.
type URLFilter interface {
	IsRelevant(url string) bool
}

// ArticleStore is the downstream datastore contract. The pipeline only
// produces records; storage technology is a deployment concern.
type ArticleStore interface {
	AppendArticles(ctx context.Context, records []ArticleRecord) error
	GetRecentArticles(ctx context.Context, limit int) ([]ArticleRecord, error)
	GetPitchingMenu(ctx context.Context) ([]string, error)
}

// Publisher hands a completed run off to downstream pipeline steps.
type Publisher interface {
	Publish(ctx context.Context, payload any) (string, error)
}

// ResultSink archives run output (the JSON record dump) and returns a URI.
type ResultSink interface {
	Put(ctx context.Context, path, contentType string, data []byte) (string, error)
}
