// Package collector defines the core types shared across the collection pipeline.
package collector

import (
	"net/http"
	"time"
)

// UnknownAuthor is the sentinel byline used until author resolution succeeds.
const UnknownAuthor = "Unknown"

// SourceConfig describes one publication. The table is loaded once at startup
// and never mutated afterwards.
type SourceConfig struct {
	Name       string   `mapstructure:"name" json:"name"`
	BaseURL    string   `mapstructure:"base_url" json:"base_url"`
	FeedURLs   []string `mapstructure:"feed_urls" json:"feed_urls"`
	SitemapURL string   `mapstructure:"sitemap_url" json:"sitemap_url"`
}

// HasSitemap reports whether the source has a sitemap configured.
func (s SourceConfig) HasSitemap() bool {
	return s.SitemapURL != ""
}

// Candidate is a discovered URL plus progressively enriched metadata. The
// title and full text stay empty for sitemap-sourced candidates until the
// content stage fills them in.
type Candidate struct {
	Title       string
	URL         string
	Publication string
	Published   time.Time
	Summary     string
	Author      string
	Score       float64
	Keywords    []string
	FullText    string
}

// NewCandidate builds a Candidate with the author sentinel set.
func NewCandidate(publication, url string, published time.Time) Candidate {
	return Candidate{
		URL:         url,
		Publication: publication,
		Published:   published,
		Author:      UnknownAuthor,
	}
}

// SitemapEntry is a single (url, lastmod) pair discovered from a sitemap.
type SitemapEntry struct {
	URL     string
	LastMod time.Time
}

// SourceResult is one publication's contribution to a collection run.
type SourceResult struct {
	Publication string
	Articles    []Candidate
}

// CollectionResult is the ordered per-publication output of a run.
type CollectionResult struct {
	RunID    string
	Started  time.Time
	Finished time.Time
	Sources  []SourceResult
}

// Records flattens the result into the output record schema consumed by the
// datastore and any downstream pipeline step.
func (r CollectionResult) Records() []ArticleRecord {
	var out []ArticleRecord
	for _, src := range r.Sources {
		for _, c := range src.Articles {
			out = append(out, RecordFromCandidate(c))
		}
	}
	return out
}

// ArticleRecord is the persisted shape of a retained candidate.
type ArticleRecord struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	URL           string    `json:"url"`
	Publication   string    `json:"publication"`
	Author        string    `json:"author"`
	Published     time.Time `json:"published_date"`
	Summary       string    `json:"summary"`
	FullText      string    `json:"full_content"`
	Score         float64   `json:"relevance_score"`
	Keywords      []string  `json:"keywords_found"`
	ContentLength int       `json:"content_length"`
}

// RecordFromCandidate converts a selected candidate into its output record.
// The ID is assigned by the pipeline when the run result is assembled.
func RecordFromCandidate(c Candidate) ArticleRecord {
	return ArticleRecord{
		Title:         c.Title,
		URL:           c.URL,
		Publication:   c.Publication,
		Author:        c.Author,
		Published:     c.Published,
		Summary:       c.Summary,
		FullText:      c.FullText,
		Score:         c.Score,
		Keywords:      c.Keywords,
		ContentLength: len(c.FullText),
	}
}

// FetchResult is the successful outcome of a single HTTP fetch.
type FetchResult struct {
	URL        string
	StatusCode int
	Headers    http.Header
	Body       []byte
	Duration   time.Duration
	Insecure   bool // true when the relaxed-TLS retry produced the body
	Rendered   bool // true when a headless browser produced the body
}

// Extraction is the structured output of the content-extraction collaborator.
type Extraction struct {
	Title           string
	Authors         []string
	Text            string
	MetaDescription string
	HTML            []byte
}
