// Package feed discovers article candidates from RSS and Atom feeds. Feeds
// are the fallback discovery path when a publication has no sitemap, and the
// supplement when a sitemap yields too few candidates.
package feed

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"

	"github.com/gildedpress/luxwire/internal/collector"
	"github.com/gildedpress/luxwire/internal/telemetry"
)

// Config holds the feed resolver tunables.
type Config struct {
	// FetchTimeout bounds a single feed download.
	FetchTimeout time.Duration
	// MinTitleScore is the stage-one admission gate. Entries whose
	// title+URL score falls below it are dropped before any download.
	MinTitleScore float64
}

func (c *Config) defaults() {
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 15 * time.Second
	}
	if c.MinTitleScore <= 0 {
		c.MinTitleScore = 1.0
	}
}

// Resolver downloads feeds through the shared paced fetcher and gates each
// entry on the title scorer.
type Resolver struct {
	cfg     Config
	fetcher collector.Fetcher
	scorer  collector.Scorer
	logger  *zap.Logger
	parser  *gofeed.Parser

	nowFn func() time.Time
}

// NewResolver constructs a Resolver.
func NewResolver(cfg Config, fetcher collector.Fetcher, scorer collector.Scorer, logger *zap.Logger) *Resolver {
	cfg.defaults()
	return &Resolver{
		cfg:     cfg,
		fetcher: fetcher,
		scorer:  scorer,
		logger:  logger,
		parser:  gofeed.NewParser(),
		nowFn:   time.Now,
	}
}

// Resolve downloads one feed and returns the entries that pass the title
// gate. A feed that downloads but does not parse is a parse failure; the
// caller decides whether that sinks the source.
func (r *Resolver) Resolve(ctx context.Context, publication, feedURL string) ([]collector.Candidate, error) {
	res, err := r.fetcher.Fetch(ctx, feedURL, r.cfg.FetchTimeout)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", feedURL, err)
	}

	parsed, err := r.parser.Parse(bytes.NewReader(res.Body))
	if err != nil {
		return nil, &collector.ParseError{URL: feedURL, Err: err}
	}

	out := make([]collector.Candidate, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		title := strings.TrimSpace(item.Title)
		link := strings.TrimSpace(item.Link)
		if link == "" {
			continue
		}

		score, found := r.scorer.TitleScore(title, link)
		if score < r.cfg.MinTitleScore {
			continue
		}

		cand := collector.NewCandidate(publication, link, r.publishedAt(item))
		cand.Title = title
		cand.Score = score
		cand.Keywords = found
		cand.Summary = strings.TrimSpace(item.Description)
		out = append(out, cand)
	}
	telemetry.CountCandidates(publication, "feed", len(out))

	r.logger.Debug("feed resolved",
		zap.String("publication", publication),
		zap.String("feed", feedURL),
		zap.Int("entries", len(parsed.Items)),
		zap.Int("admitted", len(out)))
	return out, nil
}

// ResolveAll unions the candidates of several feeds. A feed that fails is
// logged and skipped; the error is returned only when every feed failed.
func (r *Resolver) ResolveAll(ctx context.Context, publication string, feedURLs []string) ([]collector.Candidate, error) {
	var (
		out     []collector.Candidate
		lastErr error
		failed  int
	)
	for _, feedURL := range feedURLs {
		cands, err := r.Resolve(ctx, publication, feedURL)
		if err != nil {
			failed++
			lastErr = err
			r.logger.Warn("feed failed",
				zap.String("publication", publication),
				zap.String("feed", feedURL),
				zap.Error(err))
			continue
		}
		out = append(out, cands...)
	}
	if len(feedURLs) > 0 && failed == len(feedURLs) {
		return nil, lastErr
	}
	return out, nil
}

func (r *Resolver) publishedAt(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}
	return r.nowFn()
}
