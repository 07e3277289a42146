// Package pipeline runs the collection state machine: discover candidates
// per source, download and score their content, and keep the top articles.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gildedpress/luxwire/internal/collector"
	"github.com/gildedpress/luxwire/internal/progress"
	"github.com/gildedpress/luxwire/internal/telemetry"
)

// Config holds the run-level tunables.
type Config struct {
	// TopK is how many articles each source contributes (default 3).
	TopK int
	// MinSitemapCandidates triggers the feed supplement when a sitemap
	// yields fewer candidates (default 10).
	MinSitemapCandidates int
	// MaxDownloads caps content downloads per source (default 100).
	MaxDownloads int
	// FetchTimeout bounds a single article download (default 10s).
	FetchTimeout time.Duration
	// SourcePauseMin/Max bracket the randomized pause between sources
	// (defaults 3s and 6s).
	SourcePauseMin time.Duration
	SourcePauseMax time.Duration
	// HeadlessEnabled turns on browser promotion for blocked pages.
	HeadlessEnabled bool
}

func (c *Config) defaults() {
	if c.TopK <= 0 {
		c.TopK = 3
	}
	if c.MinSitemapCandidates <= 0 {
		c.MinSitemapCandidates = 10
	}
	if c.MaxDownloads <= 0 {
		c.MaxDownloads = 100
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 10 * time.Second
	}
	if c.SourcePauseMin <= 0 {
		c.SourcePauseMin = 3 * time.Second
	}
	if c.SourcePauseMax <= c.SourcePauseMin {
		c.SourcePauseMax = c.SourcePauseMin + 3*time.Second
	}
}

// PromotionDetector decides whether a fetched page looks blocked and is
// worth re-fetching through the headless renderer.
type PromotionDetector interface {
	ShouldPromote(res collector.FetchResult) bool
}

// Deps are the pipeline collaborators. Sitemaps and feeds discover,
// the fetcher and extractor download and clean, the scorer ranks.
type Deps struct {
	Fetcher  collector.Fetcher
	Headless collector.Fetcher
	Detector PromotionDetector
	Sitemaps collector.SitemapResolver
	Feeds    collector.FeedResolver
	Extract  collector.Extractor
	Authors  collector.AuthorResolver
	Scorer   collector.Scorer
	Filter   collector.URLFilter
	Emitter  progress.Emitter
	Logger   *zap.Logger
}

// Orchestrator drives a run across the configured sources sequentially.
// Sequential on purpose: parallel sources multiply the request rate per
// run and defeat the pacing profile.
type Orchestrator struct {
	cfg  Config
	deps Deps

	nowFn   func() time.Time
	pauseFn func(ctx context.Context, d time.Duration)
	randFn  func() float64
	newID   func() uuid.UUID
}

// New constructs an Orchestrator.
func New(cfg Config, deps Deps) *Orchestrator {
	cfg.defaults()
	if deps.Emitter == nil {
		deps.Emitter = progress.NopEmitter{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Orchestrator{
		cfg:  cfg,
		deps: deps,
		nowFn: func() time.Time {
			return time.Now().UTC()
		},
		pauseFn: func(ctx context.Context, d time.Duration) {
			t := time.NewTimer(d)
			defer t.Stop()
			select {
			case <-t.C:
			case <-ctx.Done():
			}
		},
		randFn: rand.Float64,
		newID:  uuid.New,
	}
}

// Run collects the configured sources in order. A source failure is logged
// and skipped; only an empty source list or a canceled context is fatal.
func (o *Orchestrator) Run(ctx context.Context, sources []collector.SourceConfig) (collector.CollectionResult, error) {
	if len(sources) == 0 {
		return collector.CollectionResult{}, collector.ErrNoSources
	}

	runID := o.newID()
	result := collector.CollectionResult{
		RunID:   runID.String(),
		Started: o.nowFn(),
	}
	o.emit(progress.Event{RunID: runID, TS: result.Started, Stage: progress.StageRunStart})

	selected := 0
	for i, src := range sources {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		o.emit(progress.Event{RunID: runID, TS: o.nowFn(), Stage: progress.StageSourceStart, Publication: src.Name})
		srcStart := o.nowFn()

		articles, candidates, err := o.collectSource(ctx, src)
		if err != nil {
			o.deps.Logger.Warn("source failed",
				zap.String("publication", src.Name),
				zap.Error(err))
			o.emit(progress.Event{
				RunID: runID, TS: o.nowFn(), Stage: progress.StageSourceError,
				Publication: src.Name, Note: err.Error(),
			})
		} else {
			result.Sources = append(result.Sources, collector.SourceResult{
				Publication: src.Name,
				Articles:    articles,
			})
			selected += len(articles)
			telemetry.CountSelected(src.Name, len(articles))
			for _, a := range articles {
				o.emit(progress.Event{
					RunID: runID, TS: o.nowFn(), Stage: progress.StageArticleKept,
					Publication: src.Name, URL: a.URL, Score: a.Score,
				})
			}
			o.emit(progress.Event{
				RunID: runID, TS: o.nowFn(), Stage: progress.StageSourceDone,
				Publication: src.Name, Candidates: candidates,
				Selected: len(articles), Dur: o.nowFn().Sub(srcStart),
			})
		}

		if i < len(sources)-1 {
			span := o.cfg.SourcePauseMax - o.cfg.SourcePauseMin
			o.pauseFn(ctx, o.cfg.SourcePauseMin+time.Duration(o.randFn()*float64(span)))
		}
	}

	result.Finished = o.nowFn()
	telemetry.ObserveRunDuration(result.Finished.Sub(result.Started))
	o.emit(progress.Event{
		RunID: runID, TS: result.Finished, Stage: progress.StageRunDone,
		Selected: selected, Dur: result.Finished.Sub(result.Started),
	})
	return result, nil
}

// collectSource runs one publication through discovery, content scoring,
// and selection. Returns the kept articles and the candidate count.
func (o *Orchestrator) collectSource(ctx context.Context, src collector.SourceConfig) ([]collector.Candidate, int, error) {
	candidates, err := o.discover(ctx, src)
	if err != nil {
		return nil, 0, err
	}
	candidates = collector.DedupeByURL(candidates)
	telemetry.CountCandidates(src.Name, "merged", len(candidates))

	scored := o.downloadAndScore(ctx, src, candidates)
	return collector.SelectTopK(scored, o.cfg.TopK), len(candidates), nil
}

// discover builds the candidate list: sitemap first when the source has
// one, feeds as fallback and as supplement when the sitemap runs thin.
func (o *Orchestrator) discover(ctx context.Context, src collector.SourceConfig) ([]collector.Candidate, error) {
	var candidates []collector.Candidate

	if src.HasSitemap() {
		entries, err := o.deps.Sitemaps.Resolve(ctx, src.SitemapURL)
		if err != nil {
			o.deps.Logger.Warn("sitemap failed, falling back to feeds",
				zap.String("publication", src.Name),
				zap.Error(err))
		} else {
			for _, e := range entries {
				if !o.deps.Filter.IsRelevant(e.URL) {
					continue
				}
				candidates = append(candidates, collector.NewCandidate(src.Name, e.URL, e.LastMod))
			}
			telemetry.CountCandidates(src.Name, "sitemap", len(candidates))
		}
	}

	if len(candidates) < o.cfg.MinSitemapCandidates && len(src.FeedURLs) > 0 {
		fromFeeds, err := o.resolveFeeds(ctx, src)
		if err != nil {
			if len(candidates) == 0 {
				return nil, err
			}
			o.deps.Logger.Warn("feed supplement failed",
				zap.String("publication", src.Name),
				zap.Error(err))
		}
		candidates = append(candidates, fromFeeds...)
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("publication %s: no candidates discovered", src.Name)
	}
	return candidates, nil
}

func (o *Orchestrator) resolveFeeds(ctx context.Context, src collector.SourceConfig) ([]collector.Candidate, error) {
	var (
		out     []collector.Candidate
		lastErr error
		failed  int
	)
	for _, feedURL := range src.FeedURLs {
		cands, err := o.deps.Feeds.Resolve(ctx, src.Name, feedURL)
		if err != nil {
			failed++
			lastErr = err
			continue
		}
		out = append(out, cands...)
	}
	if failed == len(src.FeedURLs) && failed > 0 {
		return nil, lastErr
	}
	return out, nil
}

// downloadAndScore fetches each candidate's content, extracts the readable
// body, scores it, and resolves the byline. Failed or thin pages are
// discarded; the download cap bounds the per-source request volume.
func (o *Orchestrator) downloadAndScore(ctx context.Context, src collector.SourceConfig, candidates []collector.Candidate) []collector.Candidate {
	kept := make([]collector.Candidate, 0, len(candidates))
	downloads := 0
	for _, cand := range candidates {
		if ctx.Err() != nil {
			break
		}
		if downloads >= o.cfg.MaxDownloads {
			o.deps.Logger.Debug("download cap reached",
				zap.String("publication", src.Name),
				zap.Int("cap", o.cfg.MaxDownloads))
			break
		}
		downloads++

		enriched, ok := o.enrich(ctx, cand)
		if !ok {
			continue
		}
		kept = append(kept, enriched)
	}
	return kept
}

// enrich downloads and evaluates one candidate. False means discard.
func (o *Orchestrator) enrich(ctx context.Context, cand collector.Candidate) (collector.Candidate, bool) {
	res, err := o.deps.Fetcher.Fetch(ctx, cand.URL, o.cfg.FetchTimeout)
	if err != nil {
		if !o.promote(res, err) {
			o.deps.Logger.Debug("fetch failed", zap.String("url", cand.URL), zap.Error(err))
			return cand, false
		}
		res, err = o.deps.Headless.Fetch(ctx, cand.URL, o.cfg.FetchTimeout)
		if err != nil {
			o.deps.Logger.Debug("headless fetch failed", zap.String("url", cand.URL), zap.Error(err))
			return cand, false
		}
	} else if o.promote(res, nil) {
		if rendered, rerr := o.deps.Headless.Fetch(ctx, cand.URL, o.cfg.FetchTimeout); rerr == nil {
			res = rendered
		}
	}

	ext, err := o.deps.Extract.Extract(cand.URL, res.Body)
	if err != nil {
		reason := "extract_failed"
		if errors.Is(err, collector.ErrContentTooShort) {
			reason = "too_short"
		}
		telemetry.CountContentDiscarded(reason)
		return cand, false
	}

	if cand.Title == "" {
		cand.Title = ext.Title
	}
	cand.FullText = ext.Text
	if len(ext.MetaDescription) > len(cand.Summary) {
		cand.Summary = ext.MetaDescription
	}

	if !o.deps.Scorer.PassesDomainValidation(cand.Title, cand.FullText) {
		telemetry.CountContentDiscarded("off_topic")
		return cand, false
	}
	cand.Score, cand.Keywords = o.deps.Scorer.ContentScore(cand.Title, cand.FullText)
	if cand.Score <= 0 {
		telemetry.CountContentDiscarded("zero_score")
		return cand, false
	}

	if o.deps.Authors != nil {
		cand.Author = o.deps.Authors.Resolve(ext)
	}
	return cand, true
}

// promote decides whether to retry through the headless renderer. Only
// meaningful when headless is enabled and wired.
func (o *Orchestrator) promote(res collector.FetchResult, err error) bool {
	if !o.cfg.HeadlessEnabled || o.deps.Headless == nil || o.deps.Detector == nil {
		return false
	}
	if err != nil {
		// Status errors carry the response; transport errors have
		// nothing a browser could improve on.
		if collector.KindOf(err) != collector.FailureHTTPStatus {
			return false
		}
	}
	return o.deps.Detector.ShouldPromote(res)
}

// Records materializes the run's output records with freshly assigned IDs.
func (o *Orchestrator) Records(result collector.CollectionResult) []collector.ArticleRecord {
	records := result.Records()
	for i := range records {
		records[i].ID = o.newID().String()
	}
	return records
}

func (o *Orchestrator) emit(evt progress.Event) {
	o.deps.Emitter.Emit(evt)
}
