// Package app assembles the service from configuration: fetcher, resolvers,
// scorer, stores, sinks, and the pipeline orchestrator.
package app

import (
	"context"
	"fmt"
	"time"

	gcsclient "cloud.google.com/go/storage"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/gildedpress/luxwire/internal/api"
	blobgcs "github.com/gildedpress/luxwire/internal/blob/gcs"
	bloblocal "github.com/gildedpress/luxwire/internal/blob/local"
	blobmem "github.com/gildedpress/luxwire/internal/blob/memory"
	"github.com/gildedpress/luxwire/internal/collector"
	"github.com/gildedpress/luxwire/internal/config"
	"github.com/gildedpress/luxwire/internal/extract"
	"github.com/gildedpress/luxwire/internal/feed"
	"github.com/gildedpress/luxwire/internal/fetch"
	"github.com/gildedpress/luxwire/internal/fetch/headless"
	"github.com/gildedpress/luxwire/internal/logging"
	"github.com/gildedpress/luxwire/internal/pacing"
	"github.com/gildedpress/luxwire/internal/pipeline"
	"github.com/gildedpress/luxwire/internal/progress"
	"github.com/gildedpress/luxwire/internal/progress/sinks"
	pubmem "github.com/gildedpress/luxwire/internal/publish/memory"
	pubpub "github.com/gildedpress/luxwire/internal/publish/pubsub"
	"github.com/gildedpress/luxwire/internal/relevance"
	"github.com/gildedpress/luxwire/internal/sitemap"
	storemem "github.com/gildedpress/luxwire/internal/store/memory"
	storepg "github.com/gildedpress/luxwire/internal/store/postgres"
)

// App holds the assembled service.
type App struct {
	Cfg    config.Config
	Logger *zap.Logger

	Scorer       *relevance.Scorer
	Filter       *relevance.URLFilter
	Orchestrator *pipeline.Orchestrator
	Hub          *progress.Hub
	Snapshots    *sinks.SnapshotSink
	Articles     collector.ArticleStore
	Results      collector.ResultSink
	Publisher    collector.Publisher
	API          *api.Server

	renderer *headless.Renderer
	pgStore  *storepg.ArticleStore
	pub      *pubpub.Publisher
}

// New builds the App. The context bounds connection setup only.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	a := &App{Cfg: cfg, Logger: logger}
	a.Scorer = relevance.NewScorer(cfg.Keywords)
	a.Filter = relevance.NewURLFilter(cfg.Keywords, cfg.Denylist)

	pacer := pacing.New(pacing.Config{
		MinDelay:      time.Duration(cfg.Pacing.MinDelayMs) * time.Millisecond,
		MaxDelay:      time.Duration(cfg.Pacing.MaxDelayMs) * time.Millisecond,
		CooldownEvery: cfg.Pacing.CooldownEvery,
		CooldownMin:   time.Duration(cfg.Pacing.CooldownMinSec) * time.Second,
		CooldownMax:   time.Duration(cfg.Pacing.CooldownMaxSec) * time.Second,
	})
	fetcher := fetch.New(fetch.Config{
		DefaultTimeout: cfg.FetchTimeout(),
		InsecureRetry:  cfg.HTTP.InsecureRetry,
	}, pacer, logger.Named("fetch"))

	deps := pipeline.Deps{
		Fetcher:  fetcher,
		Sitemaps: sitemap.New(sitemap.Config{}, fetcher, logger.Named("sitemap")),
		Feeds: feed.NewResolver(feed.Config{
			MinTitleScore: float64(cfg.Collector.MinTitleScore),
		}, fetcher, a.Scorer, logger.Named("feed")),
		Extract: &extract.Extractor{MinChars: cfg.Collector.MinContentChars},
		Authors: extract.NewAuthorResolver(),
		Scorer:  a.Scorer,
		Filter:  a.Filter,
		Logger:  logger.Named("pipeline"),
	}

	if cfg.Headless.Enabled {
		renderer, err := headless.New(headless.Config{
			MaxParallel:       cfg.Headless.MaxParallel,
			NavigationTimeout: time.Duration(cfg.Headless.NavTimeoutSec) * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("init headless renderer: %w", err)
		}
		a.renderer = renderer
		deps.Headless = renderer
		deps.Detector = headless.NewDetector(cfg.Headless.MinBodyBytes)
	}

	a.Snapshots = sinks.NewSnapshotSink(0)
	promSink, err := sinks.NewPrometheusSink(prometheus.DefaultRegisterer)
	if err != nil {
		return nil, fmt.Errorf("init progress metrics: %w", err)
	}
	a.Hub = progress.NewHub(progress.Config{Logger: logger.Named("progress")},
		sinks.NewLogSink(logger.Named("runs")), promSink, a.Snapshots)
	deps.Emitter = a.Hub

	a.Orchestrator = pipeline.New(pipeline.Config{
		TopK:                 cfg.Collector.TopK,
		MinSitemapCandidates: cfg.Collector.MinSitemapCandidates,
		MaxDownloads:         cfg.Collector.MaxDownloads,
		FetchTimeout:         cfg.FetchTimeout(),
		SourcePauseMin:       time.Duration(cfg.Collector.SourcePauseMinSec) * time.Second,
		SourcePauseMax:       time.Duration(cfg.Collector.SourcePauseMaxSec) * time.Second,
		HeadlessEnabled:      cfg.Headless.Enabled,
	}, deps)

	if err := a.initStores(ctx); err != nil {
		return nil, err
	}

	a.API = api.NewServer(a.Snapshots, a.Articles, cfg.Sources, logger.Named("api"))
	return a, nil
}

func (a *App) initStores(ctx context.Context) error {
	if a.Cfg.DB.DSN != "" {
		pg, err := storepg.NewArticleStore(ctx, storepg.Config{
			DSN:      a.Cfg.DB.DSN,
			Table:    a.Cfg.DB.Table,
			MaxConns: a.Cfg.DB.MaxConns,
			MinConns: a.Cfg.DB.MinConns,
		})
		if err != nil {
			return fmt.Errorf("init article store: %w", err)
		}
		a.pgStore = pg
		a.Articles = pg
	} else {
		a.Articles = storemem.New()
	}

	switch a.Cfg.Storage.Backend {
	case "gcs":
		client, err := gcsclient.NewClient(ctx)
		if err != nil {
			return fmt.Errorf("init gcs client: %w", err)
		}
		sink, err := blobgcs.New(client, blobgcs.Config{Bucket: a.Cfg.Storage.GCSBucket})
		if err != nil {
			return fmt.Errorf("init gcs sink: %w", err)
		}
		a.Results = sink
	case "local":
		sink, err := bloblocal.New(bloblocal.Config{BaseDir: a.Cfg.Storage.LocalDir})
		if err != nil {
			return fmt.Errorf("init local sink: %w", err)
		}
		a.Results = sink
	default:
		a.Results = blobmem.New()
	}

	if a.Cfg.PubSub.ProjectID != "" && a.Cfg.PubSub.TopicName != "" {
		pub, err := pubpub.New(ctx, a.Cfg.PubSub.ProjectID, a.Cfg.PubSub.TopicName)
		if err != nil {
			return fmt.Errorf("init publisher: %w", err)
		}
		a.pub = pub
		a.Publisher = pub
	} else {
		a.Publisher = pubmem.New()
	}
	return nil
}

// Close flushes and releases everything the App owns.
func (a *App) Close(ctx context.Context) {
	if a.Hub != nil {
		if err := a.Hub.Close(ctx); err != nil {
			a.Logger.Warn("progress hub close", zap.Error(err))
		}
	}
	if a.pub != nil {
		a.pub.Stop()
	}
	if a.pgStore != nil {
		a.pgStore.Close()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	_ = a.Logger.Sync()
}
