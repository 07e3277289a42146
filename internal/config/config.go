// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/gildedpress/luxwire/internal/collector"
	"github.com/gildedpress/luxwire/internal/relevance"
)

// Config captures every configuration knob.
type Config struct {
	Server    ServerConfig             `mapstructure:"server"`
	Logging   LoggingConfig            `mapstructure:"logging"`
	Collector CollectorConfig          `mapstructure:"collector"`
	Pacing    PacingConfig             `mapstructure:"pacing"`
	HTTP      HTTPConfig               `mapstructure:"http"`
	Headless  HeadlessConfig           `mapstructure:"headless"`
	Storage   StorageConfig            `mapstructure:"storage"`
	DB        DBConfig                 `mapstructure:"db"`
	PubSub    PubSubConfig             `mapstructure:"pubsub"`
	Keywords  relevance.Keywords       `mapstructure:"keywords"`
	Denylist  []string                 `mapstructure:"denylist"`
	Sources   []collector.SourceConfig `mapstructure:"sources"`
}

// ServerConfig controls the operator HTTP server.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// CollectorConfig governs the per-run pipeline behavior.
type CollectorConfig struct {
	TopK                 int `mapstructure:"top_k"`
	MinSitemapCandidates int `mapstructure:"min_sitemap_candidates"`
	MaxDownloads         int `mapstructure:"max_downloads"`
	MinContentChars      int `mapstructure:"min_content_chars"`
	MinTitleScore        int `mapstructure:"min_title_score"`
	SourcePauseMinSec    int `mapstructure:"source_pause_min_seconds"`
	SourcePauseMaxSec    int `mapstructure:"source_pause_max_seconds"`
}

// PacingConfig governs per-host request spacing.
type PacingConfig struct {
	MinDelayMs     int `mapstructure:"min_delay_ms"`
	MaxDelayMs     int `mapstructure:"max_delay_ms"`
	CooldownEvery  int `mapstructure:"cooldown_every"`
	CooldownMinSec int `mapstructure:"cooldown_min_seconds"`
	CooldownMaxSec int `mapstructure:"cooldown_max_seconds"`
}

// HTTPConfig controls the HTTP fetcher.
type HTTPConfig struct {
	TimeoutSeconds int  `mapstructure:"timeout_seconds"`
	InsecureRetry  bool `mapstructure:"insecure_retry"`
}

// HeadlessConfig configures the browser-rendering fallback.
type HeadlessConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxParallel   int  `mapstructure:"max_parallel"`
	NavTimeoutSec int  `mapstructure:"nav_timeout_seconds"`
	MinBodyBytes  int  `mapstructure:"min_body_bytes"`
}

// StorageConfig selects the result sink backend.
type StorageConfig struct {
	Backend   string `mapstructure:"backend"` // memory, local, gcs
	LocalDir  string `mapstructure:"local_dir"`
	GCSBucket string `mapstructure:"gcs_bucket"`
}

// DBConfig controls the optional Postgres article store.
type DBConfig struct {
	DSN      string `mapstructure:"dsn"`
	Table    string `mapstructure:"table"`
	MaxConns int32  `mapstructure:"max_conns"`
	MinConns int32  `mapstructure:"min_conns"`
}

// PubSubConfig holds the downstream hand-off topic.
type PubSubConfig struct {
	ProjectID string `mapstructure:"project_id"`
	TopicName string `mapstructure:"topic_name"`
}

// Load builds a Config from the optional file plus environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("LUXWIRE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if len(cfg.Keywords.Categories) == 0 {
		cfg.Keywords = relevance.DefaultKeywords()
	}
	if len(cfg.Denylist) == 0 {
		cfg.Denylist = relevance.DefaultDenylist()
	}
	if len(cfg.Sources) == 0 {
		cfg.Sources = DefaultSources()
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("logging.development", false)
	v.SetDefault("collector.top_k", 3)
	v.SetDefault("collector.min_sitemap_candidates", 10)
	v.SetDefault("collector.max_downloads", 100)
	v.SetDefault("collector.min_content_chars", 150)
	v.SetDefault("collector.min_title_score", 1)
	v.SetDefault("collector.source_pause_min_seconds", 3)
	v.SetDefault("collector.source_pause_max_seconds", 6)
	v.SetDefault("pacing.min_delay_ms", 2000)
	v.SetDefault("pacing.max_delay_ms", 5000)
	v.SetDefault("pacing.cooldown_every", 20)
	v.SetDefault("pacing.cooldown_min_seconds", 5)
	v.SetDefault("pacing.cooldown_max_seconds", 10)
	v.SetDefault("http.timeout_seconds", 10)
	v.SetDefault("http.insecure_retry", true)
	v.SetDefault("headless.enabled", false)
	v.SetDefault("headless.max_parallel", 1)
	v.SetDefault("headless.nav_timeout_seconds", 45)
	v.SetDefault("headless.min_body_bytes", 512)
	v.SetDefault("storage.backend", "local")
	v.SetDefault("storage.local_dir", "results")
	v.SetDefault("db.table", "articles")
}

// Validate enforces required values and sane limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Collector.TopK <= 0 {
		return fmt.Errorf("collector.top_k must be > 0")
	}
	if c.Collector.MaxDownloads <= 0 {
		return fmt.Errorf("collector.max_downloads must be > 0")
	}
	if c.Collector.SourcePauseMaxSec < c.Collector.SourcePauseMinSec {
		return fmt.Errorf("collector.source_pause_max_seconds must be >= min")
	}
	if c.Pacing.MaxDelayMs < c.Pacing.MinDelayMs {
		return fmt.Errorf("pacing.max_delay_ms must be >= pacing.min_delay_ms")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.Headless.Enabled && c.Headless.MaxParallel <= 0 {
		return fmt.Errorf("headless.max_parallel must be > 0 when headless is enabled")
	}
	switch c.Storage.Backend {
	case "memory", "local", "gcs":
	default:
		return fmt.Errorf("storage.backend must be memory, local, or gcs")
	}
	if c.Storage.Backend == "gcs" && c.Storage.GCSBucket == "" {
		return fmt.Errorf("storage.gcs_bucket is required for the gcs backend")
	}
	if c.Storage.Backend == "local" && c.Storage.LocalDir == "" {
		return fmt.Errorf("storage.local_dir is required for the local backend")
	}
	for _, src := range c.Sources {
		if src.Name == "" {
			return fmt.Errorf("every source needs a name")
		}
		if !src.HasSitemap() && len(src.FeedURLs) == 0 {
			return fmt.Errorf("source %s has neither sitemap nor feeds", src.Name)
		}
	}
	return nil
}

// FetchTimeout converts the HTTP timeout into a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}
