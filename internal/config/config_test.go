package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gildedpress/luxwire/internal/collector"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 3, cfg.Collector.TopK)
	assert.Equal(t, 10, cfg.Collector.MinSitemapCandidates)
	assert.Equal(t, 100, cfg.Collector.MaxDownloads)
	assert.Equal(t, 150, cfg.Collector.MinContentChars)
	assert.Equal(t, 2000, cfg.Pacing.MinDelayMs)
	assert.Equal(t, 20, cfg.Pacing.CooldownEvery)
	assert.False(t, cfg.Headless.Enabled)
	assert.Equal(t, "local", cfg.Storage.Backend)

	assert.Len(t, cfg.Sources, 28)
	assert.NotEmpty(t, cfg.Keywords.Categories)
	assert.NotEmpty(t, cfg.Keywords.CoreTerms)
	assert.NotEmpty(t, cfg.Denylist)
}

func TestLoadFileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9191
collector:
  top_k: 5
sources:
  - name: Example Weekly
    base_url: https://example.com/
    feed_urls:
      - https://example.com/feed
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Collector.TopK)
	require.Len(t, cfg.Sources, 1)
	assert.Equal(t, "Example Weekly", cfg.Sources[0].Name)
	assert.False(t, cfg.Sources[0].HasSitemap())
}

func TestValidateRejectsBadValues(t *testing.T) {
	base, err := Load("")
	require.NoError(t, err)

	cfg := base
	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())

	cfg = base
	cfg.Storage.Backend = "ftp"
	assert.Error(t, cfg.Validate())

	cfg = base
	cfg.Storage.Backend = "gcs"
	cfg.Storage.GCSBucket = ""
	assert.Error(t, cfg.Validate())

	cfg = base
	cfg.Sources = append([]collector.SourceConfig(nil), base.Sources...)
	cfg.Sources[0].SitemapURL = ""
	cfg.Sources[0].FeedURLs = nil
	assert.Error(t, cfg.Validate())
}

func TestDefaultSourcesShape(t *testing.T) {
	sources := DefaultSources()
	require.Len(t, sources, 28)

	names := make(map[string]struct{}, len(sources))
	for _, src := range sources {
		assert.NotEmpty(t, src.Name)
		assert.NotEmpty(t, src.BaseURL)
		assert.True(t, src.HasSitemap() || len(src.FeedURLs) > 0, src.Name)
		_, dup := names[src.Name]
		assert.False(t, dup, "duplicate source %s", src.Name)
		names[src.Name] = struct{}{}
	}
}

func TestFindSourceURL(t *testing.T) {
	sources := DefaultSources()

	url, ok := FindSourceURL(sources, "vogue uk")
	require.True(t, ok)
	assert.Equal(t, "https://www.vogue.co.uk/", url)

	url, ok = FindSourceURL(sources, "telegraph")
	require.True(t, ok)
	assert.Equal(t, "https://www.telegraph.co.uk/luxury/", url)

	_, ok = FindSourceURL(sources, "nonexistent weekly")
	assert.False(t, ok)
}
