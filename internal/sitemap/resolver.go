// Package sitemap resolves sitemap indexes and urlsets into flat URL lists.
package sitemap

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/gildedpress/luxwire/internal/collector"
)

// docKind distinguishes the two sitemap schema roots.
type docKind int

const (
	kindUnknown docKind = iota
	kindIndex
	kindURLSet
)

type document struct {
	kind    docKind
	entries []xmlEntry
}

type xmlEntry struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod"`
}

type xmlURLSet struct {
	URLs []xmlEntry `xml:"url"`
}

type xmlIndex struct {
	Sitemaps []xmlEntry `xml:"sitemap"`
}

// parseDocument sniffs the root element and unmarshals accordingly.
func parseDocument(data []byte) (document, error) {
	root, err := rootElement(data)
	if err != nil {
		return document{}, err
	}
	switch root {
	case "sitemapindex":
		var idx xmlIndex
		if err := xml.Unmarshal(data, &idx); err != nil {
			return document{}, fmt.Errorf("unmarshal sitemapindex: %w", err)
		}
		return document{kind: kindIndex, entries: idx.Sitemaps}, nil
	case "urlset":
		var set xmlURLSet
		if err := xml.Unmarshal(data, &set); err != nil {
			return document{}, fmt.Errorf("unmarshal urlset: %w", err)
		}
		return document{kind: kindURLSet, entries: set.URLs}, nil
	default:
		return document{}, fmt.Errorf("unexpected root element %q", root)
	}
}

func rootElement(data []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				return "", fmt.Errorf("no root element")
			}
			return "", fmt.Errorf("scan root element: %w", err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start.Name.Local, nil
		}
	}
}

// Config controls sitemap resolution.
type Config struct {
	// FetchTimeout applies to every sitemap document fetch.
	FetchTimeout time.Duration
}

// Resolver recursively expands sitemaps through the shared fetcher. No date
// filtering happens here; every discovered URL is returned.
type Resolver struct {
	cfg     Config
	fetcher collector.Fetcher
	logger  *zap.Logger
	nowFn   func() time.Time
}

// New builds a Resolver.
func New(cfg Config, fetcher collector.Fetcher, logger *zap.Logger) *Resolver {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{cfg: cfg, fetcher: fetcher, logger: logger, nowFn: time.Now}
}

// Resolve fetches sitemapURL and returns the flattened (url, lastmod) list.
// Index documents are expanded recursively; child failures are contained and
// logged so one broken child sitemap never empties the whole result.
func (r *Resolver) Resolve(ctx context.Context, sitemapURL string) ([]collector.SitemapEntry, error) {
	visited := map[string]struct{}{}
	return r.resolve(ctx, sitemapURL, visited)
}

func (r *Resolver) resolve(ctx context.Context, sitemapURL string, visited map[string]struct{}) ([]collector.SitemapEntry, error) {
	if _, seen := visited[sitemapURL]; seen {
		return nil, nil
	}
	visited[sitemapURL] = struct{}{}

	res, err := r.fetcher.Fetch(ctx, sitemapURL, r.cfg.FetchTimeout)
	if err != nil {
		return nil, fmt.Errorf("sitemap fetch: %w", err)
	}

	doc, strategy, err := decodeAndParse(res.Body)
	if err != nil {
		return nil, &collector.ParseError{URL: sitemapURL, Err: err}
	}
	if strategy != "transport" {
		r.logger.Debug("sitemap needed decode fallback",
			zap.String("url", sitemapURL), zap.String("strategy", strategy))
	}

	if doc.kind == kindIndex {
		var all []collector.SitemapEntry
		for _, child := range doc.entries {
			if child.Loc == "" {
				continue
			}
			entries, err := r.resolve(ctx, child.Loc, visited)
			if err != nil {
				r.logger.Warn("child sitemap failed",
					zap.String("parent", sitemapURL),
					zap.String("child", child.Loc),
					zap.Error(err))
				continue
			}
			all = append(all, entries...)
		}
		return all, nil
	}

	entries := make([]collector.SitemapEntry, 0, len(doc.entries))
	for _, e := range doc.entries {
		if e.Loc == "" {
			continue
		}
		entries = append(entries, collector.SitemapEntry{
			URL:     e.Loc,
			LastMod: r.parseLastMod(e.LastMod),
		})
	}
	return entries, nil
}

// parseLastMod accepts bare dates and full timestamps, defaulting to now.
func (r *Resolver) parseLastMod(raw string) time.Time {
	if raw == "" {
		return r.nowFn()
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts
	}
	if len(raw) >= 10 {
		if ts, err := time.Parse("2006-01-02", raw[:10]); err == nil {
			return ts
		}
	}
	return r.nowFn()
}
