// Package memory is the in-process article store used for single runs and
// tests, where no database is configured.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gildedpress/luxwire/internal/collector"
	pgstore "github.com/gildedpress/luxwire/internal/store/postgres"
)

// ArticleStore keeps records in memory. Safe for concurrent use.
type ArticleStore struct {
	mu      sync.RWMutex
	records []collector.ArticleRecord
	nowFn   func() time.Time
}

// New returns an empty store.
func New() *ArticleStore {
	return &ArticleStore{nowFn: time.Now}
}

// AppendArticles adds the records, skipping URLs already present.
func (s *ArticleStore) AppendArticles(_ context.Context, records []collector.ArticleRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]struct{}, len(s.records))
	for _, rec := range s.records {
		seen[rec.URL] = struct{}{}
	}
	for _, rec := range records {
		if _, dup := seen[rec.URL]; dup {
			continue
		}
		seen[rec.URL] = struct{}{}
		s.records = append(s.records, rec)
	}
	return nil
}

// GetRecentArticles returns up to limit records, newest published first.
func (s *ArticleStore) GetRecentArticles(_ context.Context, limit int) ([]collector.ArticleRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]collector.ArticleRecord(nil), s.records...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Published.After(out[j].Published)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// GetPitchingMenu formats the strongest articles of the past week.
func (s *ArticleStore) GetPitchingMenu(_ context.Context) ([]string, error) {
	cutoff := s.nowFn().Add(-7 * 24 * time.Hour)
	s.mu.RLock()
	defer s.mu.RUnlock()

	recent := make([]collector.ArticleRecord, 0, len(s.records))
	for _, rec := range s.records {
		if rec.Published.After(cutoff) {
			recent = append(recent, rec)
		}
	}
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Score > recent[j].Score
	})
	if len(recent) > 20 {
		recent = recent[:20]
	}

	out := make([]string, 0, len(recent))
	for _, rec := range recent {
		out = append(out, pgstore.FormatMenuLine(rec.Title, rec.Publication, rec.URL, rec.Score))
	}
	return out, nil
}

// Len reports the stored record count.
func (s *ArticleStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
