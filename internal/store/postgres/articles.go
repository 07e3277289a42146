// Package postgres persists collection output in Postgres.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gildedpress/luxwire/internal/collector"
)

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Config controls the connection pool backing the article store.
type Config struct {
	DSN             string
	Table           string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close()
}

// ArticleStore writes and reads article records. It satisfies
// collector.ArticleStore.
type ArticleStore struct {
	pool  querier
	table string
}

// NewArticleStore connects a pool per the config.
func NewArticleStore(ctx context.Context, cfg Config) (*ArticleStore, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database.dsn is required")
	}
	table := cfg.Table
	if table == "" {
		table = "articles"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &ArticleStore{pool: pool, table: table}, nil
}

// NewArticleStoreWithPool constructs a store from an existing pool,
// primarily for testing.
func NewArticleStoreWithPool(pool querier, table string) (*ArticleStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if table == "" {
		table = "articles"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &ArticleStore{pool: pool, table: table}, nil
}

// Close releases the pool.
func (s *ArticleStore) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// AppendArticles inserts the records. Re-collected URLs are skipped rather
// than duplicated.
func (s *ArticleStore) AppendArticles(ctx context.Context, records []collector.ArticleRecord) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("article store is not configured")
	}
	query := fmt.Sprintf(`
INSERT INTO %s (
	id,
	title,
	url,
	publication,
	author,
	published_date,
	summary,
	full_content,
	relevance_score,
	keywords_found,
	content_length
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11
) ON CONFLICT (url) DO NOTHING`, s.table)

	for _, rec := range records {
		if rec.ID == "" {
			return fmt.Errorf("record id is required (url %s)", rec.URL)
		}
		keywordsJSON, err := json.Marshal(rec.Keywords)
		if err != nil {
			return fmt.Errorf("marshal keywords: %w", err)
		}
		args := []any{
			rec.ID,
			rec.Title,
			rec.URL,
			rec.Publication,
			rec.Author,
			rec.Published,
			rec.Summary,
			rec.FullText,
			rec.Score,
			keywordsJSON,
			rec.ContentLength,
		}
		if _, err := s.pool.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("insert article %s: %w", rec.URL, err)
		}
	}
	return nil
}

// GetRecentArticles returns the newest records by published date.
func (s *ArticleStore) GetRecentArticles(ctx context.Context, limit int) ([]collector.ArticleRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`
SELECT id, title, url, publication, author, published_date,
       summary, full_content, relevance_score, keywords_found, content_length
FROM %s
ORDER BY published_date DESC
LIMIT $1`, s.table)

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent articles: %w", err)
	}
	defer rows.Close()

	var out []collector.ArticleRecord
	for rows.Next() {
		var (
			rec          collector.ArticleRecord
			keywordsJSON []byte
		)
		if err := rows.Scan(
			&rec.ID, &rec.Title, &rec.URL, &rec.Publication, &rec.Author,
			&rec.Published, &rec.Summary, &rec.FullText, &rec.Score,
			&keywordsJSON, &rec.ContentLength,
		); err != nil {
			return nil, fmt.Errorf("scan article row: %w", err)
		}
		if len(keywordsJSON) > 0 {
			if err := json.Unmarshal(keywordsJSON, &rec.Keywords); err != nil {
				return nil, fmt.Errorf("unmarshal keywords: %w", err)
			}
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate article rows: %w", err)
	}
	return out, nil
}

// GetPitchingMenu formats the strongest recent articles as one line each,
// ready to paste into a pitch email.
func (s *ArticleStore) GetPitchingMenu(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`
SELECT title, publication, url, relevance_score
FROM %s
WHERE published_date > now() - interval '7 days'
ORDER BY relevance_score DESC
LIMIT 20`, s.table)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query pitching menu: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var (
			title, publication, url string
			score                   float64
		)
		if err := rows.Scan(&title, &publication, &url, &score); err != nil {
			return nil, fmt.Errorf("scan menu row: %w", err)
		}
		out = append(out, FormatMenuLine(title, publication, url, score))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate menu rows: %w", err)
	}
	return out, nil
}

// FormatMenuLine renders one pitching-menu entry.
func FormatMenuLine(title, publication, url string, score float64) string {
	return fmt.Sprintf("%s [%s, score %.1f] %s", title, publication, score, url)
}
