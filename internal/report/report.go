// Package report renders run summaries and archives the JSON result dump.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/gildedpress/luxwire/internal/collector"
)

// Render builds the human-readable run summary printed after a collection.
func Render(result collector.CollectionResult) string {
	var b strings.Builder
	total := 0
	for _, src := range result.Sources {
		total += len(src.Articles)
	}

	fmt.Fprintf(&b, "Collection run %s\n", result.RunID)
	fmt.Fprintf(&b, "Started:  %s\n", result.Started.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "Finished: %s (%s)\n", result.Finished.Format("2006-01-02 15:04:05 MST"),
		result.Finished.Sub(result.Started).Round(1e9))
	fmt.Fprintf(&b, "Sources:  %d, articles kept: %d\n", len(result.Sources), total)

	for _, src := range result.Sources {
		fmt.Fprintf(&b, "\n%s (%d)\n", src.Publication, len(src.Articles))
		for _, a := range src.Articles {
			title := a.Title
			if title == "" {
				title = a.URL
			}
			fmt.Fprintf(&b, "  %.1f  %s\n", a.Score, title)
			fmt.Fprintf(&b, "        %s\n", a.URL)
			if a.Author != "" && a.Author != collector.UnknownAuthor {
				fmt.Fprintf(&b, "        by %s\n", a.Author)
			}
		}
	}

	if top := topKeywords(result, 10); len(top) > 0 {
		b.WriteString("\nTop keywords:\n")
		for _, kw := range top {
			fmt.Fprintf(&b, "  %s (%d)\n", kw.word, kw.count)
		}
	}
	return b.String()
}

type keywordCount struct {
	word  string
	count int
}

// topKeywords tallies keywords across every kept article, most frequent
// first, ties broken alphabetically.
func topKeywords(result collector.CollectionResult, limit int) []keywordCount {
	counts := map[string]int{}
	for _, src := range result.Sources {
		for _, a := range src.Articles {
			for _, kw := range a.Keywords {
				counts[kw]++
			}
		}
	}
	out := make([]keywordCount, 0, len(counts))
	for word, n := range counts {
		out = append(out, keywordCount{word, n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].word < out[j].word
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// resultsDocument is the archived JSON shape.
type resultsDocument struct {
	RunID    string                    `json:"run_id"`
	Started  string                    `json:"started"`
	Finished string                    `json:"finished"`
	Articles []collector.ArticleRecord `json:"articles"`
}

// WriteResults archives the run's records through the sink and returns the
// stored URI.
func WriteResults(ctx context.Context, sink collector.ResultSink, result collector.CollectionResult, records []collector.ArticleRecord) (string, error) {
	doc := resultsDocument{
		RunID:    result.RunID,
		Started:  result.Started.UTC().Format("2006-01-02T15:04:05Z07:00"),
		Finished: result.Finished.UTC().Format("2006-01-02T15:04:05Z07:00"),
		Articles: records,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal results: %w", err)
	}
	path := fmt.Sprintf("runs/%s/results.json", result.RunID)
	uri, err := sink.Put(ctx, path, "application/json", data)
	if err != nil {
		return "", fmt.Errorf("store results: %w", err)
	}
	return uri, nil
}
