package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gildedpress/luxwire/internal/collector"
	"github.com/gildedpress/luxwire/internal/progress"
	"github.com/gildedpress/luxwire/internal/progress/sinks"
	storemem "github.com/gildedpress/luxwire/internal/store/memory"
)

func newTestServer(t *testing.T) (*Server, *sinks.SnapshotSink, *storemem.ArticleStore) {
	t.Helper()
	snapshots := sinks.NewSnapshotSink(0)
	articles := storemem.New()
	sources := []collector.SourceConfig{{Name: "Vogue UK", BaseURL: "https://www.vogue.co.uk/"}}
	return NewServer(snapshots, articles, sources, nil), snapshots, articles
}

func doGet(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthAndReady(t *testing.T) {
	s, _, _ := newTestServer(t)
	assert.Equal(t, http.StatusOK, doGet(t, s, "/healthz").Code)
	assert.Equal(t, http.StatusOK, doGet(t, s, "/readyz").Code)
}

func TestListSources(t *testing.T) {
	s, _, _ := newTestServer(t)
	rec := doGet(t, s, "/api/sources")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Sources []collector.SourceConfig `json:"sources"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Sources, 1)
	assert.Equal(t, "Vogue UK", body.Sources[0].Name)
}

func TestGetRunAndLatest(t *testing.T) {
	s, snapshots, _ := newTestServer(t)
	runID := uuid.New()
	require.NoError(t, snapshots.Consume(context.Background(), []progress.Event{
		{RunID: runID, TS: time.Now(), Stage: progress.StageRunStart},
	}))

	rec := doGet(t, s, "/api/runs/"+runID.String())
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doGet(t, s, "/api/runs/latest")
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, http.StatusBadRequest, doGet(t, s, "/api/runs/not-a-uuid").Code)
	assert.Equal(t, http.StatusNotFound, doGet(t, s, "/api/runs/"+uuid.NewString()).Code)
}

func TestLatestRunEmpty(t *testing.T) {
	s, _, _ := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, doGet(t, s, "/api/runs/latest").Code)
}

func TestRecentArticles(t *testing.T) {
	s, _, articles := newTestServer(t)
	require.NoError(t, articles.AppendArticles(context.Background(), []collector.ArticleRecord{
		{ID: "1", URL: "https://example.com/a", Title: "A", Published: time.Now()},
	}))

	rec := doGet(t, s, "/api/articles/recent?limit=10")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Articles []collector.ArticleRecord `json:"articles"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Articles, 1)

	assert.Equal(t, http.StatusBadRequest, doGet(t, s, "/api/articles/recent?limit=nope").Code)
	assert.Equal(t, http.StatusBadRequest, doGet(t, s, "/api/articles/recent?limit=9999").Code)
}

func TestPitchingMenu(t *testing.T) {
	s, _, articles := newTestServer(t)
	require.NoError(t, articles.AppendArticles(context.Background(), []collector.ArticleRecord{
		{ID: "1", URL: "https://example.com/a", Title: "A", Publication: "Vogue UK",
			Published: time.Now(), Score: 12},
	}))

	rec := doGet(t, s, "/api/pitching-menu")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Menu []string `json:"menu"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Menu, 1)
	assert.Contains(t, body.Menu[0], "Vogue UK")
}

func TestNilCollaboratorsAnswer503(t *testing.T) {
	s := NewServer(nil, nil, nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, doGet(t, s, "/api/runs/latest").Code)
	assert.Equal(t, http.StatusServiceUnavailable, doGet(t, s, "/api/articles/recent").Code)
	assert.Equal(t, http.StatusServiceUnavailable, doGet(t, s, "/api/pitching-menu").Code)
}
