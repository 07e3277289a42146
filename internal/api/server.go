// Package api exposes the operator HTTP interface: health probes,
// Prometheus metrics, run progress snapshots, and stored-article reads.
package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/gildedpress/luxwire/internal/collector"
	"github.com/gildedpress/luxwire/internal/progress/sinks"
)

const (
	defaultRecentLimit = 50
	maxRecentLimit     = 500
	storeTimeout       = 3 * time.Second
)

// Server wires the HTTP handlers to the snapshot sink and article store.
type Server struct {
	router    chi.Router
	snapshots *sinks.SnapshotSink
	articles  collector.ArticleStore
	sources   []collector.SourceConfig
	logger    *zap.Logger
}

// NewServer constructs the router. Any collaborator may be nil; the
// corresponding endpoints then answer 503.
func NewServer(snapshots *sinks.SnapshotSink, articles collector.ArticleStore, sources []collector.SourceConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		snapshots: snapshots,
		articles:  articles,
		sources:   sources,
		logger:    logger,
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/sources", s.listSources)
		r.Route("/runs", func(r chi.Router) {
			r.Get("/latest", s.latestRun)
			r.Get("/{run_id}", s.getRun)
		})
		r.Get("/articles/recent", s.recentArticles)
		r.Get("/pitching-menu", s.pitchingMenu)
	})

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) listSources(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"sources": s.sources})
}

func (s *Server) latestRun(w http.ResponseWriter, _ *http.Request) {
	if s.snapshots == nil {
		writeError(w, http.StatusServiceUnavailable, "run tracking unavailable")
		return
	}
	snap, ok := s.snapshots.Latest()
	if !ok {
		writeError(w, http.StatusNotFound, "no runs recorded")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"run": snap})
}

func (s *Server) getRun(w http.ResponseWriter, r *http.Request) {
	if s.snapshots == nil {
		writeError(w, http.StatusServiceUnavailable, "run tracking unavailable")
		return
	}
	runID, err := uuid.Parse(chi.URLParam(r, "run_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid run id")
		return
	}
	snap, ok := s.snapshots.Snapshot(runID)
	if !ok {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"run": snap})
}

func (s *Server) recentArticles(w http.ResponseWriter, r *http.Request) {
	if s.articles == nil {
		writeError(w, http.StatusServiceUnavailable, "article store unavailable")
		return
	}
	limit := defaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > maxRecentLimit {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}
	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	records, err := s.articles.GetRecentArticles(ctx, limit)
	if err != nil {
		s.logger.Error("recent articles failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load articles")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"articles": records})
}

func (s *Server) pitchingMenu(w http.ResponseWriter, r *http.Request) {
	if s.articles == nil {
		writeError(w, http.StatusServiceUnavailable, "article store unavailable")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	menu, err := s.articles.GetPitchingMenu(ctx)
	if err != nil {
		s.logger.Error("pitching menu failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to build menu")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"menu": menu})
}
