package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/umputun/pulsefeed/pkg/aggregate"
	"github.com/umputun/pulsefeed/pkg/domain"
	"github.com/umputun/pulsefeed/pkg/repository"
)

const maxTrendingSize = 100

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"status":      "ok",
		"version":     s.version,
		"time":        time.Now().UTC(),
		"aggregating": s.Aggregator.Running(),
	}
	if err := s.DB.Ping(r.Context()); err != nil {
		log.Printf("[WARN] storage ping failed: %v", err)
		status["status"] = "degraded"
		status["error"] = err.Error()
		renderJSON(w, r, http.StatusServiceUnavailable, status)
		return
	}
	renderJSON(w, r, http.StatusOK, status)
}

// trendingHandler returns top keywords of the language, optional category and size in query.
// Empty category means all categories.
func (s *Server) trendingHandler(w http.ResponseWriter, r *http.Request) {
	lang, err := domain.ParseLanguage(r.PathValue("lang"))
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}

	var cat domain.Category
	if c := r.URL.Query().Get("category"); c != "" {
		if cat, err = domain.ParseCategory(c); err != nil {
			renderError(w, r, err, http.StatusBadRequest)
			return
		}
	}

	size := 0
	if sz := r.URL.Query().Get("size"); sz != "" {
		size, err = strconv.Atoi(sz)
		if err != nil || size < 1 || size > maxTrendingSize {
			renderError(w, r, fmt.Errorf("size must be between 1 and %d", maxTrendingSize), http.StatusBadRequest)
			return
		}
	}

	keywords, err := s.Trending.Top(r.Context(), lang, cat, size)
	if err != nil {
		log.Printf("[ERROR] failed to get trending keywords: %v", err)
		renderError(w, r, errors.New("can't get trending keywords"), http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]any{"language": lang, "category": cat, "keywords": keywords})
}

// latestJobHandler returns the most recent aggregation job
func (s *Server) latestJobHandler(w http.ResponseWriter, r *http.Request) {
	job, err := s.Jobs.Latest(r.Context())
	if errors.Is(err, repository.ErrNotFound) {
		renderError(w, r, errors.New("no jobs yet"), http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("[ERROR] failed to get latest job: %v", err)
		renderError(w, r, errors.New("can't get latest job"), http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]any{"job": job, "elapsed": domain.FormatElapsed(job.Elapsed())})
}

// sourcesHandler lists all sources, or enabled only with ?enabled=true
func (s *Server) sourcesHandler(w http.ResponseWriter, r *http.Request) {
	enabledOnly, _ := strconv.ParseBool(r.URL.Query().Get("enabled"))
	sources, err := s.Sources.List(r.Context(), enabledOnly)
	if err != nil {
		log.Printf("[ERROR] failed to list sources: %v", err)
		renderError(w, r, errors.New("can't list sources"), http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, sources)
}

// sourceEnabledHandler toggles source, body is {"enabled": bool}
func (s *Server) sourceEnabledHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req struct {
		Enabled *bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Enabled == nil {
		renderError(w, r, errors.New(`body must be {"enabled": true|false}`), http.StatusBadRequest)
		return
	}

	err := s.Sources.SetEnabled(r.Context(), id, *req.Enabled)
	if errors.Is(err, repository.ErrNotFound) {
		renderError(w, r, fmt.Errorf("source %s not found", id), http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("[ERROR] failed to toggle source %s: %v", id, err)
		renderError(w, r, errors.New("can't update source"), http.StatusInternalServerError)
		return
	}
	log.Printf("[INFO] source %s enabled=%t", id, *req.Enabled)
	renderJSON(w, r, http.StatusOK, map[string]any{"id": id, "enabled": *req.Enabled})
}

// aggregateHandler starts aggregation in background
func (s *Server) aggregateHandler(w http.ResponseWriter, r *http.Request) {
	if s.Aggregator.Running() {
		renderError(w, r, aggregate.ErrRunning, http.StatusConflict)
		return
	}

	s.runs.Add(1)
	go func() {
		defer s.runs.Done()
		// job outlives the request
		if _, err := s.Aggregator.Run(context.WithoutCancel(r.Context())); err != nil {
			log.Printf("[WARN] manual aggregation failed: %v", err)
		}
	}()
	renderJSON(w, r, http.StatusAccepted, map[string]string{"status": "started"})
}
