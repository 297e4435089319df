// Package server provides HTTP API of pulsefeed: trending keywords, sources toggle, jobs and manual aggregation.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/pulsefeed/pkg/domain"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/trending.go -pkg mocks -skip-ensure -fmt goimports . Trending
//go:generate moq -out mocks/jobs.go -pkg mocks -skip-ensure -fmt goimports . JobStore
//go:generate moq -out mocks/sources.go -pkg mocks -skip-ensure -fmt goimports . SourceStore
//go:generate moq -out mocks/aggregator.go -pkg mocks -skip-ensure -fmt goimports . Aggregator
//go:generate moq -out mocks/pinger.go -pkg mocks -skip-ensure -fmt goimports . Pinger

// Server represents HTTP server instance
type Server struct {
	config ConfigProvider
	Deps
	version string
	debug   bool

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
	runs       sync.WaitGroup // background aggregation runs
}

// Deps are services used by handlers
type Deps struct {
	Trending   Trending
	Jobs       JobStore
	Sources    SourceStore
	Aggregator Aggregator
	DB         Pinger
}

// Trending returns top keywords
type Trending interface {
	Top(ctx context.Context, lang domain.Language, cat domain.Category, size int) ([]domain.TrendingKeyword, error)
}

// JobStore gives access to aggregation jobs
type JobStore interface {
	Latest(ctx context.Context) (domain.Job, error)
}

// SourceStore lists sources and toggles them
type SourceStore interface {
	List(ctx context.Context, enabledOnly bool) ([]domain.Source, error)
	SetEnabled(ctx context.Context, id string, enabled bool) error
}

// Aggregator runs aggregation on demand
type Aggregator interface {
	Run(ctx context.Context) (domain.Job, error)
	Running() bool
}

// Pinger checks storage is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
}

// New initializes a new server instance
func New(cfg ConfigProvider, deps Deps, version string, debug bool) *Server {
	s := &Server{
		config:  cfg,
		Deps:    deps,
		version: version,
		debug:   debug,
		router:  routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	log.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              listen,
		Handler:           s.router,
		ReadHeaderTimeout: timeout,
		ReadTimeout:       timeout,
		WriteTimeout:      timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	s.runs.Wait()
	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("pulsefeed", "umputun", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(64 * 1024)) // 64KB
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
		r.HandleFunc("GET /trending/{lang}", s.trendingHandler)
		r.HandleFunc("GET /jobs/latest", s.latestJobHandler)
		r.HandleFunc("GET /sources", s.sourcesHandler)
		r.HandleFunc("PUT /sources/{id}/enabled", s.sourceEnabledHandler)
		r.HandleFunc("POST /aggregate", s.aggregateHandler)
	})
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, map[string]string{"error": errMsg})
}
