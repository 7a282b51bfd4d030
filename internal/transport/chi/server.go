// Package chi exposes the search pipeline over HTTP: a JSON endpoint, a
// staged SSE endpoint and health/metrics plumbing.
package chi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sampalegis/legisdex/internal/domain"
	domsearch "github.com/sampalegis/legisdex/internal/domain/search"
	"github.com/sampalegis/legisdex/internal/metrics"
	searchuc "github.com/sampalegis/legisdex/internal/usecase/search"
)

// Searcher is the search usecase surface the transport needs.
type Searcher interface {
	Search(ctx context.Context, q domsearch.Query) domsearch.Response
	SearchStaged(ctx context.Context, q domsearch.Query, emit searchuc.StagedHandler)
}

// Pinger reports datastore connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config holds the transport knobs.
type Config struct {
	DefaultPageSize int
	MaxPageSize     int
	StreamTimeout   time.Duration
}

// Server handles the HTTP API.
type Server struct {
	search   Searcher
	db       Pinger
	embedder domain.HealthChecker
	logger   *zap.Logger
	cfg      Config
}

// NewServer creates an HTTP API server. embedder may be nil when the
// provider exposes no health endpoint.
func NewServer(search Searcher, db Pinger, embedder domain.HealthChecker, logger *zap.Logger, cfg Config) *Server {
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = 20
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = 100
	}
	if cfg.StreamTimeout <= 0 {
		cfg.StreamTimeout = 3 * time.Minute
	}
	return &Server{search: search, db: db, embedder: embedder, logger: logger, cfg: cfg}
}

// Routes mounts the API on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/api/search", s.handleSearch)
	r.Get("/api/search/stream", s.handleSearchStream)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
}

// handleSearch handles GET /api/search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q, err := s.parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	resp := s.search.Search(r.Context(), q)
	metrics.SearchDuration.Observe(time.Since(start).Seconds())
	metrics.SearchRequestsTotal.WithLabelValues(outcomeOf(resp)).Inc()

	writeJSON(w, http.StatusOK, toResponseDTO(resp, "complete"))
}

// handleSearchStream handles GET /api/search/stream. Stages are delivered as
// SSE events: "exact" with the lexical page as soon as it is ready, then
// "complete" with the merged page.
func (s *Server) handleSearchStream(w http.ResponseWriter, r *http.Request) {
	q, err := s.parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// The server-wide write timeout is sized for the JSON endpoints; the
	// stream needs its own, longer budget.
	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Now().Add(s.cfg.StreamTimeout + 5*time.Second)); err != nil {
		s.logger.Debug("stream write deadline not extended", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.StreamTimeout)
	defer cancel()

	start := time.Now()
	s.search.SearchStaged(ctx, q, func(stage string, resp domsearch.Response) {
		payload, err := json.Marshal(toResponseDTO(resp, stage))
		if err != nil {
			s.logger.Error("marshal sse payload", zap.Error(err))
			return
		}
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", stage, payload)
		flusher.Flush()

		if stage == "complete" {
			metrics.SearchDuration.Observe(time.Since(start).Seconds())
			metrics.SearchRequestsTotal.WithLabelValues(outcomeOf(resp)).Inc()
		}
	})
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	type componentHealth struct {
		Status string `json:"status"`
		Error  string `json:"error,omitempty"`
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	overall := http.StatusOK
	components := map[string]componentHealth{}

	if err := s.db.Ping(ctx); err != nil {
		components["database"] = componentHealth{Status: "down", Error: err.Error()}
		overall = http.StatusServiceUnavailable
	} else {
		components["database"] = componentHealth{Status: "ok"}
	}

	if s.embedder != nil {
		if err := s.embedder.HealthCheck(ctx); err != nil {
			// Search degrades to the lexical pass without the provider, so
			// this is not a hard failure.
			components["embedding"] = componentHealth{Status: "degraded", Error: err.Error()}
		} else {
			components["embedding"] = componentHealth{Status: "ok"}
		}
	}

	status := "ok"
	if overall != http.StatusOK {
		status = "unavailable"
	}
	writeJSON(w, overall, map[string]any{
		"status":     status,
		"components": components,
	})
}

// parseQuery reads the search parameters: q, page, size and excludedFilters
// (a JSON object mapping facet names to excluded values). An empty q is not
// an error; the pipeline short-circuits it to an empty response.
func (s *Server) parseQuery(r *http.Request) (domsearch.Query, error) {
	params := r.URL.Query()

	q := domsearch.Query{Raw: params.Get("q"), PageSize: s.cfg.DefaultPageSize}

	if v := params.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 0 {
			return domsearch.Query{}, fmt.Errorf("%w: invalid page %q", domain.ErrInvalidRequest, v)
		}
		q.Page = page
	}
	if v := params.Get("size"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size <= 0 {
			return domsearch.Query{}, fmt.Errorf("%w: invalid size %q", domain.ErrInvalidRequest, v)
		}
		if size > s.cfg.MaxPageSize {
			size = s.cfg.MaxPageSize
		}
		q.PageSize = size
	}
	if v := params.Get("excludedFilters"); v != "" {
		if err := json.Unmarshal([]byte(v), &q.Excluded); err != nil {
			return domsearch.Query{}, fmt.Errorf("%w: invalid excludedFilters: %v", domain.ErrInvalidRequest, err)
		}
	}

	return q, nil
}

func outcomeOf(resp domsearch.Response) string {
	if resp.TotalCount == 0 {
		return "empty"
	}
	return "ok"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
