// Package server exposes the lookup pipeline over HTTP. It is deliberately
// thin: parameter plucking, status mapping, and JSON envelopes; every
// decision lives in the resolver and source packages.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aluiziolira/go-trackmeta/resolver"
	"github.com/aluiziolira/go-trackmeta/source"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server routes lookup requests to the resolver.
type Server struct {
	resolver *resolver.Resolver
	metrics  *source.Metrics
	mux      *http.ServeMux
}

// New wires the routes. metrics may be nil, which disables /metrics.
func New(r *resolver.Resolver, metrics *source.Metrics) *Server {
	s := &Server{
		resolver: r,
		metrics:  metrics,
		mux:      http.NewServeMux(),
	}
	s.routes()
	return s
}

// ServeHTTP satisfies http.Handler, applying the cross-cutting middleware.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	corsMiddleware(loggingMiddleware(s.mux)).ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /metadata", s.handleMetadata)
	s.mux.HandleFunc("GET /ping", s.handlePing)
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))
	}
}

func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	title := strings.TrimSpace(params.Get("title"))
	artist := strings.TrimSpace(params.Get("artist"))

	if title == "" {
		writeError(w, http.StatusBadRequest, "missing title")
		return
	}

	meta, err := s.resolver.ResolveTrack(r.Context(), title, artist)
	if err != nil {
		status, message := statusForError(err)
		writeError(w, status, message)
		return
	}

	writeJSON(w, http.StatusOK, meta)
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "online"})
}

// statusForError maps source errors onto the response contract. Unreachable
// is collapsed into not-found by the resolver; the upstream branch here only
// catches an adapter that surfaced it directly.
func statusForError(err error) (int, string) {
	if errors.Is(err, source.ErrNotFound) {
		return http.StatusNotFound, "track not found"
	}
	var extraction source.ErrExtraction
	if errors.As(err, &extraction) {
		return http.StatusInternalServerError, "failed to extract metadata"
	}
	var unreachable source.ErrUnreachable
	if errors.As(err, &unreachable) {
		return http.StatusBadGateway, "metadata source unreachable"
	}
	return http.StatusInternalServerError, "internal error"
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("encode response", slog.Any("error", err))
	}
}
