// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/dribble/internal/adapters/repository"
	"github.com/okian/dribble/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Summaries lists every processed video ordered by video id.
	Summaries(ctx context.Context) []repository.Summary

	// Result returns the detection result of one video.
	Result(ctx context.Context, videoID string) (model.VideoResult, error)
}

// Server wires HTTP routes for the operational API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	videosHandler *VideosHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		videosHandler: NewVideosHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/videos", MetricsMiddleware(s.videosHandler.HandleList, "videos"))
	// Video ids are "<subset>/<directory>", so the wildcard spans segments.
	mux.HandleFunc("/videos/{id...}", MetricsMiddleware(s.videosHandler.HandleGet, "video"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// allowGet answers anything but GET with 405 and reports whether the
// request may proceed.
func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet {
		return true
	}
	w.Header().Set("Allow", http.MethodGet)
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed",
		fmt.Errorf("%w: method %s", ErrMethodNotAllowed, r.Method))
	return false
}

// isNotFound translates upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound) || errors.Is(err, ErrNotFound)
}
