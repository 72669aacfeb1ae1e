// Package http is the HTTP adapter exposing the job tracking API and
// the static UI.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ozgung/JobsAnalyzer/internal/domain"
)

// Server is the HTTP adapter for the job tracking service.
type Server struct {
	svc       *domain.JobService
	logger    *zap.Logger
	staticDir string
	mux       *http.ServeMux
	server    *http.Server
}

// NewServer creates a new HTTP server. staticDir may be empty to
// disable the UI.
func NewServer(svc *domain.JobService, logger *zap.Logger, addr, staticDir string) *Server {
	s := &Server{
		svc:       svc,
		logger:    logger,
		staticDir: staticDir,
		mux:       http.NewServeMux(),
	}
	s.routes()
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.mux,
	}
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /jobs", s.handleListJobs)
	s.mux.HandleFunc("POST /analyze", s.handleAnalyze)
	s.mux.HandleFunc("DELETE /jobs", s.handleDeleteJob)
	s.mux.HandleFunc("PATCH /jobs", s.handleSetPriority)
	s.mux.HandleFunc("GET /health", s.handleHealth)

	if s.staticDir != "" {
		if _, err := os.Stat(s.staticDir); err == nil {
			s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(s.staticDir))))
			s.mux.HandleFunc("GET /{$}", s.handleIndex)
		}
	}
}

// analyzeRequest is the request body for POST /analyze.
type analyzeRequest struct {
	URL string `json:"url"`
}

// deleteRequest is the request body for DELETE /jobs. job_id carries
// the URL; the URL is the record's identity.
type deleteRequest struct {
	JobID string `json:"job_id"`
}

// priorityRequest is the request body for PATCH /jobs.
type priorityRequest struct {
	JobID    string `json:"job_id"`
	Priority int    `json:"priority"`
}

type successResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.svc.List(r.Context())
	if err != nil {
		s.logger.Error("list jobs", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if jobs == nil {
		jobs = []domain.Job{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"jobs": jobs})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	job, err := s.svc.Analyze(r.Context(), req.URL)
	if err != nil {
		s.writeAnalyzeError(w, req.URL, err)
		return
	}

	s.logger.Info("job analyzed",
		zap.String("url", job.URL),
		zap.String("company", job.CompanyName),
		zap.String("title", job.JobTitle))
	s.writeJSON(w, http.StatusOK, successResponse{Success: true, Data: job})
}

// writeAnalyzeError maps each pipeline failure kind to a status code,
// always wrapped in the success/error envelope.
func (s *Server) writeAnalyzeError(w http.ResponseWriter, url string, err error) {
	var (
		fetchErr   *domain.FetchError
		extractErr *domain.ExtractionError
		parseErr   *domain.ParseError
	)
	switch {
	case errors.Is(err, domain.ErrEmptyURL), errors.Is(err, domain.ErrInvalidURL):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrDuplicateURL):
		s.writeError(w, http.StatusConflict, "job URL already exists")
	case errors.Is(err, domain.ErrMissingAPIKey):
		s.logger.Error("analyze failed", zap.String("url", url), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, err.Error())
	case errors.As(err, &fetchErr), errors.As(err, &extractErr), errors.As(err, &parseErr):
		s.logger.Warn("analyze failed", zap.String("url", url), zap.Error(err))
		s.writeError(w, http.StatusBadGateway, err.Error())
	default:
		s.logger.Error("analyze failed", zap.String("url", url), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.JobID == "" {
		s.writeError(w, http.StatusBadRequest, "job_id is required")
		return
	}

	deleted, err := s.svc.Delete(r.Context(), req.JobID)
	if err != nil {
		s.logger.Error("delete job", zap.String("url", req.JobID), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !deleted {
		s.writeError(w, http.StatusNotFound, "job not found")
		return
	}

	s.logger.Info("job deleted", zap.String("url", req.JobID))
	s.writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (s *Server) handleSetPriority(w http.ResponseWriter, r *http.Request) {
	var req priorityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.JobID == "" {
		s.writeError(w, http.StatusBadRequest, "job_id is required")
		return
	}

	updated, err := s.svc.SetPriority(r.Context(), req.JobID, req.Priority)
	if err != nil {
		if errors.Is(err, domain.ErrPriorityRange) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("set priority", zap.String("url", req.JobID), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !updated {
		s.writeError(w, http.StatusNotFound, "job not found")
		return
	}

	s.writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(s.staticDir, "index.html"))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Success: false, Error: msg})
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// ServeHTTP implements http.Handler for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
