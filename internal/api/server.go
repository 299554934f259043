package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/verilex/verilex/internal/model"
	"github.com/verilex/verilex/internal/pipeline"
	"github.com/verilex/verilex/internal/store"
)

// Server exposes the verification pipeline over HTTP: starting runs, reading
// their state, and feeding reviewer decisions through the review gate.
type Server struct {
	runner *pipeline.Runner
}

// NewServer creates an API server around a pipeline runner
func NewServer(runner *pipeline.Runner) *Server {
	return &Server{runner: runner}
}

// Router builds the HTTP routes
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(2 * time.Minute))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/verifications", func(r chi.Router) {
		r.Post("/", s.handleStart)
		r.Get("/{documentId}", s.handleGet)
		r.Post("/{documentId}/review", s.handleReview)
		r.Post("/{documentId}/cancel", s.handleCancel)
	})

	return r
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req pipeline.StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := s.runner.Start(r.Context(), req)
	if err != nil {
		var verr *pipeline.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusUnprocessableEntity, verr.Error())
			return
		}
		// Stage failures still produce a terminal record with diagnostics
		if record != nil {
			writeJSON(w, http.StatusOK, record)
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	status := http.StatusOK
	if record.PipelineStatus == model.StatusAwaitingReview {
		status = http.StatusAccepted
	}
	writeJSON(w, status, record)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	record, err := s.runner.Get(r.Context(), chi.URLParam(r, "documentId"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	var fb model.HumanFeedback
	if err := json.NewDecoder(r.Body).Decode(&fb); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := s.runner.Resume(r.Context(), chi.URLParam(r, "documentId"), fb)
	if err != nil {
		writeResumeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	record, err := s.runner.Cancel(r.Context(), chi.URLParam(r, "documentId"))
	if err != nil {
		writeResumeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func writeResumeError(w http.ResponseWriter, err error) {
	var stale *pipeline.StaleStateError
	var verr *pipeline.ValidationError
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &stale):
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &verr):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// ListenAndServe runs the server until ctx is cancelled, then drains with
// the configured shutdown grace period
func (s *Server) ListenAndServe(ctx context.Context, cfg model.ServerConfig) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeout := cfg.ShutdownTimeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
