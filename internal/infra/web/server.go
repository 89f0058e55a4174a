package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"talkbill/internal/usecase"
)

// Server exposes the operational surface: health, metrics, and a manual
// batch trigger for operators who cannot wait for the next tick.
type Server struct {
	batch *usecase.BatchRunner
	auth  *AuthManager
	log   *zerolog.Logger
	http  *http.Server
}

func NewServer(batch *usecase.BatchRunner, auth *AuthManager, port int, logger *zerolog.Logger) *Server {
	l := logger.With().Str("component", "WebServer").Logger()
	s := &Server{batch: batch, auth: auth, log: &l}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.healthHandler)
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/admin", func(r chi.Router) {
		r.Use(auth.Middleware)
		r.Post("/batch/run", s.batchRunHandler)
	})

	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) Start() error {
	s.log.Info().Str("addr", s.http.Addr).Msg("admin server listening")
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) batchRunHandler(w http.ResponseWriter, r *http.Request) {
	report, err := s.batch.RunBatch(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("manual batch run failed")
		http.Error(w, "batch run failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(report)
}
