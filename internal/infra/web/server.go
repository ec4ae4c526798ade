// Package web serves the operational endpoints: liveness and Prometheus
// metrics. Nothing user-facing lives here.
package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

type Server struct {
	srv *http.Server
	log *zerolog.Logger
}

func NewServer(port int, logger *zerolog.Logger) *Server {
	compLog := logger.With().Str("component", "OpsServer").Logger()

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})
	r.Handle("/metrics", promhttp.Handler())

	return &Server{
		srv: &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: r},
		log: &compLog,
	}
}

func (s *Server) Start() error {
	s.log.Info().Str("addr", s.srv.Addr).Msg("ops server listening")
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
