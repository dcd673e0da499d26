package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/defilabs-io/wallet-scoring-service/internal/config"
	"github.com/defilabs-io/wallet-scoring-service/internal/db"
	"github.com/defilabs-io/wallet-scoring-service/internal/services"
)

// Server is the admin HTTP surface: health, worker stats, masked config,
// restart control and score lookups from the archive.
type Server struct {
	cfg     *config.Config
	service *services.Service
	db      db.DbInterface
	httpSrv *http.Server

	// runCtx outlives individual requests; restarted workers inherit it
	// instead of the request context.
	runCtx context.Context
}

func New(runCtx context.Context, cfg *config.Config, service *services.Service, database db.DbInterface) *Server {
	s := &Server{
		cfg:     cfg,
		service: service,
		db:      database,
		runCtx:  runCtx,
	}
	s.httpSrv = &http.Server{
		Addr:              cfg.Api.Address(),
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Get("/stats", s.handleStats)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/stats", s.handleStats)
		r.Get("/scores", s.handleLatestScores)
		r.Get("/scores/{walletAddress}", s.handleWalletScore)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Get("/config", s.handleConfig)
		r.Post("/restart", s.handleRestart)
	})

	return r
}

// Start blocks serving HTTP until Shutdown is called or the listener
// fails.
func (s *Server) Start() error {
	log.Info().Str("address", s.httpSrv.Addr).Msg("starting admin API server")
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("admin API server failed: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}
