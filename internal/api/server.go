// Tradeguard - Trade Tariff Protection Measure Evaluation
// Copyright 2026 Tradeguard Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/tradeguard/tradeguard

// Package api exposes the evaluation engine over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tradeguard/tradeguard/internal/config"
	"github.com/tradeguard/tradeguard/internal/logging"
	"github.com/tradeguard/tradeguard/internal/recommendation"
)

// Evaluator is the synchronous evaluation surface the API fronts.
type Evaluator interface {
	Evaluate(ctx context.Context, req recommendation.Request) (*recommendation.Recommendation, error)
	Get(ctx context.Context, requestID string) (*recommendation.Recommendation, error)
}

// Lister enumerates a user's recommendations. Stores without a user
// index leave it nil and the listing endpoint reports as unsupported.
type Lister interface {
	ListByUser(ctx context.Context, userID string) ([]*recommendation.Recommendation, error)
}

// Server carries the HTTP surface: evaluation endpoints, health, and
// the Prometheus scrape target.
type Server struct {
	cfg       config.ServerConfig
	evaluator Evaluator
	lister    Lister
}

// NewServer builds the API server. lister may be nil.
func NewServer(cfg config.ServerConfig, evaluator Evaluator, lister Lister) *Server {
	return &Server{cfg: cfg, evaluator: evaluator, lister: lister}
}

// Handler assembles the route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(CORS())

	r.Get("/api/v1/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/evaluations", func(r chi.Router) {
		r.Use(RateLimit())
		r.Use(Metrics())
		r.Post("/", s.handleEvaluate)
		r.Get("/", s.handleList)
		r.Get("/{requestID}", s.handleGet)
	})

	return r
}

// Serve runs the HTTP listener until ctx is canceled, then drains
// in-flight requests within the configured shutdown timeout. The
// signature matches suture's Service interface.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errs := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", s.cfg.Addr).Msg("http server listening")
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Warn().Err(err).Msg("http server shutdown incomplete")
		return err
	}
	if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}
