// Tradeguard - Trade Tariff Protection Measure Evaluation
// Copyright 2026 Tradeguard Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/tradeguard/tradeguard

// Command server runs the Tradeguard evaluation engine: the HTTP API,
// the optional NATS request consumer, and the embedded recommendation
// store, supervised as one tree.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"

	"github.com/tradeguard/tradeguard/internal/api"
	"github.com/tradeguard/tradeguard/internal/classify"
	"github.com/tradeguard/tradeguard/internal/config"
	"github.com/tradeguard/tradeguard/internal/evaluation"
	"github.com/tradeguard/tradeguard/internal/events"
	"github.com/tradeguard/tradeguard/internal/logging"
	"github.com/tradeguard/tradeguard/internal/metrics"
	"github.com/tradeguard/tradeguard/internal/recommendation"
	"github.com/tradeguard/tradeguard/internal/resilience"
	"github.com/tradeguard/tradeguard/internal/sources/comtrade"
	"github.com/tradeguard/tradeguard/internal/sources/emiss"
	"github.com/tradeguard/tradeguard/internal/sources/wto"
	"github.com/tradeguard/tradeguard/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("could not load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})
	logging.Info().Str("addr", cfg.Server.Addr).Msg("starting tradeguard")

	store, err := storage.Open(cfg.Storage)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Storage.Path).Msg("could not open store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Warn().Err(err).Msg("store close failed")
		}
	}()

	limiters := resilience.NewLimiters()
	cache := resilience.NewCache(
		func(source string) { metrics.CacheHits.WithLabelValues(source).Inc() },
		func(source string) { metrics.CacheMisses.WithLabelValues(source).Inc() },
	)

	tradeClient := comtrade.NewClient(cfg.Sources.Comtrade, limiters, cache)
	productionClient := emiss.NewClient(cfg.Sources.Emiss, limiters, cache)
	tariffClient := wto.NewClient(wto.NewSchedule(wto.DefaultEntries()), cfg.Sources.WTO, limiters, cache)

	builder := evaluation.NewBuilder(classify.NewStatic(), tradeClient, productionClient, tariffClient, cfg.Evaluation)
	orchestrator := recommendation.NewOrchestrator(store, builder)

	handler := &sutureslog.Handler{Logger: logging.NewSlogLogger()}
	root := suture.New("tradeguard", suture.Spec{
		EventHook:        handler.MustHook(),
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		Timeout:          cfg.Server.ShutdownTimeout,
	})

	root.Add(api.NewServer(cfg.Server, orchestrator, store))

	if cfg.NATS.Enabled {
		consumer, err := buildConsumer(cfg.NATS, orchestrator)
		if err != nil {
			logging.Fatal().Err(err).Str("url", cfg.NATS.URL).Msg("could not connect event transport")
		}
		root.Add(consumer)
	} else {
		logging.Info().Msg("event transport disabled, HTTP only")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("shutdown signal received")
		cancel()
	}()

	err = root.Serve(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("supervisor exited with error")
		os.Exit(1)
	}
	logging.Info().Msg("tradeguard stopped")
}

// consumerService adapts the event consumer to suture's Service
// interface.
type consumerService struct {
	consumer *events.Consumer
}

func (s *consumerService) Serve(ctx context.Context) error {
	return s.consumer.Run(ctx)
}

func (s *consumerService) String() string { return "events-consumer" }

func buildConsumer(cfg config.NATSConfig, orchestrator *recommendation.Orchestrator) (suture.Service, error) {
	wmLogger := events.NewLoggerAdapter()

	subscriber, err := events.NewNATSSubscriber(cfg, wmLogger)
	if err != nil {
		return nil, err
	}
	publisher, err := events.NewNATSPublisher(cfg, wmLogger)
	if err != nil {
		return nil, err
	}

	consumer := events.NewConsumer(subscriber, publisher, orchestrator, cfg.EvaluationTopic, cfg.NotificationTopic)
	return &consumerService{consumer: consumer}, nil
}
