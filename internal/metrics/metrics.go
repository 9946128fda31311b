// Tradeguard - Trade Tariff Protection Measure Evaluation
// Copyright 2026 Tradeguard Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/tradeguard/tradeguard

// Package metrics declares the Prometheus instrumentation for Tradeguard.
//
// Metrics are exposed at /metrics in Prometheus text format. Naming follows
// the <subsystem>_<noun>_<unit> convention:
//
//   - source_requests_total{source, outcome}: upstream calls by result
//     (outcome: success, failure, rejected, fallback)
//   - source_request_duration_seconds{source}: upstream call latency
//   - rate_limit_rejections_total{source}: bounded-wait acquisition failures
//   - circuit_breaker_state{source}: 0=closed, 1=half-open, 2=open
//   - cache_hits_total / cache_misses_total{source}: read-through cache
//   - evaluations_total{status}: finished evaluations by terminal status
//   - evaluation_duration_seconds: end-to-end evaluation latency
//   - consumer_messages_total{outcome}: event consumption results
//   - http_request_duration_seconds{method, route, status}: API latency
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SourceRequests counts upstream source calls by outcome.
	SourceRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_requests_total",
			Help: "Total external source calls by outcome",
		},
		[]string{"source", "outcome"}, // success, failure, rejected, fallback
	)

	// SourceRequestDuration observes upstream call latency per source.
	SourceRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "source_request_duration_seconds",
			Help:    "External source call latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"source"},
	)

	// RateLimitRejections counts acquisitions that timed out waiting for a permit.
	RateLimitRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_rejections_total",
			Help: "Total rate limiter acquisitions rejected after bounded wait",
		},
		[]string{"source"},
	)

	// CircuitBreakerState reports the current breaker state per source.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"source"},
	)

	// CircuitBreakerTransitions counts state changes per source.
	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total circuit breaker state transitions",
		},
		[]string{"source", "from", "to"},
	)

	// CacheHits counts read-through cache hits per source.
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total response cache hits",
		},
		[]string{"source"},
	)

	// CacheMisses counts read-through cache misses per source.
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total response cache misses",
		},
		[]string{"source"},
	)

	// Evaluations counts finished evaluation requests by terminal status.
	Evaluations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evaluations_total",
			Help: "Total completed evaluation requests by terminal status",
		},
		[]string{"status"}, // completed, failed
	)

	// EvaluationDuration observes end-to-end evaluation latency.
	EvaluationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "evaluation_duration_seconds",
			Help:    "End-to-end evaluation latency in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	// ConsumerMessages counts consumed evaluation-request messages by outcome.
	ConsumerMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "consumer_messages_total",
			Help: "Total consumed evaluation request messages by outcome",
		},
		[]string{"outcome"}, // processed, failed, malformed
	)

	// HTTPRequestDuration observes API request latency by route and status.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route", "status"},
	)
)
