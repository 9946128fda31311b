// Tradeguard - Trade Tariff Protection Measure Evaluation
// Copyright 2026 Tradeguard Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/tradeguard/tradeguard

package resilience

import (
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tradeguard/tradeguard/internal/logging"
	"github.com/tradeguard/tradeguard/internal/metrics"
)

// ErrUpstreamUnavailable marks a call suppressed by an open circuit.
// It is absorbed inside adapters through fallback values, never surfaced
// to the orchestrator.
var ErrUpstreamUnavailable = errors.New("upstream unavailable")

// BreakerConfig holds circuit breaker settings for one source.
type BreakerConfig struct {
	// Name identifies the source in logs and metrics.
	Name string

	// FailureThreshold is the number of consecutive failures that opens
	// the circuit.
	FailureThreshold uint32

	// Cooldown is how long the circuit stays open before a trial call.
	Cooldown time.Duration
}

// NewBreaker creates a circuit breaker for one external source, wired to
// state metrics and logging. The circuit opens after FailureThreshold
// consecutive failures and transitions to half-open after Cooldown.
func NewBreaker[T any](cfg BreakerConfig) *gobreaker.CircuitBreaker[T] {
	metrics.CircuitBreakerState.WithLabelValues(cfg.Name).Set(0)

	settings := gobreaker.Settings{
		Name:    cfg.Name,
		Timeout: cfg.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("source", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	}

	return gobreaker.NewCircuitBreaker[T](settings)
}

// Execute runs op through the breaker and returns its result. When the
// circuit is open, or op fails, the fallback value is returned immediately
// and degraded reports true. Errors never escape this function.
func Execute[T any](cb *gobreaker.CircuitBreaker[T], op func() (T, error), fallback T) (result T, degraded bool) {
	result, err := cb.Execute(op)
	if err == nil {
		metrics.SourceRequests.WithLabelValues(cb.Name(), "success").Inc()
		return result, false
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.SourceRequests.WithLabelValues(cb.Name(), "rejected").Inc()
		logging.Warn().Str("source", cb.Name()).Err(err).Msg("circuit open, using fallback")
	} else {
		metrics.SourceRequests.WithLabelValues(cb.Name(), "failure").Inc()
		logging.Warn().Str("source", cb.Name()).Err(err).Msg("call failed, using fallback")
	}
	metrics.SourceRequests.WithLabelValues(cb.Name(), "fallback").Inc()
	return fallback, true
}

// stateToFloat converts a breaker state to its metric value.
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
