// Tradeguard - Trade Tariff Protection Measure Evaluation
// Copyright 2026 Tradeguard Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/tradeguard/tradeguard

package resilience

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/tradeguard/tradeguard/internal/logging"
	"github.com/tradeguard/tradeguard/internal/metrics"
)

// ErrRateLimitExceeded is returned when a permit could not be acquired
// within the source's configured maximum wait. Callers treat it as
// "no data for this call", never as a request-level failure.
var ErrRateLimitExceeded = errors.New("rate limit exceeded")

// sourceLimiter pairs a token bucket with its bounded acquisition wait.
type sourceLimiter struct {
	limiter *rate.Limiter
	maxWait time.Duration
}

// Limiters is a registry of independent per-source rate limiters.
// The zero value is not usable; construct with NewLimiters.
type Limiters struct {
	mu      sync.RWMutex
	sources map[string]*sourceLimiter
}

// NewLimiters creates an empty limiter registry.
func NewLimiters() *Limiters {
	return &Limiters{sources: make(map[string]*sourceLimiter)}
}

// Register configures a limiter for the named source: permits requests per
// window, with Acquire blocking at most maxWait. Registering an existing
// source replaces its limiter.
func (l *Limiters) Register(source string, permits int, window, maxWait time.Duration) {
	interval := window / time.Duration(permits)
	l.mu.Lock()
	l.sources[source] = &sourceLimiter{
		limiter: rate.NewLimiter(rate.Every(interval), permits),
		maxWait: maxWait,
	}
	l.mu.Unlock()

	logging.Debug().
		Str("source", source).
		Int("permits", permits).
		Dur("window", window).
		Dur("max_wait", maxWait).
		Msg("rate limiter registered")
}

// Acquire blocks until a permit for the source is available, the bounded
// wait elapses, or ctx is canceled. A bounded-wait timeout yields
// ErrRateLimitExceeded; sources without a registered limiter pass through.
func (l *Limiters) Acquire(ctx context.Context, source string) error {
	l.mu.RLock()
	sl, ok := l.sources[source]
	l.mu.RUnlock()

	if !ok {
		logging.Warn().Str("source", source).Msg("no rate limiter configured for source")
		return nil
	}

	waitCtx, cancel := context.WithTimeout(ctx, sl.maxWait)
	defer cancel()

	if err := sl.limiter.Wait(waitCtx); err != nil {
		// Caller cancellation propagates as-is; only the bounded wait
		// elapsing maps to ErrRateLimitExceeded.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		metrics.RateLimitRejections.WithLabelValues(source).Inc()
		return fmt.Errorf("%w: source %s after %s", ErrRateLimitExceeded, source, sl.maxWait)
	}
	return nil
}
