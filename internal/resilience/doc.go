// Tradeguard - Trade Tariff Protection Measure Evaluation
// Copyright 2026 Tradeguard Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/tradeguard/tradeguard

// Package resilience guards calls to external statistical and regulatory
// sources with three independent mechanisms:
//
//   - per-source rate limiting with a bounded blocking wait (Limiters)
//   - per-source circuit breaking with immediate fallback (NewBreaker, Execute)
//   - a read-through response cache with per-entry TTL (Cache)
//
// All three are data-driven from config.SourceConfig; adapters compose them
// explicitly per call instead of scattering policy inline:
//
//	data, err := cache.GetOr("comtrade", key, ttl, func() (any, error) {
//	    if err := limiters.Acquire(ctx, "comtrade"); err != nil {
//	        return nil, err
//	    }
//	    return resilience.Execute(cb, fetch, fallback), nil
//	})
//
// Sources are independent: limiter and breaker state are per-source and safe
// for concurrent use, with no cross-source locking.
package resilience
