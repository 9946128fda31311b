// Tradeguard - Trade Tariff Protection Measure Evaluation
// Copyright 2026 Tradeguard Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/tradeguard/tradeguard

package resilience

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// ErrNoData marks a producer outcome that must not be cached: the call
// degraded to a fallback or the upstream answered without usable data.
// Callers treat it as an empty result; GetOr retries the producer on the
// next miss instead of serving a stale fallback for the full TTL.
var ErrNoData = errors.New("no data")

// cacheEntry is a cached value with its expiration time.
type cacheEntry struct {
	data      interface{}
	expiresAt time.Time
}

// Cache is a thread-safe in-memory response cache with per-entry TTL.
// It is a lookup/store aid only, never a source of truth: a hit bypasses
// the rate limiter and the network call, a miss falls through to the
// producer. Concurrent misses on the same key may race into the producer;
// recomputation is idempotent so the last write wins harmlessly.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry

	hits   func(source string)
	misses func(source string)
}

// cleanupInterval is how often expired entries are swept.
const cleanupInterval = 5 * time.Minute

// NewCache creates a cache with a background sweep goroutine that runs for
// the cache lifetime. hits and misses are per-source observation hooks
// (may be nil).
func NewCache(hits, misses func(source string)) *Cache {
	c := &Cache{
		entries: make(map[string]cacheEntry),
		hits:    hits,
		misses:  misses,
	}
	go c.cleanupLoop()
	return c
}

// Key builds a deterministic cache key from the source name and query
// parts (query parameters, period). The sha256 digest keeps keys bounded
// regardless of parameter length.
func Key(source string, parts ...string) string {
	sum := sha256.Sum256([]byte(source + "|" + strings.Join(parts, "|")))
	return fmt.Sprintf("%s:%x", source, sum[:16])
}

// GetOr returns the cached value for key if present and fresh; otherwise it
// invokes producer, stores a successful result with the given TTL, and
// returns it. Producer errors are returned without caching so the next call
// retries.
func (c *Cache) GetOr(source, key string, ttl time.Duration, producer func() (interface{}, error)) (interface{}, error) {
	if data, ok := c.get(key); ok {
		if c.hits != nil {
			c.hits(source)
		}
		return data, nil
	}
	if c.misses != nil {
		c.misses(source)
	}

	data, err := producer()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{data: data, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()

	return data, nil
}

// get retrieves a live entry, deleting it when expired.
func (c *Cache) get(key string) (interface{}, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return entry.data, true
}

// Invalidate removes a single entry.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len reports the number of entries, expired included until the next sweep.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for range ticker.C {
		now := time.Now()
		c.mu.Lock()
		for key, entry := range c.entries {
			if now.After(entry.expiresAt) {
				delete(c.entries, key)
			}
		}
		c.mu.Unlock()
	}
}
