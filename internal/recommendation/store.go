// Tradeguard - Trade Tariff Protection Measure Evaluation
// Copyright 2026 Tradeguard Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/tradeguard/tradeguard

package recommendation

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned when no recommendation exists for a request ID.
var ErrNotFound = errors.New("recommendation not found")

// Store persists recommendations. Implementations must be safe for
// concurrent use.
type Store interface {
	Create(ctx context.Context, rec *Recommendation) error
	Update(ctx context.Context, rec *Recommendation) error
	FindByRequestID(ctx context.Context, requestID string) (*Recommendation, error)
}

// MemoryStore is an in-memory Store for tests and ephemeral deployments.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Recommendation
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Recommendation)}
}

func (s *MemoryStore) Create(_ context.Context, rec *Recommendation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[rec.RequestID]; exists {
		return errors.New("recommendation already exists: " + rec.RequestID)
	}
	s.records[rec.RequestID] = *rec
	return nil
}

func (s *MemoryStore) Update(_ context.Context, rec *Recommendation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[rec.RequestID]; !exists {
		return ErrNotFound
	}
	s.records[rec.RequestID] = *rec
	return nil
}

func (s *MemoryStore) FindByRequestID(_ context.Context, requestID string) (*Recommendation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, exists := s.records[requestID]
	if !exists {
		return nil, ErrNotFound
	}
	return &rec, nil
}
