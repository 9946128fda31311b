// Tradeguard - Trade Tariff Protection Measure Evaluation
// Copyright 2026 Tradeguard Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/tradeguard/tradeguard

// Package storage provides the durable BadgerDB-backed recommendation
// store. Records are keyed by request ID with a secondary user index for
// per-user listings.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tradeguard/tradeguard/internal/config"
	"github.com/tradeguard/tradeguard/internal/logging"
	"github.com/tradeguard/tradeguard/internal/recommendation"
)

// Key prefixes for BadgerDB storage
const (
	recommendationKeyPrefix = "recommendation:"
	userKeyPrefix           = "recommendation_user:"
)

// BadgerStore implements recommendation.Store on BadgerDB, persisting
// records across restarts.
type BadgerStore struct {
	db *badger.DB
}

// Open opens the recommendation database at the configured path. An empty
// path opens an in-memory database for tests and ephemeral deployments.
func Open(cfg config.StorageConfig) (*BadgerStore, error) {
	opts := badger.DefaultOptions(cfg.Path).WithLogger(nil)
	if cfg.Path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open recommendation store: %w", err)
	}

	logging.Info().Str("path", cfg.Path).Bool("in_memory", cfg.Path == "").
		Msg("recommendation store opened")
	return NewBadgerStore(db), nil
}

// NewBadgerStore wraps an already-open BadgerDB handle.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// Create stores a new recommendation. The request ID must be unused.
func (s *BadgerStore) Create(_ context.Context, rec *recommendation.Recommendation) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal recommendation: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		key := []byte(recommendationKeyPrefix + rec.RequestID)
		if _, err := txn.Get(key); err == nil {
			return fmt.Errorf("recommendation already exists: %s", rec.RequestID)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check recommendation: %w", err)
		}

		if err := txn.Set(key, data); err != nil {
			return fmt.Errorf("set recommendation: %w", err)
		}

		if rec.UserID != "" {
			userKey := []byte(userKeyPrefix + rec.UserID + ":" + rec.RequestID)
			if err := txn.Set(userKey, []byte(rec.RequestID)); err != nil {
				return fmt.Errorf("set user index: %w", err)
			}
		}
		return nil
	})
}

// Update overwrites an existing recommendation.
func (s *BadgerStore) Update(_ context.Context, rec *recommendation.Recommendation) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal recommendation: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		key := []byte(recommendationKeyPrefix + rec.RequestID)
		if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
			return recommendation.ErrNotFound
		} else if err != nil {
			return fmt.Errorf("check recommendation: %w", err)
		}
		return txn.Set(key, data)
	})
}

// FindByRequestID retrieves a recommendation by request ID.
func (s *BadgerStore) FindByRequestID(_ context.Context, requestID string) (*recommendation.Recommendation, error) {
	var rec recommendation.Recommendation

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(recommendationKeyPrefix + requestID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return recommendation.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get recommendation: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListByUser returns all recommendations created by a user, in key order.
func (s *BadgerStore) ListByUser(_ context.Context, userID string) ([]*recommendation.Recommendation, error) {
	var recs []*recommendation.Recommendation

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(userKeyPrefix + userID + ":")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var requestID string
			if err := it.Item().Value(func(val []byte) error {
				requestID = string(val)
				return nil
			}); err != nil {
				return err
			}

			item, err := txn.Get([]byte(recommendationKeyPrefix + requestID))
			if errors.Is(err, badger.ErrKeyNotFound) {
				// Dangling index entry; skip.
				continue
			}
			if err != nil {
				return fmt.Errorf("get recommendation %s: %w", requestID, err)
			}

			var rec recommendation.Recommendation
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			recs = append(recs, &rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recs, nil
}
