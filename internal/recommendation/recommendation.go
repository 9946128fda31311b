// Tradeguard - Trade Tariff Protection Measure Evaluation
// Copyright 2026 Tradeguard Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/tradeguard/tradeguard

// Package recommendation owns the evaluation request lifecycle: the
// durable recommendation record, its status state machine, and the
// orchestrator that drives one request from PENDING to a terminal state.
package recommendation

import (
	"fmt"
	"time"

	"github.com/tradeguard/tradeguard/internal/measures"
)

// Status is the lifecycle state of a recommendation.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
)

// validTransitions is the status machine. Terminal states have no exits.
var validTransitions = map[Status][]Status{
	StatusPending:    {StatusInProgress, StatusFailed},
	StatusInProgress: {StatusCompleted, StatusFailed},
}

// Terminal reports whether s admits no further transitions.
func (s Status) Terminal() bool {
	return len(validTransitions[s]) == 0
}

// Transition validates and applies a status change. Statuses only move
// forward: re-entering an earlier state or leaving a terminal one is an
// error.
func (r *Recommendation) Transition(to Status) error {
	for _, allowed := range validTransitions[r.Status] {
		if allowed == to {
			r.Status = to
			return nil
		}
	}
	return fmt.Errorf("invalid status transition %s -> %s", r.Status, to)
}

// Recommendation is one durable evaluation record, keyed by its request
// identifier.
type Recommendation struct {
	RequestID    string `json:"request_id"`
	UserID       string `json:"user_id"`
	DomesticCode string `json:"domestic_code"`
	ProductName  string `json:"product_name"`

	Status   Status            `json:"status"`
	Measures []measures.Result `json:"measures"`

	// TotalScore is the mean score over applicable measures, 0 when none
	// apply. Meaningful only in COMPLETED state.
	TotalScore float64 `json:"total_score"`

	// Summary is the narrative verdict; on FAILED it records the error.
	Summary string `json:"summary"`

	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
