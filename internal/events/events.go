// Tradeguard - Trade Tariff Protection Measure Evaluation
// Copyright 2026 Tradeguard Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/tradeguard/tradeguard

// Package events is the asynchronous intake and notification surface:
// evaluation requests arrive as JetStream messages and completions are
// announced on the notification topic.
package events

import "time"

// EvaluationRequested asks the engine to evaluate one commodity.
type EvaluationRequested struct {
	RequestID    string    `json:"request_id"`
	UserID       string    `json:"user_id"`
	DomesticCode string    `json:"domestic_code"`
	ProductName  string    `json:"product_name"`
	Timestamp    time.Time `json:"timestamp"`
}

// Notification announces a finished evaluation.
type Notification struct {
	RequestID  string    `json:"request_id"`
	UserID     string    `json:"user_id"`
	Subject    string    `json:"subject"`
	Message    string    `json:"message"`
	Status     string    `json:"status"`
	TotalScore float64   `json:"total_score"`
	Timestamp  time.Time `json:"timestamp"`
}
