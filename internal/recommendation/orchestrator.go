// Tradeguard - Trade Tariff Protection Measure Evaluation
// Copyright 2026 Tradeguard Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/tradeguard/tradeguard

package recommendation

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tradeguard/tradeguard/internal/evaluation"
	"github.com/tradeguard/tradeguard/internal/logging"
	"github.com/tradeguard/tradeguard/internal/measures"
	"github.com/tradeguard/tradeguard/internal/metrics"
)

// ContextBuilder assembles the evaluation context for a commodity.
type ContextBuilder interface {
	Build(ctx context.Context, domesticCode string) evaluation.Context
}

// Request describes one evaluation to run.
type Request struct {
	DomesticCode string `json:"domestic_code"`
	ProductName  string `json:"product_name"`
	UserID       string `json:"user_id"`
}

// Orchestrator drives evaluation requests through the recommendation
// lifecycle. Safe for concurrent use.
type Orchestrator struct {
	store   Store
	builder ContextBuilder

	now   func() time.Time
	newID func() string
}

// NewOrchestrator creates an orchestrator over the given store and
// context builder.
func NewOrchestrator(store Store, builder ContextBuilder) *Orchestrator {
	return &Orchestrator{
		store:   store,
		builder: builder,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Evaluate runs one full evaluation: it persists a new recommendation,
// builds the context, scores all six measures, and completes the record
// with the total score and summary. The returned recommendation is in a
// terminal state; the error reports persistence failures only.
func (o *Orchestrator) Evaluate(ctx context.Context, req Request) (result *Recommendation, err error) {
	start := o.now()

	rec := &Recommendation{
		RequestID:    o.newID(),
		UserID:       req.UserID,
		DomesticCode: req.DomesticCode,
		ProductName:  req.ProductName,
		Status:       StatusPending,
		CreatedAt:    start,
	}

	// A defect anywhere in context build or scoring is terminal for the
	// request: the record must land in FAILED with the reason recorded,
	// never stay IN_PROGRESS with the panic unwinding past the caller.
	defer func() {
		if r := recover(); r != nil {
			result, err = o.fail(ctx, rec, fmt.Errorf("panic: %v", r))
		}
	}()

	logging.Info().
		Str("request_id", rec.RequestID).
		Str("domestic_code", req.DomesticCode).
		Str("product", req.ProductName).
		Msg("starting evaluation")

	if err := o.store.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("create recommendation: %w", err)
	}

	if err := o.advance(ctx, rec, StatusInProgress); err != nil {
		return o.fail(ctx, rec, err)
	}

	ec := o.builder.Build(ctx, req.DomesticCode)
	results := measures.All(ec)

	rec.Measures = results
	rec.TotalScore = totalScore(results)
	rec.Summary = summarize(results, ec)

	if err := o.complete(ctx, rec); err != nil {
		return o.fail(ctx, rec, err)
	}

	metrics.Evaluations.WithLabelValues(string(StatusCompleted)).Inc()
	metrics.EvaluationDuration.Observe(o.now().Sub(start).Seconds())
	logging.Info().
		Str("request_id", rec.RequestID).
		Float64("total_score", rec.TotalScore).
		Msg("evaluation completed")
	return rec, nil
}

// Get returns the recommendation for a request ID.
func (o *Orchestrator) Get(ctx context.Context, requestID string) (*Recommendation, error) {
	return o.store.FindByRequestID(ctx, requestID)
}

func (o *Orchestrator) advance(ctx context.Context, rec *Recommendation, to Status) error {
	if err := rec.Transition(to); err != nil {
		return err
	}
	return o.store.Update(ctx, rec)
}

func (o *Orchestrator) complete(ctx context.Context, rec *Recommendation) error {
	if err := rec.Transition(StatusCompleted); err != nil {
		return err
	}
	completed := o.now()
	rec.CompletedAt = &completed
	return o.store.Update(ctx, rec)
}

// fail moves the record to FAILED with the error in the summary. The
// failed state is best-effort persisted; the original error is returned
// either way.
func (o *Orchestrator) fail(ctx context.Context, rec *Recommendation, cause error) (*Recommendation, error) {
	metrics.Evaluations.WithLabelValues(string(StatusFailed)).Inc()
	logging.Error().
		Str("request_id", rec.RequestID).
		Err(cause).
		Msg("evaluation failed")

	if !rec.Status.Terminal() {
		if err := rec.Transition(StatusFailed); err == nil {
			failed := o.now()
			rec.CompletedAt = &failed
			rec.Summary = "Evaluation failed: " + cause.Error()
			if uerr := o.store.Update(ctx, rec); uerr != nil {
				logging.Error().Str("request_id", rec.RequestID).Err(uerr).
					Msg("could not persist failed state")
			}
		}
	}
	return rec, fmt.Errorf("evaluate request %s: %w", rec.RequestID, cause)
}

// totalScore is the mean score over applicable measures, 0 when none
// apply.
func totalScore(results []measures.Result) float64 {
	var sum float64
	var count int
	for _, result := range results {
		if !result.Applicable {
			continue
		}
		sum += result.Score
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// summarize builds the narrative verdict: applicable measures ranked by
// score, the top recommendation with its rationale, and a digest of the
// key signals.
func summarize(results []measures.Result, ec evaluation.Context) string {
	applicable := make([]measures.Result, 0, len(results))
	for _, result := range results {
		if result.Applicable {
			applicable = append(applicable, result)
		}
	}
	sort.SliceStable(applicable, func(i, j int) bool {
		return applicable[i].Score > applicable[j].Score
	})

	var sb strings.Builder
	fmt.Fprintf(&sb, "Analysis complete. Applicable measures: %d of %d.\n\n", len(applicable), len(results))

	if len(applicable) > 0 {
		top := applicable[0]
		fmt.Fprintf(&sb, "Recommended: %s (score %.1f)\n", top.Name, top.Score)
		fmt.Fprintf(&sb, "Rationale: %s\n\n", top.Reasoning)

		if len(applicable) > 1 {
			sb.WriteString("Also applicable:\n")
			for _, result := range applicable[1:] {
				fmt.Fprintf(&sb, "- %s (score %.1f)\n", result.Name, result.Score)
			}
			sb.WriteString("\n")
		}
	} else {
		sb.WriteString("No applicable measures found. Continued monitoring is advised.\n\n")
	}

	sb.WriteString("Key indicators:\n")
	fmt.Fprintf(&sb, "- Dominant partner import share: %.1f%%\n", ec.DominantPartnerShare*100)
	fmt.Fprintf(&sb, "- Designated group import share: %.1f%%\n", ec.DesignatedGroupShare*100)
	fmt.Fprintf(&sb, "- Capacity utilization: %.1f%%\n", ec.CapacityUtilization*100)
	fmt.Fprintf(&sb, "- Production decline: %.1f%%\n", ec.ProductionDecline*100)

	return sb.String()
}
