// Tradeguard - Trade Tariff Protection Measure Evaluation
// Copyright 2026 Tradeguard Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/tradeguard/tradeguard

package emiss

import (
	"context"

	"github.com/tradeguard/tradeguard/internal/logging"
)

// NeutralCapacityPercent is the fallback when no utilization data exists.
// The midpoint keeps downstream threshold checks from triggering in either
// direction on missing data.
const NeutralCapacityPercent = 50.0

// ProductionDecline compares the production index at endYear against the
// index yearsBack earlier and returns the drop as a fraction of the earlier
// value. Positive means production fell, negative means it grew. Missing
// data on either side yields 0.
func (c *Client) ProductionDecline(ctx context.Context, productionCode string, endYear, yearsBack int) float64 {
	current, curOK := c.ProductionIndex(ctx, productionCode, endYear)
	previous, prevOK := c.ProductionIndex(ctx, productionCode, endYear-yearsBack)

	if !curOK || !prevOK || previous <= 0 {
		logging.Warn().Str("source", SourceName).Str("production_code", productionCode).
			Int("end_year", endYear).Int("years_back", yearsBack).
			Msg("insufficient index data for decline, assuming no change")
		return 0
	}

	decline := (previous - current) / previous
	logging.Debug().Str("source", SourceName).Str("production_code", productionCode).
		Float64("decline", decline).Msg("production decline computed")
	return decline
}

// CapacityUtilization returns the capacity-utilization percentage for the
// given production-classification code and year, falling back to
// NeutralCapacityPercent when no data is available. Never errors so the
// context build stays total.
func (c *Client) CapacityUtilization(ctx context.Context, productionCode string, year int) float64 {
	obs := c.indicator(ctx, indicatorCapacityUtilization, productionCode, year)
	if !obs.ok {
		logging.Warn().Str("source", SourceName).Str("production_code", productionCode).
			Int("year", year).Msg("no capacity data, using neutral midpoint")
		return NeutralCapacityPercent
	}
	return obs.value
}
