// Tradeguard - Trade Tariff Protection Measure Evaluation
// Copyright 2026 Tradeguard Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/tradeguard/tradeguard

// Package evaluation assembles the per-request evaluation context: the
// unified signal set the measure evaluators score against. The builder
// fans out to the three source adapters concurrently and tolerates any of
// them answering with its degraded default.
package evaluation

import (
	"github.com/tradeguard/tradeguard/internal/sources/comtrade"
	"github.com/tradeguard/tradeguard/internal/sources/wto"
)

// Context is the unified signal set for one commodity. It is built once
// per request and never mutated afterwards.
type Context struct {
	// Commodity identifiers.
	DomesticCode   string `json:"domestic_code"`
	HSCode         string `json:"hs_code"`
	ProductionCode string `json:"production_code"`

	// Trade signals. Shares are fractions in [0,1].
	DominantPartnerShare float64              `json:"dominant_partner_share"`
	DesignatedGroupShare float64              `json:"designated_group_share"`
	CombinedImportShare  float64              `json:"combined_import_share"`
	ImportStable         bool                 `json:"import_stable"`
	ImportHistory        []comtrade.YearTotal `json:"import_history"`

	// Production signals. Decline is a fraction and may be negative
	// (growth); capacity utilization is a fraction in [0,1].
	ProductionDecline   float64 `json:"production_decline"`
	CapacityUtilization float64 `json:"capacity_utilization"`

	// Tariff signals. Rates and margin are percentage points.
	TariffInfo       wto.TariffInfo `json:"tariff_info"`
	BindingCertified bool           `json:"binding_certified"`
	TariffMargin     float64        `json:"tariff_margin"`
	CanRaiseTariff   bool           `json:"can_raise_tariff"`
}

// importStability walks annual totals in chronological order and reports
// stability. Any year-over-year drop beyond dropThreshold (a fraction,
// e.g. 0.20) flags instability, as do series too short to compare.
func importStability(history []comtrade.YearTotal, dropThreshold float64) bool {
	if len(history) < 2 {
		return false
	}
	for i := 1; i < len(history); i++ {
		prev := history[i-1].ImportValue
		current := history[i].ImportValue
		if prev <= 0 {
			continue
		}
		if (prev-current)/prev > dropThreshold {
			return false
		}
	}
	return true
}
