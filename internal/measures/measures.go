// Tradeguard - Trade Tariff Protection Measure Evaluation
// Copyright 2026 Tradeguard Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/tradeguard/tradeguard

// Package measures holds the six trade-protection measure evaluators.
// Each evaluator is a pure function over the evaluation context: it always
// runs, never errors, and produces an applicability verdict with a score
// in [0,100] plus a human-auditable explanation.
package measures

import (
	"fmt"
	"strings"

	"github.com/tradeguard/tradeguard/internal/classify"
	"github.com/tradeguard/tradeguard/internal/evaluation"
)

// Type tags the six fixed measure kinds.
type Type string

const (
	TypeWTOLevel           Type = "WTO_LEVEL"
	TypeTariffRaise        Type = "TARIFF_35_50"
	TypeAntiDumping        Type = "ANTI_DUMPING"
	TypeRegionalRegulation Type = "REGIONAL_REGULATION"
	TypeMonitoring         Type = "MONITORING"
	TypeOther              Type = "OTHER"
)

// Result is one evaluator's verdict. Evidence fields carry only the
// numbers relevant to that measure and stay nil otherwise.
type Result struct {
	Type       Type    `json:"type"`
	Name       string  `json:"name"`
	Applicable bool    `json:"applicable"`
	Score      float64 `json:"score"`
	Reasoning  string  `json:"reasoning"`
	Details    string  `json:"details"`

	ImportShare        *float64 `json:"import_share,omitempty"`
	ProductionCapacity *float64 `json:"production_capacity,omitempty"`
	PriceDifference    *float64 `json:"price_difference,omitempty"`
}

// maxScore caps every evaluator.
const maxScore = 100.0

// All runs the six evaluators in their fixed order.
func All(ec evaluation.Context) []Result {
	return []Result{
		WTOLevel(ec),
		TariffRaise(ec),
		AntiDumping(ec),
		RegionalRegulation(ec),
		Monitoring(ec),
		Other(ec),
	}
}

// WTOLevel scores raising the applied rate within the bound-tariff
// headroom. Applicable when the binding is certified and the combined
// import share exceeds 30%.
func WTOLevel(ec evaluation.Context) Result {
	highImport := ec.CombinedImportShare > 0.30
	spareCapacity := ec.CapacityUtilization < 0.70
	applicable := ec.BindingCertified && highImport

	var score float64
	if applicable {
		score = 50.0
		if ec.CombinedImportShare > 0.50 {
			score += 20
		}
		if spareCapacity {
			score += 15
		}
		if ec.ProductionDecline > 0.10 {
			score += 15
		}
		score = min(score, maxScore)
	}

	reasoning := fmt.Sprintf(
		"Tariff binding: %s | Import share: %.1f%% | Capacity utilization: %.1f%% | Applied %.1f%% vs bound %.1f%%",
		yesNo(ec.BindingCertified),
		ec.CombinedImportShare*100,
		ec.CapacityUtilization*100,
		ec.TariffInfo.AppliedRate,
		ec.TariffInfo.BoundRate,
	)

	details := fmt.Sprintf(`Measure: tariff raise within the bound-rate headroom.
Applicable: %s, score %.1f/100.

The certified binding allows raising the applied rate up to %.1f%%.
Combined import share of %.1f%% %s the 30%% applicability threshold.
%s
Production decline over the review window: %.1f%%.

%s`,
		yesNo(applicable), score,
		ec.TariffInfo.BoundRate,
		ec.CombinedImportShare*100, aboveBelow(highImport),
		capacityNote(spareCapacity),
		ec.ProductionDecline*100,
		recommendation(applicable,
			"Raise the applied rate within the bound-rate headroom.",
			"Not applicable: binding is uncertified or import share is below threshold."),
	)

	return Result{
		Type:               TypeWTOLevel,
		Name:               "Tariff raise within bound rate",
		Applicable:         applicable,
		Score:              score,
		Reasoning:          reasoning,
		Details:            details,
		ImportShare:        ptr(ec.CombinedImportShare),
		ProductionCapacity: ptr(ec.CapacityUtilization),
	}
}

// TariffRaise scores setting the import tariff in the 35-50% band.
// Applicable when the combined import share exceeds 30% and the import
// flow has been stable.
func TariffRaise(ec evaluation.Context) Result {
	highImport := ec.CombinedImportShare > 0.30
	applicable := highImport && ec.ImportStable

	var score float64
	if applicable {
		score = 55.0
		if ec.CombinedImportShare > 0.50 {
			score += 25
		}
		if ec.ProductionDecline > 0.15 {
			score += 20
		}
		score = min(score, maxScore)
	}

	reasoning := fmt.Sprintf(
		"Import share: %.1f%% | Import flow: %s | Production decline: %.1f%%",
		ec.CombinedImportShare*100,
		stableUnstable(ec.ImportStable),
		ec.ProductionDecline*100,
	)

	details := fmt.Sprintf(`Measure: import tariff in the 35-50%% band.
Applicable: %s, score %.1f/100.

%s
A raised tariff creates a price advantage for domestic producers.
%s

%s`,
		yesNo(applicable), score,
		stabilityNote(ec.ImportStable),
		declineNote(ec.ProductionDecline > 0.10),
		recommendation(applicable,
			"Set the import tariff within the 35-50% band.",
			"Not applicable: import share is low or the import flow is unstable."),
	)

	return Result{
		Type:        TypeTariffRaise,
		Name:        "Import tariff raise to 35-50%",
		Applicable:  applicable,
		Score:       score,
		Reasoning:   reasoning,
		Details:     details,
		ImportShare: ptr(ec.CombinedImportShare),
	}
}

// AntiDumping scores opening an anti-dumping probe against the dominant
// supplier. Applicable when the dominant-partner share exceeds 20% and
// domestic production declined more than 5%.
func AntiDumping(ec evaluation.Context) Result {
	highShare := ec.DominantPartnerShare > 0.20
	declining := ec.ProductionDecline > 0.05
	// Price-anomaly detection is not modeled; suspicion is currently the
	// same conjunction as applicability.
	suspectedDumping := highShare && declining
	applicable := highShare && declining

	var score float64
	if applicable {
		score = 60.0
		if ec.DominantPartnerShare > 0.40 {
			score += 20
		}
		if ec.ProductionDecline > 0.20 {
			score += 20
		}
		score = min(score, maxScore)
	}

	reasoning := fmt.Sprintf(
		"Dominant partner share: %.1f%% | Production decline: %.1f%% | Dumping suspected: %s",
		ec.DominantPartnerShare*100,
		ec.ProductionDecline*100,
		yesNo(suspectedDumping),
	)

	details := fmt.Sprintf(`Measure: anti-dumping investigation against the dominant supplier.
Applicable: %s, score %.1f/100.

Dominant-partner import share of %.1f%% %s the 20%% threshold.
%s
A full probe requires detailed price and trading-condition analysis and
typically takes 12-18 months.

%s`,
		yesNo(applicable), score,
		ec.DominantPartnerShare*100, aboveBelow(highShare),
		declineNote(declining),
		recommendation(applicable,
			"Initiate an anti-dumping investigation.",
			"Not applicable: dominant-partner share is low or production is stable."),
	)

	var priceDiff float64
	if suspectedDumping {
		priceDiff = -0.15
	}

	return Result{
		Type:            TypeAntiDumping,
		Name:            "Anti-dumping investigation",
		Applicable:      applicable,
		Score:           score,
		Reasoning:       reasoning,
		Details:         details,
		PriceDifference: ptr(priceDiff),
	}
}

// RegionalRegulation scores applying regional technical regulations.
// Agricultural and food chapters (01-24) are presumed covered.
func RegionalRegulation(ec evaluation.Context) Result {
	chapter := classify.Chapter(ec.DomesticCode)
	applicable := chapter >= 1 && chapter <= 24

	var score float64
	if applicable {
		score = 75.0
	}

	reasoning := "Regional technical regulation not applicable"
	if applicable {
		reasoning = "Regional technical regulation applicable"
	}

	details := fmt.Sprintf(`Measure: regional technical regulation.
Applicable: %s, score %.1f/100.

Commodity chapter %02d %s the regulated food and agricultural range 01-24.
Applying an existing regulation needs no external approval and rolls out
in 6-12 months.

%s`,
		yesNo(applicable), score,
		chapter, insideOutside(applicable),
		recommendation(applicable,
			"Apply the existing regional technical regulations.",
			"Draft a new technical regulation for this commodity group."),
	)

	return Result{
		Type:       TypeRegionalRegulation,
		Name:       "Regional technical regulations",
		Applicable: applicable,
		Score:      score,
		Reasoning:  reasoning,
		Details:    details,
	}
}

// Monitoring scores standing production-and-import monitoring. Always
// applicable with a fixed score.
func Monitoring(ec evaluation.Context) Result {
	const score = 65.0

	trend := "stable or growing"
	if ec.ProductionDecline > 0 {
		trend = "declining"
	}

	reasoning := fmt.Sprintf(
		"Capacity utilization: %.1f%% | Production trend: %s",
		ec.CapacityUtilization*100, trend,
	)

	details := fmt.Sprintf(`Measure: standing production and import monitoring.
Applicable: yes (always), score %.1f/100.

Continuous monitoring surfaces threats early; quarterly collection of
production and import figures is sufficient.
%s
Can start immediately.`,
		score,
		monitoringNote(ec.ProductionDecline > 0.10),
	)

	return Result{
		Type:               TypeMonitoring,
		Name:               "Production and import monitoring",
		Applicable:         true,
		Score:              score,
		Reasoning:          reasoning,
		Details:            details,
		ProductionCapacity: ptr(ec.CapacityUtilization),
	}
}

// Other scores the remaining special measures: safeguard action on a
// critical production decline and tariff-quota adjustment where a quota
// exists. When both trigger the higher score wins; they never sum.
func Other(ec evaluation.Context) Result {
	var applicable bool
	var score float64
	var notes []string
	var actions []string

	if ec.ProductionDecline > 0.25 {
		applicable = true
		score = 70.0
		notes = append(notes, "critical production decline")
		actions = append(actions, "Apply special safeguard measures.")
	}
	if ec.TariffInfo.TariffQuota {
		applicable = true
		score = max(score, 65.0)
		notes = append(notes, "tariff quota in force")
		actions = append(actions, "Review the tariff-quota volumes.")
	}
	if !applicable {
		notes = append(notes, "no special measures required")
		actions = append(actions, "Continue monitoring the situation.")
	}

	reasoning := "Additional analysis: " + strings.Join(notes, ", ")

	details := fmt.Sprintf(`Measure: other special measures.
Applicable: %s, score %.1f/100.

Actions:
%s`,
		yesNo(applicable), score,
		bullets(actions),
	)

	return Result{
		Type:       TypeOther,
		Name:       "Other special measures",
		Applicable: applicable,
		Score:      score,
		Reasoning:  reasoning,
		Details:    details,
	}
}

func ptr(v float64) *float64 { return &v }

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func aboveBelow(b bool) string {
	if b {
		return "exceeds"
	}
	return "is below"
}

func insideOutside(b bool) string {
	if b {
		return "falls inside"
	}
	return "falls outside"
}

func stableUnstable(b bool) string {
	if b {
		return "stable"
	}
	return "unstable"
}

func capacityNote(spare bool) string {
	if spare {
		return "Spare production capacity is available for import substitution."
	}
	return "Production capacity is loaded; substitution needs investment."
}

func stabilityNote(stable bool) string {
	if stable {
		return "A stable import flow indicates an entrenched dependency."
	}
	return "An unstable import flow needs further analysis before acting."
}

func declineNote(declining bool) string {
	if declining {
		return "Declining domestic production supports protective action."
	}
	return "Domestic production is stable."
}

func monitoringNote(reinforced bool) string {
	if reinforced {
		return "Reinforced monitoring is warranted by the production decline."
	}
	return "Standard monitoring cadence applies."
}

func recommendation(applicable bool, yes, no string) string {
	if applicable {
		return "Recommendation: " + yes
	}
	return "Recommendation: " + no
}

func bullets(items []string) string {
	var sb strings.Builder
	for _, item := range items {
		sb.WriteString("- ")
		sb.WriteString(item)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
