// Tradeguard - Trade Tariff Protection Measure Evaluation
// Copyright 2026 Tradeguard Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/tradeguard/tradeguard

package measures

import (
	"testing"

	"github.com/tradeguard/tradeguard/internal/evaluation"
	"github.com/tradeguard/tradeguard/internal/sources/wto"
)

func TestWTOLevel(t *testing.T) {
	t.Run("fully triggered case caps at 100", func(t *testing.T) {
		// Certified binding, 60% share, 40% capacity, 15% decline: every
		// bonus fires and the cap holds the sum at 100.
		result := WTOLevel(evaluation.Context{
			BindingCertified:    true,
			CombinedImportShare: 0.60,
			CapacityUtilization: 0.40,
			ProductionDecline:   0.15,
		})
		if !result.Applicable {
			t.Fatal("Applicable = false, want true")
		}
		if result.Score != 100 {
			t.Errorf("Score = %v, want 100", result.Score)
		}
	})

	t.Run("base score without bonuses", func(t *testing.T) {
		result := WTOLevel(evaluation.Context{
			BindingCertified:    true,
			CombinedImportShare: 0.35,
			CapacityUtilization: 0.90,
			ProductionDecline:   0.05,
		})
		if result.Score != 50 {
			t.Errorf("Score = %v, want 50", result.Score)
		}
	})

	t.Run("uncertified binding is inapplicable", func(t *testing.T) {
		result := WTOLevel(evaluation.Context{
			BindingCertified:    false,
			CombinedImportShare: 0.60,
		})
		if result.Applicable || result.Score != 0 {
			t.Errorf("got applicable=%v score=%v, want false/0", result.Applicable, result.Score)
		}
	})

	t.Run("share at threshold is inapplicable", func(t *testing.T) {
		result := WTOLevel(evaluation.Context{
			BindingCertified:    true,
			CombinedImportShare: 0.30,
		})
		if result.Applicable {
			t.Error("Applicable = true at exactly 30%, want false")
		}
	})

	t.Run("carries share and capacity evidence", func(t *testing.T) {
		result := WTOLevel(evaluation.Context{
			BindingCertified:    true,
			CombinedImportShare: 0.45,
			CapacityUtilization: 0.80,
		})
		if result.ImportShare == nil || *result.ImportShare != 0.45 {
			t.Errorf("ImportShare = %v, want 0.45", result.ImportShare)
		}
		if result.ProductionCapacity == nil || *result.ProductionCapacity != 0.80 {
			t.Errorf("ProductionCapacity = %v, want 0.80", result.ProductionCapacity)
		}
		if result.PriceDifference != nil {
			t.Error("PriceDifference set, want nil for this measure")
		}
	})
}

func TestTariffRaise(t *testing.T) {
	tests := []struct {
		name           string
		ec             evaluation.Context
		wantApplicable bool
		wantScore      float64
	}{
		{
			name:           "base case",
			ec:             evaluation.Context{CombinedImportShare: 0.35, ImportStable: true},
			wantApplicable: true,
			wantScore:      55,
		},
		{
			name:           "high share bonus",
			ec:             evaluation.Context{CombinedImportShare: 0.55, ImportStable: true},
			wantApplicable: true,
			wantScore:      80,
		},
		{
			name:           "all bonuses",
			ec:             evaluation.Context{CombinedImportShare: 0.55, ImportStable: true, ProductionDecline: 0.20},
			wantApplicable: true,
			wantScore:      100,
		},
		{
			name:           "unstable import is inapplicable",
			ec:             evaluation.Context{CombinedImportShare: 0.55, ImportStable: false},
			wantApplicable: false,
			wantScore:      0,
		},
		{
			name:           "low share is inapplicable",
			ec:             evaluation.Context{CombinedImportShare: 0.10, ImportStable: true},
			wantApplicable: false,
			wantScore:      0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := TariffRaise(tt.ec)
			if result.Applicable != tt.wantApplicable || result.Score != tt.wantScore {
				t.Errorf("got applicable=%v score=%v, want %v/%v",
					result.Applicable, result.Score, tt.wantApplicable, tt.wantScore)
			}
		})
	}
}

func TestAntiDumping(t *testing.T) {
	t.Run("base case", func(t *testing.T) {
		result := AntiDumping(evaluation.Context{DominantPartnerShare: 0.25, ProductionDecline: 0.08})
		if !result.Applicable || result.Score != 60 {
			t.Errorf("got applicable=%v score=%v, want true/60", result.Applicable, result.Score)
		}
	})

	t.Run("all bonuses", func(t *testing.T) {
		result := AntiDumping(evaluation.Context{DominantPartnerShare: 0.45, ProductionDecline: 0.25})
		if result.Score != 100 {
			t.Errorf("Score = %v, want 100", result.Score)
		}
	})

	t.Run("suspected dumping records the price differential", func(t *testing.T) {
		result := AntiDumping(evaluation.Context{DominantPartnerShare: 0.25, ProductionDecline: 0.08})
		if result.PriceDifference == nil || *result.PriceDifference != -0.15 {
			t.Errorf("PriceDifference = %v, want -0.15", result.PriceDifference)
		}
	})

	t.Run("no suspicion records a zero differential", func(t *testing.T) {
		result := AntiDumping(evaluation.Context{DominantPartnerShare: 0.10, ProductionDecline: 0.08})
		if result.Applicable {
			t.Error("Applicable = true, want false")
		}
		if result.PriceDifference == nil || *result.PriceDifference != 0 {
			t.Errorf("PriceDifference = %v, want 0", result.PriceDifference)
		}
	})

	t.Run("stable production is inapplicable", func(t *testing.T) {
		result := AntiDumping(evaluation.Context{DominantPartnerShare: 0.45, ProductionDecline: 0.02})
		if result.Applicable {
			t.Error("Applicable = true, want false")
		}
	})
}

func TestRegionalRegulation(t *testing.T) {
	tests := []struct {
		name           string
		domesticCode   string
		wantApplicable bool
	}{
		{"food chapter", "0403201000", true},
		{"chapter 01 lower bound", "0102291000", true},
		{"chapter 24 upper bound", "2402200000", true},
		{"industrial chapter", "8517620000", false},
		{"chapter 25 just outside", "2501001000", false},
		{"non-numeric code", "abc", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RegionalRegulation(evaluation.Context{DomesticCode: tt.domesticCode})
			if result.Applicable != tt.wantApplicable {
				t.Errorf("Applicable = %v, want %v", result.Applicable, tt.wantApplicable)
			}
			wantScore := 0.0
			if tt.wantApplicable {
				wantScore = 75.0
			}
			if result.Score != wantScore {
				t.Errorf("Score = %v, want %v", result.Score, wantScore)
			}
		})
	}
}

func TestMonitoring(t *testing.T) {
	result := Monitoring(evaluation.Context{CapacityUtilization: 0.65})
	if !result.Applicable {
		t.Error("Applicable = false, want always true")
	}
	if result.Score != 65 {
		t.Errorf("Score = %v, want 65", result.Score)
	}
	if result.ProductionCapacity == nil || *result.ProductionCapacity != 0.65 {
		t.Errorf("ProductionCapacity = %v, want 0.65", result.ProductionCapacity)
	}
}

func TestOther(t *testing.T) {
	tests := []struct {
		name           string
		ec             evaluation.Context
		wantApplicable bool
		wantScore      float64
	}{
		{
			name:           "critical decline alone",
			ec:             evaluation.Context{ProductionDecline: 0.30},
			wantApplicable: true,
			wantScore:      70,
		},
		{
			name:           "quota alone",
			ec:             evaluation.Context{TariffInfo: wto.TariffInfo{TariffQuota: true}},
			wantApplicable: true,
			wantScore:      65,
		},
		{
			name:           "both triggers take the max, never the sum",
			ec:             evaluation.Context{ProductionDecline: 0.30, TariffInfo: wto.TariffInfo{TariffQuota: true}},
			wantApplicable: true,
			wantScore:      70,
		},
		{
			name:           "neither trigger",
			ec:             evaluation.Context{ProductionDecline: 0.10},
			wantApplicable: false,
			wantScore:      0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Other(tt.ec)
			if result.Applicable != tt.wantApplicable || result.Score != tt.wantScore {
				t.Errorf("got applicable=%v score=%v, want %v/%v",
					result.Applicable, result.Score, tt.wantApplicable, tt.wantScore)
			}
		})
	}
}

func TestAll(t *testing.T) {
	results := All(evaluation.Context{})
	if len(results) != 6 {
		t.Fatalf("got %d results, want 6", len(results))
	}
	wantOrder := []Type{
		TypeWTOLevel, TypeTariffRaise, TypeAntiDumping,
		TypeRegionalRegulation, TypeMonitoring, TypeOther,
	}
	for i, want := range wantOrder {
		if results[i].Type != want {
			t.Errorf("results[%d].Type = %s, want %s", i, results[i].Type, want)
		}
	}
	for _, result := range results {
		if result.Score < 0 || result.Score > 100 {
			t.Errorf("%s score %v out of [0,100]", result.Type, result.Score)
		}
		if result.Name == "" || result.Reasoning == "" || result.Details == "" {
			t.Errorf("%s has empty explanation fields", result.Type)
		}
	}
}
