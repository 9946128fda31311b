// Tradeguard - Trade Tariff Protection Measure Evaluation
// Copyright 2026 Tradeguard Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/tradeguard/tradeguard

package evaluation

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/tradeguard/tradeguard/internal/classify"
	"github.com/tradeguard/tradeguard/internal/config"
	"github.com/tradeguard/tradeguard/internal/sources/comtrade"
	"github.com/tradeguard/tradeguard/internal/sources/wto"
)

type stubTrade struct {
	records []comtrade.TradeRecord
	history []comtrade.YearTotal
}

func (s stubTrade) TradeData(context.Context, string, string, int) []comtrade.TradeRecord {
	return s.records
}

func (s stubTrade) ImportHistory(context.Context, string, string, int, int) []comtrade.YearTotal {
	return s.history
}

type stubProduction struct {
	decline  float64
	capacity float64
}

func (s stubProduction) ProductionDecline(context.Context, string, int, int) float64 {
	return s.decline
}

func (s stubProduction) CapacityUtilization(context.Context, string, int) float64 {
	return s.capacity
}

type stubTariff struct {
	info wto.TariffInfo
}

func (s stubTariff) TariffInfo(string) wto.TariffInfo { return s.info }
func (s stubTariff) Margin(string) float64            { return s.info.BoundRate - s.info.AppliedRate }
func (s stubTariff) ProtectionAvailable(string) bool {
	return !s.info.ITA && s.info.BoundRate > s.info.AppliedRate
}

func evalConfig() config.EvaluationConfig {
	return config.EvaluationConfig{
		ReporterISO:            "RUS",
		HistoryYears:           3,
		StabilityDropThreshold: 0.20,
	}
}

func fixedBuilder(trade TradeSource, production ProductionSource, tariff TariffSource) *Builder {
	b := NewBuilder(classify.NewStatic(), trade, production, tariff, evalConfig())
	b.now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }
	return b
}

func TestBuild(t *testing.T) {
	trade := stubTrade{
		records: []comtrade.TradeRecord{
			{FlowCode: comtrade.FlowImport, PartnerISO: "CHN", PrimaryValue: 400},
			{FlowCode: comtrade.FlowImport, PartnerISO: "USA", PrimaryValue: 200},
			{FlowCode: comtrade.FlowImport, PartnerISO: "IND", PrimaryValue: 400},
		},
		history: []comtrade.YearTotal{
			{Year: 2022, ImportValue: 900},
			{Year: 2023, ImportValue: 950},
			{Year: 2024, ImportValue: 1000},
		},
	}
	production := stubProduction{decline: 0.15, capacity: 40.0}
	tariff := stubTariff{info: wto.TariffInfo{HSCode: "870323", BoundRate: 15, AppliedRate: 10, Status: wto.StatusCertified}}

	ec := fixedBuilder(trade, production, tariff).Build(context.Background(), "8703231940")

	if ec.HSCode != "870323" {
		t.Errorf("HSCode = %q, want 870323", ec.HSCode)
	}
	if ec.ProductionCode != "29.10.00" {
		t.Errorf("ProductionCode = %q, want 29.10.00", ec.ProductionCode)
	}
	if ec.DominantPartnerShare != 0.4 {
		t.Errorf("DominantPartnerShare = %v, want 0.4", ec.DominantPartnerShare)
	}
	if ec.DesignatedGroupShare != 0.2 {
		t.Errorf("DesignatedGroupShare = %v, want 0.2", ec.DesignatedGroupShare)
	}
	if ec.CombinedImportShare != 0.6 {
		t.Errorf("CombinedImportShare = %v, want 0.6", ec.CombinedImportShare)
	}
	if !ec.ImportStable {
		t.Error("ImportStable = false, want true for a rising series")
	}
	if ec.CapacityUtilization != 0.4 {
		t.Errorf("CapacityUtilization = %v, want 0.4", ec.CapacityUtilization)
	}
	if ec.ProductionDecline != 0.15 {
		t.Errorf("ProductionDecline = %v, want 0.15", ec.ProductionDecline)
	}
	if !ec.BindingCertified || !ec.CanRaiseTariff || ec.TariffMargin != 5 {
		t.Errorf("tariff signals = certified=%v margin=%v canRaise=%v",
			ec.BindingCertified, ec.TariffMargin, ec.CanRaiseTariff)
	}
}

func TestBuildDeterministic(t *testing.T) {
	trade := stubTrade{
		records: []comtrade.TradeRecord{{FlowCode: comtrade.FlowImport, PartnerISO: "CHN", PrimaryValue: 100}},
		history: []comtrade.YearTotal{{Year: 2023, ImportValue: 100}, {Year: 2024, ImportValue: 100}},
	}
	builder := fixedBuilder(trade, stubProduction{capacity: 50}, stubTariff{})

	first := builder.Build(context.Background(), "8517620000")
	second := builder.Build(context.Background(), "8517620000")
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated builds differ:\n%+v\n%+v", first, second)
	}
}

func TestBuildDegradedSources(t *testing.T) {
	// All adapters answering their degraded defaults still yield a usable
	// context.
	ec := fixedBuilder(stubTrade{}, stubProduction{capacity: 50}, stubTariff{
		info: wto.TariffInfo{BoundRate: 10, AppliedRate: 7.5, Status: "Unknown"},
	}).Build(context.Background(), "7208510000")

	if ec.CombinedImportShare != 0 {
		t.Errorf("CombinedImportShare = %v, want 0", ec.CombinedImportShare)
	}
	if ec.ImportStable {
		t.Error("ImportStable = true, want false with no history")
	}
	if ec.CapacityUtilization != 0.5 {
		t.Errorf("CapacityUtilization = %v, want neutral 0.5", ec.CapacityUtilization)
	}
	if ec.BindingCertified {
		t.Error("BindingCertified = true, want false for Unknown status")
	}
}

func TestBuildClampsCapacity(t *testing.T) {
	ec := fixedBuilder(stubTrade{}, stubProduction{capacity: 140}, stubTariff{}).
		Build(context.Background(), "7208510000")
	if ec.CapacityUtilization != 1 {
		t.Errorf("CapacityUtilization = %v, want clamped to 1", ec.CapacityUtilization)
	}
}

func TestImportStability(t *testing.T) {
	tests := []struct {
		name    string
		history []comtrade.YearTotal
		want    bool
	}{
		{
			name: "steady series is stable",
			history: []comtrade.YearTotal{
				{Year: 2022, ImportValue: 100}, {Year: 2023, ImportValue: 95}, {Year: 2024, ImportValue: 98},
			},
			want: true,
		},
		{
			name: "drop beyond threshold is unstable",
			history: []comtrade.YearTotal{
				{Year: 2022, ImportValue: 100}, {Year: 2023, ImportValue: 70}, {Year: 2024, ImportValue: 110},
			},
			want: false,
		},
		{
			name: "drop exactly at threshold is stable",
			history: []comtrade.YearTotal{
				{Year: 2022, ImportValue: 100}, {Year: 2023, ImportValue: 80},
			},
			want: true,
		},
		{
			name:    "single point is unstable",
			history: []comtrade.YearTotal{{Year: 2024, ImportValue: 100}},
			want:    false,
		},
		{
			name:    "empty series is unstable",
			history: nil,
			want:    false,
		},
		{
			name: "zero baseline years are skipped",
			history: []comtrade.YearTotal{
				{Year: 2022, ImportValue: 0}, {Year: 2023, ImportValue: 50}, {Year: 2024, ImportValue: 45},
			},
			want: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := importStability(tt.history, 0.20); got != tt.want {
				t.Errorf("importStability = %v, want %v", got, tt.want)
			}
		})
	}
}
