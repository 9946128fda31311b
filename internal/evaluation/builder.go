// Tradeguard - Trade Tariff Protection Measure Evaluation
// Copyright 2026 Tradeguard Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/tradeguard/tradeguard

package evaluation

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tradeguard/tradeguard/internal/classify"
	"github.com/tradeguard/tradeguard/internal/config"
	"github.com/tradeguard/tradeguard/internal/logging"
	"github.com/tradeguard/tradeguard/internal/sources/comtrade"
	"github.com/tradeguard/tradeguard/internal/sources/wto"
)

// TradeSource supplies annual trade flows and import history.
type TradeSource interface {
	TradeData(ctx context.Context, hsCode, reporterISO string, year int) []comtrade.TradeRecord
	ImportHistory(ctx context.Context, hsCode, reporterISO string, endYear, years int) []comtrade.YearTotal
}

// ProductionSource supplies industrial production and capacity signals.
type ProductionSource interface {
	ProductionDecline(ctx context.Context, productionCode string, endYear, yearsBack int) float64
	CapacityUtilization(ctx context.Context, productionCode string, year int) float64
}

// TariffSource answers tariff-schedule questions.
type TariffSource interface {
	TariffInfo(hsCode string) wto.TariffInfo
	Margin(hsCode string) float64
	ProtectionAvailable(hsCode string) bool
}

// Builder assembles evaluation contexts from the classifier and the three
// source adapters. Safe for concurrent use.
type Builder struct {
	classifier classify.Classifier
	trade      TradeSource
	production ProductionSource
	tariff     TariffSource
	cfg        config.EvaluationConfig

	now func() time.Time
}

// NewBuilder creates a context builder.
func NewBuilder(classifier classify.Classifier, trade TradeSource, production ProductionSource, tariff TariffSource, cfg config.EvaluationConfig) *Builder {
	return &Builder{
		classifier: classifier,
		trade:      trade,
		production: production,
		tariff:     tariff,
		cfg:        cfg,
		now:        time.Now,
	}
}

// Build assembles the context for a domestic commodity code. The trade and
// production fetches run concurrently; build latency tracks the slowest
// source. Build is total: adapter degradation shows up as neutral signal
// values, never as an error.
func (b *Builder) Build(ctx context.Context, domesticCode string) Context {
	descriptor := b.classifier.Classify(domesticCode)
	// Annual statistics lag; the freshest complete year is the last one.
	dataYear := b.now().Year() - 1

	ec := Context{
		DomesticCode:   descriptor.DomesticCode,
		HSCode:         descriptor.HSCode,
		ProductionCode: descriptor.ProductionCode,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		records := b.trade.TradeData(groupCtx, ec.HSCode, b.cfg.ReporterISO, dataYear)
		ec.DominantPartnerShare = comtrade.DominantPartnerShare(records)
		ec.DesignatedGroupShare = comtrade.DesignatedGroupShare(records)
		ec.CombinedImportShare = ec.DominantPartnerShare + ec.DesignatedGroupShare

		ec.ImportHistory = b.trade.ImportHistory(groupCtx, ec.HSCode, b.cfg.ReporterISO, dataYear+1, b.cfg.HistoryYears)
		ec.ImportStable = importStability(ec.ImportHistory, b.cfg.StabilityDropThreshold)
		return nil
	})

	group.Go(func() error {
		ec.ProductionDecline = b.production.ProductionDecline(groupCtx, ec.ProductionCode, dataYear, b.cfg.HistoryYears)
		ec.CapacityUtilization = clampFraction(b.production.CapacityUtilization(groupCtx, ec.ProductionCode, dataYear) / 100)
		return nil
	})

	// Tariff lookups are in-memory; no reason to pay goroutine choreography
	// for them.
	ec.TariffInfo = b.tariff.TariffInfo(ec.HSCode)
	ec.BindingCertified = ec.TariffInfo.Status == wto.StatusCertified
	ec.TariffMargin = b.tariff.Margin(ec.HSCode)
	ec.CanRaiseTariff = b.tariff.ProtectionAvailable(ec.HSCode)

	// Goroutines always return nil; Wait only synchronizes.
	_ = group.Wait()

	logging.Debug().
		Str("hs_code", ec.HSCode).
		Float64("combined_share", ec.CombinedImportShare).
		Bool("import_stable", ec.ImportStable).
		Float64("production_decline", ec.ProductionDecline).
		Float64("capacity_utilization", ec.CapacityUtilization).
		Float64("tariff_margin", ec.TariffMargin).
		Msg("evaluation context built")
	return ec
}

func clampFraction(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
