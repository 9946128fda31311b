// Tradeguard - Trade Tariff Protection Measure Evaluation
// Copyright 2026 Tradeguard Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/tradeguard/tradeguard

package comtrade

import (
	"context"
	"strings"
)

// designatedCountries is the fixed set of sanctioning-bloc origins whose
// combined import share drives the group-share signal. Both alpha-2 and
// alpha-3 ISO forms are listed because Comtrade is inconsistent about
// which it returns for partner rows.
var designatedCountries = map[string]struct{}{
	"USA": {}, "US": {},
	"GBR": {}, "GB": {},
	"DEU": {}, "DE": {},
	"FRA": {}, "FR": {},
	"JPN": {}, "JP": {},
	"CAN": {}, "CA": {},
	"AUS": {}, "AU": {},
	"NZL": {}, "NZ": {},
	"KOR": {}, "KR": {},
	"SGP": {}, "SG": {},
	"NOR": {}, "NO": {},
	"CHE": {}, "CH": {},
	"ISL": {}, "IS": {},
	"AND": {}, "AD": {},
	"ALB": {}, "AL": {},
	"MNE": {}, "ME": {},
	"MKD": {}, "MK": {},
	"LIE": {}, "LI": {},
	"SMR": {}, "SM": {},
	"MCO": {}, "MC": {},
}

// dominantPartnerCode is China's UN numeric country code.
const dominantPartnerCode = 156

func isDesignated(iso string) bool {
	_, ok := designatedCountries[strings.ToUpper(iso)]
	return ok
}

func isDominantPartner(rec TradeRecord) bool {
	if rec.PartnerCode == dominantPartnerCode {
		return true
	}
	switch strings.ToUpper(rec.PartnerISO) {
	case "CHN", "CN":
		return true
	}
	return false
}

// DominantPartnerShare returns the dominant supplier's fraction of total
// import value across the given records. A zero import total yields 0.
func DominantPartnerShare(records []TradeRecord) float64 {
	var total, dominant float64
	for _, rec := range records {
		if rec.FlowCode != FlowImport {
			continue
		}
		total += rec.PrimaryValue
		if isDominantPartner(rec) {
			dominant += rec.PrimaryValue
		}
	}
	if total == 0 {
		return 0
	}
	return dominant / total
}

// DesignatedGroupShare returns the combined import-value fraction held by
// the designated country group. A zero import total yields 0.
func DesignatedGroupShare(records []TradeRecord) float64 {
	var total, group float64
	for _, rec := range records {
		if rec.FlowCode != FlowImport {
			continue
		}
		total += rec.PrimaryValue
		if isDesignated(rec.PartnerISO) {
			group += rec.PrimaryValue
		}
	}
	if total == 0 {
		return 0
	}
	return group / total
}

// ImportHistory fetches annual import totals for the given harmonized code
// over the trailing window ending at the year before endYear, oldest first.
// Years with no retrievable data appear with zero totals so callers always
// see a fixed-length series.
func (c *Client) ImportHistory(ctx context.Context, hsCode, reporterISO string, endYear, years int) []YearTotal {
	if years <= 0 {
		return nil
	}

	history := make([]YearTotal, 0, years)
	for year := endYear - years; year < endYear; year++ {
		records := c.TradeData(ctx, hsCode, reporterISO, year)

		total := YearTotal{Year: year}
		for _, rec := range records {
			if rec.FlowCode != FlowImport {
				continue
			}
			total.ImportValue += rec.PrimaryValue
			total.Quantity += rec.Quantity
		}
		history = append(history, total)
	}
	return history
}
