// Tradeguard - Trade Tariff Protection Measure Evaluation
// Copyright 2026 Tradeguard Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/tradeguard/tradeguard

// Package wto is the tariff-schedule adapter. Tariff bindings move at
// treaty speed, so the schedule itself is an immutable in-memory table
// seeded at startup; only the member procedures listing is fetched live.
package wto

// TariffInfo describes one scheduled tariff line.
type TariffInfo struct {
	HSCode      string  `json:"hs_code"`
	ProductName string  `json:"product_name"`
	BoundRate   float64 `json:"bound_rate"`
	AppliedRate float64 `json:"applied_rate"`

	// Status is the WTO certification status of the binding, e.g.
	// "Certified" or "Unknown".
	Status string `json:"status"`

	// ITA marks Information Technology Agreement coverage: bound and
	// applied rates are zero and may not be raised.
	ITA bool `json:"ita"`

	// TariffQuota marks lines with a tariff-rate quota.
	TariffQuota bool `json:"tariff_quota"`
}

// StatusCertified is the certification status granting full binding force.
const StatusCertified = "Certified"

// itaChapterCodes are the 4-digit headings covered by the Information
// Technology Agreement.
var itaChapterCodes = map[string]struct{}{
	"8471": {}, "8473": {}, "8517": {}, "8525": {}, "8527": {}, "8528": {},
	"8529": {}, "8531": {}, "8532": {}, "8533": {}, "8534": {}, "8535": {},
	"8536": {}, "8537": {}, "8540": {}, "8541": {}, "8542": {}, "8543": {},
}

// Schedule is an immutable tariff-line table with prefix fallback.
// Construct with NewSchedule; safe for concurrent use once built.
type Schedule struct {
	lines map[string]TariffInfo
}

// NewSchedule builds a schedule from tariff lines keyed by their HS code.
// Later duplicates win.
func NewSchedule(entries []TariffInfo) *Schedule {
	lines := make(map[string]TariffInfo, len(entries))
	for _, entry := range entries {
		lines[entry.HSCode] = entry
	}
	return &Schedule{lines: lines}
}

// DefaultEntries is the seed tariff table for the reporting member's
// goods schedule.
func DefaultEntries() []TariffInfo {
	return []TariffInfo{
		{HSCode: "8517", ProductName: "Telephone sets", BoundRate: 0, AppliedRate: 0, Status: StatusCertified, ITA: true},
		{HSCode: "8471", ProductName: "Automatic data-processing machines", BoundRate: 0, AppliedRate: 0, Status: StatusCertified, ITA: true},
		{HSCode: "8703", ProductName: "Passenger motor vehicles", BoundRate: 15.0, AppliedRate: 10.0, Status: StatusCertified, TariffQuota: true},
		{HSCode: "8704", ProductName: "Motor vehicles for goods transport", BoundRate: 20.0, AppliedRate: 15.0, Status: StatusCertified},
		{HSCode: "9018", ProductName: "Medical instruments", BoundRate: 5.0, AppliedRate: 3.0, Status: StatusCertified},
		{HSCode: "0403", ProductName: "Fermented dairy products", BoundRate: 25.0, AppliedRate: 20.0, Status: StatusCertified, TariffQuota: true},
		{HSCode: "1006", ProductName: "Rice", BoundRate: 10.0, AppliedRate: 5.0, Status: StatusCertified},
	}
}

// Lookup resolves the tariff line for an HS code: exact match, then the
// 6-digit prefix, then the 4-digit heading, then a conservative default.
// The default assumes a modest binding (bound 10.0, applied 7.5, status
// "Unknown"); ITA headings default to zero rates instead.
func (s *Schedule) Lookup(hsCode string) TariffInfo {
	if hsCode != "" {
		if info, ok := s.lines[hsCode]; ok {
			return info
		}
		if len(hsCode) >= 6 {
			if info, ok := s.lines[hsCode[:6]]; ok {
				return info
			}
		}
		if len(hsCode) >= 4 {
			if info, ok := s.lines[hsCode[:4]]; ok {
				return info
			}
		}
	}
	return defaultTariffInfo(hsCode)
}

// Margin returns the headroom between the bound and applied rates. ITA
// lines have no headroom regardless of rates.
func (s *Schedule) Margin(hsCode string) float64 {
	info := s.Lookup(hsCode)
	if info.ITA {
		return 0
	}
	return info.BoundRate - info.AppliedRate
}

// ProtectionAvailable reports whether the applied rate can be raised at
// all: not ITA-covered and with positive margin.
func (s *Schedule) ProtectionAvailable(hsCode string) bool {
	info := s.Lookup(hsCode)
	if info.ITA {
		return false
	}
	return s.Margin(hsCode) > 0
}

func defaultTariffInfo(hsCode string) TariffInfo {
	ita := isITAHeading(hsCode)
	info := TariffInfo{
		HSCode:      hsCode,
		ProductName: "Unknown product",
		Status:      "Unknown",
		ITA:         ita,
	}
	if !ita {
		info.BoundRate = 10.0
		info.AppliedRate = 7.5
	}
	return info
}

func isITAHeading(hsCode string) bool {
	if len(hsCode) < 4 {
		return false
	}
	_, ok := itaChapterCodes[hsCode[:4]]
	return ok
}
