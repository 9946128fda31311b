// Tradeguard - Trade Tariff Protection Measure Evaluation
// Copyright 2026 Tradeguard Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/tradeguard/tradeguard

package comtrade

// Flow direction codes used by the UN Comtrade API.
const (
	FlowImport = "M"
	FlowExport = "X"
)

// response is the wire shape of a UN Comtrade data reply. Unknown fields
// are ignored; only the fields the evaluation needs are decoded.
type response struct {
	Count int           `json:"count"`
	Data  []TradeRecord `json:"data"`
}

// TradeRecord is one normalized trade flow observation.
type TradeRecord struct {
	RefYear      int     `json:"refYear"`
	ReporterCode int     `json:"reporterCode"`
	ReporterISO  string  `json:"reporterISO"`
	FlowCode     string  `json:"flowCode"`
	PartnerCode  int     `json:"partnerCode"`
	PartnerISO   string  `json:"partnerISO"`
	CmdCode      string  `json:"cmdCode"`
	PrimaryValue float64 `json:"primaryValue"`
	NetWeight    float64 `json:"netWgt"`
	Quantity     float64 `json:"qty"`
}

// YearTotal aggregates one year of import flows for a commodity.
type YearTotal struct {
	Year        int     `json:"year"`
	ImportValue float64 `json:"import_value"`
	Quantity    float64 `json:"quantity"`
}
