// Tradeguard - Trade Tariff Protection Measure Evaluation
// Copyright 2026 Tradeguard Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/tradeguard/tradeguard

// Package classify maps domestic commodity codes to the identifier set the
// evaluation works with: the harmonized (HS) code used by trade and tariff
// sources and the production-classification code used by industrial
// statistics.
package classify

import (
	"strconv"
	"strings"
)

// DefaultProductionCode is used when no production-classification mapping
// exists for a domestic code. Downstream statistics lookups degrade to
// their neutral defaults on it rather than failing.
const DefaultProductionCode = "00.00.00"

// Descriptor is the resolved identifier set for one commodity.
type Descriptor struct {
	DomesticCode   string `json:"domestic_code"`
	HSCode         string `json:"hs_code"`
	ProductionCode string `json:"production_code"`
}

// Classifier resolves a domestic commodity code into a Descriptor.
type Classifier interface {
	Classify(domesticCode string) Descriptor
}

// productionPrefixes maps domestic-code prefixes to production
// classification codes, longest prefix first at lookup time.
var productionPrefixes = []struct {
	prefix string
	code   string
}{
	{"851762", "26.30.22"},
	{"847130", "26.20.11"},
	{"8703", "29.10.00"},
}

// Static is a table-driven Classifier over the built-in prefix mappings.
type Static struct{}

// NewStatic returns the built-in classifier.
func NewStatic() *Static {
	return &Static{}
}

// Classify derives the harmonized code as the first six digits of the
// domestic code and resolves the production code by prefix, falling back
// to DefaultProductionCode.
func (s *Static) Classify(domesticCode string) Descriptor {
	domesticCode = strings.TrimSpace(domesticCode)
	return Descriptor{
		DomesticCode:   domesticCode,
		HSCode:         HSCode(domesticCode),
		ProductionCode: productionCode(domesticCode),
	}
}

// HSCode truncates a domestic code to the six-digit harmonized heading.
// Shorter codes pass through unchanged.
func HSCode(domesticCode string) string {
	if len(domesticCode) >= 6 {
		return domesticCode[:6]
	}
	return domesticCode
}

// Chapter returns the leading two-digit HS chapter, or 0 when the code
// does not start with digits.
func Chapter(code string) int {
	if len(code) < 2 {
		return 0
	}
	chapter, err := strconv.Atoi(code[:2])
	if err != nil {
		return 0
	}
	return chapter
}

func productionCode(domesticCode string) string {
	for _, m := range productionPrefixes {
		if strings.HasPrefix(domesticCode, m.prefix) {
			return m.code
		}
	}
	return DefaultProductionCode
}
