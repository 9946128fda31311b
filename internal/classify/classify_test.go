// Tradeguard - Trade Tariff Protection Measure Evaluation
// Copyright 2026 Tradeguard Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/tradeguard/tradeguard

package classify

import "testing"

func TestStaticClassify(t *testing.T) {
	classifier := NewStatic()

	tests := []struct {
		name           string
		domesticCode   string
		wantHS         string
		wantProduction string
	}{
		{"mapped telephone heading", "8517620000", "851762", "26.30.22"},
		{"mapped computer heading", "8471300000", "847130", "26.20.11"},
		{"mapped vehicle chapter", "8703231940", "870323", "29.10.00"},
		{"unmapped code gets the default production code", "7208510000", "720851", DefaultProductionCode},
		{"short code passes through", "0403", "0403", DefaultProductionCode},
		{"whitespace trimmed", "  8517620000 ", "851762", "26.30.22"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifier.Classify(tt.domesticCode)
			if got.HSCode != tt.wantHS {
				t.Errorf("HSCode = %q, want %q", got.HSCode, tt.wantHS)
			}
			if got.ProductionCode != tt.wantProduction {
				t.Errorf("ProductionCode = %q, want %q", got.ProductionCode, tt.wantProduction)
			}
		})
	}
}

func TestChapter(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"0403", 4},
		{"2401", 24},
		{"851762", 85},
		{"x", 0},
		{"xy1234", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := Chapter(tt.code); got != tt.want {
			t.Errorf("Chapter(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}
