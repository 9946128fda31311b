// Tradeguard - Trade Tariff Protection Measure Evaluation
// Copyright 2026 Tradeguard Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/tradeguard/tradeguard

package wto

import "testing"

func TestScheduleLookup(t *testing.T) {
	schedule := NewSchedule(DefaultEntries())

	t.Run("exact heading match", func(t *testing.T) {
		info := schedule.Lookup("8703")
		if info.BoundRate != 15.0 || info.AppliedRate != 10.0 {
			t.Errorf("rates = %v/%v, want 15/10", info.BoundRate, info.AppliedRate)
		}
		if !info.TariffQuota {
			t.Error("TariffQuota = false, want true for passenger vehicles")
		}
	})

	t.Run("longer code falls back to its heading", func(t *testing.T) {
		info := schedule.Lookup("870321")
		if info.HSCode != "8703" {
			t.Errorf("resolved %q, want heading 8703", info.HSCode)
		}
	})

	t.Run("six digit prefix preferred over heading", func(t *testing.T) {
		schedule := NewSchedule([]TariffInfo{
			{HSCode: "8703", BoundRate: 15.0, AppliedRate: 10.0, Status: StatusCertified},
			{HSCode: "870321", BoundRate: 12.0, AppliedRate: 8.0, Status: StatusCertified},
		})
		info := schedule.Lookup("87032110")
		if info.HSCode != "870321" {
			t.Errorf("resolved %q, want 870321", info.HSCode)
		}
	})

	t.Run("unknown code gets the conservative default", func(t *testing.T) {
		info := schedule.Lookup("720851")
		if info.BoundRate != 10.0 || info.AppliedRate != 7.5 {
			t.Errorf("rates = %v/%v, want 10/7.5", info.BoundRate, info.AppliedRate)
		}
		if info.Status != "Unknown" {
			t.Errorf("status = %q, want Unknown", info.Status)
		}
	})

	t.Run("unknown ita heading defaults to zero rates", func(t *testing.T) {
		info := schedule.Lookup("854231")
		if info.BoundRate != 0 || info.AppliedRate != 0 {
			t.Errorf("rates = %v/%v, want 0/0 for ITA heading", info.BoundRate, info.AppliedRate)
		}
		if !info.ITA {
			t.Error("ITA = false, want true")
		}
	})

	t.Run("empty code gets the default", func(t *testing.T) {
		info := schedule.Lookup("")
		if info.BoundRate != 10.0 || info.ITA {
			t.Errorf("info = %+v, want non-ITA default", info)
		}
	})
}

func TestScheduleMargin(t *testing.T) {
	schedule := NewSchedule(DefaultEntries())

	tests := []struct {
		name   string
		hsCode string
		want   float64
	}{
		{"certified line with headroom", "8704", 5.0},
		{"ita line has no headroom", "8517", 0},
		{"default line", "720851", 2.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := schedule.Margin(tt.hsCode); got != tt.want {
				t.Errorf("Margin(%q) = %v, want %v", tt.hsCode, got, tt.want)
			}
		})
	}
}

func TestScheduleProtectionAvailable(t *testing.T) {
	schedule := NewSchedule(append(DefaultEntries(), TariffInfo{
		HSCode: "2501", BoundRate: 5.0, AppliedRate: 5.0, Status: StatusCertified,
	}))

	if schedule.ProtectionAvailable("8517") {
		t.Error("ITA line reported protectable")
	}
	if schedule.ProtectionAvailable("2501") {
		t.Error("zero-margin line reported protectable")
	}
	if !schedule.ProtectionAvailable("8703") {
		t.Error("line with headroom reported unprotectable")
	}
}
