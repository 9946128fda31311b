// Tradeguard - Trade Tariff Protection Measure Evaluation
// Copyright 2026 Tradeguard Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/tradeguard/tradeguard

package emiss

import "testing"

func TestParseSDMX(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		want   float64
		wantOK bool
	}{
		{
			name:   "sdmx json single observation",
			body:   `{"data": {"dataSets": [{"observations": {"0:0:0": [105.2]}}]}}`,
			want:   105.2,
			wantOK: true,
		},
		{
			name:   "sdmx json leading whitespace",
			body:   "\n\t {\"data\": {\"dataSets\": [{\"observations\": {\"0:0:0\": [73.5]}}]}}",
			want:   73.5,
			wantOK: true,
		},
		{
			name:   "sdmx json picks lowest coordinate",
			body:   `{"data": {"dataSets": [{"observations": {"0:1:0": [99.0], "0:0:0": [88.0]}}]}}`,
			want:   88.0,
			wantOK: true,
		},
		{
			name:   "sdmx json no observations",
			body:   `{"data": {"dataSets": [{"observations": {}}]}}`,
			wantOK: false,
		},
		{
			name:   "sdmx xml observation",
			body:   `<GenericData><DataSet><Obs><ObsValue value="105.2"/></Obs></DataSet></GenericData>`,
			want:   105.2,
			wantOK: true,
		},
		{
			name:   "sdmx xml no obs value",
			body:   `<GenericData><DataSet><Obs/></DataSet></GenericData>`,
			wantOK: false,
		},
		{
			name:   "sdmx xml malformed value attribute",
			body:   `<Obs><ObsValue value="not-a-number"/></Obs>`,
			wantOK: false,
		},
		{
			name:   "empty body",
			body:   "",
			wantOK: false,
		},
		{
			name:   "garbage body",
			body:   "]]]]",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseSDMX([]byte(tt.body))
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("value = %v, want %v", got, tt.want)
			}
		})
	}
}
