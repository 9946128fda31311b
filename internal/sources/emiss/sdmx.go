// Tradeguard - Trade Tariff Protection Measure Evaluation
// Copyright 2026 Tradeguard Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/tradeguard/tradeguard

package emiss

import (
	"bytes"
	"encoding/xml"
	"sort"
	"strconv"

	"github.com/goccy/go-json"
)

// sdmxJSON is the minimal SDMX-JSON shape:
//
//	{"data": {"dataSets": [{"observations": {"0:0:0": [105.2]}}]}}
//
// Observation keys are dimension coordinates; for a single-indicator
// single-period query there is normally exactly one.
type sdmxJSON struct {
	Data struct {
		DataSets []struct {
			Observations map[string][]float64 `json:"observations"`
		} `json:"dataSets"`
	} `json:"data"`
}

// parseSDMX extracts the first observation value from an SDMX body,
// sniffing JSON versus XML by the first non-space byte. Malformed bodies
// report no value.
func parseSDMX(body []byte) (float64, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return 0, false
	}
	if trimmed[0] == '{' {
		return parseSDMXJSON(trimmed)
	}
	return parseSDMXXML(trimmed)
}

func parseSDMXJSON(body []byte) (float64, bool) {
	var parsed sdmxJSON
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, false
	}

	for _, ds := range parsed.Data.DataSets {
		if len(ds.Observations) == 0 {
			continue
		}
		// Sort coordinates so repeated parses of a multi-observation
		// payload pick the same value.
		keys := make([]string, 0, len(ds.Observations))
		for k := range ds.Observations {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			if values := ds.Observations[k]; len(values) > 0 {
				return values[0], true
			}
		}
	}
	return 0, false
}

// parseSDMXXML scans for the first ObsValue element:
//
//	<Obs><ObsValue value="105.2"/></Obs>
func parseSDMXXML(body []byte) (float64, bool) {
	decoder := xml.NewDecoder(bytes.NewReader(body))
	for {
		token, err := decoder.Token()
		if err != nil {
			return 0, false
		}
		start, ok := token.(xml.StartElement)
		if !ok || start.Name.Local != "ObsValue" {
			continue
		}
		for _, attr := range start.Attr {
			if attr.Name.Local != "value" {
				continue
			}
			value, err := strconv.ParseFloat(attr.Value, 64)
			if err != nil {
				return 0, false
			}
			return value, true
		}
	}
}
