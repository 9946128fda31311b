// Tradeguard - Trade Tariff Protection Measure Evaluation
// Copyright 2026 Tradeguard Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/tradeguard/tradeguard

// Package comtrade is the trade-flow adapter over the UN Comtrade public
// API. It normalizes annual import/export observations into TradeRecord
// values and derives the import-share and import-history signals the
// evaluation context needs.
//
// Failure policy: every upstream problem degrades to an empty record set.
// An HTTP 429 from Comtrade stops the call outright and returns empty
// rather than retrying or propagating - silence on throttling is
// deliberate, the quota is shared with other consumers of the API key.
package comtrade

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tradeguard/tradeguard/internal/config"
	"github.com/tradeguard/tradeguard/internal/logging"
	"github.com/tradeguard/tradeguard/internal/metrics"
	"github.com/tradeguard/tradeguard/internal/resilience"
)

// SourceName identifies this adapter in the resilience layer and metrics.
const SourceName = "comtrade"

// Client fetches trade-flow statistics, guarded per call by the resilience
// layer. Safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cfg        config.SourceConfig

	limiters *resilience.Limiters
	cache    *resilience.Cache
	cb       *gobreaker.CircuitBreaker[[]TradeRecord]
}

// NewClient creates a trade-flow client with the resilience policy from cfg.
func NewClient(cfg config.SourceConfig, limiters *resilience.Limiters, cache *resilience.Cache) *Client {
	limiters.Register(SourceName, cfg.RatePermits, cfg.RateWindow, cfg.RateMaxWait)
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		limiters:   limiters,
		cache:      cache,
		cb: resilience.NewBreaker[[]TradeRecord](resilience.BreakerConfig{
			Name:             SourceName,
			FailureThreshold: cfg.BreakerThreshold,
			Cooldown:         cfg.BreakerCooldown,
		}),
	}
}

// TradeData returns annual trade flows for a harmonized code, reporting
// country, and year. It never fails upward: rate limiting, open circuits,
// throttling, and malformed payloads all yield an empty slice.
func (c *Client) TradeData(ctx context.Context, hsCode, reporterISO string, year int) []TradeRecord {
	key := resilience.Key(SourceName, hsCode, reporterISO, strconv.Itoa(year))

	cached, err := c.cache.GetOr(SourceName, key, c.cfg.CacheTTL, func() (interface{}, error) {
		records, err := c.fetch(ctx, hsCode, reporterISO, year)
		if err != nil {
			return nil, err
		}
		return records, nil
	})
	if err != nil {
		return nil
	}
	records, _ := cached.([]TradeRecord)
	return records
}

// fetch performs one guarded upstream call. Degraded outcomes surface as
// errors so the cache never stores them; the next miss retries the
// upstream instead of serving an empty result for the full TTL.
func (c *Client) fetch(ctx context.Context, hsCode, reporterISO string, year int) ([]TradeRecord, error) {
	if err := c.limiters.Acquire(ctx, SourceName); err != nil {
		logging.Warn().Str("source", SourceName).Err(err).Msg("skipping trade fetch")
		return nil, err
	}

	records, degraded := resilience.Execute(c.cb, func() ([]TradeRecord, error) {
		return c.request(ctx, hsCode, reporterISO, year)
	}, nil)
	if degraded || records == nil {
		return nil, resilience.ErrNoData
	}
	return records, nil
}

// request issues the HTTP call and decodes the minimal field set.
func (c *Client) request(ctx context.Context, hsCode, reporterISO string, year int) ([]TradeRecord, error) {
	query := url.Values{}
	query.Set("cmdCode", hsCode)
	query.Set("partnerCode", "0")
	query.Set("period", strconv.Itoa(year))
	query.Set("reporterCode", strconv.Itoa(countryCode(reporterISO)))

	reqURL := fmt.Sprintf("%s/preview/C/A/HS?%s", c.baseURL, query.Encode())

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("trade data request: %w", err)
	}
	defer resp.Body.Close()
	observeDuration(start)

	if resp.StatusCode == http.StatusTooManyRequests {
		// Stop immediately, return empty. Returning nil error keeps the
		// throttle from tripping the breaker: the upstream is healthy,
		// just metering us.
		logging.Warn().Str("source", SourceName).Str("hs_code", hsCode).Int("year", year).
			Msg("upstream throttled, returning empty result")
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trade data request: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read trade response: %w", err)
	}

	var parsed response
	if err := json.Unmarshal(body, &parsed); err != nil {
		// Malformed payload is "no data", not an upstream failure.
		logging.Warn().Str("source", SourceName).Err(err).Msg("malformed trade payload, treating as no data")
		return nil, nil
	}

	logging.Debug().Str("source", SourceName).Str("hs_code", hsCode).Int("year", year).
		Int("records", len(parsed.Data)).Msg("trade data fetched")
	return parsed.Data, nil
}

// maxBodySize bounds response reads; Comtrade annual previews are small.
const maxBodySize = 8 << 20

func observeDuration(start time.Time) {
	metrics.SourceRequestDuration.WithLabelValues(SourceName).Observe(time.Since(start).Seconds())
}

// countryCode maps an ISO country code to the UN numeric code Comtrade
// expects. Unknown codes fall back to 0 (world).
func countryCode(iso string) int {
	switch strings.ToUpper(iso) {
	case "RUS", "RU":
		return 643
	case "CHN", "CN":
		return 156
	case "USA", "US":
		return 842
	case "DEU", "DE":
		return 276
	case "JPN", "JP":
		return 392
	case "GBR", "GB":
		return 826
	case "FRA", "FR":
		return 250
	case "IND", "IN":
		return 356
	case "BRA", "BR":
		return 76
	case "KOR", "KR":
		return 410
	default:
		return 0
	}
}
