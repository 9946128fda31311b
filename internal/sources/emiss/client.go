// Tradeguard - Trade Tariff Protection Measure Evaluation
// Copyright 2026 Tradeguard Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/tradeguard/tradeguard

// Package emiss is the production-statistics adapter over the EMISS
// (fedstat.ru) SDMX API. It fetches single-indicator annual observations
// and derives the production-decline and capacity-utilization signals.
//
// The upstream answers in either SDMX-JSON or SDMX-XML depending on
// endpoint mood; responses are sniffed by their first byte and only the
// first observation value is extracted from either shape.
package emiss

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tradeguard/tradeguard/internal/config"
	"github.com/tradeguard/tradeguard/internal/logging"
	"github.com/tradeguard/tradeguard/internal/metrics"
	"github.com/tradeguard/tradeguard/internal/resilience"
)

// SourceName identifies this adapter in the resilience layer and metrics.
const SourceName = "emiss"

// EMISS indicator identifiers.
const (
	indicatorProductionIndex     = "31074"
	indicatorCapacityUtilization = "58036"
	indicatorShippedProduction   = "40616"
)

// observation is one extracted indicator value. ok distinguishes a real
// zero from "no data".
type observation struct {
	value float64
	ok    bool
}

// Client fetches production statistics, guarded per call by the resilience
// layer. Safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cfg        config.SourceConfig

	limiters *resilience.Limiters
	cache    *resilience.Cache
	cb       *gobreaker.CircuitBreaker[observation]
}

// NewClient creates a production-statistics client with the resilience
// policy from cfg.
func NewClient(cfg config.SourceConfig, limiters *resilience.Limiters, cache *resilience.Cache) *Client {
	limiters.Register(SourceName, cfg.RatePermits, cfg.RateWindow, cfg.RateMaxWait)
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		limiters:   limiters,
		cache:      cache,
		cb: resilience.NewBreaker[observation](resilience.BreakerConfig{
			Name:             SourceName,
			FailureThreshold: cfg.BreakerThreshold,
			Cooldown:         cfg.BreakerCooldown,
		}),
	}
}

// ProductionIndex returns the industrial production index for the given
// production-classification code and year (100 = base level). ok is false
// when no data could be retrieved.
func (c *Client) ProductionIndex(ctx context.Context, productionCode string, year int) (float64, bool) {
	obs := c.indicator(ctx, indicatorProductionIndex, productionCode, year)
	return obs.value, obs.ok
}

// ShippedProduction returns the shipped-production volume for the given
// production-classification code and year. ok is false when no data could
// be retrieved.
func (c *Client) ShippedProduction(ctx context.Context, productionCode string, year int) (float64, bool) {
	obs := c.indicator(ctx, indicatorShippedProduction, productionCode, year)
	return obs.value, obs.ok
}

// indicator resolves one cached, guarded indicator observation.
func (c *Client) indicator(ctx context.Context, indicator, productionCode string, year int) observation {
	key := resilience.Key(SourceName, indicator, productionCode, strconv.Itoa(year))

	cached, err := c.cache.GetOr(SourceName, key, c.cfg.CacheTTL, func() (interface{}, error) {
		obs, err := c.fetch(ctx, indicator, year)
		if err != nil {
			return nil, err
		}
		return obs, nil
	})
	if err != nil {
		return observation{}
	}
	obs, _ := cached.(observation)
	return obs
}

// fetch performs one guarded upstream call. Only real observations are
// cacheable; degraded or empty answers come back as errors so the next
// miss retries the upstream.
func (c *Client) fetch(ctx context.Context, indicator string, year int) (observation, error) {
	if err := c.limiters.Acquire(ctx, SourceName); err != nil {
		logging.Warn().Str("source", SourceName).Err(err).Msg("skipping indicator fetch")
		return observation{}, err
	}

	obs, degraded := resilience.Execute(c.cb, func() (observation, error) {
		return c.request(ctx, indicator, year)
	}, observation{})
	if degraded || !obs.ok {
		return observation{}, resilience.ErrNoData
	}
	return obs, nil
}

// request issues the SDMX data call and extracts the first observation.
func (c *Client) request(ctx context.Context, indicator string, year int) (observation, error) {
	query := url.Values{}
	query.Set("startPeriod", strconv.Itoa(year))
	query.Set("endPeriod", strconv.Itoa(year))
	query.Set("format", "sdmx-json")

	reqURL := fmt.Sprintf("%s/data/%s?%s", c.baseURL, indicator, query.Encode())

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return observation{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return observation{}, fmt.Errorf("indicator request: %w", err)
	}
	defer resp.Body.Close()
	metrics.SourceRequestDuration.WithLabelValues(SourceName).Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		return observation{}, fmt.Errorf("indicator request: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return observation{}, fmt.Errorf("read indicator response: %w", err)
	}

	value, ok := parseSDMX(body)
	if !ok {
		// An answer with no extractable observation is "no data", not an
		// upstream failure.
		logging.Warn().Str("source", SourceName).Str("indicator", indicator).Int("year", year).
			Msg("no observation in indicator response")
		return observation{}, nil
	}

	logging.Debug().Str("source", SourceName).Str("indicator", indicator).Int("year", year).
		Float64("value", value).Msg("indicator fetched")
	return observation{value: value, ok: true}, nil
}

// maxBodySize bounds response reads; single-indicator SDMX replies are small.
const maxBodySize = 4 << 20
