// Tradeguard - Trade Tariff Protection Measure Evaluation
// Copyright 2026 Tradeguard Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/tradeguard/tradeguard

package wto

import (
	"context"
	"fmt"
	"net/http"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tradeguard/tradeguard/internal/config"
	"github.com/tradeguard/tradeguard/internal/logging"
	"github.com/tradeguard/tradeguard/internal/metrics"
	"github.com/tradeguard/tradeguard/internal/resilience"
)

// SourceName identifies this adapter in the resilience layer and metrics.
const SourceName = "wto"

// Procedure is one schedule-modification procedure listed for a member.
type Procedure struct {
	ID             string `json:"id"`
	DateInfo       string `json:"date_info"`
	Type           string `json:"type"`
	Status         string `json:"status"`
	Certifications string `json:"certifications"`
}

// Client answers tariff questions from the seeded schedule and fetches
// the live member procedures listing. Safe for concurrent use.
type Client struct {
	schedule   *Schedule
	baseURL    string
	httpClient *http.Client
	cfg        config.SourceConfig

	limiters *resilience.Limiters
	cache    *resilience.Cache
	cb       *gobreaker.CircuitBreaker[[]Procedure]
}

// NewClient creates a tariff-schedule client over the given schedule with
// the resilience policy from cfg.
func NewClient(schedule *Schedule, cfg config.SourceConfig, limiters *resilience.Limiters, cache *resilience.Cache) *Client {
	limiters.Register(SourceName, cfg.RatePermits, cfg.RateWindow, cfg.RateMaxWait)
	return &Client{
		schedule:   schedule,
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		limiters:   limiters,
		cache:      cache,
		cb: resilience.NewBreaker[[]Procedure](resilience.BreakerConfig{
			Name:             SourceName,
			FailureThreshold: cfg.BreakerThreshold,
			Cooldown:         cfg.BreakerCooldown,
		}),
	}
}

// TariffInfo resolves the tariff line for an HS code.
func (c *Client) TariffInfo(hsCode string) TariffInfo {
	return c.schedule.Lookup(hsCode)
}

// Margin returns the bound-minus-applied headroom for an HS code.
func (c *Client) Margin(hsCode string) float64 {
	return c.schedule.Margin(hsCode)
}

// ProtectionAvailable reports whether the applied rate can be raised.
func (c *Client) ProtectionAvailable(hsCode string) bool {
	return c.schedule.ProtectionAvailable(hsCode)
}

// Procedures fetches the schedule-modification procedures listed for a
// member. It never fails upward: any upstream problem yields an empty
// slice.
func (c *Client) Procedures(ctx context.Context, member string) []Procedure {
	key := resilience.Key(SourceName, "procedures", member)

	cached, err := c.cache.GetOr(SourceName, key, c.cfg.CacheTTL, func() (interface{}, error) {
		procedures, err := c.fetchProcedures(ctx, member)
		if err != nil {
			return nil, err
		}
		return procedures, nil
	})
	if err != nil {
		return nil
	}
	procedures, _ := cached.([]Procedure)
	return procedures
}

// fetchProcedures performs one guarded upstream call. Degraded outcomes
// surface as errors so the cache never stores them.
func (c *Client) fetchProcedures(ctx context.Context, member string) ([]Procedure, error) {
	if err := c.limiters.Acquire(ctx, SourceName); err != nil {
		logging.Warn().Str("source", SourceName).Err(err).Msg("skipping procedures fetch")
		return nil, err
	}

	procedures, degraded := resilience.Execute(c.cb, func() ([]Procedure, error) {
		return c.requestProcedures(ctx, member)
	}, nil)
	if degraded || procedures == nil {
		return nil, resilience.ErrNoData
	}
	return procedures, nil
}

func (c *Client) requestProcedures(ctx context.Context, member string) ([]Procedure, error) {
	reqURL := fmt.Sprintf("%s/member/%s", c.baseURL, member)

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("procedures request: %w", err)
	}
	defer resp.Body.Close()
	metrics.SourceRequestDuration.WithLabelValues(SourceName).Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("procedures request: unexpected status %d", resp.StatusCode)
	}

	procedures, err := parseProcedures(resp.Body)
	if err != nil {
		// Unparseable markup is "no data", not an upstream failure.
		logging.Warn().Str("source", SourceName).Str("member", member).Err(err).
			Msg("malformed procedures page, treating as no data")
		return nil, nil
	}

	logging.Debug().Str("source", SourceName).Str("member", member).
		Int("procedures", len(procedures)).Msg("procedures fetched")
	return procedures, nil
}
