// Tradeguard - Trade Tariff Protection Measure Evaluation
// Copyright 2026 Tradeguard Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/tradeguard/tradeguard

// Package config loads and validates Tradeguard configuration.
//
// Configuration is layered via Koanf v2, highest priority last:
//
//  1. Built-in defaults (defaultConfig)
//  2. Config file (config.yaml, or CONFIG_PATH)
//  3. Environment variables (TG_ prefix, e.g. TG_SERVER_ADDR)
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the server.
type Config struct {
	Log        LogConfig        `koanf:"log"`
	Server     ServerConfig     `koanf:"server"`
	NATS       NATSConfig       `koanf:"nats"`
	Storage    StorageConfig    `koanf:"storage"`
	Sources    SourcesConfig    `koanf:"sources"`
	Evaluation EvaluationConfig `koanf:"evaluation"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// NATSConfig controls the event transport. When disabled, the engine is
// reachable only through the synchronous HTTP surface.
type NATSConfig struct {
	Enabled           bool          `koanf:"enabled"`
	URL               string        `koanf:"url"`
	EvaluationTopic   string        `koanf:"evaluation_topic"`
	NotificationTopic string        `koanf:"notification_topic"`
	QueueGroup        string        `koanf:"queue_group"`
	DurableName       string        `koanf:"durable_name"`
	SubscribersCount  int           `koanf:"subscribers_count"`
	AckWaitTimeout    time.Duration `koanf:"ack_wait_timeout"`
	CloseTimeout      time.Duration `koanf:"close_timeout"`
	MaxReconnects     int           `koanf:"max_reconnects"`
	ReconnectWait     time.Duration `koanf:"reconnect_wait"`
}

// StorageConfig controls the embedded recommendation store.
type StorageConfig struct {
	Path string `koanf:"path"`
}

// SourcesConfig groups per-source settings for the three external gateways.
type SourcesConfig struct {
	Comtrade SourceConfig `koanf:"comtrade"`
	Emiss    SourceConfig `koanf:"emiss"`
	WTO      SourceConfig `koanf:"wto"`
}

// SourceConfig is the resilience policy table for one external source.
// The resilience layer is entirely data-driven from these values; adapters
// never hard-code limits inline.
type SourceConfig struct {
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`

	// Rate limiting: RatePermits requests per RateWindow, with acquisition
	// blocking up to RateMaxWait before failing.
	RatePermits int           `koanf:"rate_permits"`
	RateWindow  time.Duration `koanf:"rate_window"`
	RateMaxWait time.Duration `koanf:"rate_max_wait"`

	// Circuit breaking: the circuit opens after BreakerThreshold consecutive
	// failures and stays open for BreakerCooldown.
	BreakerThreshold uint32        `koanf:"breaker_threshold"`
	BreakerCooldown  time.Duration `koanf:"breaker_cooldown"`

	// CacheTTL is the freshness window for cached responses.
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// EvaluationConfig controls context assembly.
type EvaluationConfig struct {
	// ReporterISO is the reporting country whose imports are analyzed.
	ReporterISO string `koanf:"reporter_iso"`

	// HistoryYears is how many years of import history feed the
	// stability check.
	HistoryYears int `koanf:"history_years"`

	// StabilityDropThreshold is the year-over-year import value drop
	// (as a fraction) beyond which the series is flagged unstable.
	StabilityDropThreshold float64 `koanf:"stability_drop_threshold"`
}

// defaultConfig returns a Config with all default values. These are applied
// first and then overridden by the config file and environment variables.
func defaultConfig() *Config {
	source := func(baseURL string) SourceConfig {
		return SourceConfig{
			BaseURL:          baseURL,
			Timeout:          30 * time.Second,
			RatePermits:      1,
			RateWindow:       3 * time.Second,
			RateMaxWait:      5 * time.Second,
			BreakerThreshold: 3,
			BreakerCooldown:  60 * time.Second,
			CacheTTL:         time.Hour,
		}
	}

	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Server: ServerConfig{
			Addr:            ":8090",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		NATS: NATSConfig{
			Enabled:           false,
			URL:               "nats://127.0.0.1:4222",
			EvaluationTopic:   "ttp.evaluation.requested",
			NotificationTopic: "ttp.notifications",
			QueueGroup:        "evaluators",
			DurableName:       "ttp-evaluator",
			SubscribersCount:  2,
			AckWaitTimeout:    60 * time.Second,
			CloseTimeout:      30 * time.Second,
			MaxReconnects:     -1,
			ReconnectWait:     2 * time.Second,
		},
		Storage: StorageConfig{
			Path: "/data/tradeguard",
		},
		Sources: SourcesConfig{
			Comtrade: source("https://comtradeapi.un.org/public/v1"),
			Emiss:    source("https://fedstat.ru/sdmx/v2"),
			WTO:      source("https://goods-schedules.wto.org"),
		},
		Evaluation: EvaluationConfig{
			ReporterISO:            "RUS",
			HistoryYears:           3,
			StabilityDropThreshold: 0.20,
		},
	}
}

// Validate checks the configuration for values the engine cannot run with.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if c.Evaluation.HistoryYears < 2 {
		return fmt.Errorf("evaluation.history_years must be at least 2, got %d", c.Evaluation.HistoryYears)
	}
	if c.Evaluation.StabilityDropThreshold <= 0 || c.Evaluation.StabilityDropThreshold >= 1 {
		return fmt.Errorf("evaluation.stability_drop_threshold must be in (0,1), got %g", c.Evaluation.StabilityDropThreshold)
	}
	for name, src := range map[string]SourceConfig{
		"comtrade": c.Sources.Comtrade,
		"emiss":    c.Sources.Emiss,
		"wto":      c.Sources.WTO,
	} {
		if src.RatePermits < 1 {
			return fmt.Errorf("sources.%s.rate_permits must be at least 1, got %d", name, src.RatePermits)
		}
		if src.RateWindow <= 0 {
			return fmt.Errorf("sources.%s.rate_window must be positive", name)
		}
		if src.BreakerThreshold < 1 {
			return fmt.Errorf("sources.%s.breaker_threshold must be at least 1", name)
		}
		if src.Timeout <= 0 {
			return fmt.Errorf("sources.%s.timeout must be positive", name)
		}
	}
	if c.NATS.Enabled && c.NATS.URL == "" {
		return fmt.Errorf("nats.url must be set when nats.enabled is true")
	}
	return nil
}
