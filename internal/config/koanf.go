// Tradeguard - Trade Tariff Protection Measure Evaluation
// Copyright 2026 Tradeguard Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/tradeguard/tradeguard

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/tradeguard/config.yaml",
	"/etc/tradeguard/config.yml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "CONFIG_PATH"

// envPrefix namespaces Tradeguard environment variables:
// TG_SERVER_ADDR, TG_SOURCES_COMTRADE_BASE_URL, TG_NATS_ENABLED, ...
const envPrefix = "TG_"

// Load builds the configuration from defaults, an optional YAML file,
// and environment variables, then validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// TG_SOURCES_COMTRADE_BASE_URL -> sources.comtrade.base_url
	// Underscores inside a key segment are preserved by mapping only the
	// separators between known top-level sections; koanf's flat env keys
	// use the full lowercased path.
	if err := k.Load(env.Provider(envPrefix, ".", envToKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// envToKey maps an environment variable name to a koanf key path.
// Section boundaries are single underscores; multi-word leaf keys keep
// their underscores (TG_SERVER_READ_TIMEOUT -> server.read_timeout).
func envToKey(envVar string) string {
	key := strings.ToLower(strings.TrimPrefix(envVar, envPrefix))

	// Known section prefixes, longest first so nested sections win.
	sections := []string{
		"sources_comtrade", "sources_emiss", "sources_wto",
		"log", "server", "nats", "storage", "evaluation",
	}
	for _, section := range sections {
		prefix := section + "_"
		if strings.HasPrefix(key, prefix) {
			return strings.ReplaceAll(section, "_", ".") + "." + strings.TrimPrefix(key, prefix)
		}
	}
	return key
}

// findConfigFile resolves the config file path, preferring CONFIG_PATH.
func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		return path
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
