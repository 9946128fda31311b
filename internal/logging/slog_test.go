// Tradeguard - Trade Tariff Protection Measure Evaluation
// Copyright 2026 Tradeguard Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/tradeguard/tradeguard

package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestSlogHandler(t *testing.T) {
	t.Run("emits through zerolog", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(&slogHandler{logger: zerolog.New(&buf)})

		logger.Info("service started", "service", "http", "attempt", int64(2))

		out := buf.String()
		for _, want := range []string{`"level":"info"`, `"service":"http"`, `"attempt":2`, "service started"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q: %s", want, out)
			}
		}
	})

	t.Run("groups prefix keys", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(&slogHandler{logger: zerolog.New(&buf)})

		logger.WithGroup("supervisor").Warn("service failed", "name", "consumer")

		if out := buf.String(); !strings.Contains(out, `"supervisor.name":"consumer"`) {
			t.Errorf("grouped key missing: %s", out)
		}
	})

	t.Run("respects level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(&slogHandler{logger: zerolog.New(&buf).Level(zerolog.WarnLevel)})

		logger.Debug("ignored")
		logger.Info("also ignored")
		if buf.Len() != 0 {
			t.Errorf("expected no output, got %s", buf.String())
		}
	})
}
