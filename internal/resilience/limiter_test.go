// Tradeguard - Trade Tariff Protection Measure Evaluation
// Copyright 2026 Tradeguard Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/tradeguard/tradeguard

package resilience

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestAcquireWithinQuotaSucceeds(t *testing.T) {
	l := NewLimiters()
	l.Register("comtrade", 3, time.Second, 50*time.Millisecond)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := l.Acquire(ctx, "comtrade"); err != nil {
			t.Fatalf("acquire %d within quota failed: %v", i, err)
		}
	}
}

func TestAcquireBeyondQuotaFailsWithRateLimitExceeded(t *testing.T) {
	l := NewLimiters()
	// 1 permit per 10s: the second acquire cannot get a permit within
	// the 20ms bounded wait.
	l.Register("emiss", 1, 10*time.Second, 20*time.Millisecond)

	ctx := context.Background()
	if err := l.Acquire(ctx, "emiss"); err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}

	err := l.Acquire(ctx, "emiss")
	if !errors.Is(err, ErrRateLimitExceeded) {
		t.Fatalf("expected ErrRateLimitExceeded, got %v", err)
	}
}

func TestAcquireNeverExceedsQuotaUnderConcurrency(t *testing.T) {
	l := NewLimiters()
	l.Register("wto", 4, 10*time.Second, 20*time.Millisecond)

	var granted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.Acquire(context.Background(), "wto"); err == nil {
				granted.Add(1)
			}
		}()
	}
	wg.Wait()

	// Burst capacity is 4; within a 20ms wait at 1 permit per 2.5s, at
	// most one extra permit can trickle in.
	if got := granted.Load(); got > 5 {
		t.Errorf("granted %d permits, want at most 5", got)
	}
	if got := granted.Load(); got < 4 {
		t.Errorf("granted %d permits, want at least the burst of 4", got)
	}
}

func TestAcquireUnknownSourcePassesThrough(t *testing.T) {
	l := NewLimiters()
	if err := l.Acquire(context.Background(), "unconfigured"); err != nil {
		t.Fatalf("unknown source should pass through, got %v", err)
	}
}

func TestAcquirePropagatesCallerCancellation(t *testing.T) {
	l := NewLimiters()
	l.Register("comtrade", 1, 10*time.Second, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	if err := l.Acquire(ctx, "comtrade"); err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- l.Acquire(ctx, "comtrade") }()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("acquire did not return after cancellation")
	}
}
