// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

package breaker

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/moodcart/internal/metrics"
)

var (
	errDown   = errors.New("lookup service down")
	errBenign = errors.New("no such product")
)

func testConfig() Config {
	return Config{MaxRequests: 1, Interval: time.Minute, Timeout: time.Hour, MinRequests: 4, FailureRatio: 0.5}
}

func TestBreaker_OpensAfterFailures(t *testing.T) {
	t.Parallel()

	b := New[int]("test-opens", testConfig(), nil, zerolog.Nop())
	for i := 0; i < 4; i++ {
		if _, err := b.Execute(func() (int, error) { return 0, errDown }); !errors.Is(err, errDown) {
			t.Fatalf("call %d error = %v, want errDown", i, err)
		}
	}

	if b.State() != "open" {
		t.Fatalf("State() = %q, want open", b.State())
	}

	called := false
	_, err := b.Execute(func() (int, error) { called = true; return 1, nil })
	if !IsRejected(err) {
		t.Errorf("error = %v, want rejection", err)
	}
	if called {
		t.Error("fn ran while circuit open")
	}
	if got := testutil.ToFloat64(metrics.CircuitBreakerState.WithLabelValues("test-opens")); got != 2 {
		t.Errorf("state gauge = %v, want 2", got)
	}
}

func TestBreaker_BenignErrorsDoNotTrip(t *testing.T) {
	t.Parallel()

	benign := func(err error) bool { return errors.Is(err, errBenign) }
	b := New[string]("test-benign", testConfig(), benign, zerolog.Nop())

	for i := 0; i < 10; i++ {
		_, err := b.Execute(func() (string, error) { return "", errBenign })
		if !errors.Is(err, errBenign) {
			t.Fatalf("error = %v, want errBenign passed through", err)
		}
	}
	if b.State() != "closed" {
		t.Errorf("State() = %q, want closed", b.State())
	}
}

func TestBreaker_RequestResultLabels(t *testing.T) {
	t.Parallel()

	benign := func(err error) bool { return errors.Is(err, errBenign) }
	b := New[int]("test-labels", testConfig(), benign, zerolog.Nop())

	calls := []error{nil, errBenign, errBenign, errDown}
	for _, err := range calls {
		_, _ = b.Execute(func() (int, error) { return 0, err })
	}

	for result, want := range map[string]float64{"success": 1, "benign": 2, "failure": 1, "rejected": 0} {
		got := testutil.ToFloat64(metrics.CircuitBreakerRequests.WithLabelValues("test-labels", result))
		if got != want {
			t.Errorf("%s requests = %v, want %v", result, got, want)
		}
	}
}

func TestBreaker_PassesResults(t *testing.T) {
	t.Parallel()

	b := New[[]int]("test-results", DefaultConfig(), nil, zerolog.Nop())
	got, err := b.Execute(func() ([]int, error) { return []int{5, 9, 14}, nil })
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(got) != 3 || got[0] != 5 {
		t.Errorf("Execute() = %v, want [5 9 14]", got)
	}
	if b.Name() != "test-results" {
		t.Errorf("Name() = %q", b.Name())
	}
}
