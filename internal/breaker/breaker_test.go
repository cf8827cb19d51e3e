// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package breaker

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/cropwise/internal/metrics"
)

var errUpstream = errors.New("upstream down")

func TestBreaker_OpensAfterFailures(t *testing.T) {
	t.Parallel()

	b := New("test-open", Settings{MinRequests: 4, Timeout: time.Hour})

	for i := 0; i < 4; i++ {
		if _, err := Do(b, func() (int, error) { return 0, errUpstream }); !errors.Is(err, errUpstream) {
			t.Fatalf("call %d: error = %v, want upstream error", i, err)
		}
	}
	if b.State() != "open" {
		t.Fatalf("State() = %s, want open", b.State())
	}

	_, err := Do(b, func() (int, error) { return 1, nil })
	if !errors.Is(err, ErrOpen) {
		t.Errorf("error = %v, want ErrOpen", err)
	}
	if got := testutil.ToFloat64(metrics.CircuitBreakerState.WithLabelValues("test-open")); got != 2 {
		t.Errorf("state gauge = %v, want 2", got)
	}
	if got := testutil.ToFloat64(metrics.CircuitBreakerRequests.WithLabelValues("test-open", "rejected")); got != 1 {
		t.Errorf("rejected counter = %v, want 1", got)
	}
}

func TestBreaker_IsSuccessfulKeepsClosed(t *testing.T) {
	t.Parallel()

	errNoResult := errors.New("no result")
	b := New("test-benign", Settings{
		MinRequests:  2,
		IsSuccessful: func(err error) bool { return err == nil || errors.Is(err, errNoResult) },
	})

	for i := 0; i < 5; i++ {
		if _, err := Do(b, func() (string, error) { return "", errNoResult }); !errors.Is(err, errNoResult) {
			t.Fatalf("error = %v, want errNoResult", err)
		}
	}
	if b.State() != "closed" {
		t.Errorf("State() = %s, want closed", b.State())
	}
	if b.Name() != "test-benign" {
		t.Errorf("Name() = %s", b.Name())
	}
}

func TestDo_ReturnsTypedValue(t *testing.T) {
	t.Parallel()

	b := New("test-typed", Settings{})
	got, err := Do(b, func() ([]string, error) { return []string{"a", "b"}, nil })
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if len(got) != 2 || got[1] != "b" {
		t.Errorf("Do() = %v", got)
	}
	if n := testutil.ToFloat64(metrics.CircuitBreakerRequests.WithLabelValues("test-typed", "success")); n != 1 {
		t.Errorf("success counter = %v, want 1", n)
	}
}
