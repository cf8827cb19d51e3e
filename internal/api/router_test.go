// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/cropwise/internal/config"
	"github.com/tomtom215/cropwise/internal/metrics"
	"github.com/tomtom215/cropwise/internal/middleware"
	"github.com/tomtom215/cropwise/internal/predict"
)

func TestRouter_Routes(t *testing.T) {
	t.Parallel()
	env := setupTestEnv(t, true, predict.Config{})

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/health/live", http.StatusOK},
		{http.MethodGet, "/health/ready", http.StatusOK},
		{http.MethodGet, "/available/states", http.StatusOK},
		{http.MethodGet, "/available/districts", http.StatusOK},
		{http.MethodGet, "/available/crops", http.StatusOK},
		{http.MethodGet, "/soil-types", http.StatusOK},
		{http.MethodGet, "/crop-categories", http.StatusOK},
		{http.MethodGet, "/search/regions?query=pun", http.StatusOK},
		{http.MethodGet, "/history", http.StatusOK},
		{http.MethodGet, "/analytics/summary", http.StatusOK},
		{http.MethodGet, "/analytics/methods", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/no/such/route", http.StatusNotFound},
		{http.MethodGet, "/predict/region", http.StatusMethodNotAllowed},
		{http.MethodDelete, "/history/abc", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := env.do(t, tt.method, tt.path, nil, "")
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.status, w.Body.String())
			}
		})
	}
}

func TestRouter_NotFoundUsesErrorBody(t *testing.T) {
	t.Parallel()
	env := setupTestEnv(t, false, predict.Config{})

	w := env.do(t, http.MethodGet, "/nope", nil, "")
	assertError(t, w, http.StatusNotFound, ErrCodeNotFound)

	w = env.do(t, http.MethodPut, "/available/states", nil, "")
	assertError(t, w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed)
}

func TestRouter_RequestIDAndSecurityHeaders(t *testing.T) {
	t.Parallel()
	env := setupTestEnv(t, false, predict.Config{})

	req := httptest.NewRequest(http.MethodGet, "/available/states", nil)
	req.Header.Set(middleware.RequestIDHeader, "client-supplied-id")
	w := httptest.NewRecorder()
	env.server.ServeHTTP(w, req)

	if got := w.Header().Get(middleware.RequestIDHeader); got != "client-supplied-id" {
		t.Errorf("X-Request-ID = %q, want echo of client value", got)
	}
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}

	w = env.do(t, http.MethodGet, "/available/states", nil, "")
	if w.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("a request ID should be generated when none is sent")
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	t.Parallel()
	env := setupTestEnv(t, false, predict.Config{})

	req := httptest.NewRequest(http.MethodOptions, "/predict/region", nil)
	req.Header.Set("Origin", "http://farm.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	env.server.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Error("preflight should set Access-Control-Allow-Origin")
	}
}

// Not parallel: other tests hit the same series.
func TestRouter_MetricsRecordRoutePattern(t *testing.T) {
	env := setupTestEnv(t, true, predict.Config{})

	labels := []string{http.MethodPatch, "/history/{id}", "404"}
	before := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues(labels...))

	env.do(t, http.MethodPatch, "/history/abc", []byte(`{"status": "success"}`), "application/json")

	after := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues(labels...))
	if after != before+1 {
		t.Errorf("api_requests_total%v = %v, want %v", labels, after, before+1)
	}
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	svc := predict.New(predict.Config{}, testLogger(), predict.WithRegions(testRegions()))
	mw := NewChiMiddleware(&ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{"*"},
		RateLimitRequests:  2,
		RateLimitWindow:    time.Minute,
	})
	server := NewRouter(NewHandler(svc, nil, ""), mw).SetupChi()

	hitsBefore := testutil.ToFloat64(metrics.APIRateLimitHits.WithLabelValues("/available/crops"))

	for i := 0; i < 2; i++ {
		if w := serve(server, http.MethodGet, "/available/crops", nil, ""); w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i, w.Code)
		}
	}
	w := serve(server, http.MethodGet, "/available/crops", nil, "")
	assertError(t, w, http.StatusTooManyRequests, ErrCodeTooManyRequests)

	if got := testutil.ToFloat64(metrics.APIRateLimitHits.WithLabelValues("/available/crops")); got != hitsBefore+1 {
		t.Errorf("rate limit hits = %v, want %v", got, hitsBefore+1)
	}

	// Health probes are never limited.
	for i := 0; i < 5; i++ {
		if w := serve(server, http.MethodGet, "/health/live", nil, ""); w.Code != http.StatusOK {
			t.Fatalf("health probe %d status = %d", i, w.Code)
		}
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	t.Parallel()

	m := NewChiMiddleware(&ChiMiddlewareConfig{RateLimitRequests: 1, RateLimitWindow: time.Minute, RateLimitDisabled: true})
	h := m.RateLimit()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	for i := 0; i < 3; i++ {
		if w := serve(h, http.MethodGet, "/", nil, ""); w.Code != http.StatusNoContent {
			t.Fatalf("request %d status = %d", i, w.Code)
		}
	}
}

func TestChiMiddlewareConfigFromSecurity(t *testing.T) {
	t.Parallel()

	cfg := ChiMiddlewareConfigFromSecurity(config.SecurityConfig{
		CORSOrigins:     []string{"https://a.example"},
		RateLimitReqs:   7,
		RateLimitWindow: 30 * time.Second,
	})
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "https://a.example" {
		t.Errorf("origins = %v", cfg.CORSAllowedOrigins)
	}
	if cfg.RateLimitRequests != 7 || cfg.RateLimitWindow != 30*time.Second {
		t.Errorf("rate limit = %d/%v", cfg.RateLimitRequests, cfg.RateLimitWindow)
	}
	if !strings.Contains(strings.Join(cfg.CORSAllowedMethods, ","), "PATCH") {
		t.Errorf("methods %v should allow PATCH for history feedback", cfg.CORSAllowedMethods)
	}

	def := ChiMiddlewareConfigFromSecurity(config.SecurityConfig{RateLimitReqs: 1, RateLimitWindow: time.Second})
	if len(def.CORSAllowedOrigins) != 1 || def.CORSAllowedOrigins[0] != "*" {
		t.Errorf("empty origins should fall back to *, got %v", def.CORSAllowedOrigins)
	}
}
