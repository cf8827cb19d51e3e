// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/cropwise/internal/config"
)

func testConfig(baseURL string) config.GeocodingConfig {
	return config.GeocodingConfig{
		Enabled:       true,
		BaseURL:       baseURL,
		UserAgent:     "Cropwise-Test/1.0",
		Timeout:       2 * time.Second,
		RatePerSecond: 1000,
		CacheSize:     10,
		CacheTTL:      time.Minute,
	}
}

func TestClient_Reverse(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/reverse" {
			t.Errorf("path = %s, want /reverse", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("format") != "json" || q.Get("zoom") != "10" || q.Get("addressdetails") != "1" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		if q.Get("lat") != "30.901" || q.Get("lon") != "75.8573" {
			t.Errorf("coordinates = %s,%s", q.Get("lat"), q.Get("lon"))
		}
		if ua := r.Header.Get("User-Agent"); ua != "Cropwise-Test/1.0" {
			t.Errorf("User-Agent = %q", ua)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"display_name":"Ludhiana, Punjab, India","address":{"county":"Ludhiana","city":"Ludhiana City","state":"Punjab","country":"India","country_code":"in"}}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	place, err := c.Reverse(context.Background(), 30.901, 75.8573)
	if err != nil {
		t.Fatalf("Reverse() error = %v", err)
	}
	if place.State != "Punjab" || place.District != "Ludhiana" || place.CountryCode != "in" {
		t.Errorf("place = %+v", place)
	}
	if place.RawAddress["city"] != "Ludhiana City" {
		t.Errorf("raw address not kept: %v", place.RawAddress)
	}

	// Same coordinates to four decimals hit the LRU.
	if _, err := c.Reverse(context.Background(), 30.90101, 75.85731); err != nil {
		t.Fatalf("cached Reverse() error = %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("upstream calls = %d, want 1", calls.Load())
	}
}

func TestClient_ReverseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		body      string
		wantNoRes bool
	}{
		{"no result", http.StatusOK, `{"error":"Unable to geocode"}`, true},
		{"server error", http.StatusBadGateway, `upstream`, false},
		{"bad json", http.StatusOK, `{`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(testConfig(srv.URL)).Reverse(context.Background(), 1, 2)
			if err == nil {
				t.Fatal("Reverse() expected error")
			}
			if got := errors.Is(err, ErrNoResult); got != tt.wantNoRes {
				t.Errorf("errors.Is(ErrNoResult) = %v for %v", got, err)
			}
		})
	}
}

func TestClient_PersistentCache(t *testing.T) {
	t.Parallel()

	pc, err := OpenBadgerCache("", time.Hour)
	if err != nil {
		t.Fatalf("OpenBadgerCache() error = %v", err)
	}
	defer pc.Close()

	want := Place{State: "Kerala", District: "Idukki", DisplayName: "Idukki, Kerala"}
	if err := pc.Set(cacheKey(9.85, 76.97), want); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("upstream should not be called when the persistent cache has the place")
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), WithPersistentCache(pc), WithHTTPClient(srv.Client()))
	got, err := c.Reverse(context.Background(), 9.85, 76.97)
	if err != nil {
		t.Fatalf("Reverse() error = %v", err)
	}
	if got.District != "Idukki" {
		t.Errorf("place = %+v", got)
	}
}

func TestBadgerCache_Miss(t *testing.T) {
	t.Parallel()

	pc, err := OpenBadgerCache("", 0)
	if err != nil {
		t.Fatalf("OpenBadgerCache() error = %v", err)
	}
	defer pc.Close()

	if _, ok, err := pc.Get("0.0000,0.0000"); ok || err != nil {
		t.Errorf("Get() = ok %v, err %v; want miss without error", ok, err)
	}
}

func TestPlaceFromAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		addr map[string]string
		want string
	}{
		{"county first", map[string]string{"county": "A", "district": "B", "city": "C"}, "A"},
		{"district second", map[string]string{"district": "B", "city": "C"}, "B"},
		{"city last", map[string]string{"city": "C"}, "C"},
		{"none", map[string]string{"state": "S"}, ""},
	}
	for _, tt := range tests {
		if got := placeFromAddress("", tt.addr).District; got != tt.want {
			t.Errorf("%s: district = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestClient_PurgeExpired(t *testing.T) {
	t.Parallel()

	pc, err := OpenBadgerCache("", time.Hour)
	if err != nil {
		t.Fatalf("OpenBadgerCache() error = %v", err)
	}
	defer pc.Close()

	cfg := testConfig("http://127.0.0.1:1")
	cfg.CacheTTL = time.Millisecond
	c := NewClient(cfg, WithPersistentCache(pc))
	c.memory.Add(cacheKey(1, 2), Place{State: "Goa"})

	time.Sleep(5 * time.Millisecond)

	n, err := c.PurgeExpired()
	if err != nil {
		t.Fatalf("PurgeExpired() error = %v (in-memory GC must be tolerated)", err)
	}
	if n != 1 {
		t.Errorf("PurgeExpired() removed %d, want 1", n)
	}
}
