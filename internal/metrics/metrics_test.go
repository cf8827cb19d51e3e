// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/available/states", "200"))

	RecordAPIRequest("GET", "/available/states", "200", 15*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/available/states", "200"))
	if after != before+1 {
		t.Errorf("api_requests_total = %v, want %v", after, before+1)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+2 {
		t.Errorf("after two increments = %v, want %v", got, before+2)
	}

	TrackActiveRequest(false)
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("after decrements = %v, want %v", got, before)
	}
}

func TestRecordPrediction(t *testing.T) {
	tests := []struct {
		method  string
		outcome string
	}{
		{"soil_params", "success"},
		{"soil_image", "error"},
		{"region", "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.method+"_"+tt.outcome, func(t *testing.T) {
			before := testutil.ToFloat64(PredictionsTotal.WithLabelValues(tt.method, tt.outcome))
			RecordPrediction(tt.method, tt.outcome, 3*time.Millisecond)
			after := testutil.ToFloat64(PredictionsTotal.WithLabelValues(tt.method, tt.outcome))
			if after != before+1 {
				t.Errorf("predictions_total{%s,%s} = %v, want %v", tt.method, tt.outcome, after, before+1)
			}
		})
	}
}

func TestSetModelLoaded(t *testing.T) {
	SetModelLoaded("forest", true)
	if got := testutil.ToFloat64(ModelLoaded.WithLabelValues("forest")); got != 1 {
		t.Errorf("model_loaded{forest} = %v, want 1", got)
	}
	SetModelLoaded("forest", false)
	if got := testutil.ToFloat64(ModelLoaded.WithLabelValues("forest")); got != 0 {
		t.Errorf("model_loaded{forest} = %v, want 0", got)
	}
}

func TestRecordIndexReload(t *testing.T) {
	okBefore := testutil.ToFloat64(RegionIndexReloads.WithLabelValues("success"))
	errBefore := testutil.ToFloat64(RegionIndexReloads.WithLabelValues("error"))

	RecordIndexReload(1234, nil)
	if got := testutil.ToFloat64(RegionIndexRows); got != 1234 {
		t.Errorf("region_index_rows = %v, want 1234", got)
	}

	RecordIndexReload(0, errors.New("missing columns"))
	if got := testutil.ToFloat64(RegionIndexRows); got != 1234 {
		t.Errorf("failed reload must not change row gauge, got %v", got)
	}

	if got := testutil.ToFloat64(RegionIndexReloads.WithLabelValues("success")); got != okBefore+1 {
		t.Errorf("success reloads = %v, want %v", got, okBefore+1)
	}
	if got := testutil.ToFloat64(RegionIndexReloads.WithLabelValues("error")); got != errBefore+1 {
		t.Errorf("error reloads = %v, want %v", got, errBefore+1)
	}
}

func TestRecordCacheLookup(t *testing.T) {
	hits := testutil.ToFloat64(CacheHits.WithLabelValues("geocode"))
	misses := testutil.ToFloat64(CacheMisses.WithLabelValues("geocode"))

	RecordCacheLookup("geocode", true)
	RecordCacheLookup("geocode", false)
	RecordCacheLookup("geocode", false)

	if got := testutil.ToFloat64(CacheHits.WithLabelValues("geocode")); got != hits+1 {
		t.Errorf("cache hits = %v, want %v", got, hits+1)
	}
	if got := testutil.ToFloat64(CacheMisses.WithLabelValues("geocode")); got != misses+2 {
		t.Errorf("cache misses = %v, want %v", got, misses+2)
	}
}

func TestRecordExternalCall(t *testing.T) {
	// Histograms only need to accept observations without panicking.
	RecordExternalCall("nominatim", 120*time.Millisecond, nil)
	RecordExternalCall("openweathermap", 2*time.Second, errors.New("timeout"))
	RecordHistoryQuery("summary", 4*time.Millisecond)

	if n := testutil.CollectAndCount(ExternalAPICallDuration); n < 2 {
		t.Errorf("expected at least 2 external call series, got %d", n)
	}
}
