// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), MemoryPath)
	if err != nil {
		t.Fatalf("Open(%q) error = %v", MemoryPath, err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_RequiresPath(t *testing.T) {
	t.Parallel()
	if _, err := Open(context.Background(), ""); err == nil {
		t.Fatal("Open(\"\") should fail")
	}
}

func TestRecord_FillsDefaults(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	input, _ := json.Marshal(map[string]float64{"N": 90, "ph": 6.5})
	got, err := s.Record(ctx, Entry{
		Method: "soil_params",
		Input:  input,
		Recommendations: []Crop{
			{Crop: "rice", Confidence: 0.91},
			{Crop: "jute", Confidence: 0.05},
		},
	})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if got.ID == "" {
		t.Error("Record() should assign an id")
	}
	if got.Status != StatusPending {
		t.Errorf("Status = %q, want pending", got.Status)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	stored, err := s.Get(ctx, got.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if stored.Method != "soil_params" {
		t.Errorf("Method = %q", stored.Method)
	}
	if len(stored.Recommendations) != 2 || stored.Recommendations[0].Crop != "rice" {
		t.Errorf("Recommendations = %+v, want rice first", stored.Recommendations)
	}
	var decoded map[string]float64
	if err := json.Unmarshal(stored.Input, &decoded); err != nil || decoded["N"] != 90 {
		t.Errorf("Input round trip = %s (%v)", stored.Input, err)
	}
}

func TestGet_NotFound(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	if _, err := s.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestList_NewestFirst(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, method := range []string{"soil_params", "soil_image", "region"} {
		_, err := s.Record(ctx, Entry{
			Method:    method,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("Record(%s) error = %v", method, err)
		}
	}

	entries, err := s.List(ctx, 2, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(List) = %d, want 2", len(entries))
	}
	if entries[0].Method != "region" || entries[1].Method != "soil_image" {
		t.Errorf("List order = %s, %s", entries[0].Method, entries[1].Method)
	}

	rest, err := s.List(ctx, 10, 2)
	if err != nil {
		t.Fatalf("List(offset) error = %v", err)
	}
	if len(rest) != 1 || rest[0].Method != "soil_params" {
		t.Errorf("List(offset=2) = %+v", rest)
	}
}

func TestUpdateFeedback(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	e, err := s.Record(ctx, Entry{Method: "region", Region: "Punjab"})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	tests := []struct {
		name    string
		id      string
		status  Status
		wantErr error
	}{
		{"success", e.ID, StatusSuccess, nil},
		{"pending rejected", e.ID, StatusPending, ErrInvalidStatus},
		{"unknown status", e.ID, Status("maybe"), ErrInvalidStatus},
		{"missing id", "nope", StatusFailure, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated, err := s.UpdateFeedback(ctx, tt.id, tt.status, "good harvest")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("UpdateFeedback() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if updated.Status != tt.status || updated.Feedback != "good harvest" {
				t.Errorf("updated = %+v", updated)
			}
		})
	}
}

func TestSummary(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	s.now = func() time.Time { return time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	seed := []struct {
		method string
		crops  []Crop
		status Status
		when   time.Time
	}{
		{"soil_params", []Crop{{"rice", 0.9}, {"maize", 0.05}}, StatusSuccess, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)},
		{"soil_params", []Crop{{"rice", 0.8}}, StatusFailure, time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC)},
		{"region", []Crop{{"rice", 0.8}, {"wheat", 0.8}}, StatusSuccess, time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC)},
		{"soil_image", []Crop{{"cotton", 0.7}}, StatusPending, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, sd := range seed {
		e, err := s.Record(ctx, Entry{Method: sd.method, Recommendations: sd.crops, CreatedAt: sd.when})
		if err != nil {
			t.Fatalf("Record() error = %v", err)
		}
		if sd.status != StatusPending {
			if _, err := s.UpdateFeedback(ctx, e.ID, sd.status, ""); err != nil {
				t.Fatalf("UpdateFeedback() error = %v", err)
			}
		}
	}

	sum, err := s.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}

	want := Overview{Total: 4, Success: 2, Failure: 1, Pending: 1, SuccessRate: 67}
	if sum.Overview != want {
		t.Errorf("Overview = %+v, want %+v", sum.Overview, want)
	}

	if len(sum.MethodDistribution) != 3 || sum.MethodDistribution[0].Method != "soil_params" || sum.MethodDistribution[0].Count != 2 {
		t.Errorf("MethodDistribution = %+v", sum.MethodDistribution)
	}

	if len(sum.TopCrops) == 0 {
		t.Fatal("TopCrops is empty")
	}
	rice := sum.TopCrops[0]
	if rice.Crop != "rice" || rice.Count != 3 {
		t.Errorf("top crop = %+v, want rice x3", rice)
	}
	if rice.AvgConfidence != 0.83 {
		t.Errorf("rice AvgConfidence = %v, want 0.83", rice.AvgConfidence)
	}
	if rice.SuccessRate != 67 {
		t.Errorf("rice SuccessRate = %d, want 67", rice.SuccessRate)
	}

	// The 2025 entry falls outside the six month window.
	if len(sum.MonthlyTrend) != 2 {
		t.Fatalf("MonthlyTrend = %+v, want May and June", sum.MonthlyTrend)
	}
	if sum.MonthlyTrend[0].Month != "2026-05" || sum.MonthlyTrend[0].Count != 2 {
		t.Errorf("first trend point = %+v", sum.MonthlyTrend[0])
	}

	rates, err := s.SuccessRateByMethod(ctx)
	if err != nil {
		t.Fatalf("SuccessRateByMethod() error = %v", err)
	}
	for _, r := range rates {
		if r.Method == "soil_image" && r.SuccessRate != 0 {
			t.Errorf("pending-only method rate = %d, want 0", r.SuccessRate)
		}
		if r.Method == "soil_params" && r.SuccessRate != 50 {
			t.Errorf("soil_params rate = %d, want 50", r.SuccessRate)
		}
	}
}

func TestSummary_Empty(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	sum, err := s.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if sum.Overview.Total != 0 || sum.Overview.SuccessRate != 0 {
		t.Errorf("Overview = %+v, want zeros", sum.Overview)
	}
	if sum.TopCrops == nil || sum.MethodDistribution == nil || sum.MonthlyTrend == nil {
		t.Error("empty summary slices must be non-nil")
	}
}

func TestSuccessRate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		s, f int64
		want int
	}{
		{0, 0, 0},
		{1, 0, 100},
		{2, 1, 67},
		{1, 2, 33},
	}
	for _, tt := range tests {
		if got := successRate(tt.s, tt.f); got != tt.want {
			t.Errorf("successRate(%d, %d) = %d, want %d", tt.s, tt.f, got, tt.want)
		}
	}
}
