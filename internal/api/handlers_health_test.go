// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package api

import (
	"net/http"
	"testing"

	"github.com/tomtom215/cropwise/internal/predict"
)

func TestRootAndHealth_AllLoaded(t *testing.T) {
	t.Parallel()
	env := setupTestEnv(t, true, predict.Config{})

	w := env.do(t, http.MethodGet, "/", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("root status = %d", w.Code)
	}
	root := decodeBody[RootResponse](t, w)
	if root.Status != "operational" || root.Version != "test" {
		t.Errorf("root = %+v", root)
	}
	if root.Endpoints["region"] != "/predict/region" {
		t.Errorf("endpoints = %v", root.Endpoints)
	}

	health := decodeBody[HealthResponse](t, env.do(t, http.MethodGet, "/health", nil, ""))
	if health.Status != "healthy" || !health.ModelsLoaded {
		t.Errorf("health = %+v, want healthy", health)
	}
	if health.Models.RegionRows != 4 {
		t.Errorf("region_rows = %d, want 4", health.Models.RegionRows)
	}
	if len(health.Models.Classes) != 3 {
		t.Errorf("classes = %v", health.Models.Classes)
	}
	if !health.HistoryStore {
		t.Error("history_enabled should be true")
	}

	if w := env.do(t, http.MethodGet, "/health/ready", nil, ""); w.Code != http.StatusOK {
		t.Errorf("ready status = %d, want 200", w.Code)
	}
}

func TestHealth_PartiallyLoaded(t *testing.T) {
	t.Parallel()

	svc := predict.New(predict.Config{}, testLogger(), predict.WithRegions(testRegions()))
	server := NewRouter(NewHandler(svc, nil, ""), nil).SetupChi()

	root := decodeBody[RootResponse](t, serve(server, http.MethodGet, "/", nil, ""))
	if root.Status != "models_not_loaded" {
		t.Errorf("root status = %q, want models_not_loaded", root.Status)
	}

	w := serve(server, http.MethodGet, "/health", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("health status code = %d, want 200 even when unhealthy", w.Code)
	}
	health := decodeBody[HealthResponse](t, w)
	if health.Status != "unhealthy" || health.ModelsLoaded {
		t.Errorf("health = %+v, want unhealthy", health)
	}
	if !health.Models.Region || health.Models.SoilParams || health.Models.SoilImage {
		t.Errorf("models = %+v", health.Models)
	}

	if w := serve(server, http.MethodGet, "/health/ready", nil, ""); w.Code != http.StatusOK {
		t.Errorf("ready with one predictor = %d, want 200", w.Code)
	}
}

func TestHealth_NothingLoaded(t *testing.T) {
	t.Parallel()

	svc := predict.New(predict.Config{}, testLogger())
	server := NewRouter(NewHandler(svc, nil, ""), nil).SetupChi()

	if w := serve(server, http.MethodGet, "/health/ready", nil, ""); w.Code != http.StatusServiceUnavailable {
		t.Errorf("ready status = %d, want 503", w.Code)
	}
	w := serve(server, http.MethodGet, "/health/live", nil, "")
	if w.Code != http.StatusOK {
		t.Errorf("live status = %d, want 200", w.Code)
	}
	if got := decodeBody[map[string]string](t, w)["status"]; got != "alive" {
		t.Errorf("live status = %q", got)
	}
}
