// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/cropwise/internal/predict"
)

// RootResponse describes the service.
type RootResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Status    string            `json:"status"`
	Endpoints map[string]string `json:"endpoints"`
}

// HealthResponse is the /health body.
type HealthResponse struct {
	Status        string              `json:"status"`
	ModelsLoaded  bool                `json:"models_loaded"`
	Models        predict.ModelStatus `json:"models"`
	HistoryStore  bool                `json:"history_enabled"`
	UptimeSeconds float64             `json:"uptime_seconds"`
	Timestamp     time.Time           `json:"timestamp"`
}

var endpoints = map[string]string{
	"soil_params":         "/predict/soil-params",
	"batch_soil_params":   "/batch-predict/soil-params",
	"soil_image":          "/predict/soil-image",
	"region":              "/predict/region",
	"search_regions":      "/search/regions",
	"available_states":    "/available/states",
	"available_districts": "/available/districts",
	"available_crops":     "/available/crops",
	"soil_types":          "/soil-types",
	"crop_categories":     "/crop-categories",
	"history":             "/history",
	"analytics":           "/analytics/summary",
	"health":              "/health",
	"metrics":             "/metrics",
	"docs":                "/swagger/index.html",
}

// Root describes the API.
//
// @Summary Service information
// @Tags Core
// @Produce json
// @Success 200 {object} RootResponse
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	status := "operational"
	if !h.svc.Status().AllLoaded() {
		status = "models_not_loaded"
	}
	respondJSON(w, http.StatusOK, RootResponse{
		Message:   "Crop Recommendation API",
		Version:   h.version,
		Status:    status,
		Endpoints: endpoints,
	})
}

// Health reports which models are loaded.
//
// @Summary Health status
// @Description Reports per-artifact load state. Always 200; use /health/ready for gating traffic.
// @Tags Core
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	models := h.svc.Status()
	status := "healthy"
	if !models.AllLoaded() {
		status = "unhealthy"
	}
	respondJSON(w, http.StatusOK, HealthResponse{
		Status:        status,
		ModelsLoaded:  models.AllLoaded(),
		Models:        models,
		HistoryStore:  h.history != nil,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
		Timestamp:     time.Now().UTC(),
	})
}

// HealthLive is the liveness probe.
//
// @Summary Liveness probe
// @Tags Core
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// HealthReady is the readiness probe: ready once any predictor is loaded.
//
// @Summary Readiness probe
// @Tags Core
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	models := h.svc.Status()
	if !models.AnyLoaded() {
		respondJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status": "not_ready",
			"models": models,
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ready",
		"models": models,
	})
}
