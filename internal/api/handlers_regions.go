// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package api

import (
	"net/http"
	"strings"

	"github.com/tomtom215/cropwise/internal/predict"
	"github.com/tomtom215/cropwise/internal/region"
)

// SearchResponse is the /search/regions body.
type SearchResponse struct {
	Query   string              `json:"query"`
	Results region.SearchResult `json:"results"`
	Count   int                 `json:"count"`
}

// SearchRegions finds states and districts containing a query.
//
// @Summary Search regions
// @Tags Regions
// @Produce json
// @Param query query string true "Case-insensitive substring, 1 to 100 characters"
// @Param limit query int false "Maximum results per list (1-100)" default(10)
// @Success 200 {object} SearchResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /search/regions [get]
func (h *Handler) SearchRegions(w http.ResponseWriter, r *http.Request) {
	limit, err := getIntParam(r, "limit", region.DefaultSearchLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	req := SearchRequest{
		Query: strings.TrimSpace(r.URL.Query().Get("query")),
		Limit: limit,
	}
	if !validateRequest(w, r, &req) {
		return
	}

	results, err := h.svc.SearchRegions(req.Query, req.Limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, SearchResponse{
		Query:   req.Query,
		Results: results,
		Count:   len(results.States) + len(results.Districts),
	})
}

// AvailableStates lists every indexed state.
//
// @Summary List states
// @Tags Regions
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} ErrorResponse
// @Router /available/states [get]
func (h *Handler) AvailableStates(w http.ResponseWriter, r *http.Request) {
	states, err := h.svc.States()
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"states": states,
		"count":  len(states),
	})
}

// AvailableDistricts lists districts, optionally of one state.
//
// @Summary List districts
// @Tags Regions
// @Produce json
// @Param state query string false "Only districts of this state (case-insensitive)"
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} ErrorResponse
// @Router /available/districts [get]
func (h *Handler) AvailableDistricts(w http.ResponseWriter, r *http.Request) {
	state := strings.TrimSpace(r.URL.Query().Get("state"))
	districts, err := h.svc.Districts(state)
	if err != nil {
		writeError(w, r, err)
		return
	}
	label := state
	if label == "" {
		label = "all"
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"districts": districts,
		"count":     len(districts),
		"state":     label,
	})
}

// AvailableCrops lists every crop in the region dataset.
//
// @Summary List crops
// @Tags Regions
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} ErrorResponse
// @Router /available/crops [get]
func (h *Handler) AvailableCrops(w http.ResponseWriter, r *http.Request) {
	crops, err := h.svc.Crops()
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"crops": crops,
		"count": len(crops),
	})
}

// SoilTypes lists the soil classes the image model predicts.
//
// @Summary List soil types
// @Tags Catalogue
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /soil-types [get]
func (h *Handler) SoilTypes(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"soil_types":   predict.SoilTypes,
		"count":        len(predict.SoilTypes),
		"descriptions": predict.SoilDescriptions,
	})
}

// CropCategories lists crop categories.
//
// @Summary List crop categories
// @Tags Catalogue
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /crop-categories [get]
func (h *Handler) CropCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"categories": predict.CropCategories,
		"count":      len(predict.CropCategories),
	})
}
