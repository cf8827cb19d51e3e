// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/cropwise/internal/history"
)

const summaryCacheKey = "summary"

// HistoryResponse is the /history body.
type HistoryResponse struct {
	Recommendations []history.Entry `json:"recommendations"`
	Count           int             `json:"count"`
	Limit           int             `json:"limit"`
	Offset          int             `json:"offset"`
}

// ListHistory returns recent recommendations, newest first.
//
// @Summary List recommendation history
// @Tags History
// @Produce json
// @Param limit query int false "Page size (1-100)" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} HistoryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "History disabled"
// @Router /history [get]
func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeError(w, r, ErrHistoryDisabled)
		return
	}
	limit, err := getIntParam(r, "limit", history.DefaultListLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	offset, err := getIntParam(r, "offset", 0)
	if err != nil {
		writeError(w, r, err)
		return
	}
	req := HistoryListRequest{Limit: limit, Offset: offset}
	if !validateRequest(w, r, &req) {
		return
	}

	entries, err := h.history.List(r.Context(), req.Limit, req.Offset)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, HistoryResponse{
		Recommendations: entries,
		Count:           len(entries),
		Limit:           req.Limit,
		Offset:          req.Offset,
	})
}

// UpdateHistory records the outcome of a recommendation.
//
// @Summary Report recommendation outcome
// @Tags History
// @Accept json
// @Produce json
// @Param id path string true "Recommendation ID"
// @Param body body FeedbackRequest true "Outcome"
// @Success 200 {object} history.Entry
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /history/{id} [patch]
func (h *Handler) UpdateHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeError(w, r, ErrHistoryDisabled)
		return
	}
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	body, err := readJSONBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req FeedbackRequest
	if !decodeJSON(w, r, body, &req) || !validateRequest(w, r, &req) {
		return
	}

	entry, err := h.history.UpdateFeedback(r.Context(), id, req.Status, strings.TrimSpace(req.Feedback))
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.summaryCache.Clear()
	respondJSON(w, http.StatusOK, entry)
}

// AnalyticsSummary aggregates the recommendation history.
//
// @Summary Recommendation analytics
// @Description Overview with success rate, method distribution, top five crops and a six month trend.
// @Tags Analytics
// @Produce json
// @Success 200 {object} history.Summary
// @Failure 404 {object} ErrorResponse "History disabled"
// @Router /analytics/summary [get]
func (h *Handler) AnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeError(w, r, ErrHistoryDisabled)
		return
	}
	if cached, ok := h.summaryCache.Get(summaryCacheKey); ok {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	summary, err := h.history.Summary(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.summaryCache.Add(summaryCacheKey, summary)
	respondJSON(w, http.StatusOK, summary)
}

// AnalyticsMethods reports outcomes per prediction method.
//
// @Summary Success rate by method
// @Tags Analytics
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse "History disabled"
// @Router /analytics/methods [get]
func (h *Handler) AnalyticsMethods(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeError(w, r, ErrHistoryDisabled)
		return
	}
	rates, err := h.history.SuccessRateByMethod(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"methods": rates,
		"count":   len(rates),
	})
}
