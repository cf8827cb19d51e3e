// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tomtom215/cropwise/internal/imaging"
	"github.com/tomtom215/cropwise/internal/predict"
)

// multipartOverhead allows for form boundaries around the uploaded file.
const multipartOverhead = 64 * 1024

// BatchResponse wraps batch soil predictions.
type BatchResponse struct {
	Predictions []*predict.Result `json:"predictions"`
	Count       int               `json:"count"`
}

// PredictSoilParams predicts crops from one set of soil readings, or from
// an array of them.
//
// @Summary Predict crops from soil parameters
// @Description Accepts a single object or an array. Missing readings take defaults (N/P/K 50, temperature 25, humidity 60, ph 6.5, rainfall 100).
// @Tags Prediction
// @Accept json
// @Produce json
// @Param body body SoilParamsRequest true "Soil readings (or an array of them)"
// @Success 200 {object} predict.Result
// @Success 200 {object} BatchResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /predict/soil-params [post]
// @Router /batch-predict/soil-params [post]
func (h *Handler) PredictSoilParams(w http.ResponseWriter, r *http.Request) {
	body, err := readJSONBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if body[0] == '[' {
		var reqs []SoilParamsRequest
		if !decodeJSON(w, r, body, &reqs) {
			return
		}
		if len(reqs) > MaxBatchSize {
			writeError(w, r, fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, len(reqs), MaxBatchSize))
			return
		}
		inputs := make([]predict.SoilInput, len(reqs))
		for i := range reqs {
			if !validateRequest(w, r, &reqs[i]) {
				return
			}
			inputs[i] = reqs[i].toInput()
		}
		results, err := h.svc.PredictSoilBatch(r.Context(), inputs)
		if err != nil {
			writeError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, BatchResponse{Predictions: results, Count: len(results)})
		return
	}

	var req SoilParamsRequest
	if !decodeJSON(w, r, body, &req) || !validateRequest(w, r, &req) {
		return
	}
	result, err := h.svc.PredictSoil(r.Context(), req.toInput())
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// PredictSoilImage classifies an uploaded soil photo.
//
// @Summary Predict crops from a soil image
// @Tags Prediction
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "JPEG or PNG soil image, at most 5 MiB"
// @Success 200 {object} predict.Result
// @Failure 400 {object} ErrorResponse
// @Failure 413 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /predict/soil-image [post]
func (h *Handler) PredictSoilImage(w http.ResponseWriter, r *http.Request) {
	maxBytes := h.svc.MaxUploadBytes()
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, imaging.LimitError(maxBytes))
			return
		}
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "multipart field \"file\" is required", nil)
		return
	}
	defer func() { _ = file.Close() }()

	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		writeError(w, r, ErrNotImage)
		return
	}

	result, err := h.svc.PredictImageUpload(r.Context(), file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// PredictRegion recommends the crops most grown in a region.
//
// @Summary Predict crops for a region
// @Description A region name takes precedence over coordinates. Coordinates are reverse-geocoded and also used for current weather.
// @Tags Prediction
// @Accept json
// @Produce json
// @Param body body RegionRequest true "Region name or coordinates"
// @Success 200 {object} predict.RegionResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /predict/region [post]
func (h *Handler) PredictRegion(w http.ResponseWriter, r *http.Request) {
	body, err := readJSONBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req RegionRequest
	if !decodeJSON(w, r, body, &req) || !validateRequest(w, r, &req) {
		return
	}

	result, err := h.svc.PredictRegion(r.Context(), req.toQuery())
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
