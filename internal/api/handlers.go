// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cropwise/internal/cache"
	"github.com/tomtom215/cropwise/internal/history"
	"github.com/tomtom215/cropwise/internal/predict"
	"github.com/tomtom215/cropwise/internal/validation"
)

// maxJSONBody bounds JSON request bodies.
const maxJSONBody = 1 << 20

// summaryCacheTTL keeps the analytics summary for dashboard refreshes.
const summaryCacheTTL = 30 * time.Second

// HistoryStore is the subset of the history store the handlers use.
type HistoryStore interface {
	List(ctx context.Context, limit, offset int) ([]history.Entry, error)
	UpdateFeedback(ctx context.Context, id string, status history.Status, feedback string) (*history.Entry, error)
	Summary(ctx context.Context) (*history.Summary, error)
	SuccessRateByMethod(ctx context.Context) ([]history.MethodRate, error)
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers_health.go: root and health probes
//   - handlers_predict.go: soil, image and region predictions
//   - handlers_regions.go: region listings, search and catalogues
//   - handlers_history.go: history and analytics
type Handler struct {
	svc          *predict.Service
	history      HistoryStore
	version      string
	startTime    time.Time
	summaryCache *cache.LRU[*history.Summary]
}

// NewHandler creates a Handler. store may be nil, which disables the
// history and analytics routes.
func NewHandler(svc *predict.Service, store HistoryStore, version string) *Handler {
	if version == "" {
		version = "1.0.0"
	}
	return &Handler{
		svc:          svc,
		history:      store,
		version:      version,
		startTime:    time.Now(),
		summaryCache: cache.NewLRU[*history.Summary](1, summaryCacheTTL),
	}
}

// readJSONBody reads a bounded request body and rejects an empty one.
func readJSONBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		return nil, err
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, ErrEmptyBody
	}
	return body, nil
}

// decodeJSON decodes body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, body []byte, v interface{}) bool {
	if err := json.Unmarshal(body, v); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeInvalidJSON, "Invalid JSON request body", nil)
		return false
	}
	return true
}

// validateRequest validates v, writing a 400 with field details on failure.
func validateRequest(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if verr := validation.ValidateStruct(v); verr != nil {
		writeError(w, r, verr)
		return false
	}
	return true
}

// getIntParam extracts an integer query parameter with a default value.
// A malformed value is reported so the caller can reject it.
func getIntParam(r *http.Request, key string, defaultValue int) (int, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, &validation.RequestValidationError{Fields: []validation.FieldError{{
			Field:   key,
			Tag:     "numeric",
			Value:   value,
			Message: fmt.Sprintf("%s must be an integer", key),
		}}}
	}
	return n, nil
}
