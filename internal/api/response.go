// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cropwise/internal/logging"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Status    int         `json:"status"`
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	Timestamp time.Time   `json:"timestamp"`
	Details   interface{} `json:"details,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// detailer is implemented by errors that carry structured details for the client.
type detailer interface {
	Details() map[string]interface{}
}

// respondJSON writes data as JSON with the given status.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondError writes an ErrorResponse.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, details interface{}) {
	respondJSON(w, status, ErrorResponse{
		Status:    status,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
		Details:   details,
		RequestID: logging.RequestIDFromContext(r.Context()),
	})
}

// writeError maps err through statusFor and writes it. Server errors are
// logged and their message is not exposed.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)

	var details interface{}
	var d detailer
	if errors.As(err, &d) {
		details = d.Details()
	}

	message := err.Error()
	switch {
	case status >= http.StatusInternalServerError:
		logging.Ctx(r.Context()).Error().Err(err).Str("code", code).Int("status", status).Msg("Request failed")
		if status == http.StatusInternalServerError {
			message = "Internal server error"
		}
	default:
		logging.Ctx(r.Context()).Debug().Err(err).Str("code", code).Int("status", status).Msg("Request rejected")
	}

	respondError(w, r, status, code, message, details)
}
