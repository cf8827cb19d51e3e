// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/cropwise/internal/breaker"
	"github.com/tomtom215/cropwise/internal/history"
	"github.com/tomtom215/cropwise/internal/imaging"
	"github.com/tomtom215/cropwise/internal/predict"
	"github.com/tomtom215/cropwise/internal/region"
	"github.com/tomtom215/cropwise/internal/validation"
)

// Error codes for API responses
const (
	ErrCodeBadRequest          = "BAD_REQUEST"
	ErrCodeInvalidJSON         = "INVALID_JSON"
	ErrCodeValidationFailed    = "VALIDATION_FAILED"
	ErrCodeInvalidImage        = "INVALID_IMAGE"
	ErrCodePayloadTooLarge     = "PAYLOAD_TOO_LARGE"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeMethodNotAllowed    = "METHOD_NOT_ALLOWED"
	ErrCodeTooManyRequests     = "TOO_MANY_REQUESTS"
	ErrCodeModelNotLoaded      = "MODEL_NOT_LOADED"
	ErrCodeServiceUnavailable  = "SERVICE_UNAVAILABLE"
	ErrCodeExternalServiceFail = "EXTERNAL_SERVICE_FAILED"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

var (
	// ErrHistoryDisabled is returned by history and analytics routes when no store is configured.
	ErrHistoryDisabled = errors.New("recommendation history is disabled")
	// ErrEmptyBody is returned when a JSON body is required but missing.
	ErrEmptyBody = errors.New("request body is required")
	// ErrNotImage is returned for uploads whose content type is not image/*.
	ErrNotImage = errors.New("file must be an image")
	// ErrBatchTooLarge is returned for soil batches over MaxBatchSize.
	ErrBatchTooLarge = errors.New("batch exceeds maximum size")
)

// errorMapping pairs a sentinel with its HTTP status and code. The first
// match wins, so more specific errors come first.
type errorMapping struct {
	target error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{region.ErrInvalidRegion, http.StatusBadRequest, ErrCodeBadRequest},
	{region.ErrInvalidCoordinates, http.StatusBadRequest, ErrCodeBadRequest},
	{predict.ErrRegionOrCoordinatesRequired, http.StatusBadRequest, ErrCodeBadRequest},
	{history.ErrInvalidStatus, http.StatusBadRequest, ErrCodeBadRequest},
	{ErrEmptyBody, http.StatusBadRequest, ErrCodeBadRequest},
	{ErrBatchTooLarge, http.StatusBadRequest, ErrCodeBadRequest},
	{ErrNotImage, http.StatusBadRequest, ErrCodeInvalidImage},
	{imaging.ErrUnsupportedFormat, http.StatusBadRequest, ErrCodeInvalidImage},
	{imaging.ErrDecode, http.StatusBadRequest, ErrCodeInvalidImage},
	{imaging.ErrTooLarge, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge},
	{region.ErrRegionNotFound, http.StatusNotFound, ErrCodeNotFound},
	{history.ErrNotFound, http.StatusNotFound, ErrCodeNotFound},
	{ErrHistoryDisabled, http.StatusNotFound, ErrCodeNotFound},
	{predict.ErrModelNotLoaded, http.StatusServiceUnavailable, ErrCodeModelNotLoaded},
	{breaker.ErrOpen, http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
	{predict.ErrGeocodingUnavailable, http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
	{predict.ErrGeocodingFailed, http.StatusBadGateway, ErrCodeExternalServiceFail},
}

// statusFor maps err to an HTTP status and error code. Unknown errors are 500.
func statusFor(err error) (int, string) {
	var ve *validation.RequestValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ErrCodeValidationFailed
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, ErrCodeInternalError
}
