// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

/*
Package api exposes the crop recommendation service over HTTP.

Routes are served by chi. Every handler parses and validates its request,
delegates to predict.Service or the history store, and writes either a JSON
result or the common error body:

	{"status": 400, "code": "VALIDATION_FAILED", "message": "...", "timestamp": "...", "details": {...}}

Sentinel errors from the domain packages are translated to HTTP status codes
in one table (see statusFor). Prediction and lookup routes are rate limited
per client IP with go-chi/httprate; health routes are not.
*/
package api
