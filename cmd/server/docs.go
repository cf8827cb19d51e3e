// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

// Package main provides the Cropwise HTTP server
//
// Cropwise recommends crops from soil measurements, soil photographs and
// historical district production records.
//
// @title Cropwise Crop Recommendation API
// @version 1.0
// @description Crop recommendations from soil parameters, soil images and regional production history
// @description
// @description ## Prediction methods
// @description
// @description - **Soil parameters**: random forest over N, P, K, temperature, humidity, pH and rainfall
// @description - **Soil image**: image classifier that maps a photograph to one of six soil types
// @description - **Region**: ranking of crops grown in a state or district, optionally resolved from coordinates
// @description
// @description ## Rate Limiting
// @description
// @description Default rate limit: 100 requests per minute per IP address.
// @description Health probes are never rate limited.
// @description
// @description ## Error Responses
// @description
// @description All error responses follow this format:
// @description ```json
// @description {
// @description   "status": 404,
// @description   "code": "NOT_FOUND",
// @description   "message": "Human-readable error message",
// @description   "timestamp": "2026-01-01T12:00:00Z",
// @description   "details": {},
// @description   "request_id": "4f1c..."
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/cropwise/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:8000
// @BasePath /
// @schemes http https
//
// @tag.name Health
// @tag.description Service banner and liveness/readiness probes
//
// @tag.name Predictions
// @tag.description Crop recommendations from soil parameters, soil images and regions
//
// @tag.name Regions
// @tag.description Region search and listings of states, districts and crops
//
// @tag.name Catalogue
// @tag.description Static soil type and crop category catalogues
//
// @tag.name History
// @tag.description Recorded recommendations and farmer feedback
//
// @tag.name Analytics
// @tag.description Aggregates over recorded recommendations
package main
