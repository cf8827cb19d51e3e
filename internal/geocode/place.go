// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

// Package geocode turns coordinates into administrative place names using the
// Nominatim reverse geocoding API.
//
// Lookups are rate limited to Nominatim's usage policy, guarded by a circuit
// breaker and cached twice: an in-memory LRU in front of an optional badger
// store that survives restarts.
package geocode

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoResult is returned when the service has no place for the coordinates.
var ErrNoResult = errors.New("geocoding returned no result")

// Place is the administrative location of a coordinate pair.
type Place struct {
	State       string            `json:"state,omitempty"`
	District    string            `json:"district,omitempty"`
	Country     string            `json:"country,omitempty"`
	CountryCode string            `json:"country_code,omitempty"`
	DisplayName string            `json:"display_name"`
	RawAddress  map[string]string `json:"raw_address,omitempty"`
}

// Reverser resolves coordinates to a Place.
type Reverser interface {
	Reverse(ctx context.Context, lat, lng float64) (Place, error)
}

// cacheKey rounds to four decimals (about 11 m) so nearby lookups share entries.
func cacheKey(lat, lng float64) string {
	return fmt.Sprintf("%.4f,%.4f", lat, lng)
}
