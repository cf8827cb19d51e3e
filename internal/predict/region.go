// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package predict

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/cropwise/internal/geocode"
	"github.com/tomtom215/cropwise/internal/logging"
	"github.com/tomtom215/cropwise/internal/region"
	"github.com/tomtom215/cropwise/internal/weather"
)

const (
	suggestedStates   = 10
	weatherFallbackN  = 3
	regionSuggestion  = "Try using a specific state or district name from the available list"
	weatherConfidence = 0.8
)

// RegionQuery selects a region by name or by coordinates. A non-empty
// Region wins over coordinates.
type RegionQuery struct {
	Region string   `json:"region,omitempty"`
	Lat    *float64 `json:"lat,omitempty"`
	Lng    *float64 `json:"lng,omitempty"`
	TopN   int      `json:"top_n,omitempty"`
	RankBy string   `json:"rank_by,omitempty"`
}

func (q RegionQuery) hasCoordinates() bool {
	return q.Lat != nil && q.Lng != nil
}

// RegionResult is a region recommendation. Ranking is nil for weather
// fallback results.
type RegionResult struct {
	*region.Ranking
	Method          string           `json:"method"`
	Region          string           `json:"region,omitempty"`
	Recommendations []Recommendation `json:"recommendations"`
	GeocodedInfo    *geocode.Place   `json:"geocoded_info,omitempty"`
	WeatherData     *weather.Report  `json:"weather_data,omitempty"`
	HistoryID       string           `json:"history_id,omitempty"`
}

// RegionNotFoundError is returned when coordinates geocode to a place that is
// not in the index. It unwraps to region.ErrRegionNotFound.
type RegionNotFoundError struct {
	Lat             float64
	Lng             float64
	GeocodedInfo    *geocode.Place
	AvailableStates []string
	Suggestion      string
}

func (e *RegionNotFoundError) Error() string {
	return fmt.Sprintf("could not find matching region for coordinates: %v, %v", e.Lat, e.Lng)
}

func (e *RegionNotFoundError) Unwrap() error {
	return region.ErrRegionNotFound
}

// Details is rendered into the error response body.
func (e *RegionNotFoundError) Details() map[string]interface{} {
	return map[string]interface{}{
		"geocoded_info":    e.GeocodedInfo,
		"available_states": e.AvailableStates,
		"suggestion":       e.Suggestion,
	}
}

// PredictRegion recommends the crops most grown in a region.
func (s *Service) PredictRegion(ctx context.Context, q RegionQuery) (res *RegionResult, err error) {
	start := time.Now()
	defer func() { observe(MethodRegion, start, err) }()

	idx := s.index()
	if idx == nil {
		return nil, fmt.Errorf("%w: region dataset", ErrModelNotLoaded)
	}

	name := strings.TrimSpace(q.Region)
	hasCoords := q.hasCoordinates()
	if name == "" && !hasCoords {
		return nil, ErrRegionOrCoordinatesRequired
	}
	if hasCoords {
		if err := region.ValidateCoordinates(*q.Lat, *q.Lng); err != nil {
			return nil, err
		}
	}

	var report *weather.Report
	if hasCoords {
		report = s.currentWeather(ctx, func(ctx context.Context) (weather.Report, error) {
			return s.weather.ByCoords(ctx, *q.Lat, *q.Lng)
		})
	}

	opts := region.RankOptions{TopN: q.TopN, By: q.RankBy}
	if opts.TopN <= 0 {
		opts.TopN = s.cfg.DefaultTopN
	}
	if opts.By == "" {
		opts.By = s.cfg.RankBy
	}
	resolver := region.NewResolver(idx, s.cfg.FuzzyThreshold)

	if name != "" {
		res, err = s.byName(ctx, idx, resolver, name, opts, report)
	} else {
		res, err = s.byCoordinates(ctx, idx, resolver, *q.Lat, *q.Lng, opts)
	}
	if err != nil {
		return nil, err
	}

	if report != nil {
		res.WeatherData = report
	}
	regionName := res.Region
	if res.Ranking != nil {
		regionName = res.RegionName
	}
	res.HistoryID = s.record(ctx, res.Method, regionName, q, res.Recommendations)
	return res, nil
}

func (s *Service) byName(ctx context.Context, idx *region.Index, resolver *region.Resolver, name string, opts region.RankOptions, report *weather.Report) (*RegionResult, error) {
	m, err := resolver.ResolveName(name)
	if errors.Is(err, region.ErrRegionNotFound) {
		if report == nil {
			report = s.currentWeather(ctx, func(ctx context.Context) (weather.Report, error) {
				return s.weather.ByCity(ctx, name)
			})
		}
		if report == nil {
			return nil, fmt.Errorf("%w: %s", region.ErrRegionNotFound, name)
		}
		return weatherFallback(name, report), nil
	}
	if err != nil {
		return nil, err
	}
	return s.rank(idx, m, opts)
}

func (s *Service) byCoordinates(ctx context.Context, idx *region.Index, resolver *region.Resolver, lat, lng float64, opts region.RankOptions) (*RegionResult, error) {
	if s.geocoder == nil {
		return nil, ErrGeocodingUnavailable
	}

	notFound := &RegionNotFoundError{
		Lat:             lat,
		Lng:             lng,
		AvailableStates: firstN(idx.States(), suggestedStates),
		Suggestion:      regionSuggestion,
	}

	place, err := s.geocoder.Reverse(ctx, lat, lng)
	if errors.Is(err, geocode.ErrNoResult) {
		return nil, notFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeocodingFailed, err)
	}
	notFound.GeocodedInfo = &place

	m, err := resolver.ResolvePlace(place)
	if err != nil {
		logging.Ctx(ctx).Debug().
			Str("state", logging.SanitizeValue(place.State)).
			Str("district", logging.SanitizeValue(place.District)).
			Msg("Geocoded place not in region index")
		return nil, notFound
	}

	res, err := s.rank(idx, m, opts)
	if err != nil {
		return nil, notFound
	}
	res.GeocodedInfo = &place
	return res, nil
}

func (s *Service) rank(idx *region.Index, m region.Match, opts region.RankOptions) (*RegionResult, error) {
	ranking, err := s.ranker.Rank(idx, m, opts)
	if err != nil {
		return nil, err
	}
	recs := make([]Recommendation, len(ranking.TopCrops))
	for i, c := range ranking.TopCrops {
		recs[i] = Recommendation{Crop: c.Crop, Confidence: c.Confidence, Reason: c.Reason}
	}
	return &RegionResult{
		Ranking:         &ranking,
		Method:          MethodRegion,
		Recommendations: recs,
	}, nil
}

// currentWeather returns nil when weather is unconfigured or the lookup fails.
func (s *Service) currentWeather(ctx context.Context, lookup func(context.Context) (weather.Report, error)) *weather.Report {
	if s.weather == nil {
		return nil
	}
	r, err := lookup(ctx)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Weather lookup failed")
		return nil
	}
	return &r
}

func weatherFallback(name string, report *weather.Report) *RegionResult {
	crops := WeatherBandCrops(report.Temperature, report.Rainfall)
	if len(crops) > weatherFallbackN {
		crops = crops[:weatherFallbackN]
	}
	recs := make([]Recommendation, len(crops))
	for i, crop := range crops {
		recs[i] = Recommendation{
			Crop:       crop,
			Confidence: weatherConfidence,
			Reason:     fmt.Sprintf("Commonly grown in %s region with current weather conditions", name),
		}
	}
	return &RegionResult{
		Method:          MethodRegionWeather,
		Region:          name,
		Recommendations: recs,
		WeatherData:     report,
	}
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		items = items[:n]
	}
	out := make([]string, len(items))
	copy(out, items)
	return out
}

// SearchRegions returns states and districts containing query.
func (s *Service) SearchRegions(query string, limit int) (region.SearchResult, error) {
	idx := s.index()
	if idx == nil {
		return region.SearchResult{}, fmt.Errorf("%w: region dataset", ErrModelNotLoaded)
	}
	return idx.Search(query, limit), nil
}

// States lists the indexed states.
func (s *Service) States() ([]string, error) {
	idx := s.index()
	if idx == nil {
		return nil, fmt.Errorf("%w: region dataset", ErrModelNotLoaded)
	}
	return idx.States(), nil
}

// Districts lists the districts of state, or all districts when state is empty.
func (s *Service) Districts(state string) ([]string, error) {
	idx := s.index()
	if idx == nil {
		return nil, fmt.Errorf("%w: region dataset", ErrModelNotLoaded)
	}
	if strings.TrimSpace(state) == "" {
		return idx.AllDistricts(), nil
	}
	return idx.Districts(state), nil
}

// Crops lists every crop in the region dataset.
func (s *Service) Crops() ([]string, error) {
	idx := s.index()
	if idx == nil {
		return nil, fmt.Errorf("%w: region dataset", ErrModelNotLoaded)
	}
	return idx.Crops(), nil
}
