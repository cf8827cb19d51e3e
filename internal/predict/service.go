// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

// Package predict is the facade the API calls for every recommendation.
//
// It owns no models of its own: the tabular classifier, the soil image
// classifier and the region index are loaded independently and any of them
// may be missing. A missing artifact only disables its own entry point,
// which then fails with ErrModelNotLoaded.
package predict

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cropwise/internal/geocode"
	"github.com/tomtom215/cropwise/internal/history"
	"github.com/tomtom215/cropwise/internal/imaging"
	"github.com/tomtom215/cropwise/internal/inference"
	"github.com/tomtom215/cropwise/internal/logging"
	"github.com/tomtom215/cropwise/internal/metrics"
	"github.com/tomtom215/cropwise/internal/region"
	"github.com/tomtom215/cropwise/internal/weather"
)

// Prediction methods, as reported in results and history.
const (
	MethodSoilParams    = "soil_params"
	MethodSoilImage     = "soil_image"
	MethodRegion        = "region"
	MethodRegionWeather = "region_weather"
)

// Prediction outcomes for metrics.
const (
	outcomeSuccess     = "success"
	outcomeError       = "error"
	outcomeUnavailable = "unavailable"
)

var (
	// ErrModelNotLoaded is returned by an entry point whose artifact is missing.
	ErrModelNotLoaded = errors.New("model not loaded")
	// ErrRegionOrCoordinatesRequired is returned when a region query has neither.
	ErrRegionOrCoordinatesRequired = errors.New("either region or coordinates must be provided")
	// ErrGeocodingUnavailable is returned for coordinate queries when no geocoder is configured.
	ErrGeocodingUnavailable = errors.New("reverse geocoding is not available")
	// ErrGeocodingFailed wraps upstream geocoding failures.
	ErrGeocodingFailed = errors.New("geocoding failed")
)

// HistoryRecorder stores served recommendations.
type HistoryRecorder interface {
	Record(ctx context.Context, e history.Entry) (*history.Entry, error)
}

// Config holds ranking defaults.
type Config struct {
	DefaultTopN    int
	RankBy         string
	Confidence     float64
	FuzzyThreshold float64
	ImageSize      int
	MaxUploadBytes int64
}

// DefaultConfig returns the defaults used when no Config is given.
func DefaultConfig() Config {
	return Config{
		DefaultTopN:    region.DefaultTopN,
		RankBy:         region.RankByScore,
		Confidence:     region.DefaultConfidence,
		FuzzyThreshold: region.DefaultFuzzyThreshold,
		ImageSize:      imaging.DefaultSize,
		MaxUploadBytes: imaging.MaxUploadBytes,
	}
}

// Service answers prediction requests.
type Service struct {
	cfg    Config
	logger zerolog.Logger
	ranker *region.Ranker

	forest  inference.TabularClassifier
	labels  *inference.LabelEncoder
	image   inference.ImageClassifier
	regions *region.Store

	geocoder geocode.Reverser
	weather  weather.Provider
	history  HistoryRecorder
}

// Option configures a Service.
type Option func(*Service)

// WithSoilModel sets the tabular classifier and the labels of its classes.
func WithSoilModel(c inference.TabularClassifier, labels *inference.LabelEncoder) Option {
	return func(s *Service) {
		s.forest = c
		s.labels = labels
	}
}

// WithImageModel sets the soil image classifier.
func WithImageModel(c inference.ImageClassifier) Option {
	return func(s *Service) { s.image = c }
}

// WithRegions sets the region index store.
func WithRegions(store *region.Store) Option {
	return func(s *Service) { s.regions = store }
}

// WithGeocoder enables coordinate queries.
func WithGeocoder(g geocode.Reverser) Option {
	return func(s *Service) { s.geocoder = g }
}

// WithWeather enables weather lookups.
func WithWeather(p weather.Provider) Option {
	return func(s *Service) { s.weather = p }
}

// WithHistory records every successful prediction.
func WithHistory(h HistoryRecorder) Option {
	return func(s *Service) { s.history = h }
}

// New returns a Service. Zero values in cfg take their defaults.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(cfg Config, logger zerolog.Logger, opts ...Option) *Service {
	def := DefaultConfig()
	if cfg.DefaultTopN <= 0 {
		cfg.DefaultTopN = def.DefaultTopN
	}
	if cfg.RankBy == "" {
		cfg.RankBy = def.RankBy
	}
	if cfg.Confidence <= 0 {
		cfg.Confidence = def.Confidence
	}
	if cfg.FuzzyThreshold <= 0 {
		cfg.FuzzyThreshold = def.FuzzyThreshold
	}
	if cfg.ImageSize <= 0 {
		cfg.ImageSize = def.ImageSize
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = def.MaxUploadBytes
	}

	s := &Service{
		cfg:    cfg,
		logger: logger.With().Str("component", "predict").Logger(),
		ranker: region.NewRanker(cfg.Confidence),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ModelStatus reports which artifacts are loaded.
type ModelStatus struct {
	SoilParams bool     `json:"soil_params"`
	SoilImage  bool     `json:"soil_image"`
	Region     bool     `json:"region"`
	RegionRows int      `json:"region_rows"`
	Classes    []string `json:"classes,omitempty"`
}

// AllLoaded reports whether every predictor is available.
func (m ModelStatus) AllLoaded() bool {
	return m.SoilParams && m.SoilImage && m.Region
}

// AnyLoaded reports whether at least one predictor is available.
func (m ModelStatus) AnyLoaded() bool {
	return m.SoilParams || m.SoilImage || m.Region
}

// Status reports the loaded artifacts.
func (s *Service) Status() ModelStatus {
	st := ModelStatus{
		SoilParams: s.forest != nil && s.labels != nil,
		SoilImage:  s.image != nil,
	}
	if idx := s.index(); idx != nil {
		st.Region = true
		st.RegionRows = idx.Rows()
	}
	if s.labels != nil {
		st.Classes = s.labels.Classes()
	}
	return st
}

// HistoryEnabled reports whether predictions are being recorded.
func (s *Service) HistoryEnabled() bool {
	return s.history != nil
}

func (s *Service) index() *region.Index {
	if s.regions == nil {
		return nil
	}
	return s.regions.Load()
}

// record stores a served recommendation and returns its id. Failures are
// logged and yield an empty id.
func (s *Service) record(ctx context.Context, method, regionName string, input any, recs []Recommendation) string {
	if s.history == nil {
		return ""
	}

	raw, err := json.Marshal(input)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("method", method).Msg("Failed to encode history input")
		raw = nil
	}
	crops := make([]history.Crop, len(recs))
	for i, r := range recs {
		crops[i] = history.Crop{Crop: r.Crop, Confidence: r.Confidence}
	}

	e, err := s.history.Record(ctx, history.Entry{
		Method:          method,
		Input:           raw,
		Region:          regionName,
		Recommendations: crops,
	})
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("method", method).Msg("Failed to record recommendation history")
		return ""
	}
	return e.ID
}

func observe(method string, start time.Time, err error) {
	outcome := outcomeSuccess
	switch {
	case errors.Is(err, ErrModelNotLoaded):
		outcome = outcomeUnavailable
	case err != nil:
		outcome = outcomeError
	}
	metrics.RecordPrediction(method, outcome, time.Since(start))
}
