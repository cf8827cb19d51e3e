// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

// Package config loads Cropwise configuration from struct defaults, an
// optional YAML file, and environment variables (in that order of precedence).
package config

import (
	"path/filepath"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
	Models    ModelsConfig    `koanf:"models"`
	Region    RegionConfig    `koanf:"region"`
	Geocoding GeocodingConfig `koanf:"geocoding"`
	Weather   WeatherConfig   `koanf:"weather"`
	History   HistoryConfig   `koanf:"history"`
	Upload    UploadConfig    `koanf:"upload"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`
}

// SecurityConfig holds CORS and inbound rate limit settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// ModelsConfig locates the pre-trained classifier artifacts.
//
// Artifact file names are resolved relative to Path unless absolute.
type ModelsConfig struct {
	Path            string `koanf:"path"`
	ForestFile      string `koanf:"forest_file"`
	LabelsFile      string `koanf:"labels_file"`
	ImageModelFile  string `koanf:"image_model_file"`
	ImageInputName  string `koanf:"image_input_name"`
	ImageOutputName string `koanf:"image_output_name"`
	ImageSize       int    `koanf:"image_size"`
	// OnnxLibrary is the path to the onnxruntime shared library.
	OnnxLibrary string `koanf:"onnx_library"`
}

// RegionConfig configures the region production dataset and ranking defaults.
type RegionConfig struct {
	DataPath       string        `koanf:"data_path"`
	Dataset        string        `koanf:"dataset"`
	TitleCase      bool          `koanf:"title_case"`
	DefaultTopN    int           `koanf:"default_top_n"`
	RankBy         string        `koanf:"rank_by"`
	Confidence     float64       `koanf:"confidence"`
	FuzzyThreshold float64       `koanf:"fuzzy_threshold"`
	Watch          bool          `koanf:"watch"`
	WatchDebounce  time.Duration `koanf:"watch_debounce"`
}

// GeocodingConfig configures the reverse geocoding client.
type GeocodingConfig struct {
	Enabled   bool          `koanf:"enabled"`
	BaseURL   string        `koanf:"base_url"`
	UserAgent string        `koanf:"user_agent"`
	Timeout   time.Duration `koanf:"timeout"`
	// RatePerSecond bounds outbound requests. Nominatim's usage policy allows one.
	RatePerSecond float64       `koanf:"rate_per_second"`
	CacheSize     int           `koanf:"cache_size"`
	CacheTTL      time.Duration `koanf:"cache_ttl"`
	// CachePath enables the persistent badger cache when non-empty.
	CachePath string `koanf:"cache_path"`
}

// WeatherConfig configures the current-weather client.
type WeatherConfig struct {
	BaseURL  string        `koanf:"base_url"`
	APIKey   string        `koanf:"api_key"`
	Timeout  time.Duration `koanf:"timeout"`
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// HistoryConfig configures the recommendation history store.
type HistoryConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// UploadConfig bounds image uploads.
type UploadConfig struct {
	MaxBytes int64 `koanf:"max_bytes"`
}

// DatasetFile returns the resolved path of the region dataset.
func (r RegionConfig) DatasetFile() string {
	return resolvePath(r.DataPath, r.Dataset)
}

// ArtifactPath resolves an artifact file name against the models directory.
func (m ModelsConfig) ArtifactPath(name string) string {
	return resolvePath(m.Path, name)
}

func resolvePath(dir, name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}
