// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cropwise/config.yaml",
	"/etc/cropwise/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns the configuration applied before the file and environment layers.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8000,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Models: ModelsConfig{
			Path:            "saved_models",
			ForestFile:      "random_forest_model.json",
			LabelsFile:      "crop_label_encoder.json",
			ImageModelFile:  "soil_cnn_model.onnx",
			ImageInputName:  "input",
			ImageOutputName: "output",
			ImageSize:       224,
		},
		Region: RegionConfig{
			DataPath:       "data",
			Dataset:        "India_Agriculture_Crop_Production.csv",
			TitleCase:      true,
			DefaultTopN:    5,
			RankBy:         "score",
			Confidence:     0.8,
			FuzzyThreshold: 0.7,
			Watch:          true,
			WatchDebounce:  2 * time.Second,
		},
		Geocoding: GeocodingConfig{
			Enabled:       true,
			BaseURL:       "https://nominatim.openstreetmap.org",
			UserAgent:     "Cropwise/1.0",
			Timeout:       10 * time.Second,
			RatePerSecond: 1,
			CacheSize:     5000,
			CacheTTL:      24 * time.Hour,
		},
		Weather: WeatherConfig{
			BaseURL:  "https://api.openweathermap.org",
			Timeout:  10 * time.Second,
			CacheTTL: 10 * time.Minute,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    "data/history.duckdb",
		},
		Upload: UploadConfig{
			MaxBytes: 5 * 1024 * 1024,
		},
	}
}

// Load reads configuration from all layers and validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// LoadWithKoanf layers struct defaults, the optional YAML file and the
// mapped environment variables, then unmarshals and validates the result.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := FindConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// FindConfigFile returns CONFIG_PATH if it exists, else the first existing default path.
func FindConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated strings when set via env.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
// Unmapped variables are ignored.
var envMappings = map[string]string{
	// Server
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Models (MODEL_PATH kept for compatibility with existing deployments)
	"model_path":         "models.path",
	"forest_model_file":  "models.forest_file",
	"label_encoder_file": "models.labels_file",
	"image_model_file":   "models.image_model_file",
	"image_input_name":   "models.image_input_name",
	"image_output_name":  "models.image_output_name",
	"image_size":         "models.image_size",
	"onnx_library":       "models.onnx_library",

	// Region dataset
	"data_path":              "region.data_path",
	"region_data":            "region.dataset",
	"region_title_case":      "region.title_case",
	"region_top_n":           "region.default_top_n",
	"region_rank_by":         "region.rank_by",
	"region_confidence":      "region.confidence",
	"region_fuzzy_threshold": "region.fuzzy_threshold",
	"region_watch":           "region.watch",
	"region_watch_debounce":  "region.watch_debounce",

	// Geocoding
	"geocoding_enabled":    "geocoding.enabled",
	"geocoding_url":        "geocoding.base_url",
	"geocoding_user_agent": "geocoding.user_agent",
	"geocoding_timeout":    "geocoding.timeout",
	"geocoding_rate":       "geocoding.rate_per_second",
	"geocoding_cache_size": "geocoding.cache_size",
	"geocoding_cache_ttl":  "geocoding.cache_ttl",
	"geocoding_cache_path": "geocoding.cache_path",

	// Weather
	"weather_url":       "weather.base_url",
	"weather_api_key":   "weather.api_key",
	"weather_timeout":   "weather.timeout",
	"weather_cache_ttl": "weather.cache_ttl",

	// History
	"history_enabled": "history.enabled",
	"history_path":    "history.path",

	// Upload
	"max_upload_bytes": "upload.max_bytes",
}

func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

// WatchConfigFile calls callback whenever the config file at path changes.
// Callers are responsible for synchronizing access to the reloaded config.
func WatchConfigFile(path string, callback func()) error {
	provider := file.Provider(path)
	return provider.Watch(func(_ interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
