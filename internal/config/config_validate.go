// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package config

import (
	"fmt"
	"strings"

	"github.com/tomtom215/cropwise/internal/logging"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateModels(); err != nil {
		return err
	}
	if err := c.validateRegion(); err != nil {
		return err
	}
	if err := c.validateGeocoding(); err != nil {
		return err
	}
	if err := c.validateWeather(); err != nil {
		return err
	}
	if err := c.validateHistory(); err != nil {
		return err
	}
	return c.validateUpload()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 || c.Security.RateLimitReqs > 100000 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between 1 and 100000, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, fatal, panic, disabled; got %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
}

func (c *Config) validateModels() error {
	if c.Models.ImageSize < 32 || c.Models.ImageSize > 1024 {
		return fmt.Errorf("IMAGE_SIZE must be between 32 and 1024, got %d", c.Models.ImageSize)
	}
	return nil
}

func (c *Config) validateRegion() error {
	if c.Region.Dataset == "" {
		return fmt.Errorf("REGION_DATA is required")
	}
	if c.Region.DefaultTopN < 1 || c.Region.DefaultTopN > 50 {
		return fmt.Errorf("REGION_TOP_N must be between 1 and 50, got %d", c.Region.DefaultTopN)
	}
	switch c.Region.RankBy {
	case "score", "production":
	default:
		return fmt.Errorf("REGION_RANK_BY must be score or production, got %q", c.Region.RankBy)
	}
	if c.Region.Confidence < 0 || c.Region.Confidence > 1 {
		return fmt.Errorf("REGION_CONFIDENCE must be between 0 and 1, got %v", c.Region.Confidence)
	}
	if c.Region.FuzzyThreshold <= 0 || c.Region.FuzzyThreshold > 1 {
		return fmt.Errorf("REGION_FUZZY_THRESHOLD must be in (0, 1], got %v", c.Region.FuzzyThreshold)
	}
	return nil
}

func (c *Config) validateGeocoding() error {
	if !c.Geocoding.Enabled {
		return nil
	}
	if err := validateHTTPURL(c.Geocoding.BaseURL, "GEOCODING_URL"); err != nil {
		return err
	}
	if c.Geocoding.UserAgent == "" {
		return fmt.Errorf("GEOCODING_USER_AGENT is required when geocoding is enabled")
	}
	if c.Geocoding.RatePerSecond <= 0 {
		return fmt.Errorf("GEOCODING_RATE must be positive")
	}
	return nil
}

func (c *Config) validateWeather() error {
	return validateHTTPURL(c.Weather.BaseURL, "WEATHER_URL")
}

func (c *Config) validateHistory() error {
	if c.History.Enabled && c.History.Path == "" {
		return fmt.Errorf("HISTORY_PATH is required when HISTORY_ENABLED=true")
	}
	return nil
}

func (c *Config) validateUpload() error {
	if c.Upload.MaxBytes < 1024 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be at least 1024, got %d", c.Upload.MaxBytes)
	}
	return nil
}
