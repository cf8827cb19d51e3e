// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

// Package weather fetches current conditions from OpenWeatherMap.
//
// Every lookup returns a usable Report. When the API key is missing or the
// upstream call fails, the Report holds Defaults() with Fallback set and the
// error is returned alongside it for logging.
package weather

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cropwise/internal/breaker"
	"github.com/tomtom215/cropwise/internal/cache"
	"github.com/tomtom215/cropwise/internal/config"
	"github.com/tomtom215/cropwise/internal/metrics"
)

// ErrNoAPIKey is returned when no OpenWeatherMap key is configured.
var ErrNoAPIKey = errors.New("weather API key not configured")

const (
	serviceName      = "openweathermap"
	maxErrorBodySize = 64 * 1024
)

// Report is the current weather at a location.
type Report struct {
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	Rainfall    float64   `json:"rainfall"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Country     string    `json:"country"`
	Timestamp   time.Time `json:"timestamp"`
	Fallback    bool      `json:"fallback,omitempty"`
}

// Defaults returns the report used when live data is unavailable.
func Defaults() Report {
	return Report{
		Temperature: 25,
		Humidity:    60,
		Rainfall:    0,
		Description: "clear sky",
		Location:    "Unknown",
		Country:     "Unknown",
		Timestamp:   time.Now(),
		Fallback:    true,
	}
}

// Provider looks up current weather.
type Provider interface {
	ByCoords(ctx context.Context, lat, lng float64) (Report, error)
	ByCity(ctx context.Context, name string) (Report, error)
}

// owmResponse is the subset of /data/2.5/weather output we read.
type owmResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Rain struct {
		OneHour float64 `json:"1h"`
	} `json:"rain"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Sys struct {
		Country string `json:"country"`
	} `json:"sys"`
}

// Client is a Provider backed by OpenWeatherMap.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	breaker    *breaker.Breaker
	cache      *cache.LRU[Report]
	now        func() time.Time
}

// NewClient creates a client from cfg.
func NewClient(cfg config.WeatherConfig) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    breaker.New("openweathermap-api", breaker.Settings{}),
		cache:      cache.NewLRU[Report](1000, cfg.CacheTTL),
		now:        time.Now,
	}
}

// ByCoords returns the weather at lat, lng.
func (c *Client) ByCoords(ctx context.Context, lat, lng float64) (Report, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	return c.lookup(ctx, fmt.Sprintf("coords:%.3f,%.3f", lat, lng), params)
}

// ByCity returns the weather for a place name.
func (c *Client) ByCity(ctx context.Context, name string) (Report, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Defaults(), errors.New("weather: empty city name")
	}
	params := url.Values{}
	params.Set("q", name)
	return c.lookup(ctx, "city:"+strings.ToLower(name), params)
}

func (c *Client) lookup(ctx context.Context, key string, params url.Values) (Report, error) {
	if c.apiKey == "" {
		return Defaults(), ErrNoAPIKey
	}
	if r, ok := c.cache.Get(key); ok {
		metrics.RecordCacheLookup("weather", true)
		return r, nil
	}
	metrics.RecordCacheLookup("weather", false)

	report, err := breaker.Do(c.breaker, func() (Report, error) {
		return c.fetch(ctx, params)
	})
	if err != nil {
		return Defaults(), err
	}
	c.cache.Add(key, report)
	return report, nil
}

func (c *Client) fetch(ctx context.Context, params url.Values) (report Report, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordExternalCall(serviceName, time.Since(start), err)
	}()

	params.Set("appid", c.apiKey)
	params.Set("units", "metric")
	reqURL := c.baseURL + "/data/2.5/weather?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return Report{}, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Report{}, fmt.Errorf("weather API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return Report{}, fmt.Errorf("weather API returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload owmResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Report{}, fmt.Errorf("failed to decode weather response: %w", err)
	}
	if len(payload.Weather) == 0 {
		return Report{}, errors.New("weather response has no conditions")
	}

	return Report{
		Temperature: payload.Main.Temp,
		Humidity:    payload.Main.Humidity,
		Rainfall:    payload.Rain.OneHour,
		Description: payload.Weather[0].Description,
		Location:    payload.Name,
		Country:     payload.Sys.Country,
		Timestamp:   c.now(),
	}, nil
}

// PurgeExpired drops expired reports and returns how many were removed.
func (c *Client) PurgeExpired() (int, error) {
	return c.cache.CleanupExpired(), nil
}
