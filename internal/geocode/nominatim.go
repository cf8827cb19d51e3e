// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package geocode

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
	"golang.org/x/time/rate"

	"github.com/tomtom215/cropwise/internal/breaker"
	"github.com/tomtom215/cropwise/internal/cache"
	"github.com/tomtom215/cropwise/internal/config"
	"github.com/tomtom215/cropwise/internal/logging"
	"github.com/tomtom215/cropwise/internal/metrics"
)

const (
	serviceName      = "nominatim"
	maxErrorBodySize = 64 * 1024
	reverseZoom      = "10"
)

// nominatimResponse is the subset of /reverse output we read.
type nominatimResponse struct {
	Error       string            `json:"error"`
	DisplayName string            `json:"display_name"`
	Address     map[string]string `json:"address"`
}

// Client is a Reverser backed by Nominatim.
//
// Thread Safety: safe for concurrent use.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *breaker.Breaker
	memory     *cache.LRU[Place]
	persistent *BadgerCache
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithPersistentCache adds a badger-backed cache below the LRU.
func WithPersistentCache(pc *BadgerCache) Option {
	return func(c *Client) { c.persistent = pc }
}

// NewClient creates a Nominatim client from cfg.
func NewClient(cfg config.GeocodingConfig, opts ...Option) *Client {
	perSecond := cfg.RatePerSecond
	if perSecond <= 0 {
		perSecond = 1
	}
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(perSecond), 1),
		breaker: breaker.New("nominatim-api", breaker.Settings{
			IsSuccessful: func(err error) bool { return err == nil || errors.Is(err, ErrNoResult) },
		}),
		memory: cache.NewLRU[Place](cfg.CacheSize, cfg.CacheTTL),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Reverse returns the place at lat, lng. Cached answers skip the network.
func (c *Client) Reverse(ctx context.Context, lat, lng float64) (Place, error) {
	key := cacheKey(lat, lng)

	if p, ok := c.memory.Get(key); ok {
		metrics.RecordCacheLookup("geocode", true)
		return p, nil
	}
	if c.persistent != nil {
		p, ok, err := c.persistent.Get(key)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("Persistent geocode cache read failed")
		}
		if ok {
			metrics.RecordCacheLookup("geocode", true)
			c.memory.Add(key, p)
			return p, nil
		}
	}
	metrics.RecordCacheLookup("geocode", false)

	place, err := breaker.Do(c.breaker, func() (Place, error) {
		return c.fetch(ctx, lat, lng)
	})
	if err != nil {
		return Place{}, err
	}

	c.memory.Add(key, place)
	if c.persistent != nil {
		if err := c.persistent.Set(key, place); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("Persistent geocode cache write failed")
		}
	}
	return place, nil
}

func (c *Client) fetch(ctx context.Context, lat, lng float64) (place Place, err error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Place{}, fmt.Errorf("geocoding rate limiter: %w", err)
	}

	start := time.Now()
	defer func() {
		metrics.RecordExternalCall(serviceName, time.Since(start), err)
	}()

	params := url.Values{}
	params.Set("format", "json")
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	params.Set("zoom", reverseZoom)
	params.Set("addressdetails", "1")
	reqURL := c.baseURL + "/reverse?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return Place{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Place{}, fmt.Errorf("geocoding service error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return Place{}, fmt.Errorf("geocoding service error: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Place{}, fmt.Errorf("failed to decode geocoding response: %w", err)
	}
	if payload.Error != "" {
		return Place{}, fmt.Errorf("%w: %s", ErrNoResult, payload.Error)
	}

	return placeFromAddress(payload.DisplayName, payload.Address), nil
}

// placeFromAddress picks the district from county, then district, then city.
func placeFromAddress(displayName string, addr map[string]string) Place {
	district := addr["county"]
	if district == "" {
		district = addr["district"]
	}
	if district == "" {
		district = addr["city"]
	}
	return Place{
		State:       addr["state"],
		District:    district,
		Country:     addr["country"],
		CountryCode: addr["country_code"],
		DisplayName: displayName,
		RawAddress:  addr,
	}
}

// PurgeExpired drops expired in-memory entries and compacts the persistent
// cache. It returns the number of in-memory entries removed.
func (c *Client) PurgeExpired() (int, error) {
	n := c.memory.CleanupExpired()
	if c.persistent == nil {
		return n, nil
	}
	return n, c.persistent.RunGC()
}
