// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package services

import (
	"context"
	"time"

	"github.com/tomtom215/cropwise/internal/logging"
)

// Purger drops expired cache entries and reports how many it removed.
// geocode.Client and weather.Client implement it.
type Purger interface {
	PurgeExpired() (int, error)
}

type namedPurger struct {
	name string
	p    Purger
}

// CacheJanitor periodically purges expired entries from the TTL caches
// in front of the external APIs.
type CacheJanitor struct {
	interval time.Duration
	purgers  []namedPurger
}

// NewCacheJanitor sweeps every interval. A non-positive interval defaults
// to one minute.
func NewCacheJanitor(interval time.Duration) *CacheJanitor {
	if interval <= 0 {
		interval = time.Minute
	}
	return &CacheJanitor{interval: interval}
}

// Register adds a cache. Call before Serve.
func (j *CacheJanitor) Register(name string, p Purger) {
	j.purgers = append(j.purgers, namedPurger{name: name, p: p})
}

// Len returns the number of registered caches.
func (j *CacheJanitor) Len() int {
	return len(j.purgers)
}

// Sweep purges every registered cache once and returns the total removed.
// Failures are logged and do not stop the sweep.
func (j *CacheJanitor) Sweep() int {
	logger := logging.WithComponent("cache-janitor")
	total := 0
	for _, np := range j.purgers {
		n, err := np.p.PurgeExpired()
		total += n
		if err != nil {
			logger.Warn().Err(err).Str("cache", np.name).Msg("Cache purge failed")
			continue
		}
		if n > 0 {
			logger.Debug().Str("cache", np.name).Int("removed", n).Msg("Purged expired cache entries")
		}
	}
	return total
}

// Serve implements suture.Service.
func (j *CacheJanitor) Serve(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			j.Sweep()
		}
	}
}

// String names the service in supervisor events.
func (j *CacheJanitor) String() string {
	return "cache-janitor"
}
