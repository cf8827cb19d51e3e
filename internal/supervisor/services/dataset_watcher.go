// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tomtom215/cropwise/internal/logging"
)

// DefaultDebounce is the quiet period after the last change before reloading.
const DefaultDebounce = 2 * time.Second

// ReloadFunc rebuilds state from the watched file. An error leaves the
// previous state in place; the watcher keeps running.
type ReloadFunc func(ctx context.Context) error

// DatasetWatcher reloads the region dataset when its file changes.
//
// The parent directory is watched rather than the file itself so that
// editors and deploy tools that replace the file by rename are noticed.
// Bursts of events are collapsed into one reload after the debounce period.
type DatasetWatcher struct {
	path     string
	debounce time.Duration
	reload   ReloadFunc
}

// NewDatasetWatcher watches path. A non-positive debounce uses DefaultDebounce.
func NewDatasetWatcher(path string, debounce time.Duration, reload ReloadFunc) *DatasetWatcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &DatasetWatcher{
		path:     filepath.Clean(path),
		debounce: debounce,
		reload:   reload,
	}
}

// Serve implements suture.Service.
func (w *DatasetWatcher) Serve(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create dataset watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	logger := logging.WithComponent("dataset-watcher")
	logger.Info().Str("path", w.path).Dur("debounce", w.debounce).Msg("Watching region dataset")

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-watcher.Events:
			if !ok {
				return errors.New("dataset watcher: event channel closed")
			}
			if filepath.Clean(ev.Name) != w.path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			logger.Debug().Str("op", ev.Op.String()).Msg("Dataset changed")
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			fire = timer.C

		case <-fire:
			timer, fire = nil, nil
			start := time.Now()
			if err := w.reload(ctx); err != nil {
				logger.Error().Err(err).Msg("Region dataset reload failed, keeping previous index")
				continue
			}
			logger.Info().Dur("duration", time.Since(start)).Msg("Region dataset reloaded")

		case err, ok := <-watcher.Errors:
			if !ok {
				return errors.New("dataset watcher: error channel closed")
			}
			logger.Warn().Err(err).Msg("Dataset watcher error")
		}
	}
}

// String names the service in supervisor events.
func (w *DatasetWatcher) String() string {
	return "dataset-watcher"
}
