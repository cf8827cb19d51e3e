// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

// Package main is the entry point for the Cropwise server application.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Load settings from environment variables and config files (Koanf v2)
//  2. Models: Random forest, label encoder and ONNX soil image classifier
//  3. Region index: District crop production dataset
//  4. External clients: Nominatim reverse geocoding and OpenWeatherMap
//  5. History: DuckDB recommendation history
//  6. HTTP Server: Chi router with Swagger documentation
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM:
//   - Stops accepting new connections
//   - Waits for in-flight requests to complete (HTTP_SHUTDOWN_TIMEOUT)
//   - Closes the history database, geocode cache and ONNX runtime
//
// # Example Usage
//
//	export MODEL_PATH=saved_models
//	export DATA_PATH=data
//	export WEATHER_API_KEY=your-openweathermap-key
//	./cropwise
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/cropwise/internal/api"
	"github.com/tomtom215/cropwise/internal/config"
	"github.com/tomtom215/cropwise/internal/geocode"
	"github.com/tomtom215/cropwise/internal/history"
	"github.com/tomtom215/cropwise/internal/inference"
	"github.com/tomtom215/cropwise/internal/logging"
	"github.com/tomtom215/cropwise/internal/predict"
	"github.com/tomtom215/cropwise/internal/region"
	"github.com/tomtom215/cropwise/internal/supervisor"
	"github.com/tomtom215/cropwise/internal/supervisor/services"
	"github.com/tomtom215/cropwise/internal/weather"

	_ "github.com/tomtom215/cropwise/docs" // Swagger documentation
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "1.0.0"

//nolint:gocyclo // main wires every component in sequence
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Cropwise")
	logging.Debug().
		Str("config_file", config.FindConfigFile()).
		Str("models", cfg.Models.Path).
		Str("dataset", cfg.Region.DatasetFile()).
		Msg("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// === MODELS ===
	models := initModels(&cfg.Models)
	predictOpts := models.opts
	defer func() {
		if err := models.Close(); err != nil {
			logging.Warn().Err(err).Msg("Failed to close soil image model")
		}
		if err := inference.ShutdownRuntime(); err != nil {
			logging.Warn().Err(err).Msg("Failed to shut down onnxruntime")
		}
	}()

	// === REGION INDEX ===
	regions := region.NewStore(nil)
	reloadRegions := regionReloader(&cfg.Region, regions)
	if err := reloadRegions(ctx); err != nil {
		logging.Warn().Err(err).Msg("Region dataset not loaded, region routes will return 503")
	}
	predictOpts = append(predictOpts, predict.WithRegions(regions))

	janitor := services.NewCacheJanitor(time.Minute)

	// === EXTERNAL CLIENTS ===
	if cfg.Geocoding.Enabled {
		var geoOpts []geocode.Option
		if cfg.Geocoding.CachePath != "" {
			persistent, err := geocode.OpenBadgerCache(cfg.Geocoding.CachePath, cfg.Geocoding.CacheTTL)
			if err != nil {
				logging.Warn().Err(err).Str("path", cfg.Geocoding.CachePath).Msg("Persistent geocode cache disabled")
			} else {
				defer func() {
					if err := persistent.Close(); err != nil {
						logging.Error().Err(err).Msg("Failed to close geocode cache")
					}
				}()
				geoOpts = append(geoOpts, geocode.WithPersistentCache(persistent))
			}
		}
		geocoder := geocode.NewClient(cfg.Geocoding, geoOpts...)
		janitor.Register("geocode", geocoder)
		predictOpts = append(predictOpts, predict.WithGeocoder(geocoder))
		logging.Info().Str("url", cfg.Geocoding.BaseURL).Msg("Reverse geocoding enabled")
	} else {
		logging.Info().Msg("Reverse geocoding disabled (GEOCODING_ENABLED=false)")
	}

	weatherClient := weather.NewClient(cfg.Weather)
	janitor.Register("weather", weatherClient)
	predictOpts = append(predictOpts, predict.WithWeather(weatherClient))
	if cfg.Weather.APIKey == "" {
		logging.Warn().Msg("WEATHER_API_KEY not set, weather lookups use default conditions")
	}

	// === HISTORY ===
	var historyStore api.HistoryStore
	if cfg.History.Enabled {
		store, err := history.Open(ctx, cfg.History.Path)
		if err != nil {
			logging.Fatal().Err(err).Str("path", cfg.History.Path).Msg("Failed to open history database")
		}
		defer func() {
			if err := store.Close(); err != nil {
				logging.Error().Err(err).Msg("Failed to close history database")
			}
		}()
		historyStore = store
		predictOpts = append(predictOpts, predict.WithHistory(store))
		logging.Info().Str("path", cfg.History.Path).Msg("Recommendation history enabled")
	}

	// === PREDICTION SERVICE AND ROUTER ===
	svc := predict.New(predict.Config{
		DefaultTopN:    cfg.Region.DefaultTopN,
		RankBy:         cfg.Region.RankBy,
		Confidence:     cfg.Region.Confidence,
		FuzzyThreshold: cfg.Region.FuzzyThreshold,
		ImageSize:      cfg.Models.ImageSize,
		MaxUploadBytes: cfg.Upload.MaxBytes,
	}, logging.WithComponent("predict"), predictOpts...)

	handler := api.NewHandler(svc, historyStore, version)
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(cfg.Security)))

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	// === SUPERVISOR TREE ===
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if cfg.Region.Watch {
		tree.AddDataService(services.NewDatasetWatcher(cfg.Region.DatasetFile(), cfg.Region.WatchDebounce, reloadRegions))
		logging.Info().Str("path", cfg.Region.DatasetFile()).Msg("Dataset watcher added to supervisor tree")
	}
	if janitor.Len() > 0 {
		tree.AddMaintenanceService(janitor)
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	watchLogLevel()

	// === START SUPERVISOR TREE ===
	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// The channel delivers exactly one result and is never closed.
	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Received shutdown signal, waiting for supervisor to finish...")
		serveErr = <-errCh
	case serveErr = <-errCh:
		stop()
	}
	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		logging.Error().Err(serveErr).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, u := range unstopped {
			logging.Warn().Str("service", u.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}

// watchLogLevel re-reads the config file on change and applies its logging
// settings. Other settings need a restart.
func watchLogLevel() {
	path := config.FindConfigFile()
	if path == "" {
		return
	}
	err := config.WatchConfigFile(path, func() {
		next, err := config.Load()
		if err != nil {
			logging.Warn().Err(err).Str("path", path).Msg("Ignoring invalid config change")
			return
		}
		logging.Init(logging.Config{
			Level:  next.Logging.Level,
			Format: next.Logging.Format,
			Caller: next.Logging.Caller,
		})
		logging.Info().Str("level", next.Logging.Level).Msg("Logging configuration reloaded")
	})
	if err != nil {
		logging.Warn().Err(err).Str("path", path).Msg("Config file watching disabled")
	}
}
