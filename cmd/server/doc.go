// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

/*
Package main is the entry point for the Cropwise server application.

Cropwise serves crop recommendations over HTTP. It loads a random forest
for soil measurements, an ONNX soil image classifier and a district crop
production dataset, and answers queries against whichever of them loaded.
Missing artifacts degrade the corresponding routes to 503 instead of
preventing startup.

# Application Architecture

The server runs its long-lived services under a Suture v4 supervisor tree:

	RootSupervisor ("cropwise")
	├── DataSupervisor ("data-layer")
	│   └── DatasetWatcher (reloads the region index on file change)
	├── MaintenanceSupervisor ("maintenance-layer")
	│   └── CacheJanitor (purges expired geocode and weather entries)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (chi router)

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Models: random forest, label encoder and ONNX image classifier
 4. Region index: CSV production dataset held in an atomic store
 5. Geocoding and weather clients with LRU and optional badger caches
 6. History: DuckDB recommendation history
 7. Supervisor Tree and HTTP Server

# Configuration

Configuration is loaded via Koanf v2 with layered sources (highest priority wins):

	Priority: Environment variables > Config file > Defaults

Core environment variables:

	HTTP_PORT=8000               # HTTP server port
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console
	MODEL_PATH=saved_models      # directory holding model artifacts
	DATA_PATH=data               # directory holding the region dataset
	REGION_DATA=India_Agriculture_Crop_Production.csv
	GEOCODING_ENABLED=true       # reverse geocode coordinates via Nominatim
	WEATHER_API_KEY=<key>        # OpenWeatherMap key, defaults used when empty
	HISTORY_ENABLED=true
	HISTORY_PATH=data/history.duckdb

Changing LOG_LEVEL in the config file takes effect without a restart.

# Signal Handling

The server handles graceful shutdown on SIGINT and SIGTERM:

 1. Stops accepting new HTTP connections
 2. Waits for in-flight requests (HTTP_SHUTDOWN_TIMEOUT)
 3. Stops the dataset watcher and cache janitor
 4. Closes the history database, geocode cache and ONNX session
 5. Reports any services that failed to stop

# Usage Examples

Development:

	export LOG_FORMAT=console LOG_LEVEL=debug
	go run ./cmd/server

Without outbound network access:

	export GEOCODING_ENABLED=false
	./cropwise

# API Documentation

Swagger documentation is available at /swagger/index.html when the server
is running. Prometheus metrics are exposed at /metrics.

# See Also

  - internal/config: Configuration management
  - internal/supervisor: Process supervision
  - internal/api: HTTP handlers and routing
  - internal/predict: Prediction service
*/
package main
