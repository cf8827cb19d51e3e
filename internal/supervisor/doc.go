// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

/*
Package supervisor runs the long-lived parts of Cropwise under suture v4.

Services are grouped into three layers so a failure in one does not take
down the others:

	RootSupervisor ("cropwise")
	├── DataSupervisor ("data-layer")
	│   └── DatasetWatcher (if REGION_WATCH=true)
	├── MaintenanceSupervisor ("maintenance-layer")
	│   └── CacheJanitor
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crashing dataset watcher is restarted with backoff while the API keeps
serving the last good region index. Supervisor events are logged through
sutureslog into the zerolog pipeline (see logging.NewSlogLogger).

Typical wiring in main:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewDatasetWatcher(path, debounce, reload))
	tree.AddMaintenanceService(services.NewCacheJanitor(time.Minute, purgers...))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	return tree.Serve(ctx)
*/
package supervisor
