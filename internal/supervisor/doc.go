// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

/*
Package supervisor runs the long-lived parts of Vantage under suture v4.

The tree has two layers so a crash in persistence never takes the API down:

	RootSupervisor ("vantage")
	├── DataSupervisor ("data-layer")
	│   ├── RecorderService   (watermill subscriber writing to BadgerDB)
	│   └── StoreGCService    (periodic BadgerDB value log GC)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Supervisor events are logged through sutureslog, which writes to zerolog via
logging.NewSlogLogger.

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddDataService(services.NewRecorderService(rec, store))
	tree.AddAPIService(services.NewHTTPServerService(server, 15*time.Second))
	err = tree.Serve(ctx)
*/
package supervisor
