// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

/*
Package supervisor runs Globeview's long-lived components under a suture v4
supervisor tree.

	globeview
	├── storage-layer   store compactor, frame cache janitor
	├── session-layer   WebSocket hub
	├── ingest-layer    upstream poller (when enabled)
	└── api-layer       HTTP server

Each layer is its own supervisor, so a service that keeps failing backs off
without restarting its siblings. Supervisor events are logged through
sutureslog into the slog adapter of the logging package, which writes to
zerolog.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddSessionService(services.NewWebSocketHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(srv, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err = tree.Serve(ctx)

Service wrappers live in the services subpackage.
*/
package supervisor
