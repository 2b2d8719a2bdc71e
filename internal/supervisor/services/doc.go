// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

/*
Package services adapts Globeview components to suture.Service.

  - HTTPServerService: ListenAndServe with graceful Shutdown
  - WebSocketHubService: websocket.Hub.RunWithContext
  - LoopService: Start/Stop loops (store.Compactor, upstream.Poller)
  - CacheJanitorService: periodic CleanupExpired on the frame cache

Every wrapper returns ctx.Err() on cancellation and implements fmt.Stringer
so supervisor events name the service.

	tree.AddStorageService(services.NewCompactorService(compactor))
	tree.AddStorageService(services.NewCacheJanitorService("frame-cache", handler.FrameCache(), time.Minute))
	tree.AddSessionService(services.NewWebSocketHubService(hub))
	tree.AddIngestService(services.NewPollerService(poller))
	tree.AddAPIService(services.NewHTTPServerService(srv, 10*time.Second))
*/
package services
