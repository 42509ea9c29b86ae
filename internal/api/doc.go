// Package api provides the HTTP REST surface for Hearthcloud Core.
//
// It exposes the device directory lifecycle (register, read, update,
// remove, state snapshot) and the command execution endpoint, scoped
// per user. Authentication and user identity resolution happen upstream
// of this service; handlers trust the userID path segment.
//
// Routes:
//
//	GET    /api/v1/health
//	GET    /api/v1/users/{userID}/devices
//	POST   /api/v1/users/{userID}/devices
//	GET    /api/v1/users/{userID}/devices/{deviceID}
//	PATCH  /api/v1/users/{userID}/devices/{deviceID}
//	DELETE /api/v1/users/{userID}/devices/{deviceID}
//	GET    /api/v1/users/{userID}/devices/{deviceID}/state
//	POST   /api/v1/users/{userID}/devices/{deviceID}/execute
//
// The server follows the same lifecycle pattern as the infrastructure
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple
// goroutines.
package api
