package influxdb

import "errors"

// Sentinel errors, matched by callers with errors.Is. ErrDisabled in
// particular is the signal to run without an audit trail rather than a
// failure.
var (
	// ErrNotConnected indicates operations on a closed or never-connected client.
	ErrNotConnected = errors.New("influxdb: not connected")

	// ErrConnectionFailed indicates the server could not be reached or is unhealthy.
	ErrConnectionFailed = errors.New("influxdb: connection failed")

	// ErrDisabled indicates the integration is turned off in configuration.
	ErrDisabled = errors.New("influxdb: disabled in configuration")
)
