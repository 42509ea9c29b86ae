// Package influxdb provides the command audit trail for Hearthcloud Core.
//
// This package manages:
//   - Connection to InfluxDB v2 with token authentication
//   - Non-blocking batched writes of command execution records
//   - Async error handling for failed writes
//   - Connection health monitoring
//
// # Architecture
//
// Every command execution (successful or not) is recorded as a point in
// the command_audit measurement, tagged by user, device, command, and
// outcome. Failed notification publishes land in notification_audit.
// Writes are fire-and-forget: audit recording never blocks or fails a
// command.
//
// The audit trail is optional; when disabled in config the engine runs
// without it.
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    if errors.Is(err, influxdb.ErrDisabled) {
//	        // Run without audit trail
//	    }
//	}
//	defer client.Close()
//
//	client.RecordCommand("user-1", "washer-1", "action.devices.commands.OnOff", "success", elapsed)
package influxdb
