package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// record queues one point on the non-blocking write API. Silently drops
// the point when the client is disconnected or disabled: audit recording
// must never block or fail the operation it describes.
func (c *Client) record(measurement string, tags map[string]string, fields map[string]any) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(write.NewPoint(measurement, tags, fields, time.Now()))
}

// RecordCommand writes one command execution to the audit trail.
//
// Every execution lands here regardless of result; outcome is "success",
// "pending", or the wire error code (e.g. "deviceOffline"). Writes are
// batched and flushed asynchronously.
//
// Example:
//
//	client.RecordCommand("user-1", "washer-1", "action.devices.commands.OnOff", "success", 3*time.Millisecond)
func (c *Client) RecordCommand(userID, deviceID, command, outcome string, duration time.Duration) {
	c.record("command_audit",
		map[string]string{
			"user_id":   userID,
			"device_id": deviceID,
			"command":   command,
			"outcome":   outcome,
		},
		map[string]any{
			"duration_ms": float64(duration.Microseconds()) / 1000.0,
		},
	)
}

// RecordNotification writes one device notification publish.
//
// Notifications are fire-and-forget MQTT pushes, so this trail is the
// only place delivery problems become visible.
func (c *Client) RecordNotification(deviceID, key string, delivered bool) {
	c.record("notification_audit",
		map[string]string{
			"device_id": deviceID,
			"key":       key,
		},
		map[string]any{
			"delivered": delivered,
		},
	)
}
