// Package notify pushes device state changes to local device agents.
//
// After the engine executes a command, each changed state value is
// published as a single-key JSON object to the device's MQTT set topic:
//
//	hearthcloud/device/washer-1/set  ←  {"on":true}
//
// # Delivery Semantics
//
// Notifications are best effort. Publishing happens on a goroutine per
// notification; failures are logged and recorded in the audit trail but
// never fail the command that produced them. Agents that miss a
// notification reconcile on their next full state read, so QoS 0 is the
// default.
//
// Close drains in-flight publishes, which keeps shutdown from dropping
// notifications that were already accepted.
package notify
