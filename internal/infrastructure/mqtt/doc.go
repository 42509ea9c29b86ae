// Package mqtt provides MQTT client connectivity for Hearthcloud Core.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// Hearthcloud uses MQTT as the downstream channel to local device agents.
// After a command executes, the engine pushes the changed state to the
// device's set topic; agents subscribed to that topic apply the change
// on the physical device.
//
//	Hearthcloud Core → MQTT Broker → Device Agents
//
// The engine is publish-only: device agents report state through the
// cloud API, not over MQTT, so this client carries no subscription
// machinery.
//
// # Security Considerations
//
//   - TLS is required for production deployments (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Push a state change to a device agent
//	topic := mqtt.DeviceSetTopic("washer-1")
//	client.Publish(topic, []byte(`{"on":true}`), 0, false)
package mqtt
