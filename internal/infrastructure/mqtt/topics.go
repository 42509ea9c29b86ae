package mqtt

// Topic layout.
//
// Device channels follow hearthcloud/device/{device_id}/{channel}; the
// engine publishes to "set" and agents report on "state". Service
// presence lives under hearthcloud/system.
const (
	deviceTopicRoot = "hearthcloud/device"
	systemTopicRoot = "hearthcloud/system"
)

// DeviceSetTopic returns the channel a device agent subscribes to for
// state changes pushed by the engine after command execution.
//
// Example: hearthcloud/device/washer-1/set
func DeviceSetTopic(deviceID string) string {
	return deviceTopicRoot + "/" + deviceID + "/set"
}

// StatusTopic returns the retained service presence topic.
//
// Example: hearthcloud/system/status
func StatusTopic() string {
	return systemTopicRoot + "/status"
}
