package mqtt

import "errors"

// Sentinel errors reported by the publish client. Callers match them
// with errors.Is.
var (
	// ErrNotConnected is returned when publishing while the broker
	// connection is down.
	ErrNotConnected = errors.New("mqtt: not connected to broker")

	// ErrConnectionFailed is returned when the initial broker connection
	// cannot be established.
	ErrConnectionFailed = errors.New("mqtt: broker connection failed")

	// ErrPublishFailed is returned when the broker rejects or times out
	// a publish.
	ErrPublishFailed = errors.New("mqtt: publish failed")

	// ErrInvalidQoS is returned for QoS levels outside 0-2.
	ErrInvalidQoS = errors.New("mqtt: qos must be 0, 1 or 2")

	// ErrInvalidTopic is returned for an empty topic.
	ErrInvalidTopic = errors.New("mqtt: empty topic")
)
