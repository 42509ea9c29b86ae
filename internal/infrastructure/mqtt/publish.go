package mqtt

import "fmt"

// maxPayloadSize caps publishes at 1MB, in line with common broker
// limits. Notification payloads are tiny; this guards against bugs.
const maxPayloadSize = 1 << 20

// Publish sends payload to topic and waits for broker acknowledgment.
//
// Validation errors (empty topic, QoS > 2, oversized payload) surface
// before any broker interaction. QoS 0 is fire-and-forget; 1 guarantees
// delivery with possible duplicates; 2 guarantees exactly-once. Retained
// messages are stored by the broker and replayed to new subscribers, so
// they suit status topics but not device set notifications.
//
// Returns:
//   - error: nil on success, a sentinel or wrapped error otherwise
func (c *Client) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: payload is %d bytes, limit %d", ErrPublishFailed, len(payload), maxPayloadSize)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.paho.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, publishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	return nil
}
