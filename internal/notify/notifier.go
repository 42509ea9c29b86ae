package notify

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/jmadland/hearthcloud-core/internal/infrastructure/logging"
	"github.com/jmadland/hearthcloud-core/internal/infrastructure/mqtt"
)

// ErrClosed is returned when submitting a notification after Close.
var ErrClosed = errors.New("notify: notifier closed")

// Publisher is the transport a Notifier publishes through.
// *mqtt.Client satisfies this interface.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// Recorder receives delivery outcomes for the audit trail.
// *influxdb.Client satisfies this interface.
type Recorder interface {
	RecordNotification(deviceID, key string, delivered bool)
}

// Notification is a single state change to push to a device agent.
type Notification struct {
	// DeviceID identifies the target device.
	DeviceID string

	// Key is the state field that changed (e.g. "on", "brightness").
	Key string

	// Value is the new value for the field.
	Value any
}

// Notifier pushes state changes to device agents over MQTT.
//
// Delivery is best effort and asynchronous: Submit returns as soon as
// the notification is handed to a goroutine, and publish failures are
// logged rather than surfaced to the caller. A command's outcome never
// depends on whether its notification reached the broker.
type Notifier struct {
	pub      Publisher
	recorder Recorder
	log      *logging.Logger
	qos      byte

	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithRecorder attaches an audit recorder for delivery outcomes.
func WithRecorder(r Recorder) Option {
	return func(n *Notifier) {
		n.recorder = r
	}
}

// WithQoS overrides the QoS level for notification publishes.
// The default is 0 (at most once): device agents reconcile through
// full state reads, so a dropped notification self-heals.
func WithQoS(qos byte) Option {
	return func(n *Notifier) {
		n.qos = qos
	}
}

// New creates a Notifier publishing through pub.
func New(pub Publisher, log *logging.Logger, opts ...Option) *Notifier {
	n := &Notifier{
		pub: pub,
		log: log,
		qos: 0,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Submit queues a notification for asynchronous delivery.
//
// The payload is a single-key JSON object, e.g. {"on":true}, published
// to the device's set topic. Returns ErrClosed after Close; any other
// submission always succeeds regardless of broker state.
func (n *Notifier) Submit(note Notification) error {
	payload, err := json.Marshal(map[string]any{note.Key: note.Value})
	if err != nil {
		return fmt.Errorf("marshalling notification: %w", err)
	}

	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return ErrClosed
	}
	n.wg.Add(1)
	n.mu.Unlock()

	go func() {
		defer n.wg.Done()
		n.deliver(note, payload)
	}()

	return nil
}

// SubmitAll queues one notification per entry, in order of submission.
// Delivery order across entries is not guaranteed.
func (n *Notifier) SubmitAll(notes []Notification) error {
	for _, note := range notes {
		if err := n.Submit(note); err != nil {
			return err
		}
	}
	return nil
}

// deliver publishes a single notification and records the outcome.
func (n *Notifier) deliver(note Notification, payload []byte) {
	topic := mqtt.DeviceSetTopic(note.DeviceID)

	err := n.pub.Publish(topic, payload, n.qos, false)
	if err != nil && n.log != nil {
		n.log.Warn("device notification not delivered",
			"device_id", note.DeviceID,
			"key", note.Key,
			"error", err,
		)
	}

	if n.recorder != nil {
		n.recorder.RecordNotification(note.DeviceID, note.Key, err == nil)
	}
}

// Close drains in-flight notifications and rejects further submissions.
// It blocks until every queued publish attempt has completed.
func (n *Notifier) Close() {
	n.mu.Lock()
	n.closed = true
	n.mu.Unlock()

	n.wg.Wait()
}
