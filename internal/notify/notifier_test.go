package notify

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/jmadland/hearthcloud-core/internal/infrastructure/logging"
)

// mockPublisher records published messages for assertions.
type mockPublisher struct {
	mu       sync.Mutex
	messages []publishedMessage
	err      error
}

type publishedMessage struct {
	topic   string
	payload []byte
	qos     byte
}

func (m *mockPublisher) Publish(topic string, payload []byte, qos byte, _ bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, publishedMessage{topic: topic, payload: payload, qos: qos})
	return m.err
}

func (m *mockPublisher) published() []publishedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]publishedMessage, len(m.messages))
	copy(out, m.messages)
	return out
}

// mockRecorder records audit outcomes.
type mockRecorder struct {
	mu      sync.Mutex
	records []recordedOutcome
}

type recordedOutcome struct {
	deviceID  string
	key       string
	delivered bool
}

func (m *mockRecorder) RecordNotification(deviceID, key string, delivered bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, recordedOutcome{deviceID, key, delivered})
}

func TestSubmit(t *testing.T) {
	pub := &mockPublisher{}
	n := New(pub, logging.Default())

	err := n.Submit(Notification{DeviceID: "washer-1", Key: "on", Value: true})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	n.Close()

	msgs := pub.published()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 publish, got %d", len(msgs))
	}
	if msgs[0].topic != "hearthcloud/device/washer-1/set" {
		t.Errorf("topic = %q", msgs[0].topic)
	}
	if msgs[0].qos != 0 {
		t.Errorf("qos = %d, want 0", msgs[0].qos)
	}

	var payload map[string]any
	if err := json.Unmarshal(msgs[0].payload, &payload); err != nil {
		t.Fatalf("invalid payload: %v", err)
	}
	if payload["on"] != true {
		t.Errorf("payload = %v, want {on:true}", payload)
	}
	if len(payload) != 1 {
		t.Errorf("payload has %d keys, want exactly 1", len(payload))
	}
}

func TestSubmit_PublishFailureIsSilent(t *testing.T) {
	pub := &mockPublisher{err: errors.New("broker down")}
	rec := &mockRecorder{}
	n := New(pub, logging.Default(), WithRecorder(rec))

	if err := n.Submit(Notification{DeviceID: "washer-1", Key: "on", Value: true}); err != nil {
		t.Fatalf("Submit() error = %v, want nil despite broker failure", err)
	}
	n.Close()

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.records) != 1 {
		t.Fatalf("expected 1 audit record, got %d", len(rec.records))
	}
	if rec.records[0].delivered {
		t.Error("delivered = true, want false")
	}
	if rec.records[0].deviceID != "washer-1" || rec.records[0].key != "on" {
		t.Errorf("record = %+v", rec.records[0])
	}
}

func TestSubmitAll(t *testing.T) {
	pub := &mockPublisher{}
	n := New(pub, logging.Default())

	notes := []Notification{
		{DeviceID: "thermo-1", Key: "thermostatTemperatureSetpoint", Value: 21.5},
		{DeviceID: "thermo-1", Key: "thermostatMode", Value: "heat"},
	}
	if err := n.SubmitAll(notes); err != nil {
		t.Fatalf("SubmitAll() error = %v", err)
	}
	n.Close()

	if got := len(pub.published()); got != 2 {
		t.Errorf("expected 2 publishes, got %d", got)
	}
}

func TestClose_RejectsFurtherSubmissions(t *testing.T) {
	pub := &mockPublisher{}
	n := New(pub, logging.Default())
	n.Close()

	err := n.Submit(Notification{DeviceID: "washer-1", Key: "on", Value: true})
	if !errors.Is(err, ErrClosed) {
		t.Errorf("Submit() after Close error = %v, want ErrClosed", err)
	}
	if len(pub.published()) != 0 {
		t.Error("no publish should occur after Close")
	}
}

func TestWithQoS(t *testing.T) {
	pub := &mockPublisher{}
	n := New(pub, logging.Default(), WithQoS(1))

	if err := n.Submit(Notification{DeviceID: "lock-1", Key: "isLocked", Value: true}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	n.Close()

	msgs := pub.published()
	if len(msgs) != 1 || msgs[0].qos != 1 {
		t.Errorf("expected qos 1 publish, got %+v", msgs)
	}
}

func TestSubmit_UnmarshallableValue(t *testing.T) {
	pub := &mockPublisher{}
	n := New(pub, logging.Default())
	defer n.Close()

	err := n.Submit(Notification{DeviceID: "x", Key: "bad", Value: make(chan int)})
	if err == nil {
		t.Error("Submit() with unmarshallable value should error")
	}
}
