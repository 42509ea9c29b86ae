package directory

import "time"

// Device is the cloud's record of a single smart-home device.
//
// Trait-specific data lives in the States and Attributes maps rather
// than typed fields: the command engine reads and writes individual
// keys (e.g. "brightness", "color.spectrumRgb") and new traits must
// never require a schema change.
type Device struct {
	// ID uniquely identifies the device within a user's home graph.
	ID string `json:"id"`

	// Name is the manufacturer-provided device name.
	Name string `json:"name"`

	// Nickname is the user-assigned name, preferred for display.
	Nickname string `json:"nickname,omitempty"`

	// Type is the device type (e.g. "action.devices.types.LIGHT").
	Type string `json:"type"`

	// Traits lists the capabilities this device supports
	// (e.g. "action.devices.traits.OnOff").
	Traits []string `json:"traits"`

	// States holds the current trait state values. Keys are trait state
	// names; values may be nested maps (e.g. "color").
	States map[string]any `json:"states"`

	// Attributes holds static trait configuration
	// (e.g. "availableInputs", "networkProfiles").
	Attributes map[string]any `json:"attributes"`

	// ErrorCode, when non-empty, marks the device as faulted. Command
	// execution against a faulted device fails with this code.
	ErrorCode string `json:"errorCode,omitempty"`

	// TFA is the device's secondary verification requirement: empty for
	// none, "ack" for confirmation, or a PIN string for challenge.
	TFA string `json:"tfa,omitempty"`

	// OtherDeviceIDs lists alternate identifiers for local execution paths.
	OtherDeviceIDs []string `json:"otherDeviceIds,omitempty"`

	// CreatedAt is when the device was first registered.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is when the device record last changed.
	UpdatedAt time.Time `json:"updatedAt"`
}

// Online reports whether the device's states mark it reachable.
// A missing or non-boolean "online" state counts as offline.
func (d *Device) Online() bool {
	online, ok := d.States["online"].(bool)
	return ok && online
}
