package engine

import (
	"errors"
	"fmt"

	"github.com/jmadland/hearthcloud-core/internal/directory"
)

// Validation and execution errors for the engine package.
//
// Each error maps to a wire error code via ErrorCode(). Use errors.Is()
// for handling:
//
//	if errors.Is(err, engine.ErrDeviceOffline) {
//	    // surface "deviceOffline" to the caller
//	}
var (
	// ErrDeviceOffline is returned when the target device is not reachable.
	ErrDeviceOffline = errors.New("engine: device offline")

	// ErrAckNeeded is returned when a device requires explicit user
	// confirmation and the request carried none.
	ErrAckNeeded = errors.New("engine: acknowledgement needed")

	// ErrPinNeeded is returned when a device requires a PIN and the
	// request carried none.
	ErrPinNeeded = errors.New("engine: pin needed")

	// ErrChallengeFailedPinNeeded is returned when a supplied PIN does
	// not match the device's PIN.
	ErrChallengeFailedPinNeeded = errors.New("engine: challenge failed, pin needed")

	// ErrNotSupported is returned when a command cannot apply to the
	// device's configuration (e.g. an unrecognised color format).
	ErrNotSupported = errors.New("engine: not supported")

	// ErrNoTimerExists is returned by timer commands when no timer is running.
	ErrNoTimerExists = errors.New("engine: no timer exists")

	// ErrValueOutOfRange is returned when a parameter would move state
	// outside its valid range.
	ErrValueOutOfRange = errors.New("engine: value out of range")

	// ErrNetworkProfileNotRecognized is returned when a network profile
	// is not declared in the device's attributes.
	ErrNetworkProfileNotRecognized = errors.New("engine: network profile not recognized")

	// ErrInvalidParams is returned when a command's parameters are
	// missing or have the wrong shape.
	ErrInvalidParams = errors.New("engine: invalid command parameters")
)

// DeviceFaultError is returned when a device reports a standing fault.
// The fault code (e.g. "deviceJammed", "lowBattery") comes from the
// device record and is surfaced verbatim to the caller.
type DeviceFaultError struct {
	Code string
}

func (e *DeviceFaultError) Error() string {
	return fmt.Sprintf("engine: device fault: %s", e.Code)
}

// UnsupportedCommandError is returned when a command ID is not in the
// engine's registry. Unknown commands fail loudly rather than silently
// succeeding with no effect.
type UnsupportedCommandError struct {
	Command string
}

func (e *UnsupportedCommandError) Error() string {
	return fmt.Sprintf("engine: unsupported command: %s", e.Command)
}

// ErrorCode translates an execution error into its wire error code.
// Unrecognised errors map to "hardError".
func ErrorCode(err error) string {
	var fault *DeviceFaultError
	if errors.As(err, &fault) {
		return fault.Code
	}
	var unsupported *UnsupportedCommandError
	if errors.As(err, &unsupported) {
		return "functionNotSupported"
	}

	switch {
	case errors.Is(err, ErrDeviceOffline):
		return "deviceOffline"
	case errors.Is(err, ErrAckNeeded):
		return "ackNeeded"
	case errors.Is(err, ErrPinNeeded):
		return "pinNeeded"
	case errors.Is(err, ErrChallengeFailedPinNeeded):
		return "challengeFailedPinNeeded"
	case errors.Is(err, ErrNotSupported):
		return "notSupported"
	case errors.Is(err, ErrNoTimerExists):
		return "noTimerExists"
	case errors.Is(err, ErrValueOutOfRange):
		return "valueOutOfRange"
	case errors.Is(err, ErrNetworkProfileNotRecognized):
		return "networkProfileNotRecognized"
	case errors.Is(err, ErrInvalidParams):
		return "protocolError"
	case errors.Is(err, directory.ErrDeviceNotFound):
		return "deviceNotFound"
	default:
		return "hardError"
	}
}
