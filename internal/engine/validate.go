package engine

import "github.com/jmadland/hearthcloud-core/internal/directory"

// validatePreconditions checks whether the device can accept a command
// at all, before any handler runs.
//
// Checks run in a fixed order, and the first failure wins:
//  1. The device must be online.
//  2. The device must not report a standing fault (errorCode).
//  3. The device's secondary verification must be satisfied:
//     tfa "ack" is satisfied by any supplied challenge, any other
//     non-empty tfa value is a PIN; a supplied pin must match it, while
//     a challenge carrying no pin passes.
func validatePreconditions(device *directory.Device, challenge map[string]any) error {
	if !device.Online() {
		return ErrDeviceOffline
	}

	if device.ErrorCode != "" {
		return &DeviceFaultError{Code: device.ErrorCode}
	}

	tfa := device.TFA
	if tfa == "" {
		return nil
	}

	if challenge == nil {
		if tfa == "ack" {
			return ErrAckNeeded
		}
		return ErrPinNeeded
	}

	if tfa == "ack" {
		return nil
	}

	// Only a pin actually present in the challenge is compared.
	if pin, ok := asString(challenge["pin"]); ok && pin != tfa {
		return ErrChallengeFailedPinNeeded
	}
	return nil
}
