package directory

import "errors"

// Domain errors for the directory package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, directory.ErrDeviceNotFound) {
//	    // handle not found case
//	}
var (
	// ErrDeviceNotFound is returned when a device ID does not exist for the user.
	ErrDeviceNotFound = errors.New("directory: device not found")

	// ErrDeviceExists is returned when creating a device with an ID that already exists.
	ErrDeviceExists = errors.New("directory: device already exists")

	// ErrInvalidDevice is returned when device validation fails.
	ErrInvalidDevice = errors.New("directory: invalid device")

	// ErrInvalidPath is returned when a field path is empty or malformed.
	ErrInvalidPath = errors.New("directory: invalid field path")
)
