package workout

import (
	"errors"
	"fmt"

	"github.com/misterclayt0n/stride/internal/location"
)

var (
	ErrLocationUnavailable      = location.ErrUnavailable
	ErrLocationPermissionDenied = location.ErrPermissionDenied
	ErrLocationSignalLost       = location.ErrSignalLost

	ErrStoreWriteFailed  = errors.New("failed to save workout")
	ErrInvalidTransition = errors.New("invalid workout transition")
	ErrAlreadySaved      = errors.New("workout already saved")
	ErrDiscarded         = errors.New("workout was discarded")
)

// classifyLocationError maps provider errors onto the three location kinds.
// Anything unrecognised counts as a lost signal.
func classifyLocationError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrLocationUnavailable),
		errors.Is(err, ErrLocationPermissionDenied),
		errors.Is(err, ErrLocationSignalLost):
		return err
	}
	return fmt.Errorf("%w: %v", ErrLocationSignalLost, err)
}

// GPSErrorText is the status line shown for a location error.
func GPSErrorText(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrLocationUnavailable):
		return "Geolocation is not supported on this device"
	}
	return "GPS signal lost or permission denied"
}
