// Package location defines the position capability used by tracked workouts
// and ships two providers: a gpsd client and a GPX replay.
package location

import (
	"errors"
	"time"
)

var (
	ErrUnavailable      = errors.New("location capability unavailable")
	ErrPermissionDenied = errors.New("location permission denied")
	ErrSignalLost       = errors.New("location signal lost")
)

// Fix is a single position report. Accuracy is the horizontal error radius in meters.
type Fix struct {
	Latitude  float64
	Longitude float64
	Accuracy  float64
	Timestamp time.Time
}

type WatchOptions struct {
	HighAccuracy bool
	// Timeout bounds the wait for a fix before ErrSignalLost is reported.
	Timeout time.Duration
	// MaximumAge is the oldest fix that may be delivered; 0 means only fresh fixes.
	MaximumAge time.Duration
}

func DefaultWatchOptions() WatchOptions {
	return WatchOptions{HighAccuracy: true, Timeout: 10 * time.Second, MaximumAge: 0}
}

// Provider delivers continuous position updates. Callbacks are serialized per
// subscription.
type Provider interface {
	Watch(opts WatchOptions, onFix func(Fix), onErr func(error)) (Subscription, error)
}

// Subscription is a live Watch. Cancel is idempotent and does not wait for
// the provider to wind down, so a callback already in flight may still arrive.
type Subscription interface {
	Cancel()
}
