package utils

import (
	"fmt"
	"math"
)

const EarthRadiusMeters = 6371e3

// PaceSentinel is shown when no pace can be computed (no distance yet).
const PaceSentinel = "-:--"

// Paces slower than this are noise from a near-zero distance.
const maxPaceMinutes = 999

type Coordinate struct {
	Lat float64 `toml:"lat"`
	Lng float64 `toml:"lng"`
}

// Valid reports whether c is a finite position on the globe.
func (c Coordinate) Valid() bool {
	return finite(c.Lat) && finite(c.Lng) && math.Abs(c.Lat) <= 90 && math.Abs(c.Lng) <= 180
}

// Distance returns the haversine great-circle distance between a and b in meters.
func Distance(a, b Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	// Rounding can push h a hair outside [0, 1] for antipodal points.
	h = math.Min(1, math.Max(0, h))
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}

func DistanceKm(meters float64) float64 {
	return meters / 1000
}

// FormatDuration renders H:MM:SS for an hour or more, M:SS otherwise.
func FormatDuration(totalSeconds int) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	h := totalSeconds / 3600
	m := (totalSeconds % 3600) / 60
	s := totalSeconds % 60

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// CalculatePace returns minutes per kilometer as M'SS".
func CalculatePace(distanceMeters, durationSeconds float64) string {
	if !finite(distanceMeters) || !finite(durationSeconds) || distanceMeters <= 0 || durationSeconds < 0 {
		return PaceSentinel
	}

	paceMinutes := durationSeconds / 60 / (distanceMeters / 1000)
	if !finite(paceMinutes) || paceMinutes > maxPaceMinutes {
		return PaceSentinel
	}

	mins := math.Floor(paceMinutes)
	secs := math.Round((paceMinutes - mins) * 60)
	if secs >= 60 {
		mins++
		secs -= 60
	}
	return fmt.Sprintf("%d'%02d\"", int64(mins), int64(secs))
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
