package models

import (
	"fmt"
	"strings"
)

type ExerciseType string

const (
	TypeCardio      ExerciseType = "cardio"
	TypeStrength    ExerciseType = "strength"
	TypeFlexibility ExerciseType = "flexibility"
	TypeSport       ExerciseType = "sport"
	TypeOther       ExerciseType = "other"
)

var ExerciseTypes = []ExerciseType{TypeCardio, TypeStrength, TypeFlexibility, TypeSport, TypeOther}

// Label returns the capitalized display name ("Cardio").
func (t ExerciseType) Label() string {
	if t == "" {
		return ""
	}
	s := string(t)
	return strings.ToUpper(s[:1]) + s[1:]
}

func ParseExerciseType(s string) (ExerciseType, error) {
	for _, t := range ExerciseTypes {
		if strings.EqualFold(string(t), s) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown exercise type %q", s)
}

// RoutePoint is one accepted location sample. Timestamp is in unix milliseconds.
type RoutePoint struct {
	Lat       float64 `json:"lat" toml:"lat" yaml:"lat"`
	Lng       float64 `json:"lng" toml:"lng" yaml:"lng"`
	Timestamp int64   `json:"timestamp" toml:"timestamp" yaml:"timestamp"`
}

// Exercise is a persisted workout record.
type Exercise struct {
	ID              string       `json:"id" toml:"id" yaml:"id"`
	Name            string       `json:"name" toml:"name" yaml:"name"`
	Type            ExerciseType `json:"type" toml:"type" yaml:"type"`
	Subtype         string       `json:"subtype,omitempty" toml:"subtype,omitempty" yaml:"subtype,omitempty"` // Workout mode, if tracked.
	DurationMinutes int          `json:"duration" toml:"duration" yaml:"duration"`
	Calories        int          `json:"calories" toml:"calories" yaml:"calories"`
	DistanceMeters  float64      `json:"distance,omitempty" toml:"distance,omitempty" yaml:"distance,omitempty"`
	Route           []RoutePoint `json:"route,omitempty" toml:"route,omitempty" yaml:"route,omitempty"`
	Date            string       `json:"date" toml:"date" yaml:"date"` // YYYY-MM-DD, local time.
	Timestamp       int64        `json:"timestamp" toml:"timestamp" yaml:"timestamp"`
	Notes           string       `json:"notes,omitempty" toml:"notes,omitempty" yaml:"notes,omitempty"`
}

// DailyStats aggregates the exercises of a single day.
type DailyStats struct {
	Date           string  `json:"date" yaml:"date"`
	Calories       int     `json:"calories" yaml:"calories"`
	Duration       int     `json:"duration" yaml:"duration"`
	Count          int     `json:"count" yaml:"count"`
	DistanceMeters float64 `json:"distance" yaml:"distance"`
}

type NotificationKind string

const (
	NotifyGoal    NotificationKind = "goal"
	NotifyWorkout NotificationKind = "workout"
)

type Notification struct {
	ID        string           `json:"id" yaml:"id"`
	Title     string           `json:"title" yaml:"title"`
	Message   string           `json:"message" yaml:"message"`
	Kind      NotificationKind `json:"type" yaml:"type"`
	Timestamp int64            `json:"timestamp" yaml:"timestamp"`
	Read      bool             `json:"read" yaml:"read"`
}
