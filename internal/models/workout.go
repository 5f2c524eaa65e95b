package models

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidParams = errors.New("invalid workout parameters")

type Mode string

const (
	ModeRunning Mode = "running"
	ModeCycling Mode = "cycling"
	ModeWalking Mode = "walking"
	ModeHiking  Mode = "hiking"
)

type ModeInfo struct {
	Mode          Mode
	Label         string
	DefaultGoalKm float64
}

// Modes lists the workout selector entries in display order.
var Modes = []ModeInfo{
	{ModeRunning, "Outdoor Running", 5},
	{ModeCycling, "Outdoor Cycling", 10},
	{ModeWalking, "Walking", 3},
	{ModeHiking, "Hiking", 8},
}

func LookupMode(s string) (ModeInfo, error) {
	for _, m := range Modes {
		if strings.EqualFold(string(m.Mode), s) {
			return m, nil
		}
	}
	return ModeInfo{}, fmt.Errorf("unknown workout mode %q", s)
}

type Gender string

const (
	GenderFemale Gender = "female"
	GenderMale   Gender = "male"
)

func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "female", "f":
		return GenderFemale, nil
	case "male", "m":
		return GenderMale, nil
	}
	return "", fmt.Errorf("unknown voice gender %q", s)
}

// AnnounceChoices are the frequencies offered by the settings panel.
var AnnounceChoices = []int{1, 5, 10}

type VoiceSettings struct {
	Enabled              bool   `toml:"enabled"`
	Gender               Gender `toml:"gender"`
	AnnounceEveryMinutes int    `toml:"announce_every"`
}

func DefaultVoiceSettings() VoiceSettings {
	return VoiceSettings{Enabled: true, Gender: GenderFemale, AnnounceEveryMinutes: 5}
}

// WorkoutParams is what the selector, goal and settings panels hand to a new session.
type WorkoutParams struct {
	Mode         Mode
	ExerciseType ExerciseType
	GoalMeters   float64 // 0 means no goal.
	Label        string
	Name         string // Optional; defaults to Label on save.
	Voice        VoiceSettings
}

func (p WorkoutParams) Validate() error {
	if p.GoalMeters < 0 || math.IsNaN(p.GoalMeters) || math.IsInf(p.GoalMeters, 0) {
		return fmt.Errorf("%w: goal must be a finite value >= 0, got %v", ErrInvalidParams, p.GoalMeters)
	}
	if p.Voice.AnnounceEveryMinutes <= 0 {
		return fmt.Errorf("%w: announce frequency must be > 0 minutes", ErrInvalidParams)
	}
	if p.Voice.Gender != GenderFemale && p.Voice.Gender != GenderMale {
		return fmt.Errorf("%w: voice gender must be male or female", ErrInvalidParams)
	}
	return nil
}

// DefaultName is used when the user never edits the workout name: the
// selector label, or "<Type> Session" without one.
func (p WorkoutParams) DefaultName() string {
	if p.Label != "" {
		return p.Label
	}
	if label := p.ExerciseType.Label(); label != "" {
		return label + " Session"
	}
	return "Workout"
}

type GoalPreset struct {
	Km    float64
	Label string
}

var GoalPresets = []GoalPreset{
	{3, "3 km"},
	{5, "5 km"},
	{10, "10 km"},
	{15, "15 km"},
	{21.1, "Half Marathon"},
	{42.2, "Full Marathon"},
}

// AdjustGoal nudges a km goal by delta, never going below 0.1 km.
func AdjustGoal(currentKm, deltaKm float64) float64 {
	g := math.Max(0.1, currentKm+deltaKm)
	return math.Round(g*100) / 100
}

// ParseGoal reads a goal in kilometers ("5", "5km", "half", "marathon", "none")
// and returns it in meters.
func ParseGoal(s string) (float64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "none", "0":
		return 0, nil
	case "half", "half-marathon", "halfmarathon":
		return 21.1 * 1000, nil
	case "marathon", "full", "full-marathon":
		return 42.2 * 1000, nil
	}
	s = strings.TrimSuffix(s, "km")
	km, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: cannot parse goal %q", ErrInvalidParams, s)
	}
	if km < 0 || math.IsNaN(km) || math.IsInf(km, 0) {
		return 0, fmt.Errorf("%w: goal must be >= 0", ErrInvalidParams)
	}
	return km * 1000, nil
}

// ResolveGoal reads a goal flag against a mode's default goal in km. A
// leading sign adjusts the default ("+2", "-0.5km"); anything else goes
// through ParseGoal. The result is in meters.
func ResolveGoal(s string, defaultKm float64) (float64, error) {
	t := strings.ToLower(strings.TrimSpace(s))
	if !strings.HasPrefix(t, "+") && !strings.HasPrefix(t, "-") {
		return ParseGoal(s)
	}
	delta, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(t, "km")), 64)
	if err != nil || math.IsNaN(delta) || math.IsInf(delta, 0) {
		return 0, fmt.Errorf("%w: cannot parse goal adjustment %q", ErrInvalidParams, s)
	}
	return AdjustGoal(defaultKm, delta) * 1000, nil
}

// WorkoutSummary is what a finished tracked workout leaves behind. It is also
// the pending workout file written when a finished session is left unsaved.
type WorkoutSummary struct {
	Name           string       `toml:"name"`
	DefaultName    string       `toml:"default_name"`
	Mode           Mode         `toml:"mode,omitempty"`
	Type           ExerciseType `toml:"type"`
	GoalMeters     float64      `toml:"goal_meters"`
	ElapsedSeconds int          `toml:"elapsed_seconds"`
	DistanceMeters float64      `toml:"distance_meters"`
	Route          []RoutePoint `toml:"route"`
	StartedAt      time.Time    `toml:"started_at"`
	FinishedAt     time.Time    `toml:"finished_at"`
}

func (s WorkoutSummary) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.DefaultName
}
