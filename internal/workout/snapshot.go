package workout

import (
	"math"

	"github.com/misterclayt0n/stride/internal/models"
	"github.com/misterclayt0n/stride/internal/utils"
)

// Snapshot is a read-only view of the session for display.
type Snapshot struct {
	Status         Status
	Countdown      int
	ElapsedSeconds int
	Duration       string
	DistanceMeters float64
	DistanceKm     float64
	Pace           string
	GoalMeters     float64
	HasGoal        bool
	GoalProgress   int // Percent, capped at 100.
	Accuracy       float64
	HasAccuracy    bool
	GPSError       error
	GPSErrorText   string
	RoutePoints    int
	Name           string
	DefaultName    string
	Label          string
	Mode           models.Mode
	Voice          models.VoiceSettings
	Saved          bool
	Discarded      bool
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	pace := utils.PaceSentinel
	if s.distance > 0 && s.elapsed > 0 {
		pace = utils.CalculatePace(s.distance, float64(s.elapsed))
	}

	label := s.params.Label
	if label == "" {
		label = s.params.ExerciseType.Label()
	}

	return Snapshot{
		Status:         s.status,
		Countdown:      s.countdown,
		ElapsedSeconds: s.elapsed,
		Duration:       utils.FormatDuration(s.elapsed),
		DistanceMeters: s.distance,
		DistanceKm:     s.distance / 1000,
		Pace:           pace,
		GoalMeters:     s.params.GoalMeters,
		HasGoal:        s.params.GoalMeters > 0,
		GoalProgress:   GoalProgress(s.distance, s.params.GoalMeters),
		Accuracy:       s.accuracy,
		HasAccuracy:    s.hasAccuracy,
		GPSError:       s.gpsErr,
		GPSErrorText:   GPSErrorText(s.gpsErr),
		RoutePoints:    len(s.route),
		Name:           s.name,
		DefaultName:    s.params.DefaultName(),
		Label:          label,
		Mode:           s.params.Mode,
		Voice:          s.params.Voice,
		Saved:          s.saved,
		Discarded:      s.discarded,
	}
}

// GoalProgress is the percentage of goal covered, capped at 100. A zero goal
// yields zero.
func GoalProgress(distanceMeters, goalMeters float64) int {
	if goalMeters <= 0 {
		return 0
	}
	return int(math.Min(100, math.Round(distanceMeters/goalMeters*100)))
}
