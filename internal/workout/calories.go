package workout

import (
	"fmt"
	"math"
	"strings"

	"github.com/misterclayt0n/stride/internal/models"
)

// CalorieModel estimates the energy spent in a finished workout.
type CalorieModel interface {
	Estimate(t models.ExerciseType, elapsedSeconds int, distanceMeters float64) int
}

// DistanceCalories charges 60 kcal per km, falling back to 5 kcal per minute
// when the distance term rounds to zero (strength or stationary sessions).
type DistanceCalories struct{}

func (DistanceCalories) Estimate(_ models.ExerciseType, elapsedSeconds int, distanceMeters float64) int {
	if kcal := math.Round(distanceMeters / 1000 * 60); kcal > 0 {
		return int(kcal)
	}
	return int(math.Ceil(float64(elapsedSeconds) / 60 * 5))
}

// METCalories charges a flat per-minute rate by exercise type.
type METCalories struct {
	PerMinute map[models.ExerciseType]float64
	Default   float64
}

func DefaultMETCalories() METCalories {
	return METCalories{
		PerMinute: map[models.ExerciseType]float64{
			models.TypeCardio:      10,
			models.TypeStrength:    6,
			models.TypeFlexibility: 3,
			models.TypeSport:       8,
			models.TypeOther:       5,
		},
		Default: 5,
	}
}

func (m METCalories) Estimate(t models.ExerciseType, elapsedSeconds int, _ float64) int {
	rate, ok := m.PerMinute[t]
	if !ok {
		rate = m.Default
	}
	return int(math.Round(float64(DurationMinutes(elapsedSeconds)) * rate))
}

func ParseCalorieModel(name string) (CalorieModel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "distance":
		return DistanceCalories{}, nil
	case "met":
		return DefaultMETCalories(), nil
	}
	return nil, fmt.Errorf("unknown calorie model %q (want distance or met)", name)
}

// DurationMinutes rounds elapsed seconds up to whole minutes.
func DurationMinutes(elapsedSeconds int) int {
	if elapsedSeconds <= 0 {
		return 0
	}
	return (elapsedSeconds + 59) / 60
}
