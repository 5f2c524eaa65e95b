package workout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/misterclayt0n/stride/internal/models"
	"github.com/misterclayt0n/stride/internal/utils"
)

// ExerciseStore receives finished workouts.
type ExerciseStore interface {
	Add(ctx context.Context, ex models.Exercise) error
}

// Summary is the frozen result of a finished session.
type Summary = models.WorkoutSummary

// Record maps a summary onto a new exercise record.
func Record(s Summary, model CalorieModel, now time.Time) models.Exercise {
	if model == nil {
		model = DistanceCalories{}
	}
	route := make([]models.RoutePoint, len(s.Route))
	copy(route, s.Route)

	return models.Exercise{
		ID:              uuid.New().String(),
		Name:            s.DisplayName(),
		Type:            s.Type,
		Subtype:         string(s.Mode),
		DurationMinutes: DurationMinutes(s.ElapsedSeconds),
		Calories:        model.Estimate(s.Type, s.ElapsedSeconds, s.DistanceMeters),
		DistanceMeters:  s.DistanceMeters,
		Route:           route,
		Date:            utils.DayOf(now),
		Timestamp:       now.UnixMilli(),
	}
}

// SaveSummary hands the summary's record to store.
func SaveSummary(ctx context.Context, store ExerciseStore, s Summary, model CalorieModel, now time.Time) (models.Exercise, error) {
	rec := Record(s, model, now)
	if err := store.Add(ctx, rec); err != nil {
		return models.Exercise{}, fmt.Errorf("%w: %w", ErrStoreWriteFailed, err)
	}
	return rec, nil
}
