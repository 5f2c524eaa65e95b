package storage

import (
	"fmt"
	"math"
	"strings"

	"github.com/misterclayt0n/stride/internal/models"
)

func validateExercise(ex models.Exercise) error {
	if strings.TrimSpace(ex.Name) == "" {
		return fmt.Errorf("Exercise name is required")
	}
	if _, err := models.ParseExerciseType(string(ex.Type)); err != nil {
		return err
	}
	if ex.DurationMinutes < 0 || ex.Calories < 0 {
		return fmt.Errorf("Duration and calories must not be negative")
	}
	if ex.DistanceMeters < 0 || math.IsNaN(ex.DistanceMeters) || math.IsInf(ex.DistanceMeters, 0) {
		return fmt.Errorf("Distance must be a finite value >= 0")
	}
	return nil
}
