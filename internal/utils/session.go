package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/misterclayt0n/stride/internal/models"
)

// PendingDir overrides the directory of the pending workout file. Empty means
// ~/.config/stride.
var PendingDir string

func getPendingPath() (string, error) {
	dir := PendingDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".config", "stride")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "pending_workout.toml"), nil
}

// SavePendingWorkout keeps a finished, unsaved workout around so end-workout
// or cancel-workout can deal with it later.
func SavePendingWorkout(sum *models.WorkoutSummary) error {
	path, err := getPendingPath()
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("Failed to write pending workout: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(sum)
}

func LoadPendingWorkout() (*models.WorkoutSummary, error) {
	path, err := getPendingPath()
	if err != nil {
		return nil, err
	}

	var sum models.WorkoutSummary
	if _, err := toml.DecodeFile(path, &sum); err != nil {
		return nil, err
	}

	return &sum, nil
}

func ClearPendingWorkout() error {
	path, err := getPendingPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func PendingWorkoutExists() bool {
	path, err := getPendingPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return !os.IsNotExist(err)
}
