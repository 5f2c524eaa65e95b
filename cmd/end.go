package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/misterclayt0n/stride/internal/storage"
	"github.com/misterclayt0n/stride/internal/utils"
	"github.com/misterclayt0n/stride/internal/workout"
)

var endName string

var endWorkoutCmd = &cobra.Command{
	Use:   "end-workout",
	Short: "Save the pending finished workout",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !utils.PendingWorkoutExists() {
			return fmt.Errorf("No pending workout")
		}

		sum, err := utils.LoadPendingWorkout()
		if err != nil {
			return fmt.Errorf("Failed to load pending workout: %w", err)
		}
		if endName != "" {
			sum.Name = endName
		}

		return withStorage(func(a *app, st *storage.Storage) error {
			model, err := workout.ParseCalorieModel(a.cfg.Workout.CalorieModel)
			if err != nil {
				return err
			}

			// Save to database.
			rec, err := workout.SaveSummary(context.Background(), st, *sum, model, time.Now())
			if err != nil {
				return err
			}

			// Clear temp file.
			if err := utils.ClearPendingWorkout(); err != nil {
				return fmt.Errorf("Failed to clear pending workout: %w", err)
			}

			fmt.Printf("✅ Workout saved: %s (%.2f km, %d min, %d kcal)\n",
				rec.Name, rec.DistanceMeters/1000, rec.DurationMinutes, rec.Calories)
			return nil
		})
	},
}

var cancelWorkoutCmd = &cobra.Command{
	Use:   "cancel-workout",
	Short: "Discard the pending finished workout without saving it",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !utils.PendingWorkoutExists() {
			return fmt.Errorf("No pending workout to cancel")
		}

		if err := utils.ClearPendingWorkout(); err != nil {
			return fmt.Errorf("Failed to cancel workout: %w", err)
		}

		fmt.Println("✅ Workout discarded")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(endWorkoutCmd)
	rootCmd.AddCommand(cancelWorkoutCmd)
	endWorkoutCmd.Flags().StringVarP(&endName, "name", "n", "", "Rename the workout before saving")
}
