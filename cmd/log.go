package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/misterclayt0n/stride/internal/models"
	"github.com/misterclayt0n/stride/internal/storage"
	"github.com/misterclayt0n/stride/internal/utils"
)

var (
	logName     string
	logType     string
	logDuration int
	logCalories int
	logDistance float64
	logDate     string
	logNotes    string
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Log an exercise manually",
	Example: `  stride log --name "Morning yoga" --type flexibility --duration 30 --calories 90
  stride log -n "Bike commute" -t cardio -d 25 -c 210 --distance 8.4 --date yesterday`,
	RunE: func(cmd *cobra.Command, args []string) error {
		typ, err := models.ParseExerciseType(logType)
		if err != nil {
			return err
		}
		if logDistance < 0 {
			return fmt.Errorf("Distance must be >= 0 km")
		}

		now := time.Now()
		day, err := utils.ParseDay(logDate, now)
		if err != nil {
			return err
		}

		ex := models.Exercise{
			Name:            strings.TrimSpace(logName),
			Type:            typ,
			DurationMinutes: logDuration,
			Calories:        logCalories,
			DistanceMeters:  logDistance * 1000,
			Date:            day,
			Timestamp:       now.UnixMilli(),
			Notes:           logNotes,
		}

		return withStorage(func(a *app, st *storage.Storage) error {
			if err := st.Add(context.Background(), ex); err != nil {
				return fmt.Errorf("Failed to log exercise: %w", err)
			}
			fmt.Printf("✅ Logged %s (%d min, %d kcal) on %s\n", ex.Name, ex.DurationMinutes, ex.Calories, ex.Date)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(logCmd)
	logCmd.Flags().StringVarP(&logName, "name", "n", "", "Exercise name")
	logCmd.Flags().StringVarP(&logType, "type", "t", string(models.TypeCardio), "Type: cardio, strength, flexibility, sport or other")
	logCmd.Flags().IntVarP(&logDuration, "duration", "d", 0, "Duration in minutes")
	logCmd.Flags().IntVarP(&logCalories, "calories", "c", 0, "Calories burned (kcal)")
	logCmd.Flags().Float64Var(&logDistance, "distance", 0, "Distance in km")
	logCmd.Flags().StringVar(&logDate, "date", "today", "Day of the exercise (today, yesterday, 2025-02-07 or 07/02/25)")
	logCmd.Flags().StringVar(&logNotes, "notes", "", "Free-form notes")
	logCmd.MarkFlagRequired("name")
	logCmd.MarkFlagRequired("duration")
}
