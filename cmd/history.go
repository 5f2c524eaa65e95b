package cmd

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/misterclayt0n/stride/internal/models"
	"github.com/misterclayt0n/stride/internal/storage"
	"github.com/misterclayt0n/stride/internal/utils"
)

var (
	filterDay   string
	filterType  string
	filterLimit int
)

// historyCmd shows logged exercises grouped by day.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Display exercise history, optionally filtered by day and/or type",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStorage(func(a *app, st *storage.Storage) error {
			ctx := context.Background()

			var (
				exercises []models.Exercise
				err       error
			)
			if filterDay != "" {
				day, perr := utils.ParseDay(filterDay, time.Now())
				if perr != nil {
					return perr
				}
				exercises, err = st.ListByDate(ctx, day)
			} else {
				exercises, err = st.List(ctx, 0)
			}
			if err != nil {
				return fmt.Errorf("Failed to retrieve exercises: %w", err)
			}

			if filterType != "" {
				typ, err := models.ParseExerciseType(filterType)
				if err != nil {
					return err
				}
				var filtered []models.Exercise
				for _, ex := range exercises {
					if ex.Type == typ {
						filtered = append(filtered, ex)
					}
				}
				exercises = filtered
			}

			if filterLimit > 0 && len(exercises) > filterLimit {
				exercises = exercises[:filterLimit]
			}
			if len(exercises) == 0 {
				fmt.Println("No exercises found")
				return nil
			}

			printHistory(exercises)
			return nil
		})
	},
}

func printHistory(exercises []models.Exercise) {
	cyan := color.New(color.FgCyan).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	grouped := make(map[string][]models.Exercise)
	for _, ex := range exercises {
		grouped[ex.Date] = append(grouped[ex.Date], ex)
	}

	var days []string
	for d := range grouped {
		days = append(days, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(days)))

	for _, d := range days {
		fmt.Printf("%s\n", cyan(d))
		for _, ex := range grouped[d] {
			line := fmt.Sprintf("  %s %s | %d min | %d kcal", yellow(ex.Name), faint("("+ex.Type.Label()+")"), ex.DurationMinutes, ex.Calories)
			if ex.DistanceMeters > 0 {
				line += fmt.Sprintf(" | %.2f km", ex.DistanceMeters/1000)
			}
			fmt.Println(line)
			fmt.Printf("    %s\n", faint(ex.ID))
		}
		fmt.Println()
	}
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVarP(&filterDay, "day", "d", "", "Filter by day (e.g. today, 2025-02-07 or 07/02/25)")
	historyCmd.Flags().StringVarP(&filterType, "type", "t", "", "Filter by exercise type")
	historyCmd.Flags().IntVarP(&filterLimit, "limit", "l", 0, "Show at most N exercises")
}
