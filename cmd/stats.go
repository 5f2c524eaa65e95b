package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/misterclayt0n/stride/internal/models"
	"github.com/misterclayt0n/stride/internal/storage"
	"github.com/misterclayt0n/stride/internal/utils"
)

var statsDay string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the day's totals and notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		now := time.Now()
		day, err := utils.ParseDay(statsDay, now)
		if err != nil {
			return err
		}

		return withStorage(func(a *app, st *storage.Storage) error {
			ctx := context.Background()
			stats, err := st.DailyStats(ctx, day)
			if err != nil {
				return err
			}
			recent, err := st.ListByDate(ctx, day)
			if err != nil {
				return err
			}

			cyan := color.New(color.FgCyan).SprintFunc()
			green := color.New(color.FgGreen).SprintFunc()
			yellow := color.New(color.FgYellow).SprintFunc()

			fmt.Printf("%s\n\n", green(day))
			fmt.Printf("%s %d kcal (goal %d)\n", cyan("Calories:"), stats.Calories, storage.CalorieGoal)
			fmt.Printf("%s %d min (goal %d)\n", cyan("Active:"), stats.Duration, storage.DurationGoal)
			fmt.Printf("%s %d\n", cyan("Workouts:"), stats.Count)
			if stats.DistanceMeters > 0 {
				fmt.Printf("%s %.2f km\n", cyan("Distance:"), stats.DistanceMeters/1000)
			}

			notes := storage.Notifications(stats, recent, now)
			if len(notes) == 0 {
				return nil
			}
			fmt.Printf("\n%s\n", cyan("Notifications"))
			for _, n := range notes {
				marker := " "
				if !n.Read {
					marker = yellow("•")
				}
				title := n.Title
				if n.Kind == models.NotifyGoal {
					title = green(title)
				}
				fmt.Printf("%s %s\n    %s\n", marker, title, n.Message)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVarP(&statsDay, "day", "d", "today", "Day to summarize (today, yesterday, 2025-02-07 or 07/02/25)")
}
