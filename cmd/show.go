package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/misterclayt0n/stride/internal/storage"
	"github.com/misterclayt0n/stride/internal/utils"
)

var showCmd = &cobra.Command{
	Use:   "show <exercise-id>",
	Short: "Show a logged exercise, including its GPS route summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStorage(func(a *app, st *storage.Storage) error {
			ex, err := st.Get(context.Background(), args[0])
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("No exercise with id %s", args[0])
			}
			if err != nil {
				return err
			}

			cyan := color.New(color.FgCyan).SprintFunc()
			green := color.New(color.FgGreen).SprintFunc()

			fmt.Printf("%s\n\n", green(ex.Name))
			fmt.Printf("%s %s\n", cyan("Type:"), ex.Type.Label())
			if ex.Subtype != "" {
				fmt.Printf("%s %s\n", cyan("Mode:"), ex.Subtype)
			}
			fmt.Printf("%s %s\n", cyan("Date:"), ex.Date)
			fmt.Printf("%s %s\n", cyan("Logged:"), utils.FormatTimestamp(ex.Timestamp))
			fmt.Printf("%s %d min\n", cyan("Duration:"), ex.DurationMinutes)
			fmt.Printf("%s %d kcal\n", cyan("Calories:"), ex.Calories)
			if ex.DistanceMeters > 0 {
				fmt.Printf("%s %.2f km\n", cyan("Distance:"), ex.DistanceMeters/1000)
				fmt.Printf("%s %s /km\n", cyan("Pace:"), utils.CalculatePace(ex.DistanceMeters, float64(ex.DurationMinutes*60)))
			}
			if ex.Notes != "" {
				fmt.Printf("%s %s\n", cyan("Notes:"), ex.Notes)
			}

			if n := len(ex.Route); n > 0 {
				first, last := ex.Route[0], ex.Route[n-1]
				fmt.Printf("\n%s %d points\n", cyan("Route:"), n)
				fmt.Printf("  start %.5f, %.5f at %s\n", first.Lat, first.Lng, time.UnixMilli(first.Timestamp).Local().Format("15:04:05"))
				fmt.Printf("  end   %.5f, %.5f at %s\n", last.Lat, last.Lng, time.UnixMilli(last.Timestamp).Local().Format("15:04:05"))
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
