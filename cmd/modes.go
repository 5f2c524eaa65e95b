package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/misterclayt0n/stride/internal/models"
	"github.com/misterclayt0n/stride/internal/storage"
)

var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "List workout modes with their default goals and total distance",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStorage(func(a *app, st *storage.Storage) error {
			totals, err := st.ModeTotals(context.Background())
			if err != nil {
				return err
			}

			cyan := color.New(color.FgCyan).SprintFunc()
			yellow := color.New(color.FgYellow).SprintFunc()

			for _, m := range models.Modes {
				fmt.Printf("%s %-16s goal %5.2f km   total %s\n",
					cyan(fmt.Sprintf("%-10s", m.Mode)), m.Label, m.DefaultGoalKm, yellow(fmt.Sprintf("%.2f km", totals[m.Mode])))
			}

			fmt.Printf("\n%s", cyan("Goal presets:"))
			for _, p := range models.GoalPresets {
				fmt.Printf(" %s", p.Label)
			}
			fmt.Printf("\n%s %s minutes\n", cyan("Announce every:"), everyChoices())
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(modesCmd)
}
