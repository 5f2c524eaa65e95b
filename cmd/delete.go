package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/misterclayt0n/stride/internal/storage"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <exercise-id>",
	Short: "Delete a logged exercise and its route",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStorage(func(a *app, st *storage.Storage) error {
			if err := st.Delete(context.Background(), args[0]); err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					return fmt.Errorf("No exercise with id %s", args[0])
				}
				return fmt.Errorf("Failed to delete exercise: %w", err)
			}
			fmt.Println("✅ Exercise deleted")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
