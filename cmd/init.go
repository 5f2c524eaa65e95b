package cmd

import (
	"fmt"

	"github.com/misterclayt0n/stride/internal/config"
	"github.com/spf13/cobra"
)

var initSetupCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config and create the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		created, err := config.WriteDefault(path)
		if err != nil {
			return fmt.Errorf("Failed to write config: %w", err)
		}
		if created {
			fmt.Printf("✅ Config written to %s\n", path)
		}

		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		st, err := a.openStorage()
		if err != nil {
			return err
		}
		defer st.Close()

		fmt.Println("✅ Database initialized successfully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initSetupCmd)
}
