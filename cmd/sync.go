package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/misterclayt0n/stride/internal/storage"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export [output-file]",
	Short: "Export all the database data to a TOML or YAML file (default ~/.config/stride/db_dump.<format>)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := storage.ParseFormat(exportFormat)
		if err != nil {
			return err
		}

		var outputFile string
		if len(args) == 1 {
			outputFile = args[0]
			if !cmd.Flags().Changed("format") {
				format = storage.FormatFromPath(outputFile)
			}
		} else if outputFile, err = storage.DefaultExportPath(format); err != nil {
			return fmt.Errorf("Failed to resolve export path: %w", err)
		}

		return withStorage(func(a *app, st *storage.Storage) error {
			if err := st.Export(context.Background(), outputFile, format); err != nil {
				return fmt.Errorf("error exporting database: %w", err)
			}
			fmt.Printf("✅ Database exported successfully to %s\n", outputFile)
			return nil
		})
	},
}

var buildDBCmd = &cobra.Command{
	Use:   "build-db [dump-file]",
	Short: "Build the entire database from the given TOML or YAML dump file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dumpFile := args[0]
		return withStorage(func(a *app, st *storage.Storage) error {
			if err := st.Import(context.Background(), dumpFile); err != nil {
				return fmt.Errorf("Failed to build database: %w", err)
			}
			fmt.Println("✅ Database built successfully from dump.")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(buildDBCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "toml", "Dump format: toml or yaml")
}
