package cmd

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/misterclayt0n/stride/internal/config"
	"github.com/misterclayt0n/stride/internal/logger"
	"github.com/misterclayt0n/stride/internal/storage"
)

var rootCmd = &cobra.Command{
	Use:           "stride",
	Short:         "Terminal fitness tracker with GPS-tracked workouts",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

// app bundles what most commands need: the loaded config and a file logger.
type app struct {
	cfg    *config.Config
	log    hclog.Logger
	closer io.Closer
}

func loadApp() (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("Failed to load config: %w", err)
	}

	dir, err := config.GetConfigDir()
	if err != nil {
		return nil, err
	}
	log, closer, err := logger.New(dir, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, log: log, closer: closer}, nil
}

func (a *app) Close() {
	a.closer.Close()
}

func (a *app) openStorage() (*storage.Storage, error) {
	if a.cfg.DB.ConnectionString == "" {
		return nil, fmt.Errorf("No database configured. Run `stride init` or set STRIDE_DATABASE_URL")
	}
	return storage.Open(a.cfg.DB.ConnectionString, a.log.Named("storage"))
}

// withStorage loads the app and opens the store for the duration of fn.
func withStorage(fn func(a *app, st *storage.Storage) error) error {
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

	return fn(a, st)
}
