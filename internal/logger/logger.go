// Package logger builds the application's hclog logger. The terminal belongs
// to the TUI and to command output, so logs go to a file.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
)

const FileName = "stride.log"

// New returns a logger writing to dir/stride.log at level, plus a closer for
// the file. An empty dir discards everything.
func New(dir, level string) (hclog.Logger, io.Closer, error) {
	lvl := hclog.LevelFromString(level)
	if lvl == hclog.NoLevel {
		lvl = hclog.Info
	}

	if dir == "" {
		return hclog.NewNullLogger(), io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, fmt.Errorf("Failed to create log dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, FileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("Failed to open log file: %w", err)
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:   "stride",
		Level:  lvl,
		Output: f,
	}), f, nil
}
