package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-hclog"
	"github.com/joho/godotenv"

	"github.com/misterclayt0n/stride/internal/models"
)

const DevConnectionString = "file:./local.db"

type Config struct {
	DB       DBConfig       `toml:"database"`
	Voice    VoiceConfig    `toml:"voice"`
	Location LocationConfig `toml:"location"`
	Workout  WorkoutConfig  `toml:"workout"`
	LogLevel string         `toml:"log_level"`
}

type DBConfig struct {
	ConnectionString string `toml:"connection_string"` // The entire DB connection string.
}

type VoiceConfig struct {
	Enabled       bool          `toml:"enabled"`
	Gender        models.Gender `toml:"gender"`
	AnnounceEvery int           `toml:"announce_every"` // Minutes.
	Command       string        `toml:"command"`        // Speech binary; empty picks the first one found.
}

type LocationConfig struct {
	GPSDAddr        string   `toml:"gpsd_addr"`
	FirstFixTimeout Duration `toml:"first_fix_timeout"`
}

type WorkoutConfig struct {
	CalorieModel string `toml:"calorie_model"`
	DefaultMode  string `toml:"default_mode"`
}

// Duration decodes TOML strings such as "10s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func Default() *Config {
	voice := models.DefaultVoiceSettings()
	return &Config{
		Voice: VoiceConfig{
			Enabled:       voice.Enabled,
			Gender:        voice.Gender,
			AnnounceEvery: voice.AnnounceEveryMinutes,
		},
		Location: LocationConfig{
			GPSDAddr:        "localhost:2947",
			FirstFixTimeout: Duration{10 * time.Second},
		},
		Workout: WorkoutConfig{
			CalorieModel: "distance",
			DefaultMode:  string(models.ModeRunning),
		},
		LogLevel: "info",
	}
}

// Returns the directory holding the config, log and pending workout files.
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "stride"), nil
}

// Returns the path to the config file.
func GetConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Reads the configuration from the config file, then applies .env and
// environment overrides.
func LoadConfig() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("Failed to read config %s: %w", path, err)
	}

	// A missing .env is fine; most setups only use the config file.
	_ = godotenv.Load()
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if url := os.Getenv("STRIDE_DATABASE_URL"); url != "" {
		cfg.DB.ConnectionString = url
	} else if url := os.Getenv("TURSO_DATABASE_URL"); url != "" {
		cfg.DB.ConnectionString = url
	}
	if lvl := os.Getenv("STRIDE_LOG_LEVEL"); lvl != "" {
		cfg.LogLevel = lvl
	}

	// Check for a DEV_MODE environment variable.
	if os.Getenv("DEV_MODE") == "true" {
		cfg.DB.ConnectionString = DevConnectionString
	}
}

func (c *Config) Validate() error {
	if _, err := models.ParseGender(string(c.Voice.Gender)); err != nil {
		return fmt.Errorf("Invalid [voice] gender: %w", err)
	}
	if c.Voice.AnnounceEvery <= 0 {
		return fmt.Errorf("Invalid [voice] announce_every: must be > 0 minutes, got %d", c.Voice.AnnounceEvery)
	}
	if c.Location.FirstFixTimeout.Duration <= 0 {
		return fmt.Errorf("Invalid [location] first_fix_timeout: must be positive")
	}
	switch strings.ToLower(c.Workout.CalorieModel) {
	case "", "distance", "met":
	default:
		return fmt.Errorf("Invalid [workout] calorie_model %q (want distance or met)", c.Workout.CalorieModel)
	}
	if c.Workout.DefaultMode != "" {
		if _, err := models.LookupMode(c.Workout.DefaultMode); err != nil {
			return fmt.Errorf("Invalid [workout] default_mode: %w", err)
		}
	}
	if hclog.LevelFromString(c.LogLevel) == hclog.NoLevel {
		return fmt.Errorf("Invalid log_level %q", c.LogLevel)
	}
	return nil
}

// VoiceSettings turns the [voice] table into session settings.
func (c *Config) VoiceSettings() models.VoiceSettings {
	gender, err := models.ParseGender(string(c.Voice.Gender))
	if err != nil {
		gender = models.GenderFemale
	}
	return models.VoiceSettings{
		Enabled:              c.Voice.Enabled,
		Gender:               gender,
		AnnounceEveryMinutes: c.Voice.AnnounceEvery,
	}
}

// Writes a starter config file if none exists yet.
func WriteDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, err
	}
	f, err := os.Create(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	cfg := Default()
	cfg.DB.ConnectionString = "file:" + filepath.Join(filepath.Dir(path), "stride.db")
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return false, err
	}
	return true, nil
}
