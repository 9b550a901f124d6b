// Package config holds pitchmetrics settings and their layered loading:
// defaults, then an optional YAML file, then PITCHMETRICS_* environment
// variables. Command-line flags are applied on top by the cmd package.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/pable/go-pitch-metrics/internal/model"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Provider configures the remote match-event source.
type Provider struct {
	BaseURL           string        `koanf:"base_url"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Timeout           time.Duration `koanf:"timeout"`
	CompetitionID     int           `koanf:"competition_id"`
	SeasonID          int           `koanf:"season_id"`
}

// Config contains process configuration.
type Config struct {
	// DBPath is the SQLite event store.
	DBPath string `koanf:"db_path"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat is console or json.
	LogFormat string `koanf:"log_format"`

	// MinPlayers is the distinct-player floor used when cleaning compactness.
	MinPlayers int `koanf:"min_players"`

	// CompactnessGroupBy and SpaceControlGroupBy override the default grouping
	// columns. Empty means use the defaults.
	CompactnessGroupBy  []string `koanf:"compactness_group_by"`
	SpaceControlGroupBy []string `koanf:"space_control_group_by"`

	// Workers bounds per-group space control parallelism.
	Workers int `koanf:"workers"`

	Provider Provider `koanf:"provider"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DBPath:     filepath.Join(userHome(), ".pitchmetrics", "events.db"),
		LogLevel:   "info",
		LogFormat:  "console",
		MinPlayers: 3,
		Workers:    runtime.NumCPU(),
		Provider: Provider{
			BaseURL:           "https://raw.githubusercontent.com/statsbomb/open-data/master/data",
			RequestsPerSecond: 5,
			Timeout:           30 * time.Second,
			CompetitionID:     53,
			SeasonID:          315,
		},
	}
}

func userHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// Validate checks value ranges and grouping column names.
func (c *Config) Validate() error {
	switch {
	case c.DBPath == "":
		return fmt.Errorf("%w: db_path must not be empty", ErrInvalidConfig)
	case c.MinPlayers < 0:
		return fmt.Errorf("%w: min_players must be >= 0, got %d", ErrInvalidConfig, c.MinPlayers)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalidConfig, c.Workers)
	case c.Provider.BaseURL == "":
		return fmt.Errorf("%w: provider.base_url must not be empty", ErrInvalidConfig)
	case c.Provider.RequestsPerSecond <= 0:
		return fmt.Errorf("%w: provider.requests_per_second must be > 0", ErrInvalidConfig)
	}
	if _, err := c.CompactnessColumns(); err != nil {
		return fmt.Errorf("%w: compactness_group_by: %v", ErrInvalidConfig, err)
	}
	if _, err := c.SpaceControlColumns(); err != nil {
		return fmt.Errorf("%w: space_control_group_by: %v", ErrInvalidConfig, err)
	}
	return nil
}

// CompactnessColumns parses CompactnessGroupBy; nil means defaults.
func (c *Config) CompactnessColumns() ([]model.Column, error) {
	return model.ParseColumns(c.CompactnessGroupBy)
}

// SpaceControlColumns parses SpaceControlGroupBy; nil means defaults.
func (c *Config) SpaceControlColumns() ([]model.Column, error) {
	return model.ParseColumns(c.SpaceControlGroupBy)
}
