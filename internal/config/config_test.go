package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-pitch-metrics/internal/model"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 3, cfg.MinPlayers)
	assert.Equal(t, 53, cfg.Provider.CompetitionID)
	assert.Equal(t, 315, cfg.Provider.SeasonID)

	cols, err := cfg.CompactnessColumns()
	require.NoError(t, err)
	assert.Nil(t, cols)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty db path", func(c *Config) { c.DBPath = "" }},
		{"negative min players", func(c *Config) { c.MinPlayers = -1 }},
		{"negative workers", func(c *Config) { c.Workers = -2 }},
		{"empty base url", func(c *Config) { c.Provider.BaseURL = "" }},
		{"zero rate", func(c *Config) { c.Provider.RequestsPerSecond = 0 }},
		{"unknown compactness column", func(c *Config) { c.CompactnessGroupBy = []string{"team", "shape"} }},
		{"unknown space control column", func(c *Config) { c.SpaceControlGroupBy = []string{"zone"} }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Provider.BaseURL, cfg.Provider.BaseURL)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pitchmetrics.yaml")
	yaml := `
db_path: /tmp/pm.db
min_players: 5
compactness_group_by: [team, phase]
provider:
  base_url: http://localhost:9000/data
  timeout: 5s
  season_id: 106
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	t.Setenv(EnvConfigPath, path)
	t.Setenv("PITCHMETRICS_LOG_LEVEL", "debug")
	t.Setenv("PITCHMETRICS_MIN_PLAYERS", "4")
	t.Setenv("PITCHMETRICS_SPACE_CONTROL_GROUP_BY", "team, possession")
	t.Setenv("PITCHMETRICS_PROVIDER__REQUESTS_PER_SECOND", "2.5")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/pm.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 4, cfg.MinPlayers, "env overrides file")
	assert.Equal(t, "http://localhost:9000/data", cfg.Provider.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, 106, cfg.Provider.SeasonID)
	assert.Equal(t, 53, cfg.Provider.CompetitionID, "unset keys keep defaults")
	assert.Equal(t, 2.5, cfg.Provider.RequestsPerSecond)

	cols, err := cfg.CompactnessColumns()
	require.NoError(t, err)
	assert.Equal(t, []model.Column{model.ColTeam, model.ColPhase}, cols)

	cols, err = cfg.SpaceControlColumns()
	require.NoError(t, err)
	assert.Equal(t, []model.Column{model.ColTeam, model.ColPossession}, cols)
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv("PITCHMETRICS_MIN_PLAYERS", "-3")
	_, err := Load("")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
