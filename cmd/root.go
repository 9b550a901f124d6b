package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pable/go-pitch-metrics/internal/config"
	"github.com/pable/go-pitch-metrics/internal/logging"
	"github.com/pable/go-pitch-metrics/internal/model"
	"github.com/pable/go-pitch-metrics/internal/storage"
)

// Global flags; they override the loaded config only when set.
var (
	configPath string
	dbPath     string
	logLevel   string
	logFormat  string
)

// cfg is the effective configuration, resolved before every command runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "pitchmetrics",
	Short: "Team shape metrics from football event data",
	Long: `Fetch match events, then compute compactness (positional dispersion)
and space control (convex hull area) per team, phase and possession.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (default $"+config.EnvConfigPath+")")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite database (default ~/.pitchmetrics/events.db)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "console or json")

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(compactnessCmd)
	rootCmd.AddCommand(spaceControlCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(dropCmd)
}

func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("db") {
		c.DBPath = dbPath
	}
	if flags.Changed("log-level") {
		c.LogLevel = logLevel
	}
	if flags.Changed("log-format") {
		c.LogFormat = logFormat
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if err := logging.Init(logging.Config{Level: c.LogLevel, Format: c.LogFormat}); err != nil {
		return err
	}
	cfg = c
	logging.Debug().Str("db", cfg.DBPath).Msg("config loaded")
	return nil
}

// openDB opens the configured store, creating its directory when needed.
func openDB() (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

// loadTable loads stored events for the given matches (all when empty).
// pooled drops the match_id column so groups span matches.
func loadTable(matchIDs []int64, pooled bool) (*model.Table, error) {
	db, err := openDB()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	table, err := db.LoadEvents(matchIDs...)
	if err != nil {
		return nil, err
	}
	if pooled {
		table.Schema = table.Schema.Without(model.ColMatchID)
	}
	logging.Debug().Int("events", len(table.Events)).Int("matches", len(matchIDs)).Msg("events loaded")
	return table, nil
}

// groupColumns resolves --group-by names, falling back to configured names.
func groupColumns(flagNames, configNames []string) ([]model.Column, error) {
	if len(flagNames) > 0 {
		return model.ParseColumns(flagNames)
	}
	return model.ParseColumns(configNames)
}
