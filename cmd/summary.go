package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-pitch-metrics/internal/aggregator"
	"github.com/pable/go-pitch-metrics/internal/report"
)

var (
	summaryMinPlayers int
	summaryMatches    []int64
)

// summaryCmd ranks teams by their average compactness radius.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Rank teams by average compactness radius",
	Long: `Computes compactness per team, phase and possession, drops groups with
fewer than --min-players players, then averages per team. Teams are listed
from most to least compact.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func init() {
	summaryCmd.Flags().IntVar(&summaryMinPlayers, "min-players", 0, "minimum distinct players per group (default from config)")
	summaryCmd.Flags().Int64SliceVar(&summaryMatches, "match", nil, "restrict to these match ids")
}

func runSummary(cmd *cobra.Command, args []string) error {
	minPlayers := cfg.MinPlayers
	if cmd.Flags().Changed("min-players") {
		minPlayers = summaryMinPlayers
	}
	cols, err := cfg.CompactnessColumns()
	if err != nil {
		return err
	}

	table, err := loadTable(summaryMatches, false)
	if err != nil {
		return err
	}
	if len(table.Events) == 0 {
		fmt.Fprintln(os.Stdout, "No events stored. Run 'pitchmetrics fetch' first.")
		return nil
	}

	records, err := aggregator.ComputeCompactness(table, cols)
	if err != nil {
		return fmt.Errorf("compactness: %w", err)
	}
	teams, err := aggregator.TeamCompactnessSummary(aggregator.CleanCompactness(records, minPlayers))
	if err != nil {
		return fmt.Errorf("team summary: %w", err)
	}
	report.PrintTeamSummary(os.Stdout, teams)
	return nil
}
