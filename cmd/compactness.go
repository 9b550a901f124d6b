package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-pitch-metrics/internal/aggregator"
	"github.com/pable/go-pitch-metrics/internal/report"
)

var (
	compactGroupBy    []string
	compactMinPlayers int
	compactRaw        bool
	compactMatches    []int64
)

// compactnessCmd prints the compactness radius of each group.
var compactnessCmd = &cobra.Command{
	Use:   "compactness",
	Short: "Positional dispersion per team, phase and possession",
	Long: `Groups stored events (by team, phase and possession unless --group-by
is set) and reports mean and standard deviation of x and y, distinct players
and the compactness radius sqrt(x_std^2 + y_std^2).

Groups with fewer than --min-players distinct players are dropped unless
--raw is given.

Examples:
  pitchmetrics compactness --match 3930158
  pitchmetrics compactness --group-by team,phase --min-players 5`,
	Args: cobra.NoArgs,
	RunE: runCompactness,
}

func init() {
	compactnessCmd.Flags().StringSliceVar(&compactGroupBy, "group-by", nil, "grouping columns (default from config)")
	compactnessCmd.Flags().IntVar(&compactMinPlayers, "min-players", 0, "minimum distinct players per group (default from config)")
	compactnessCmd.Flags().BoolVar(&compactRaw, "raw", false, "print groups before cleaning")
	compactnessCmd.Flags().Int64SliceVar(&compactMatches, "match", nil, "restrict to these match ids")
}

func runCompactness(cmd *cobra.Command, args []string) error {
	cols, err := groupColumns(compactGroupBy, cfg.CompactnessGroupBy)
	if err != nil {
		return err
	}
	minPlayers := cfg.MinPlayers
	if cmd.Flags().Changed("min-players") {
		minPlayers = compactMinPlayers
	}

	table, err := loadTable(compactMatches, false)
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
	if !compactRaw {
		before := len(records)
		records = aggregator.CleanCompactness(records, minPlayers)
		fmt.Fprintf(os.Stdout, "%d of %d groups with at least %d players\n\n", len(records), before, minPlayers)
	}
	report.PrintCompactness(os.Stdout, records)
	return nil
}
