package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-pitch-metrics/internal/aggregator"
	"github.com/pable/go-pitch-metrics/internal/report"
)

var (
	spaceGroupBy []string
	spacePooled  bool
	spaceWorkers int
	spaceMatches []int64
)

// spaceControlCmd prints the convex hull area covered by each group.
var spaceControlCmd = &cobra.Command{
	Use:     "spacecontrol",
	Aliases: []string{"space"},
	Short:   "Convex hull area per match, team and phase",
	Long: `Groups stored events (by whichever of match_id, team and phase exist,
unless --group-by is set) and reports the area of the convex hull of each
group's event locations. Groups with fewer than 3 usable points, or whose
points are collinear, have no area.

--pooled drops the match id so a team's events are pooled across matches.`,
	Args: cobra.NoArgs,
	RunE: runSpaceControl,
}

func init() {
	spaceControlCmd.Flags().StringSliceVar(&spaceGroupBy, "group-by", nil, "grouping columns (default from config, else match_id,team,phase)")
	spaceControlCmd.Flags().BoolVar(&spacePooled, "pooled", false, "pool events across matches")
	spaceControlCmd.Flags().IntVar(&spaceWorkers, "workers", 0, "hull workers (default from config)")
	spaceControlCmd.Flags().Int64SliceVar(&spaceMatches, "match", nil, "restrict to these match ids")
}

func runSpaceControl(cmd *cobra.Command, args []string) error {
	cols, err := groupColumns(spaceGroupBy, cfg.SpaceControlGroupBy)
	if err != nil {
		return err
	}
	workers := cfg.Workers
	if cmd.Flags().Changed("workers") {
		workers = spaceWorkers
	}

	table, err := loadTable(spaceMatches, spacePooled)
	if err != nil {
		return err
	}
	if len(table.Events) == 0 {
		fmt.Fprintln(os.Stdout, "No events stored. Run 'pitchmetrics fetch' first.")
		return nil
	}

	records, err := aggregator.ComputeSpaceControl(cmd.Context(), table, cols, aggregator.WithWorkers(workers))
	if err != nil {
		return fmt.Errorf("space control: %w", err)
	}
	report.PrintSpaceControl(os.Stdout, records)
	return nil
}
