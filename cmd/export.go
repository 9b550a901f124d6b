package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/pable/go-pitch-metrics/internal/aggregator"
	"github.com/pable/go-pitch-metrics/internal/model"
)

var (
	exportOut        string
	exportMinPlayers int
	exportMatches    []int64
)

// metricsExport is the top-level JSON document written by export.
// Undefined values are encoded as null.
type metricsExport struct {
	GeneratedAt  string              `json:"generated_at"`
	Matches      []int64             `json:"matches,omitempty"`
	EventCount   int                 `json:"event_count"`
	MinPlayers   int                 `json:"min_players"`
	Teams        []teamExport        `json:"teams"`
	Compactness  []compactnessExport `json:"compactness"`
	SpaceControl []spaceExport       `json:"space_control"`
}

type teamExport struct {
	Team       string   `json:"team"`
	AvgRadius  *float64 `json:"avg_radius"`
	StdRadius  *float64 `json:"std_radius"`
	AvgXStd    *float64 `json:"avg_x_std"`
	AvgYStd    *float64 `json:"avg_y_std"`
	AvgPlayers *float64 `json:"avg_players"`
	Groups     int      `json:"groups"`
}

type compactnessExport struct {
	Group             map[string]string `json:"group"`
	XMean             *float64          `json:"x_mean"`
	YMean             *float64          `json:"y_mean"`
	XStd              *float64          `json:"x_std"`
	YStd              *float64          `json:"y_std"`
	PlayersInvolved   int               `json:"players_involved"`
	EventCount        int               `json:"event_count"`
	CompactnessRadius *float64          `json:"compactness_radius"`
}

type spaceExport struct {
	Group        map[string]string `json:"group"`
	Points       int               `json:"points"`
	SpaceControl *float64          `json:"space_control"`
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export compactness, space control and team summary as JSON",
	Long: `Computes every metric over the stored events and writes a single JSON
document: cleaned compactness groups, space control per match, team and phase,
and the team compactness ranking. Undefined metrics are written as null.

Example:
  pitchmetrics export --out euro2025.json
  pitchmetrics export --match 3930158 --min-players 5`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file path (default: stdout)")
	exportCmd.Flags().IntVar(&exportMinPlayers, "min-players", 0, "minimum distinct players per group (default from config)")
	exportCmd.Flags().Int64SliceVar(&exportMatches, "match", nil, "restrict to these match ids")
}

func runExport(cmd *cobra.Command, _ []string) error {
	minPlayers := cfg.MinPlayers
	if cmd.Flags().Changed("min-players") {
		minPlayers = exportMinPlayers
	}
	compactCols, err := cfg.CompactnessColumns()
	if err != nil {
		return err
	}
	spaceCols, err := cfg.SpaceControlColumns()
	if err != nil {
		return err
	}

	table, err := loadTable(exportMatches, false)
	if err != nil {
		return err
	}
	if len(table.Events) == 0 {
		return fmt.Errorf("no events stored: run 'pitchmetrics fetch' first")
	}

	records, err := aggregator.ComputeCompactness(table, compactCols)
	if err != nil {
		return fmt.Errorf("compactness: %w", err)
	}
	records = aggregator.CleanCompactness(records, minPlayers)
	teams, err := aggregator.TeamCompactnessSummary(records)
	if err != nil {
		return fmt.Errorf("team summary: %w", err)
	}
	space, err := aggregator.ComputeSpaceControl(cmd.Context(), table, spaceCols, aggregator.WithWorkers(cfg.Workers))
	if err != nil {
		return fmt.Errorf("space control: %w", err)
	}

	out := buildExport(records, space, teams)
	out.GeneratedAt = time.Now().UTC().Format(time.RFC3339)
	out.Matches = exportMatches
	out.EventCount = len(table.Events)
	out.MinPlayers = minPlayers

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	if exportOut == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(exportOut, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write %s: %w", exportOut, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", exportOut)
	return nil
}

func buildExport(records []model.CompactnessRecord, space []model.SpaceControlRecord, teams []model.TeamSummary) metricsExport {
	out := metricsExport{
		Teams:        make([]teamExport, 0, len(teams)),
		Compactness:  make([]compactnessExport, 0, len(records)),
		SpaceControl: make([]spaceExport, 0, len(space)),
	}
	for _, t := range teams {
		out.Teams = append(out.Teams, teamExport{
			Team:       t.Team,
			AvgRadius:  optional(t.AvgRadius),
			StdRadius:  optional(t.StdRadius),
			AvgXStd:    optional(t.AvgXStd),
			AvgYStd:    optional(t.AvgYStd),
			AvgPlayers: optional(t.AvgPlayers),
			Groups:     t.Groups,
		})
	}
	for _, r := range records {
		out.Compactness = append(out.Compactness, compactnessExport{
			Group:             groupMap(r.Key),
			XMean:             optional(r.XMean),
			YMean:             optional(r.YMean),
			XStd:              optional(r.XStd),
			YStd:              optional(r.YStd),
			PlayersInvolved:   r.PlayersInvolved,
			EventCount:        r.EventCount,
			CompactnessRadius: optional(r.CompactnessRadius),
		})
	}
	for _, s := range space {
		out.SpaceControl = append(out.SpaceControl, spaceExport{
			Group:        groupMap(s.Key),
			Points:       s.Points,
			SpaceControl: optional(s.SpaceControl),
		})
	}
	return out
}

func optional(f model.Float) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}

func groupMap(k model.GroupKey) map[string]string {
	m := make(map[string]string, len(k.Columns))
	for i, c := range k.Columns {
		m[c.String()] = k.Values[i]
	}
	return m
}
