package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-pitch-metrics/internal/report"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the events database",
	Long: `Run an arbitrary SQL query against the events database and print results as a table.

Schema overview:
  matches(match_id, competition_id, season_id, match_date, home_team, away_team,
    home_score, away_score)
  events(match_id, seq, team, phase, possession, player, x, y)

Note: player, x and y are NULL when the event has none. phase is
'in_possession' or 'defending'.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}
	report.PrintRaw(os.Stdout, cols, rows)
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}
