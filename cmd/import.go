package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-pitch-metrics/internal/logging"
	"github.com/pable/go-pitch-metrics/internal/model"
	"github.com/pable/go-pitch-metrics/internal/parser"
)

var (
	importMatchID int64
	importDate    string
	importHome    string
	importAway    string
)

var importCmd = &cobra.Command{
	Use:   "import <events.json>",
	Short: "Import a StatsBomb events file and store its events",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	importCmd.Flags().Int64Var(&importMatchID, "match-id", 0, "match id to store the events under (required)")
	importCmd.Flags().StringVar(&importDate, "date", "", "match date label")
	importCmd.Flags().StringVar(&importHome, "home", "", "home team name")
	importCmd.Flags().StringVar(&importAway, "away", "", "away team name")
	_ = importCmd.MarkFlagRequired("match-id")
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Fprintf(os.Stdout, "Importing %s...\n", path)
	raw, err := parser.ParseFile(path)
	if err != nil {
		return fmt.Errorf("parse events: %w", err)
	}

	summary := model.MatchSummary{
		MatchID:   importMatchID,
		MatchDate: importDate,
		HomeTeam:  importHome,
		AwayTeam:  importAway,
	}
	n, err := storeMatch(db, summary, raw)
	if err != nil {
		return err
	}
	logging.Info().Int64("match_id", importMatchID).Int("raw", len(raw)).Int("stored", n).Msg("stored events")
	fmt.Fprintf(os.Stdout, "Stored %d play events for match %d.\n", n, importMatchID)
	return nil
}
