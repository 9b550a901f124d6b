package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-pitch-metrics/internal/logging"
	"github.com/pable/go-pitch-metrics/internal/model"
	"github.com/pable/go-pitch-metrics/internal/parser"
	"github.com/pable/go-pitch-metrics/internal/statsbomb"
	"github.com/pable/go-pitch-metrics/internal/storage"
)

// fetch command flags.
var (
	// fetchCompetition and fetchSeason select the provider match list.
	fetchCompetition int
	fetchSeason      int
	// fetchMatches restricts ingestion to these match ids.
	fetchMatches []int64
	// fetchForce re-downloads matches already stored.
	fetchForce bool
)

// fetchCmd downloads matches and their events from StatsBomb open data.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download and store StatsBomb open-data events",
	Long: `Fetches the match list of a competition season, downloads each match's
events, drops non-play events, labels phases and stores the result.

Examples:
  # Women's Euro 2025 (the default competition and season)
  pitchmetrics fetch

  # Two specific matches of another season
  pitchmetrics fetch --competition 53 --season 106 --match 3835319,3835320`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().IntVar(&fetchCompetition, "competition", 0, "competition id (default from config)")
	fetchCmd.Flags().IntVar(&fetchSeason, "season", 0, "season id (default from config)")
	fetchCmd.Flags().Int64SliceVar(&fetchMatches, "match", nil, "only fetch these match ids")
	fetchCmd.Flags().BoolVar(&fetchForce, "force", false, "re-fetch matches already stored")
}

func runFetch(cmd *cobra.Command, args []string) error {
	competition, season := cfg.Provider.CompetitionID, cfg.Provider.SeasonID
	if cmd.Flags().Changed("competition") {
		competition = fetchCompetition
	}
	if cmd.Flags().Changed("season") {
		season = fetchSeason
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	client := statsbomb.NewClient(cfg.Provider.BaseURL,
		statsbomb.WithTimeout(cfg.Provider.Timeout),
		statsbomb.WithRateLimit(cfg.Provider.RequestsPerSecond),
	)
	return doFetch(cmd.Context(), client, db, competition, season, fetchMatches, fetchForce)
}

// doFetch is the shared implementation for the fetch command.
func doFetch(ctx context.Context, client *statsbomb.Client, db *storage.DB, competition, season int, only []int64, force bool) error {
	log := logging.With("fetch")

	matches, err := client.GetMatches(ctx, competition, season)
	if err != nil {
		return fmt.Errorf("match list %d/%d: %w", competition, season, err)
	}
	log.Info().Int("competition", competition).Int("season", season).Int("matches", len(matches)).Msg("match list")

	wanted := make(map[int64]bool, len(only))
	for _, id := range only {
		wanted[id] = true
	}

	attempted, loaded, skipped := 0, 0, 0
	for _, m := range matches {
		if len(wanted) > 0 && !wanted[m.MatchID] {
			continue
		}
		if !force {
			exists, err := db.MatchExists(m.MatchID)
			if err != nil {
				return fmt.Errorf("check match: %w", err)
			}
			if exists {
				skipped++
				log.Debug().Int64("match_id", m.MatchID).Msg("already stored")
				continue
			}
		}

		attempted++
		raw, err := client.GetEvents(ctx, m.MatchID)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			log.Warn().Err(err).Int64("match_id", m.MatchID).Msg("skip match")
			continue
		}

		summary := model.MatchSummary{
			MatchID:       m.MatchID,
			CompetitionID: competition,
			SeasonID:      season,
			MatchDate:     m.MatchDate,
			HomeTeam:      m.HomeTeam.Name,
			AwayTeam:      m.AwayTeam.Name,
			HomeScore:     m.HomeScore,
			AwayScore:     m.AwayScore,
		}
		n, err := storeMatch(db, summary, raw)
		if err != nil {
			return err
		}
		loaded++
		log.Info().Int64("match_id", m.MatchID).Str("fixture", summary.HomeTeam+" v "+summary.AwayTeam).
			Int("raw", len(raw)).Int("stored", n).Msg("stored events")
	}

	if attempted > 0 && loaded == 0 {
		return fmt.Errorf("no events could be loaded for competition %d season %d", competition, season)
	}
	fmt.Fprintf(os.Stdout, "Fetched %d matches (%d already stored, %d failed).\n", loaded, skipped, attempted-loaded)
	return nil
}

// storeMatch preprocesses raw events and writes the match and its events.
func storeMatch(db *storage.DB, summary model.MatchSummary, raw []parser.RawEvent) (int, error) {
	events := parser.Preprocess(summary.MatchID, raw)
	if err := db.InsertMatch(summary); err != nil {
		return 0, fmt.Errorf("insert match %d: %w", summary.MatchID, err)
	}
	if err := db.InsertEvents(summary.MatchID, events); err != nil {
		return 0, fmt.Errorf("insert events %d: %w", summary.MatchID, err)
	}
	return len(events), nil
}
