package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-pitch-metrics/internal/aggregator"
	"github.com/pable/go-pitch-metrics/internal/report"
	"github.com/pable/go-pitch-metrics/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the events database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(cmd *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	cGreeting.Println("pitchmetrics shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("pitchmetrics")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		name, args := tokens[0], tokens[1:]

		switch name {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "list":
			shellList(db)
		case "compactness", "summary", "space":
			ids, err := parseMatchIDs(args)
			if err != nil {
				cError.Fprintf(os.Stderr, "%v\n", err)
				continue
			}
			if err := shellMetric(ctx, db, name, ids); err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
			}
		case "sql":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: sql <query>")
				continue
			}
			cols, rows, err := db.QueryRaw(strings.Join(args, " "))
			if err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			report.PrintRaw(os.Stdout, cols, rows)
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", name)
		}
	}
	return scanner.Err()
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list all stored matches"},
		{"compactness [match-id...]", "cleaned compactness per team, phase and possession"},
		{"space [match-id...]", "convex hull area per match, team and phase"},
		{"summary [match-id...]", "teams ranked by average compactness radius"},
		{"sql <query>", "run a raw SQL query"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-30s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func shellList(db *storage.DB) {
	matches, err := db.ListMatches()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(matches) == 0 {
		cMuted.Println("No matches stored yet.")
		return
	}
	report.PrintMatches(os.Stdout, matches)
}

func shellMetric(ctx context.Context, db *storage.DB, name string, ids []int64) error {
	table, err := db.LoadEvents(ids...)
	if err != nil {
		return err
	}
	if len(table.Events) == 0 {
		cMuted.Println("No events stored.")
		return nil
	}

	switch name {
	case "space":
		cols, err := cfg.SpaceControlColumns()
		if err != nil {
			return err
		}
		records, err := aggregator.ComputeSpaceControl(ctx, table, cols, aggregator.WithWorkers(cfg.Workers))
		if err != nil {
			return err
		}
		report.PrintSpaceControl(os.Stdout, records)
		return nil
	}

	cols, err := cfg.CompactnessColumns()
	if err != nil {
		return err
	}
	records, err := aggregator.ComputeCompactness(table, cols)
	if err != nil {
		return err
	}
	records = aggregator.CleanCompactness(records, cfg.MinPlayers)
	if name == "compactness" {
		report.PrintCompactness(os.Stdout, records)
		return nil
	}
	teams, err := aggregator.TeamCompactnessSummary(records)
	if err != nil {
		return err
	}
	report.PrintTeamSummary(os.Stdout, teams)
	return nil
}

// parseMatchIDs parses REPL arguments as match ids.
func parseMatchIDs(args []string) ([]int64, error) {
	var ids []int64
	for _, a := range args {
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid match id %q", a)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
