// Package report renders result tables to a writer.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-pitch-metrics/internal/model"
)

// barWidth is the widest bar drawn by PrintTeamSummary.
const barWidth = 30

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

func keyHeader(cols []model.Column) []any {
	out := make([]any, len(cols))
	for i, c := range cols {
		out[i] = strings.ToUpper(c.String())
	}
	return out
}

func keyCells(k model.GroupKey) []any {
	out := make([]any, len(k.Values))
	for i, v := range k.Values {
		out[i] = v
	}
	return out
}

// PrintMatches prints the stored match list.
func PrintMatches(w io.Writer, matches []model.MatchSummary) {
	table := newTable(w)
	table.Header("MATCH", "DATE", "HOME", "AWAY", "SCORE", "EVENTS")
	for _, m := range matches {
		table.Append(
			strconv.FormatInt(m.MatchID, 10),
			m.MatchDate,
			m.HomeTeam,
			m.AwayTeam,
			fmt.Sprintf("%d-%d", m.HomeScore, m.AwayScore),
			strconv.Itoa(m.EventCount),
		)
	}
	table.Render()
}

// PrintCompactness prints compactness records. Undefined values show as "—".
func PrintCompactness(w io.Writer, records []model.CompactnessRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "(no groups)")
		return
	}
	table := newTable(w)
	header := keyHeader(records[0].Key.Columns)
	header = append(header, "X_MEAN", "Y_MEAN", "X_STD", "Y_STD", "PLAYERS", "EVENTS", "RADIUS")
	table.Header(header...)

	for _, r := range records {
		row := keyCells(r.Key)
		row = append(row,
			r.XMean.Format(2),
			r.YMean.Format(2),
			r.XStd.Format(2),
			r.YStd.Format(2),
			strconv.Itoa(r.PlayersInvolved),
			strconv.Itoa(r.EventCount),
			r.CompactnessRadius.Format(2),
		)
		table.Append(row...)
	}
	table.Render()
}

// PrintSpaceControl prints space control records.
func PrintSpaceControl(w io.Writer, records []model.SpaceControlRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "(no groups)")
		return
	}
	table := newTable(w)
	header := keyHeader(records[0].Key.Columns)
	header = append(header, "POINTS", "SPACE_CONTROL")
	table.Header(header...)

	for _, r := range records {
		row := keyCells(r.Key)
		row = append(row, strconv.Itoa(r.Points), r.SpaceControl.Format(1))
		table.Append(row...)
	}
	table.Render()
}

// PrintTeamSummary prints one row per team with a bar proportional to the
// average radius.
func PrintTeamSummary(w io.Writer, summaries []model.TeamSummary) {
	if len(summaries) == 0 {
		fmt.Fprintln(w, "(no teams)")
		return
	}
	var maxRadius float64
	for _, s := range summaries {
		if s.AvgRadius.Valid && s.AvgRadius.Value > maxRadius {
			maxRadius = s.AvgRadius.Value
		}
	}

	table := newTable(w)
	table.Header("TEAM", "GROUPS", "AVG_RADIUS", "STD_RADIUS", "AVG_X_STD", "AVG_Y_STD", "AVG_PLAYERS", "")
	for _, s := range summaries {
		table.Append(
			s.Team,
			strconv.Itoa(s.Groups),
			s.AvgRadius.Format(2),
			s.StdRadius.Format(2),
			s.AvgXStd.Format(2),
			s.AvgYStd.Format(2),
			s.AvgPlayers.Format(2),
			Bar(s.AvgRadius, maxRadius, barWidth),
		)
	}
	table.Render()
}

// Bar draws v as a run of blocks scaled so limit fills width.
func Bar(v model.Float, limit float64, width int) string {
	if !v.Valid || limit <= 0 || width <= 0 {
		return ""
	}
	n := int(v.Value/limit*float64(width) + 0.5)
	if n > width {
		n = width
	}
	if n < 0 {
		n = 0
	}
	return strings.Repeat("█", n)
}

// PrintRaw prints the result of a raw query.
func PrintRaw(w io.Writer, cols []string, rows [][]string) {
	table := newTable(w)

	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
}
