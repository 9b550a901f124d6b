package aggregator

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pable/go-pitch-metrics/internal/model"
)

// DefaultMinPlayers is the default distinct-player floor of CleanCompactness.
const DefaultMinPlayers = 3

// summaryPlaces is the rounding applied to team summaries.
const summaryPlaces = 2

var errNilTable = errors.New("nil table")

// ComputeCompactness computes one CompactnessRecord per group of events that
// have a player. groupBy defaults to DefaultCompactnessColumns.
func ComputeCompactness(t *model.Table, groupBy []model.Column) ([]model.CompactnessRecord, error) {
	if t == nil {
		return nil, errNilTable
	}
	cols, err := ResolveGroupColumns(t.Schema, groupBy, DefaultCompactnessColumns, false)
	if err != nil {
		return nil, fmt.Errorf("compactness: %w", err)
	}
	if err := t.Schema.Require(model.ColPlayer, model.ColX, model.ColY); err != nil {
		return nil, fmt.Errorf("compactness: %w", err)
	}

	groups := partition(t.Events, cols, func(e *model.Event) bool { return e.Player != "" })
	out := make([]model.CompactnessRecord, 0, len(groups))
	for _, g := range groups {
		out = append(out, compactness(t.Events, g))
	}
	return out, nil
}

func compactness(events []model.Event, g group) model.CompactnessRecord {
	xs := make([]float64, 0, len(g.rows))
	ys := make([]float64, 0, len(g.rows))
	players := make(map[string]struct{})
	for _, i := range g.rows {
		e := &events[i]
		if e.X.Valid {
			xs = append(xs, e.X.Value)
		}
		if e.Y.Valid {
			ys = append(ys, e.Y.Value)
		}
		players[e.Player] = struct{}{}
	}

	rec := model.CompactnessRecord{
		Key:             g.key,
		PlayersInvolved: len(players),
		EventCount:      len(g.rows),
	}
	rec.XMean, rec.XStd = meanStd(xs)
	rec.YMean, rec.YStd = meanStd(ys)
	rec.CompactnessRadius = model.Hypot(rec.XStd, rec.YStd)
	return rec
}

// meanStd returns the mean and the sample (n-1) standard deviation of values.
// The mean needs one value, the standard deviation two.
func meanStd(values []float64) (mean, std model.Float) {
	switch len(values) {
	case 0:
		return model.Undefined(), model.Undefined()
	case 1:
		return model.Some(values[0]), model.Undefined()
	}
	mean = model.Some(stat.Mean(values, nil))
	// Variance can come out a hair below zero for identical values.
	std = model.Some(math.Sqrt(math.Max(0, stat.Variance(values, nil))))
	return mean, std
}

// CleanCompactness keeps the records with a defined radius and at least
// minPlayers distinct players. The input is not modified.
func CleanCompactness(records []model.CompactnessRecord, minPlayers int) []model.CompactnessRecord {
	out := make([]model.CompactnessRecord, 0, len(records))
	for _, r := range records {
		if !r.CompactnessRadius.Valid || r.PlayersInvolved < minPlayers {
			continue
		}
		out = append(out, r)
	}
	return out
}

// TeamCompactnessSummary reduces cleaned compactness records to one summary
// per team, sorted ascending by average radius (undefined last, ties by team).
// Every record must carry the team column in its key.
func TeamCompactnessSummary(records []model.CompactnessRecord) ([]model.TeamSummary, error) {
	type teamAccum struct {
		radii, xStds, yStds []float64
		players             []float64
	}
	accums := make(map[string]*teamAccum)
	var teams []string

	for _, r := range records {
		team, ok := r.Key.Get(model.ColTeam)
		if !ok {
			return nil, fmt.Errorf("team summary: %w: %s", model.ErrMissingColumn, model.ColTeam)
		}
		acc, ok := accums[team]
		if !ok {
			acc = &teamAccum{}
			accums[team] = acc
			teams = append(teams, team)
		}
		if r.CompactnessRadius.Valid {
			acc.radii = append(acc.radii, r.CompactnessRadius.Value)
		}
		if r.XStd.Valid {
			acc.xStds = append(acc.xStds, r.XStd.Value)
		}
		if r.YStd.Valid {
			acc.yStds = append(acc.yStds, r.YStd.Value)
		}
		acc.players = append(acc.players, float64(r.PlayersInvolved))
	}

	sort.Strings(teams)
	out := make([]model.TeamSummary, 0, len(teams))
	for _, team := range teams {
		acc := accums[team]
		avgRadius, stdRadius := meanStd(acc.radii)
		avgX, _ := meanStd(acc.xStds)
		avgY, _ := meanStd(acc.yStds)
		avgPlayers, _ := meanStd(acc.players)
		out = append(out, model.TeamSummary{
			Team:       team,
			AvgRadius:  avgRadius.Round(summaryPlaces),
			StdRadius:  stdRadius.Round(summaryPlaces),
			AvgXStd:    avgX.Round(summaryPlaces),
			AvgYStd:    avgY.Round(summaryPlaces),
			AvgPlayers: avgPlayers.Round(summaryPlaces),
			Groups:     len(acc.players),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].AvgRadius, out[j].AvgRadius
		if a.Valid != b.Valid {
			return a.Valid
		}
		return a.Valid && a.Value < b.Value
	})
	return out, nil
}
