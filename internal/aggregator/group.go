// Package aggregator computes group-level spatial metrics from an event table:
// compactness (positional dispersion), space control (convex hull area),
// result cleaning and per-team summaries.
package aggregator

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pable/go-pitch-metrics/internal/model"
)

// ErrDuplicateColumn is returned when a grouping list names a column twice.
var ErrDuplicateColumn = errors.New("duplicate group column")

var (
	// DefaultCompactnessColumns groups compactness by team, phase and possession.
	// All three must be present in the table.
	DefaultCompactnessColumns = []model.Column{model.ColTeam, model.ColPhase, model.ColPossession}

	// SpaceControlCandidates are the space control grouping columns, used when
	// present in the table.
	SpaceControlCandidates = []model.Column{model.ColMatchID, model.ColTeam, model.ColPhase}
)

// ResolveGroupColumns decides the grouping columns for a computation.
// A non-empty explicit list is used verbatim and every column must exist in
// schema. Otherwise candidates are used: when filterAbsent is set, only the
// candidates present in schema are kept (in candidate order); when not, all
// candidates are required.
func ResolveGroupColumns(schema model.Schema, explicit, candidates []model.Column, filterAbsent bool) ([]model.Column, error) {
	if len(explicit) > 0 {
		if err := checkDuplicates(explicit); err != nil {
			return nil, err
		}
		if err := schema.Require(explicit...); err != nil {
			return nil, fmt.Errorf("group by: %w", err)
		}
		return append([]model.Column(nil), explicit...), nil
	}

	if !filterAbsent {
		if err := schema.Require(candidates...); err != nil {
			return nil, fmt.Errorf("default group by: %w", err)
		}
		return append([]model.Column(nil), candidates...), nil
	}

	var cols []model.Column
	for _, c := range candidates {
		if schema.Has(c) {
			cols = append(cols, c)
		}
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: none of %s", model.ErrMissingColumn,
			strings.Join(model.ColumnNames(candidates), ", "))
	}
	return cols, nil
}

func checkDuplicates(cols []model.Column) error {
	seen := make(map[model.Column]struct{}, len(cols))
	for _, c := range cols {
		if _, ok := seen[c]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateColumn, c)
		}
		seen[c] = struct{}{}
	}
	return nil
}

// group is one partition of the event table: its key and row indexes.
type group struct {
	key  model.GroupKey
	rows []int
}

// partition splits events into groups over cols, skipping rows rejected by keep.
// Groups are returned sorted by key.
func partition(events []model.Event, cols []model.Column, keep func(*model.Event) bool) []group {
	index := make(map[string]int)
	var groups []group

	for i := range events {
		e := &events[i]
		if keep != nil && !keep(e) {
			continue
		}
		values := make([]string, len(cols))
		for j, c := range cols {
			values[j] = e.Value(c)
		}
		id := strings.Join(values, "\x1f")
		gi, ok := index[id]
		if !ok {
			gi = len(groups)
			index[id] = gi
			groups = append(groups, group{key: model.GroupKey{Columns: cols, Values: values}})
		}
		groups[gi].rows = append(groups[gi].rows, i)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return compareKeys(groups[i].key, groups[j].key) < 0
	})
	return groups
}

// compareKeys orders keys column by column; numeric columns compare as integers.
func compareKeys(a, b model.GroupKey) int {
	for i, c := range a.Columns {
		if c.Numeric() {
			x, errX := strconv.ParseInt(a.Values[i], 10, 64)
			y, errY := strconv.ParseInt(b.Values[i], 10, 64)
			if errX == nil && errY == nil {
				switch {
				case x < y:
					return -1
				case x > y:
					return 1
				}
				continue
			}
		}
		if r := strings.Compare(a.Values[i], b.Values[i]); r != 0 {
			return r
		}
	}
	return 0
}
