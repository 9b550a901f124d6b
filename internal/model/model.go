package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Phase is the possession state of an event relative to the event's team.
type Phase string

const (
	PhaseInPossession Phase = "in_possession"
	PhaseDefending    Phase = "defending"
)

// Valid reports whether p is one of the two known phases.
func (p Phase) Valid() bool {
	return p == PhaseInPossession || p == PhaseDefending
}

// Column identifies a field of the event table.
type Column int

const (
	ColMatchID Column = iota
	ColTeam
	ColPhase
	ColPossession
	ColPlayer
	ColX
	ColY
)

var columnNames = [...]string{
	ColMatchID:    "match_id",
	ColTeam:       "team",
	ColPhase:      "phase",
	ColPossession: "possession",
	ColPlayer:     "player",
	ColX:          "x",
	ColY:          "y",
}

func (c Column) String() string {
	if c < 0 || int(c) >= len(columnNames) {
		return "column(" + strconv.Itoa(int(c)) + ")"
	}
	return columnNames[c]
}

// Numeric reports whether the column's key values order numerically.
func (c Column) Numeric() bool {
	return c == ColMatchID || c == ColPossession
}

var (
	// ErrUnknownColumn is returned when a column name does not name an event field.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrMissingColumn is returned when a required column is absent from a table.
	ErrMissingColumn = errors.New("missing column")
)

// ParseColumn maps a column name to its Column.
func ParseColumn(name string) (Column, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, cn := range columnNames {
		if cn == n {
			return Column(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
}

// ParseColumns maps a list of names, preserving order. A nil or empty list yields nil.
func ParseColumns(names []string) ([]Column, error) {
	if len(names) == 0 {
		return nil, nil
	}
	cols := make([]Column, 0, len(names))
	for _, n := range names {
		c, err := ParseColumn(n)
		if err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return cols, nil
}

// ColumnNames renders columns back to their names.
func ColumnNames(cols []Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.String()
	}
	return out
}

// Schema is the set of columns a table carries.
type Schema struct {
	cols []Column
}

// NewSchema builds a schema from the given columns, dropping duplicates.
func NewSchema(cols ...Column) Schema {
	var s Schema
	for _, c := range cols {
		if !s.Has(c) {
			s.cols = append(s.cols, c)
		}
	}
	return s
}

// EventSchema is the full preprocessed event schema, match_id included.
func EventSchema() Schema {
	return NewSchema(ColMatchID, ColTeam, ColPhase, ColPossession, ColPlayer, ColX, ColY)
}

// Has reports whether c is part of the schema.
func (s Schema) Has(c Column) bool {
	for _, sc := range s.cols {
		if sc == c {
			return true
		}
	}
	return false
}

// Columns returns the schema's columns in declaration order.
func (s Schema) Columns() []Column {
	return append([]Column(nil), s.cols...)
}

// Without returns a copy of s with the given columns removed.
func (s Schema) Without(drop ...Column) Schema {
	var out Schema
	for _, c := range s.cols {
		keep := true
		for _, d := range drop {
			if c == d {
				keep = false
				break
			}
		}
		if keep {
			out.cols = append(out.cols, c)
		}
	}
	return out
}

// Require returns ErrMissingColumn naming the first absent column.
func (s Schema) Require(cols ...Column) error {
	for _, c := range cols {
		if !s.Has(c) {
			return fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}
	return nil
}

// Event is one preprocessed match event.
type Event struct {
	MatchID    int64
	Team       string
	Phase      Phase
	Possession int
	Player     string // "" if none
	X, Y       Float
}

// Value returns the event's value for c rendered as a group key component.
func (e *Event) Value(c Column) string {
	switch c {
	case ColMatchID:
		return strconv.FormatInt(e.MatchID, 10)
	case ColTeam:
		return e.Team
	case ColPhase:
		return string(e.Phase)
	case ColPossession:
		return strconv.Itoa(e.Possession)
	case ColPlayer:
		return e.Player
	case ColX:
		return e.X.String()
	case ColY:
		return e.Y.String()
	}
	return ""
}

// Table is an in-memory event table together with the columns it carries.
type Table struct {
	Schema Schema
	Events []Event
}

// NewTable returns a table with the full event schema.
func NewTable(events []Event) *Table {
	return &Table{Schema: EventSchema(), Events: events}
}

// GroupKey is the ordered tuple of column values identifying a group.
type GroupKey struct {
	Columns []Column
	Values  []string
}

// Get returns the key's value for c.
func (k GroupKey) Get(c Column) (string, bool) {
	for i, kc := range k.Columns {
		if kc == c {
			return k.Values[i], true
		}
	}
	return "", false
}

func (k GroupKey) String() string {
	parts := make([]string, len(k.Columns))
	for i, c := range k.Columns {
		parts[i] = c.String() + "=" + k.Values[i]
	}
	return strings.Join(parts, ",")
}

// ---- Result records ----

// CompactnessRecord holds the dispersion aggregates of one group.
type CompactnessRecord struct {
	Key               GroupKey
	XMean, YMean      Float
	XStd, YStd        Float // sample std, undefined below 2 observations
	PlayersInvolved   int
	EventCount        int
	CompactnessRadius Float // sqrt(XStd² + YStd²)
}

// SpaceControlRecord holds the convex hull area of one group.
type SpaceControlRecord struct {
	Key          GroupKey
	Points       int
	SpaceControl Float
}

// TeamSummary is one team's reduction of cleaned compactness records.
// All values are rounded to 2 decimal places.
type TeamSummary struct {
	Team       string
	AvgRadius  Float
	StdRadius  Float
	AvgXStd    Float
	AvgYStd    Float
	AvgPlayers Float
	Groups     int
}

// MatchSummary is a lightweight record for the list command.
type MatchSummary struct {
	MatchID       int64
	CompetitionID int
	SeasonID      int
	MatchDate     string
	HomeTeam      string
	AwayTeam      string
	HomeScore     int
	AwayScore     int
	EventCount    int
}
