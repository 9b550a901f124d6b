package parser

import (
	"github.com/pable/go-pitch-metrics/internal/model"
)

// OffFieldTypes are event types that carry no on-pitch action.
var OffFieldTypes = []string{
	"Starting XI",
	"Half Start",
	"Half End",
	"Substitution",
	"Tactical Shift",
	"Referee Ball-Drop",
	"Injury Stoppage",
}

// FilterPlayEvents drops events whose type name is in offField.
// A nil offField uses OffFieldTypes.
func FilterPlayEvents(events []RawEvent, offField []string) []RawEvent {
	if offField == nil {
		offField = OffFieldTypes
	}
	skip := make(map[string]struct{}, len(offField))
	for _, t := range offField {
		skip[t] = struct{}{}
	}
	out := make([]RawEvent, 0, len(events))
	for _, e := range events {
		if _, ok := skip[e.Type.Name]; ok {
			continue
		}
		out = append(out, e)
	}
	return out
}

// ExtractXY splits a [x, y, ...] location into coordinates. Anything shorter
// than two values gives undefined coordinates.
func ExtractXY(location []float64) (x, y model.Float) {
	if len(location) < 2 {
		return model.Undefined(), model.Undefined()
	}
	return model.Some(location[0]), model.Some(location[1])
}

// LabelPhase is in_possession when the event's team holds the ball.
func LabelPhase(e *RawEvent) model.Phase {
	if e.Team.Name == e.PossessionTeam.Name {
		return model.PhaseInPossession
	}
	return model.PhaseDefending
}

// Preprocess filters non-play events and maps the rest to event rows.
func Preprocess(matchID int64, events []RawEvent) []model.Event {
	play := FilterPlayEvents(events, nil)
	out := make([]model.Event, 0, len(play))
	for i := range play {
		e := &play[i]
		row := model.Event{
			MatchID:    matchID,
			Team:       e.Team.Name,
			Phase:      LabelPhase(e),
			Possession: e.Possession,
		}
		if e.Player != nil {
			row.Player = e.Player.Name
		}
		row.X, row.Y = ExtractXY(e.Location)
		out = append(out, row)
	}
	return out
}
