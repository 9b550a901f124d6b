// Package parser decodes StatsBomb-format match data and turns raw provider
// events into the preprocessed event rows the aggregator consumes.
package parser

import (
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Ref is a provider {id, name} reference.
type Ref struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// RawEvent is one provider event, restricted to the fields the pipeline uses.
type RawEvent struct {
	ID             string    `json:"id"`
	Index          int       `json:"index"`
	Period         int       `json:"period"`
	Timestamp      string    `json:"timestamp"`
	Type           Ref       `json:"type"`
	Possession     int       `json:"possession"`
	PossessionTeam Ref       `json:"possession_team"`
	Team           Ref       `json:"team"`
	Player         *Ref      `json:"player"`
	Location       []float64 `json:"location"`
}

// RawMatch is one entry of a provider match list.
type RawMatch struct {
	MatchID   int64  `json:"match_id"`
	MatchDate string `json:"match_date"`
	HomeTeam  struct {
		Name string `json:"home_team_name"`
	} `json:"home_team"`
	AwayTeam struct {
		Name string `json:"away_team_name"`
	} `json:"away_team"`
	HomeScore   int `json:"home_score"`
	AwayScore   int `json:"away_score"`
	Competition struct {
		ID int `json:"competition_id"`
	} `json:"competition"`
	Season struct {
		ID int `json:"season_id"`
	} `json:"season"`
}

// ParseFile decodes the events JSON file at path.
func ParseFile(path string) ([]RawEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open events: %w", err)
	}
	defer f.Close()
	return ParseEvents(f)
}

// ParseEvents decodes a provider events array. Every event id must be a UUID.
func ParseEvents(r io.Reader) ([]RawEvent, error) {
	var events []RawEvent
	if err := json.NewDecoder(r).Decode(&events); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	for i := range events {
		if _, err := uuid.Parse(events[i].ID); err != nil {
			return nil, fmt.Errorf("event %d: invalid id %q: %w", events[i].Index, events[i].ID, err)
		}
	}
	return events, nil
}

// ParseMatches decodes a provider match list.
func ParseMatches(r io.Reader) ([]RawMatch, error) {
	var matches []RawMatch
	if err := json.NewDecoder(r).Decode(&matches); err != nil {
		return nil, fmt.Errorf("decode matches: %w", err)
	}
	return matches, nil
}
