package cmd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-pitch-metrics/internal/model"
	"github.com/pable/go-pitch-metrics/internal/statsbomb"
	"github.com/pable/go-pitch-metrics/internal/storage"
)

const matchListJSON = `[
  {"match_id": 101, "match_date": "2025-07-27",
   "home_team": {"home_team_name": "England"}, "away_team": {"away_team_name": "Spain"},
   "home_score": 1, "away_score": 1},
  {"match_id": 102, "match_date": "2025-07-23",
   "home_team": {"home_team_name": "Germany"}, "away_team": {"away_team_name": "Spain"},
   "home_score": 0, "away_score": 1}
]`

const matchEventsJSON = `[
  {"id": "2b0c1f3e-7d4a-4e38-8a55-0c9f1d2e3a01", "index": 1, "type": {"id": 35, "name": "Starting XI"},
   "possession": 1, "possession_team": {"id": 1, "name": "Spain"}, "team": {"id": 1, "name": "Spain"}},
  {"id": "2b0c1f3e-7d4a-4e38-8a55-0c9f1d2e3a02", "index": 2, "type": {"id": 30, "name": "Pass"},
   "possession": 2, "possession_team": {"id": 1, "name": "Spain"}, "team": {"id": 1, "name": "Spain"},
   "player": {"id": 10, "name": "Aitana Bonmatí"}, "location": [60.0, 40.0]},
  {"id": "2b0c1f3e-7d4a-4e38-8a55-0c9f1d2e3a03", "index": 3, "type": {"id": 22, "name": "Pressure"},
   "possession": 2, "possession_team": {"id": 1, "name": "Spain"}, "team": {"id": 2, "name": "England"},
   "player": {"id": 20, "name": "Keira Walsh"}, "location": [55.5, 38.25]}
]`

// openMemDB mirrors the storage tests' in-memory helper.
func openMemDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// providerServer serves the match list and the events of match 101 only.
func providerServer(t *testing.T, eventHits *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/matches/53/315.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(matchListJSON))
	})
	mux.HandleFunc("/events/", func(w http.ResponseWriter, r *http.Request) {
		eventHits.Add(1)
		if r.URL.Path != "/events/101.json" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(matchEventsJSON))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestDoFetch(t *testing.T) {
	var hits atomic.Int32
	srv := providerServer(t, &hits)
	client := statsbomb.NewClient(srv.URL, statsbomb.WithRateLimit(0))
	db := openMemDB(t)
	ctx := context.Background()

	// 102 has no events file: it is skipped, 101 is stored.
	require.NoError(t, doFetch(ctx, client, db, 53, 315, nil, false))
	assert.Equal(t, int32(2), hits.Load())

	matches, err := db.ListMatches()
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, int64(101), matches[0].MatchID)
	assert.Equal(t, "England", matches[0].HomeTeam)
	assert.Equal(t, 2, matches[0].EventCount)

	table, err := db.LoadEvents(101)
	require.NoError(t, err)
	require.Len(t, table.Events, 2)
	assert.Equal(t, model.PhaseDefending, table.Events[1].Phase)

	// Stored matches are not downloaded again.
	require.NoError(t, doFetch(ctx, client, db, 53, 315, []int64{101}, false))
	assert.Equal(t, int32(2), hits.Load())

	require.NoError(t, doFetch(ctx, client, db, 53, 315, []int64{101}, true))
	assert.Equal(t, int32(3), hits.Load())
}

func TestDoFetch_NothingLoaded(t *testing.T) {
	var hits atomic.Int32
	srv := providerServer(t, &hits)
	client := statsbomb.NewClient(srv.URL, statsbomb.WithRateLimit(0))
	db := openMemDB(t)

	err := doFetch(context.Background(), client, db, 53, 315, []int64{102}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no events could be loaded")

	err = doFetch(context.Background(), client, db, 1, 1, nil, false)
	assert.ErrorIs(t, err, statsbomb.ErrNotFound)
}

func TestBuildExport(t *testing.T) {
	key := model.GroupKey{
		Columns: []model.Column{model.ColTeam, model.ColPhase},
		Values:  []string{"Spain", "defending"},
	}
	out := buildExport(
		[]model.CompactnessRecord{{Key: key, XStd: model.Some(3), YStd: model.Undefined(),
			PlayersInvolved: 4, EventCount: 9, CompactnessRadius: model.Undefined()}},
		[]model.SpaceControlRecord{{Key: key, Points: 2, SpaceControl: model.Undefined()}},
		[]model.TeamSummary{{Team: "Spain", AvgRadius: model.Some(5.5), Groups: 1}},
	)

	require.Len(t, out.Compactness, 1)
	assert.Equal(t, map[string]string{"team": "Spain", "phase": "defending"}, out.Compactness[0].Group)
	require.NotNil(t, out.Compactness[0].XStd)
	assert.Equal(t, 3.0, *out.Compactness[0].XStd)
	assert.Nil(t, out.Compactness[0].YStd)
	assert.Nil(t, out.Compactness[0].CompactnessRadius)

	require.Len(t, out.SpaceControl, 1)
	assert.Nil(t, out.SpaceControl[0].SpaceControl)

	require.Len(t, out.Teams, 1)
	assert.Equal(t, 5.5, *out.Teams[0].AvgRadius)
	assert.Nil(t, out.Teams[0].StdRadius)
}

func TestParseMatchIDs(t *testing.T) {
	ids, err := parseMatchIDs([]string{"101", "102"})
	require.NoError(t, err)
	assert.Equal(t, []int64{101, 102}, ids)

	ids, err = parseMatchIDs(nil)
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = parseMatchIDs([]string{"abc"})
	assert.Error(t, err)
}

func TestGroupColumns(t *testing.T) {
	cols, err := groupColumns([]string{"team"}, []string{"team", "phase"})
	require.NoError(t, err)
	assert.Equal(t, []model.Column{model.ColTeam}, cols)

	cols, err = groupColumns(nil, []string{"team", "phase"})
	require.NoError(t, err)
	assert.Equal(t, []model.Column{model.ColTeam, model.ColPhase}, cols)

	_, err = groupColumns([]string{"minute"}, nil)
	assert.ErrorIs(t, err, model.ErrUnknownColumn)
}
