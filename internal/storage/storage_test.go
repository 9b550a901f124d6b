package storage

import (
	"testing"

	"github.com/pable/go-pitch-metrics/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleEvents(matchID int64) []model.Event {
	return []model.Event{
		{MatchID: matchID, Team: "Spain", Phase: model.PhaseInPossession, Possession: 2,
			Player: "Aitana Bonmatí", X: model.Some(60), Y: model.Some(40)},
		{MatchID: matchID, Team: "England", Phase: model.PhaseDefending, Possession: 2,
			Player: "Keira Walsh", X: model.Some(55.5), Y: model.Some(38.25)},
		{MatchID: matchID, Team: "Spain", Phase: model.PhaseInPossession, Possession: 3},
	}
}

func TestMatchInsertAndExists(t *testing.T) {
	db := openMemDB(t)

	m := model.MatchSummary{
		MatchID: 3900001, CompetitionID: 53, SeasonID: 315, MatchDate: "2025-07-27",
		HomeTeam: "England", AwayTeam: "Spain", HomeScore: 1, AwayScore: 1,
	}
	if err := db.InsertMatch(m); err != nil {
		t.Fatalf("InsertMatch: %v", err)
	}

	exists, err := db.MatchExists(3900001)
	if err != nil {
		t.Fatalf("MatchExists: %v", err)
	}
	if !exists {
		t.Error("expected match to exist after insert")
	}

	exists2, _ := db.MatchExists(1)
	if exists2 {
		t.Error("expected unknown match to not exist")
	}
}

func TestEventsRoundTrip(t *testing.T) {
	db := openMemDB(t)

	db.InsertMatch(model.MatchSummary{MatchID: 10, MatchDate: "2025-07-01"})
	if err := db.InsertEvents(10, sampleEvents(10)); err != nil {
		t.Fatalf("InsertEvents: %v", err)
	}

	table, err := db.LoadEvents(10)
	if err != nil {
		t.Fatalf("LoadEvents: %v", err)
	}
	if !table.Schema.Has(model.ColMatchID) {
		t.Error("loaded table should carry match_id")
	}
	if len(table.Events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(table.Events))
	}

	want := sampleEvents(10)
	for i := range want {
		if table.Events[i] != want[i] {
			t.Errorf("event %d: want %+v, got %+v", i, want[i], table.Events[i])
		}
	}
	if table.Events[2].X.Valid || table.Events[2].Player != "" {
		t.Errorf("null columns should load as undefined: %+v", table.Events[2])
	}
}

func TestInsertEventsReplaces(t *testing.T) {
	db := openMemDB(t)

	db.InsertMatch(model.MatchSummary{MatchID: 10})
	db.InsertEvents(10, sampleEvents(10))
	if err := db.InsertEvents(10, sampleEvents(10)[:1]); err != nil {
		t.Fatalf("second InsertEvents: %v", err)
	}

	table, err := db.LoadEvents()
	if err != nil {
		t.Fatalf("LoadEvents: %v", err)
	}
	if len(table.Events) != 1 {
		t.Errorf("expected re-insert to replace events, got %d rows", len(table.Events))
	}
}

func TestLoadEventsFiltersMatches(t *testing.T) {
	db := openMemDB(t)

	for _, id := range []int64{10, 20, 30} {
		db.InsertMatch(model.MatchSummary{MatchID: id})
		db.InsertEvents(id, sampleEvents(id))
	}

	table, err := db.LoadEvents(30, 10)
	if err != nil {
		t.Fatalf("LoadEvents: %v", err)
	}
	if len(table.Events) != 6 {
		t.Fatalf("expected 6 events, got %d", len(table.Events))
	}
	if table.Events[0].MatchID != 10 || table.Events[5].MatchID != 30 {
		t.Errorf("events should be ordered by match: first=%d last=%d",
			table.Events[0].MatchID, table.Events[5].MatchID)
	}

	all, _ := db.LoadEvents()
	if len(all.Events) != 9 {
		t.Errorf("expected 9 events across all matches, got %d", len(all.Events))
	}
}

func TestListMatches(t *testing.T) {
	db := openMemDB(t)

	db.InsertMatch(model.MatchSummary{MatchID: 1, MatchDate: "2025-07-02", HomeTeam: "Italy", AwayTeam: "Spain"})
	db.InsertMatch(model.MatchSummary{MatchID: 2, MatchDate: "2025-07-27", HomeTeam: "England", AwayTeam: "Spain"})
	db.InsertEvents(2, sampleEvents(2))

	list, err := db.ListMatches()
	if err != nil {
		t.Fatalf("ListMatches: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(list))
	}
	// Ordered by match_date DESC, so the final comes first.
	if list[0].MatchID != 2 {
		t.Errorf("expected match 2 first (newest), got %d", list[0].MatchID)
	}
	if list[0].EventCount != 3 || list[1].EventCount != 0 {
		t.Errorf("event counts: got %d and %d", list[0].EventCount, list[1].EventCount)
	}
}

func TestInsertMatchIdempotency(t *testing.T) {
	db := openMemDB(t)

	m := model.MatchSummary{MatchID: 7, MatchDate: "2025-01-01", HomeScore: 0}
	db.InsertMatch(m)
	db.InsertEvents(7, sampleEvents(7))

	m.HomeScore = 2
	if err := db.InsertMatch(m); err != nil {
		t.Errorf("second InsertMatch should succeed (idempotent): %v", err)
	}
	list, _ := db.ListMatches()
	if len(list) != 1 || list[0].HomeScore != 2 {
		t.Errorf("expected updated match row, got %+v", list)
	}
	if list[0].EventCount != 3 {
		t.Errorf("re-inserting a match must keep its events, got %d", list[0].EventCount)
	}
}

func TestQueryRaw(t *testing.T) {
	db := openMemDB(t)

	db.InsertMatch(model.MatchSummary{MatchID: 5})
	db.InsertEvents(5, sampleEvents(5))

	cols, rows, err := db.QueryRaw("SELECT team, player, x FROM events WHERE match_id = 5 ORDER BY seq")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if len(cols) != 3 || cols[0] != "team" {
		t.Errorf("unexpected columns %v", cols)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[2][1] != "NULL" || rows[2][2] != "NULL" {
		t.Errorf("expected NULL rendering, got %v", rows[2])
	}

	if _, _, err := db.QueryRaw("SELECT nope FROM nowhere"); err == nil {
		t.Error("expected error for invalid query")
	}
}
