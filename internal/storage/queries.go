package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/pable/go-pitch-metrics/internal/model"
)

// MatchExists returns true if a match with the given id is already stored.
func (db *DB) MatchExists(matchID int64) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM matches WHERE match_id = ?", matchID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertMatch inserts or updates a match record. Stored events are kept.
func (db *DB) InsertMatch(m model.MatchSummary) error {
	_, err := db.conn.Exec(`
		INSERT INTO matches(match_id, competition_id, season_id, match_date, home_team, away_team, home_score, away_score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(match_id) DO UPDATE SET
			competition_id = excluded.competition_id,
			season_id      = excluded.season_id,
			match_date     = excluded.match_date,
			home_team      = excluded.home_team,
			away_team      = excluded.away_team,
			home_score     = excluded.home_score,
			away_score     = excluded.away_score`,
		m.MatchID, m.CompetitionID, m.SeasonID, m.MatchDate,
		m.HomeTeam, m.AwayTeam, m.HomeScore, m.AwayScore,
	)
	return err
}

// InsertEvents replaces the stored events of a match in a transaction.
func (db *DB) InsertEvents(matchID int64, events []model.Event) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM events WHERE match_id = ?", matchID); err != nil {
		return fmt.Errorf("clear events for %d: %w", matchID, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO events(match_id, seq, team, phase, possession, player, x, y)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, e := range events {
		var player any
		if e.Player != "" {
			player = e.Player
		}
		_, err = stmt.Exec(matchID, i, e.Team, string(e.Phase), e.Possession, player,
			e.X.Nullable(), e.Y.Nullable())
		if err != nil {
			return fmt.Errorf("insert event %d of match %d: %w", i, matchID, err)
		}
	}
	return tx.Commit()
}

// ListMatches returns all stored matches ordered by match_date desc.
func (db *DB) ListMatches() ([]model.MatchSummary, error) {
	rows, err := db.conn.Query(`
		SELECT m.match_id, m.competition_id, m.season_id, m.match_date,
		       m.home_team, m.away_team, m.home_score, m.away_score,
		       COUNT(e.seq)
		FROM matches m LEFT JOIN events e ON e.match_id = m.match_id
		GROUP BY m.match_id
		ORDER BY m.match_date DESC, m.match_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchSummary
	for rows.Next() {
		var s model.MatchSummary
		if err := rows.Scan(&s.MatchID, &s.CompetitionID, &s.SeasonID, &s.MatchDate,
			&s.HomeTeam, &s.AwayTeam, &s.HomeScore, &s.AwayScore, &s.EventCount); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// LoadEvents returns the stored events of the given matches (all matches when
// none are given) as a table carrying the full event schema.
func (db *DB) LoadEvents(matchIDs ...int64) (*model.Table, error) {
	query := `SELECT match_id, team, phase, possession, player, x, y FROM events`
	args := make([]any, len(matchIDs))
	for i, id := range matchIDs {
		args[i] = id
	}
	if len(matchIDs) > 0 {
		query += " WHERE match_id IN (" + placeholders(len(matchIDs)) + ")"
	}
	query += " ORDER BY match_id, seq"

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var (
			e      model.Event
			phase  string
			player sql.NullString
		)
		if err := rows.Scan(&e.MatchID, &e.Team, &phase, &e.Possession, &player, &e.X, &e.Y); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Phase = model.Phase(phase)
		e.Player = player.String
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return model.NewTable(events), nil
}

// QueryRaw runs an arbitrary query and returns column names and stringified rows.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch v := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(v)
			default:
				row[i] = fmt.Sprint(v)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

// placeholders returns a comma-separated string of n "?" for SQL IN clauses,
// e.g. placeholders(3) → "?,?,?".
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}
