package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/yyw794/badminton-score/pkg/db"
)

const eventColumns = `id, name, event_date, court_count, total_matches, created_at`

// SaveEvent stores an event with its matches, players and participations in one transaction
func (d *DB) SaveEvent(ctx context.Context, event *db.Event, matches []db.Match, players []db.Player) error {
	// IDs are assigned on copies and only handed back once the transaction commits
	saved := *event
	rows := slices.Clone(matches)
	db.AssignIDs(&saved, rows)
	if saved.CreatedAt == "" {
		saved.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	playerIDs, err := upsertPlayers(ctx, tx, rows, players)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO events (`+eventColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
	`, saved.ID, saved.Name, saved.Date, saved.CourtCount, saved.TotalMatches, saved.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	for _, m := range rows {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO matches (id, event_id, match_round, court, match_type,
				team_a1, team_a2, team_b1, team_b2,
				score_a1, score_a2, score_b1, score_b2, status)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, m.ID, m.EventID, m.Round, m.Court, m.Type,
			m.TeamA[0], m.TeamA[1], m.TeamB[0], m.TeamB[1],
			m.ScoreA[0], m.ScoreA[1], m.ScoreB[0], m.ScoreB[1], m.Status)
		if err != nil {
			return fmt.Errorf("failed to insert match %d/%d: %w", m.Round, m.Court, err)
		}
	}

	participations, err := db.Participations(rows, playerIDs)
	if err != nil {
		return err
	}
	for _, p := range participations {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO participations (id, event_id, player_id, match_id, match_type,
				team, score_team, score_opponent, is_winner)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, p.ID, p.EventID, p.PlayerID, p.MatchID, p.MatchType,
			p.Team, p.ScoreTeam, p.ScoreOpponent, p.IsWinner)
		if err != nil {
			return fmt.Errorf("failed to insert participation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit event: %w", err)
	}

	*event = saved
	copy(matches, rows)
	return nil
}

// upsertPlayers makes sure every player in matches has a record and returns name -> ID.
// A known gender replaces an empty one but never overwrites a recorded gender.
func upsertPlayers(ctx context.Context, tx *sql.Tx, matches []db.Match, players []db.Player) (map[string]string, error) {
	genders := make(map[string]string, len(players))
	for _, p := range players {
		genders[p.Name] = p.Gender
	}

	ids := make(map[string]string)
	for _, name := range db.MatchPlayers(matches) {
		var id string
		err := tx.QueryRowContext(ctx, `
			INSERT INTO players (id, name, gender)
			VALUES (?, ?, ?)
			ON CONFLICT (name) DO UPDATE
				SET gender = CASE WHEN players.gender = '' THEN excluded.gender ELSE players.gender END
			RETURNING id
		`, uuid.New().String(), name, genders[name]).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("failed to upsert player %s: %w", name, err)
		}
		ids[name] = id
	}
	return ids, nil
}

// GetEvents retrieves the most recent events, newest first
func (d *DB) GetEvents(ctx context.Context, limit int) ([]db.Event, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT `+eventColumns+`
		FROM events
		ORDER BY event_date DESC, created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []db.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

// FindEvent retrieves the newest event with the given name and date, or nil
func (d *DB) FindEvent(ctx context.Context, name, date string) (*db.Event, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE name = ? AND event_date = ?
		ORDER BY created_at DESC
		LIMIT 1
	`, name, date)
	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetEventDetails retrieves an event and its matches in round, court order
func (d *DB) GetEventDetails(ctx context.Context, eventID string) (*db.EventDetails, error) {
	row := d.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, eventID)
	event, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", db.ErrEventNotFound, eventID)
	}
	if err != nil {
		return nil, err
	}

	rows, err := d.db.QueryContext(ctx, `
		SELECT id, event_id, match_round, court, match_type,
			team_a1, team_a2, team_b1, team_b2,
			score_a1, score_a2, score_b1, score_b2, status
		FROM matches
		WHERE event_id = ?
		ORDER BY match_round, court
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	details := &db.EventDetails{Event: event}
	for rows.Next() {
		var m db.Match
		if err := rows.Scan(&m.ID, &m.EventID, &m.Round, &m.Court, &m.Type,
			&m.TeamA[0], &m.TeamA[1], &m.TeamB[0], &m.TeamB[1],
			&m.ScoreA[0], &m.ScoreA[1], &m.ScoreB[0], &m.ScoreB[1], &m.Status); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		details.Matches = append(details.Matches, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating matches: %w", err)
	}

	return details, nil
}

// DeleteEvent removes an event together with its matches and participations
func (d *DB) DeleteEvent(ctx context.Context, eventID string) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, eventID)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", db.ErrEventNotFound, eventID)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (db.Event, error) {
	var e db.Event
	if err := row.Scan(&e.ID, &e.Name, &e.Date, &e.CourtCount, &e.TotalMatches, &e.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return e, err
		}
		return e, fmt.Errorf("failed to scan event: %w", err)
	}
	return e, nil
}
