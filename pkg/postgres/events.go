package postgres

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yyw794/badminton-score/pkg/db"
)

// SaveEvent stores an event with its matches, players and participations in one transaction
func (d *DB) SaveEvent(ctx context.Context, event *db.Event, matches []db.Match, players []db.Player) error {
	// IDs are assigned on copies and only handed back once the transaction commits
	saved := *event
	rows := slices.Clone(matches)
	db.AssignIDs(&saved, rows)

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	playerIDs, err := upsertPlayers(ctx, tx, rows, players)
	if err != nil {
		return err
	}

	var createdAt time.Time
	err = tx.QueryRow(ctx, `
		INSERT INTO events (id, name, event_date, court_count, total_matches)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, saved.ID, saved.Name, saved.Date, saved.CourtCount, saved.TotalMatches).Scan(&createdAt)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	saved.CreatedAt = createdAt.UTC().Format(time.RFC3339)

	for _, m := range rows {
		_, err := tx.Exec(ctx, `
			INSERT INTO matches (id, event_id, match_round, court, match_type,
				team_a1, team_a2, team_b1, team_b2,
				score_a1, score_a2, score_b1, score_b2, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
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
		_, err := tx.Exec(ctx, `
			INSERT INTO participations (id, event_id, player_id, match_id, match_type,
				team, score_team, score_opponent, is_winner)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, p.ID, p.EventID, p.PlayerID, p.MatchID, p.MatchType,
			p.Team, p.ScoreTeam, p.ScoreOpponent, p.IsWinner)
		if err != nil {
			return fmt.Errorf("failed to insert participation: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit event: %w", err)
	}

	*event = saved
	copy(matches, rows)
	return nil
}

// upsertPlayers makes sure every player in matches has a record and returns name -> ID.
// A known gender replaces an empty one but never overwrites a recorded gender.
func upsertPlayers(ctx context.Context, tx pgx.Tx, matches []db.Match, players []db.Player) (map[string]string, error) {
	genders := make(map[string]string, len(players))
	for _, p := range players {
		genders[p.Name] = p.Gender
	}

	ids := make(map[string]string)
	for _, name := range db.MatchPlayers(matches) {
		var id string
		err := tx.QueryRow(ctx, `
			INSERT INTO players (id, name, gender)
			VALUES ($1, $2, $3)
			ON CONFLICT (name) DO UPDATE
				SET gender = CASE WHEN players.gender = '' THEN EXCLUDED.gender ELSE players.gender END
			RETURNING id::text
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
	rows, err := d.pool.Query(ctx, `
		SELECT id::text, name, event_date, court_count, total_matches, created_at
		FROM events
		ORDER BY event_date DESC, created_at DESC
		LIMIT $1
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
	row := d.pool.QueryRow(ctx, `
		SELECT id::text, name, event_date, court_count, total_matches, created_at
		FROM events
		WHERE name = $1 AND event_date = $2
		ORDER BY created_at DESC
		LIMIT 1
	`, name, date)
	e, err := scanEvent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetEventDetails retrieves an event and its matches in round, court order
func (d *DB) GetEventDetails(ctx context.Context, eventID string) (*db.EventDetails, error) {
	if _, err := uuid.Parse(eventID); err != nil {
		return nil, fmt.Errorf("%w: %s", db.ErrEventNotFound, eventID)
	}

	row := d.pool.QueryRow(ctx, `
		SELECT id::text, name, event_date, court_count, total_matches, created_at
		FROM events WHERE id = $1
	`, eventID)
	event, err := scanEvent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", db.ErrEventNotFound, eventID)
	}
	if err != nil {
		return nil, err
	}

	rows, err := d.pool.Query(ctx, `
		SELECT id::text, event_id::text, match_round, court, match_type,
			team_a1, team_a2, team_b1, team_b2,
			score_a1, score_a2, score_b1, score_b2, status
		FROM matches
		WHERE event_id = $1
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
	if _, err := uuid.Parse(eventID); err != nil {
		return fmt.Errorf("%w: %s", db.ErrEventNotFound, eventID)
	}

	tag, err := d.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, eventID)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", db.ErrEventNotFound, eventID)
	}
	return nil
}

func scanEvent(row pgx.Row) (db.Event, error) {
	var e db.Event
	var date, createdAt time.Time
	if err := row.Scan(&e.ID, &e.Name, &date, &e.CourtCount, &e.TotalMatches, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return e, err
		}
		return e, fmt.Errorf("failed to scan event: %w", err)
	}
	e.Date = date.Format("2006-01-02")
	e.CreatedAt = createdAt.UTC().Format(time.RFC3339)
	return e, nil
}
