package sqlite

import (
	"context"
	"fmt"

	"github.com/yyw794/badminton-score/pkg/db"
)

const playerStatsQuery = `
	SELECT p.name, p.gender,
		COUNT(DISTINCT pa.event_id),
		COUNT(pa.id),
		COALESCE(SUM(pa.is_winner), 0),
		COALESCE(SUM(CASE WHEN pa.match_type = '混双' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN pa.match_type = '男双' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN pa.match_type = '女双' THEN 1 ELSE 0 END), 0)
	FROM players p
	LEFT JOIN participations pa ON pa.player_id = p.id
	WHERE ?1 = '' OR p.name = ?1
	GROUP BY p.id, p.name, p.gender
	ORDER BY COUNT(pa.id) DESC, p.name
`

// GetPlayerStats aggregates participations per player; an empty name returns every player
func (d *DB) GetPlayerStats(ctx context.Context, name string) ([]db.PlayerStats, error) {
	rows, err := d.db.QueryContext(ctx, playerStatsQuery, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query player stats: %w", err)
	}
	defer rows.Close()

	var stats []db.PlayerStats
	for rows.Next() {
		var s db.PlayerStats
		if err := rows.Scan(&s.Name, &s.Gender, &s.Events, &s.Matches, &s.Wins, &s.Mixed, &s.Mens, &s.Womens); err != nil {
			return nil, fmt.Errorf("failed to scan player stats: %w", err)
		}
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating player stats: %w", err)
	}

	return stats, nil
}
