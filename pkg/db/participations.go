package db

import (
	"fmt"

	"github.com/google/uuid"
)

// Team labels used on participation records
const (
	TeamA = "A"
	TeamB = "B"
)

// AssignIDs fills in missing event and match IDs and points every match at the event
func AssignIDs(event *Event, matches []Match) {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	for i := range matches {
		if matches[i].ID == "" {
			matches[i].ID = uuid.New().String()
		}
		matches[i].EventID = event.ID
		if matches[i].Status == "" {
			matches[i].Status = StatusPending
		}
	}
	event.TotalMatches = len(matches)
}

// Participations derives one record per player per match. A team wins when its
// total over both games is strictly higher; a tie or an unplayed match has no winner.
// playerIDs maps names to player IDs and must cover every player in matches.
func Participations(matches []Match, playerIDs map[string]string) ([]Participation, error) {
	var out []Participation
	for _, m := range matches {
		totalA, totalB := m.TotalA(), m.TotalB()
		sides := []struct {
			team    string
			players [2]string
			own     int
			other   int
		}{
			{TeamA, m.TeamA, totalA, totalB},
			{TeamB, m.TeamB, totalB, totalA},
		}
		for _, side := range sides {
			for _, name := range side.players {
				playerID, ok := playerIDs[name]
				if !ok {
					return nil, fmt.Errorf("match %s: no player record for %s", m.ID, name)
				}
				out = append(out, Participation{
					ID:            uuid.New().String(),
					EventID:       m.EventID,
					PlayerID:      playerID,
					MatchID:       m.ID,
					MatchType:     m.Type,
					Team:          side.team,
					ScoreTeam:     side.own,
					ScoreOpponent: side.other,
					IsWinner:      side.own > side.other,
				})
			}
		}
	}
	return out, nil
}

// MatchPlayers returns the distinct player names across matches in first-seen order
func MatchPlayers(matches []Match) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range matches {
		for _, name := range []string{m.TeamA[0], m.TeamA[1], m.TeamB[0], m.TeamB[1]} {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}
