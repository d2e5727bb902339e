package services

import (
	"fmt"
	"regexp"
	"time"

	"github.com/yyw794/badminton-score/internal/config"
	"github.com/yyw794/badminton-score/pkg/db"
	"github.com/yyw794/badminton-score/pkg/export/web"
)

const dateLayout = "2006-01-02"

var eventDatePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// eventDate returns the first valid YYYY-MM-DD in the event name, or today's date
func eventDate(eventName string, today time.Time) string {
	for _, candidate := range eventDatePattern.FindAllString(eventName, -1) {
		if _, err := time.Parse(dateLayout, candidate); err == nil {
			return candidate
		}
	}
	return today.Format(dateLayout)
}

// toDBMatches converts lineup matches to archive records.
// defaultStatus applies to matches without a status.
func toDBMatches(lineup *web.Lineup, defaultStatus string) ([]db.Match, error) {
	matches := make([]db.Match, 0, len(lineup.Matches))
	for _, m := range lineup.Matches {
		if len(m.TeamA) != 2 || len(m.TeamB) != 2 {
			return nil, fmt.Errorf("match %s: each team needs exactly two players", m.ID)
		}
		status := m.Status
		if status == "" {
			status = defaultStatus
		}
		matches = append(matches, db.Match{
			Round:  m.Round,
			Court:  m.Court,
			Type:   m.Type,
			TeamA:  [2]string{m.TeamA[0], m.TeamA[1]},
			TeamB:  [2]string{m.TeamB[0], m.TeamB[1]},
			ScoreA: m.ScoreA,
			ScoreB: m.ScoreB,
			Status: status,
		})
	}
	return matches, nil
}

// directoryPlayers lists the configured players with their genders
func directoryPlayers(cfg *config.Config) []db.Player {
	players := make([]db.Player, 0, len(cfg.Players.Males)+len(cfg.Players.Females))
	for _, name := range cfg.Players.Males {
		players = append(players, db.Player{Name: name, Gender: db.GenderMale})
	}
	for _, name := range cfg.Players.Females {
		players = append(players, db.Player{Name: name, Gender: db.GenderFemale})
	}
	return players
}
