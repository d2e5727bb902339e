// Package web reads and writes the JSON lineup used by the browser scorekeeping page.
package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/yyw794/badminton-score/pkg/core/allocator"
	"github.com/yyw794/badminton-score/pkg/core/stats"
)

// Match statuses written by the scorekeeping page
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusFinished   = "finished"
)

// Lineup is the document loaded by the scorekeeping page
type Lineup struct {
	EventName   string                 `json:"eventName"`
	CourtCount  int                    `json:"courtCount"`
	Matches     []Match                `json:"matches"`
	PlayerStats map[string]PlayerStats `json:"playerStats"`
	ExportTime  string                 `json:"exportTime"`
}

// Match is one match with the two-game score of each team
type Match struct {
	ID     string   `json:"id"`
	Round  int      `json:"round"`
	Court  int      `json:"court"`
	Type   string   `json:"type"`
	TeamA  []string `json:"teamA"`
	TeamB  []string `json:"teamB"`
	ScoreA [2]int   `json:"scoreA"`
	ScoreB [2]int   `json:"scoreB"`
	Status string   `json:"status"`
}

// PlayerStats is the number of scheduled matches per type for one player
type PlayerStats struct {
	Total  int `json:"total"`
	Mens   int `json:"男双"`
	Womens int `json:"女双"`
	Mixed  int `json:"混双"`
}

// TotalA returns team A's points over both games
func (m Match) TotalA() int {
	return m.ScoreA[0] + m.ScoreA[1]
}

// TotalB returns team B's points over both games
func (m Match) TotalB() int {
	return m.ScoreB[0] + m.ScoreB[1]
}

// HasScore returns true once any point has been recorded
func (m Match) HasScore() bool {
	return m.TotalA()+m.TotalB() > 0
}

// FromSchedule builds a fresh lineup with zeroed scores and every match pending
func FromSchedule(eventName string, courtCount int, matches []allocator.ScheduledMatch, summary *stats.Summary, exportTime time.Time) *Lineup {
	lineup := &Lineup{
		EventName:   eventName,
		CourtCount:  courtCount,
		Matches:     make([]Match, 0, len(matches)),
		PlayerStats: make(map[string]PlayerStats),
		ExportTime:  exportTime.Format(time.RFC3339),
	}

	for i, m := range matches {
		lineup.Matches = append(lineup.Matches, Match{
			ID:     fmt.Sprintf("m%d", i+1),
			Round:  m.Round,
			Court:  m.Court,
			Type:   m.Type.DisplayName(),
			TeamA:  []string{m.TeamA[0], m.TeamA[1]},
			TeamB:  []string{m.TeamB[0], m.TeamB[1]},
			Status: StatusPending,
		})
	}

	if summary != nil {
		for _, p := range summary.Players {
			// Idle players are left out, as the page only lists players with matches
			if p.Total == 0 {
				continue
			}
			lineup.PlayerStats[p.Name] = PlayerStats{
				Total:  p.Total,
				Mens:   p.ByType[allocator.MensDoubles],
				Womens: p.ByType[allocator.WomensDoubles],
				Mixed:  p.ByType[allocator.MixedDoubles],
			}
		}
	}

	return lineup
}

// ScheduledMatches converts the lineup back into core records
func (l *Lineup) ScheduledMatches() ([]allocator.ScheduledMatch, error) {
	matches := make([]allocator.ScheduledMatch, 0, len(l.Matches))
	for _, m := range l.Matches {
		matchType, err := allocator.ParseMatchType(m.Type)
		if err != nil {
			return nil, fmt.Errorf("match %s: %w", m.ID, err)
		}
		if len(m.TeamA) != 2 || len(m.TeamB) != 2 {
			return nil, fmt.Errorf("match %s: each team needs exactly two players", m.ID)
		}
		matches = append(matches, allocator.ScheduledMatch{
			Round: m.Round,
			Court: m.Court,
			Type:  matchType,
			TeamA: allocator.Team{m.TeamA[0], m.TeamA[1]},
			TeamB: allocator.Team{m.TeamB[0], m.TeamB[1]},
		})
	}
	return matches, nil
}

// Write encodes the lineup as indented JSON, keeping non-ASCII names readable
func Write(w io.Writer, lineup *Lineup) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(lineup); err != nil {
		return fmt.Errorf("failed to encode lineup: %w", err)
	}
	return nil
}

// Save writes the lineup to path
func Save(path string, lineup *Lineup) error {
	var buf bytes.Buffer
	if err := Write(&buf, lineup); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Read decodes a lineup
func Read(r io.Reader) (*Lineup, error) {
	var lineup Lineup
	if err := json.NewDecoder(r).Decode(&lineup); err != nil {
		return nil, fmt.Errorf("failed to decode lineup: %w", err)
	}
	return &lineup, nil
}

// Load reads a lineup from path
func Load(path string) (*Lineup, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}
