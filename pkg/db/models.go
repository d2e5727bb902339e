package db

// Match statuses
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusFinished   = "finished"
)

// Gender codes stored on player records
const (
	GenderMale   = "M"
	GenderFemale = "F"
)

// Event represents an archived session
type Event struct {
	ID           string
	Name         string
	Date         string // 2006-01-02
	CourtCount   int
	TotalMatches int
	CreatedAt    string // RFC3339
}

// Match represents one archived match. Type holds the display name (男双, 女双, 混双).
type Match struct {
	ID      string
	EventID string
	Round   int
	Court   int
	Type    string
	TeamA   [2]string
	TeamB   [2]string
	ScoreA  [2]int
	ScoreB  [2]int
	Status  string
}

// TotalA returns team A's points over both games
func (m Match) TotalA() int {
	return m.ScoreA[0] + m.ScoreA[1]
}

// TotalB returns team B's points over both games
func (m Match) TotalB() int {
	return m.ScoreB[0] + m.ScoreB[1]
}

// Player represents a player known to the archive
type Player struct {
	ID     string
	Name   string
	Gender string
}

// Participation records one player's part in one match
type Participation struct {
	ID            string
	EventID       string
	PlayerID      string
	MatchID       string
	MatchType     string
	Team          string // "A" or "B"
	ScoreTeam     int
	ScoreOpponent int
	IsWinner      bool
}

// EventDetails is an event together with its matches in round, court order
type EventDetails struct {
	Event   Event
	Matches []Match
}

// PlayerStats aggregates a player's participations across every archived event
type PlayerStats struct {
	Name    string
	Gender  string
	Events  int
	Matches int
	Wins    int
	Mixed   int
	Mens    int
	Womens  int
}

// WinRate returns wins as a fraction of matches, or 0 with no matches
func (s PlayerStats) WinRate() float64 {
	if s.Matches == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Matches)
}
