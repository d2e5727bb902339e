package allocator

import (
	"fmt"
	"strings"
)

// Gender of a rostered player
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

// MatchType identifies the kind of doubles match
type MatchType int

const (
	MensDoubles MatchType = iota
	WomensDoubles
	MixedDoubles
)

// AllMatchTypes lists every match type in a stable order
var AllMatchTypes = []MatchType{MixedDoubles, MensDoubles, WomensDoubles}

// String returns the configuration key for the match type
func (t MatchType) String() string {
	switch t {
	case MensDoubles:
		return "mens"
	case WomensDoubles:
		return "womens"
	case MixedDoubles:
		return "mixed"
	}
	return fmt.Sprintf("MatchType(%d)", int(t))
}

// DisplayName returns the label printed on lineups and stored in the archive
func (t MatchType) DisplayName() string {
	switch t {
	case MensDoubles:
		return "男双"
	case WomensDoubles:
		return "女双"
	case MixedDoubles:
		return "混双"
	}
	return t.String()
}

// ParseMatchType accepts either a configuration key ("mixed") or a display name ("混双")
func ParseMatchType(s string) (MatchType, error) {
	s = strings.TrimSpace(s)
	for _, t := range AllMatchTypes {
		if strings.EqualFold(s, t.String()) || s == t.DisplayName() {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown match type %q", s)
}

// Player is an immutable roster entry for one scheduling run
type Player struct {
	Name                 string
	Gender               Gender
	MixedDoublesEligible bool
	OnlyWomensDoubles    bool

	// FixedGameQuota is the exact number of games the player is entitled to (0 = no quota)
	FixedGameQuota int

	// EarlyDeparture marks players who leave before the session ends
	EarlyDeparture bool
}

// HasQuota returns true if the player is entitled to a fixed number of games
func (p *Player) HasQuota() bool {
	return p.FixedGameQuota > 0
}

// PairKey is an order-independent key for two players
type PairKey struct {
	A string
	B string
}

// NewPairKey returns the normalised key for the two names
func NewPairKey(a, b string) PairKey {
	if b < a {
		a, b = b, a
	}
	return PairKey{A: a, B: b}
}

func (k PairKey) String() string {
	return k.A + "/" + k.B
}

// Team is two players playing on the same side
type Team [2]string

// Key returns the partnership key for the team
func (t Team) Key() PairKey {
	return NewPairKey(t[0], t[1])
}

// Contains reports whether the named player is on the team
func (t Team) Contains(name string) bool {
	return t[0] == name || t[1] == name
}

func (t Team) String() string {
	return t[0] + "/" + t[1]
}

// CandidateMatch is a legally formed, not yet scheduled match.
// The four players are always pairwise distinct.
type CandidateMatch struct {
	Type  MatchType
	TeamA Team
	TeamB Team
}

// Players returns the four players of the match
func (c *CandidateMatch) Players() [4]string {
	return [4]string{c.TeamA[0], c.TeamA[1], c.TeamB[0], c.TeamB[1]}
}

// Teams returns both teams of the match
func (c *CandidateMatch) Teams() [2]Team {
	return [2]Team{c.TeamA, c.TeamB}
}

// Involves reports whether the named player takes part in the match
func (c *CandidateMatch) Involves(name string) bool {
	return c.TeamA.Contains(name) || c.TeamB.Contains(name)
}

// ScheduledMatch is a committed match placed on a round and court
type ScheduledMatch struct {
	Round int
	Court int
	Type  MatchType
	TeamA Team
	TeamB Team
}

// Players returns the four players of the match
func (m ScheduledMatch) Players() [4]string {
	return [4]string{m.TeamA[0], m.TeamA[1], m.TeamB[0], m.TeamB[1]}
}

// Involves reports whether the named player takes part in the match
func (m ScheduledMatch) Involves(name string) bool {
	return m.TeamA.Contains(name) || m.TeamB.Contains(name)
}

// PlayerState tracks a player's progress during a run
type PlayerState struct {
	Player *Player

	// Games is the number of committed matches for this player
	Games int

	// TypeGames counts committed matches per match type
	TypeGames map[MatchType]int
}

// RemainingQuota returns how many games are still owed to a quota player (0 without a quota)
func (ps *PlayerState) RemainingQuota() int {
	if !ps.Player.HasQuota() {
		return 0
	}
	return max(ps.Player.FixedGameQuota-ps.Games, 0)
}

// SchedulerState is the mutable state of a single allocation run.
// It is created by InitAllocation and only changed by committing matches.
type SchedulerState struct {
	// Players keyed by name
	Players map[string]*PlayerState

	// PlayerOrder is the roster order (males first, then females)
	PlayerOrder []string

	// PartnerBonds holds the preference weight of each bonded pair
	PartnerBonds map[PairKey]float64

	// PartnerCounts counts how often each pair has played on the same team
	PartnerCounts map[PairKey]int

	// Pools holds the remaining candidates for each match type
	Pools map[MatchType][]*CandidateMatch

	// TypeCounts counts committed matches per type
	TypeCounts map[MatchType]int

	// TypeTargets is the desired number of matches per type
	TypeTargets map[MatchType]int

	MaxGamesPerPlayer int
	CourtCount        int

	// Requested is the total number of matches the run tries to commit
	Requested int

	// Round is the provisional number of the open round (0 before the first round opens)
	Round int

	// roundPlayers holds everyone already playing in the open round
	roundPlayers map[string]bool
	roundSize    int

	// committed holds every committed candidate in commit order
	committed []*CandidateMatch
}

// CommittedCount returns the number of matches committed so far
func (s *SchedulerState) CommittedCount() int {
	return len(s.committed)
}

// OpenRoundSize returns the number of matches committed to the open round
func (s *SchedulerState) OpenRoundSize() int {
	return s.roundSize
}

// PartnerBond returns the bond weight for the team, or 0 if the pair is not bonded
func (s *SchedulerState) PartnerBond(team Team) float64 {
	return s.PartnerBonds[team.Key()]
}

// openRound starts a new provisional round
func (s *SchedulerState) openRound() {
	s.Round++
	s.roundPlayers = make(map[string]bool)
	s.roundSize = 0
}

// commit records the candidate in the open round and updates all counters
func (s *SchedulerState) commit(c *CandidateMatch) {
	for _, name := range c.Players() {
		ps := s.Players[name]
		ps.Games++
		ps.TypeGames[c.Type]++
		s.roundPlayers[name] = true
	}
	for _, team := range c.Teams() {
		s.PartnerCounts[team.Key()]++
	}
	s.TypeCounts[c.Type]++
	s.roundSize++
	s.committed = append(s.committed, c)
}
