package criteria

import (
	"fmt"

	"github.com/yyw794/badminton-score/pkg/core/allocator"
)

// EarlyDepartureCriterion keeps players who leave early out of the later rounds.
//
// Validity:
//   - Returns false if the candidate contains an early-departure player and the open
//     round is after lastRound
//   - A lastRound of 0 disables the criterion
//
// Score:
//   - Prefers early-departure players while they are still around, scaled by how
//     close the open round is to their last round
type EarlyDepartureCriterion struct {
	lastRound int
	weight    float64
}

// NewEarlyDepartureCriterion creates a new EarlyDepartureCriterion
func NewEarlyDepartureCriterion(lastRound int, weight float64) *EarlyDepartureCriterion {
	return &EarlyDepartureCriterion{
		lastRound: lastRound,
		weight:    weight,
	}
}

func (c *EarlyDepartureCriterion) Name() string {
	return "EarlyDeparture"
}

func (c *EarlyDepartureCriterion) IsCandidateValid(state *allocator.SchedulerState, candidate *allocator.CandidateMatch) bool {
	if c.lastRound <= 0 || state.Round <= c.lastRound {
		return true
	}
	return c.earlyPlayers(state, candidate) == 0
}

func (c *EarlyDepartureCriterion) ScoreCandidate(state *allocator.SchedulerState, candidate *allocator.CandidateMatch) float64 {
	if c.lastRound <= 0 || state.Round > c.lastRound {
		return 0
	}

	early := c.earlyPlayers(state, candidate)
	if early == 0 {
		return 0
	}

	// Urgency grows from 1/lastRound in round 1 to 1 in the last round they can play
	urgency := float64(state.Round) / float64(c.lastRound)
	return -urgency * float64(early) / 4
}

func (c *EarlyDepartureCriterion) ValidateSchedule(state *allocator.SchedulerState, matches []allocator.ScheduledMatch) []allocator.MatchValidationError {
	if c.lastRound <= 0 {
		return nil
	}

	var errors []allocator.MatchValidationError
	for _, m := range matches {
		if m.Round <= c.lastRound {
			continue
		}
		for _, name := range m.Players() {
			ps, ok := state.Players[name]
			if !ok || !ps.Player.EarlyDeparture {
				continue
			}
			errors = append(errors, allocator.MatchValidationError{
				Round:         m.Round,
				Court:         m.Court,
				CriterionName: c.Name(),
				Description:   fmt.Sprintf("%s leaves after round %d but plays in round %d", name, c.lastRound, m.Round),
			})
		}
	}
	return errors
}

func (c *EarlyDepartureCriterion) Weight() float64 {
	return c.weight
}

func (c *EarlyDepartureCriterion) earlyPlayers(state *allocator.SchedulerState, candidate *allocator.CandidateMatch) int {
	count := 0
	for _, name := range candidate.Players() {
		if ps, ok := state.Players[name]; ok && ps.Player.EarlyDeparture {
			count++
		}
	}
	return count
}
