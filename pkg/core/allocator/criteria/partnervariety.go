package criteria

import (
	"fmt"

	"github.com/yyw794/badminton-score/pkg/core/allocator"
)

// PartnerVarietyCriterion spreads partnerships so players don't keep the same partner all session.
//
// Score:
//   - Penalises each team whose players have already partnered, unless the pair is bonded
//   - A team that has partnered n times contributes n/(n+1), so the penalty grows
//     with every repeat but never exceeds 1
//
// Validation:
//   - Reports any non-bonded pair that partnered more than maxRepeats times (0 disables)
type PartnerVarietyCriterion struct {
	weight     float64
	maxRepeats int
}

// NewPartnerVarietyCriterion creates a new PartnerVarietyCriterion
func NewPartnerVarietyCriterion(weight float64, maxRepeats int) *PartnerVarietyCriterion {
	return &PartnerVarietyCriterion{
		weight:     weight,
		maxRepeats: maxRepeats,
	}
}

func (c *PartnerVarietyCriterion) Name() string {
	return "PartnerVariety"
}

func (c *PartnerVarietyCriterion) IsCandidateValid(state *allocator.SchedulerState, candidate *allocator.CandidateMatch) bool {
	// No validity constraints for this criterion
	return true
}

func (c *PartnerVarietyCriterion) ScoreCandidate(state *allocator.SchedulerState, candidate *allocator.CandidateMatch) float64 {
	var score float64
	for _, team := range candidate.Teams() {
		if state.PartnerBond(team) > 0 {
			continue
		}
		n := float64(state.PartnerCounts[team.Key()])
		score += n / (n + 1)
	}
	return score / 2
}

func (c *PartnerVarietyCriterion) ValidateSchedule(state *allocator.SchedulerState, matches []allocator.ScheduledMatch) []allocator.MatchValidationError {
	if c.maxRepeats <= 0 {
		return nil
	}

	counts := make(map[allocator.PairKey]int)
	var order []allocator.PairKey
	for _, m := range matches {
		for _, team := range []allocator.Team{m.TeamA, m.TeamB} {
			key := team.Key()
			if _, bonded := state.PartnerBonds[key]; bonded {
				continue
			}
			if counts[key] == 0 {
				order = append(order, key)
			}
			counts[key]++
		}
	}

	var errors []allocator.MatchValidationError
	for _, key := range order {
		if counts[key] > c.maxRepeats {
			errors = append(errors, allocator.MatchValidationError{
				CriterionName: c.Name(),
				Description:   fmt.Sprintf("%s partnered %d times (max %d)", key, counts[key], c.maxRepeats),
			})
		}
	}
	return errors
}

func (c *PartnerVarietyCriterion) Weight() float64 {
	return c.weight
}
