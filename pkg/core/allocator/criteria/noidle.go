package criteria

import (
	"fmt"

	"github.com/yyw794/badminton-score/pkg/core/allocator"
)

// NoIdlePlayersCriterion reports players who signed up but were never scheduled.
// It has no effect on selection; it only validates the final schedule.
type NoIdlePlayersCriterion struct{}

// NewNoIdlePlayersCriterion creates a new NoIdlePlayersCriterion
func NewNoIdlePlayersCriterion() *NoIdlePlayersCriterion {
	return &NoIdlePlayersCriterion{}
}

func (c *NoIdlePlayersCriterion) Name() string {
	return "NoIdlePlayers"
}

func (c *NoIdlePlayersCriterion) IsCandidateValid(state *allocator.SchedulerState, candidate *allocator.CandidateMatch) bool {
	return true
}

func (c *NoIdlePlayersCriterion) ScoreCandidate(state *allocator.SchedulerState, candidate *allocator.CandidateMatch) float64 {
	return 0
}

func (c *NoIdlePlayersCriterion) ValidateSchedule(state *allocator.SchedulerState, matches []allocator.ScheduledMatch) []allocator.MatchValidationError {
	if len(matches) == 0 {
		return nil
	}

	played := make(map[string]bool)
	for _, m := range matches {
		for _, name := range m.Players() {
			played[name] = true
		}
	}

	var errors []allocator.MatchValidationError
	for _, name := range state.PlayerOrder {
		if !played[name] {
			errors = append(errors, allocator.MatchValidationError{
				CriterionName: c.Name(),
				Description:   fmt.Sprintf("%s is not scheduled for any match", name),
			})
		}
	}
	return errors
}

func (c *NoIdlePlayersCriterion) Weight() float64 {
	return 0
}
