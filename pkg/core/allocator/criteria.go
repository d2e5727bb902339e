package allocator

// MatchValidationError represents a validation error for a scheduled match or player
type MatchValidationError struct {
	// Round and Court are 0 when the error concerns a player rather than one match
	Round         int
	Court         int
	CriterionName string
	Description   string
}

// Criterion defines the interface for custom scheduling criteria
// Criteria can veto candidates, adjust their scores and check the final schedule
type Criterion interface {
	// Name returns a human-readable identifier for this criterion
	Name() string

	// IsCandidateValid determines if a candidate may be committed to the open round
	// This acts as a veto - if ANY criterion returns false, the candidate is skipped
	IsCandidateValid(state *SchedulerState, candidate *CandidateMatch) bool

	// ScoreCandidate returns an adjustment between -1.0 and 1.0 that will be multiplied by the criterion's weight
	// and added to the candidate's score. Lower scores are preferred.
	// Return 0 if this criterion doesn't affect candidate selection
	ScoreCandidate(state *SchedulerState, candidate *CandidateMatch) float64

	// ValidateSchedule checks the final, repacked schedule
	// Returns a slice of validation errors (empty if all valid)
	ValidateSchedule(state *SchedulerState, matches []ScheduledMatch) []MatchValidationError

	// Weight returns the weight for score adjustments
	Weight() float64
}
