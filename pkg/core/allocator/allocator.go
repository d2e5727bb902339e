package allocator

import (
	"slices"

	"go.uber.org/zap"
)

// Allocator manages the lineup generation process with configurable criteria
type Allocator struct {
	criteria       []Criterion
	state          *SchedulerState
	weights        ScoringWeights
	priority       []MatchType
	quotaTolerance int
	logger         *zap.Logger
}

// AllocationOutcome represents the result of a lineup generation
type AllocationOutcome struct {
	// State is the final scheduler state after allocation
	State *SchedulerState

	// Matches is the repacked schedule in round-major order
	Matches []ScheduledMatch

	// PlayerGames is the number of matches scheduled for each player (0 for idle players)
	PlayerGames map[string]int

	// PartnerCounts is how often each pair played on the same team
	PartnerCounts map[PairKey]int

	// TypeCounts is the number of matches per type
	TypeCounts map[MatchType]int

	// Requested is the number of matches the run tried to schedule
	Requested int

	// Complete is false when pools ran dry before Requested matches were committed.
	// A short schedule is still a valid schedule.
	Complete bool

	// ValidationErrors contains any validation errors found in the final schedule
	ValidationErrors []MatchValidationError
}

// Rounds returns the number of rounds in the schedule
func (o *AllocationOutcome) Rounds() int {
	if len(o.Matches) == 0 {
		return 0
	}
	return o.Matches[len(o.Matches)-1].Round
}

// Allocate runs the main allocation loop to generate the lineup
func Allocate(config AllocationConfig) (*AllocationOutcome, error) {

	// Initialise allocator
	allocator, err := InitAllocation(config)
	if err != nil {
		return nil, err
	}

	state := allocator.state
	allocator.logger.Debug("Starting allocation",
		zap.Int("players", len(state.Players)),
		zap.Int("requested", state.Requested),
		zap.Int("mixed_pool", len(state.Pools[MixedDoubles])),
		zap.Int("mens_pool", len(state.Pools[MensDoubles])),
		zap.Int("womens_pool", len(state.Pools[WomensDoubles])))

	// Main allocation loop: one iteration per court slot.
	// A round stays open until all its courts are filled. When a slot can't be filled the run
	// ends: closing the round short would leave a short round before the last one, and repacking
	// it full would put a player twice into one round.
	for state.CommittedCount() < state.Requested {
		if state.Round == 0 || state.OpenRoundSize() == state.CourtCount {
			state.openRound()
		}

		if !allocator.fillSlot() {
			allocator.logger.Debug("No legal candidate for open round",
				zap.Int("round", state.Round),
				zap.Int("committed", state.CommittedCount()),
				zap.Bool("pools_exhausted", !allocator.anyPlayableCandidate()))
			break
		}
	}

	// Build outcome report
	return allocator.buildOutcome(), nil
}

// fillSlot commits one match to the open round.
// Types are tried in priority order, first within their target tolerance and then unrestricted.
func (a *Allocator) fillSlot() bool {
	for _, matchType := range a.priority {
		if a.state.TypeCounts[matchType] >= a.state.TypeTargets[matchType]+a.quotaTolerance {
			continue
		}
		if a.commitBest(matchType) {
			return true
		}
	}

	// Relax the tolerance and take any legal candidate
	for _, matchType := range a.priority {
		if a.commitBest(matchType) {
			return true
		}
	}

	return false
}

// commitBest commits the best candidate of the given type, returning false if none is legal
func (a *Allocator) commitBest(matchType MatchType) bool {
	pool := a.state.Pools[matchType]
	idx := BestCandidate(a.state, pool, a.weights, a.criteria)
	if idx < 0 {
		return false
	}

	candidate := pool[idx]
	a.state.Pools[matchType] = slices.Delete(pool, idx, idx+1)
	a.state.commit(candidate)

	a.logger.Debug("Committed match",
		zap.Int("round", a.state.Round),
		zap.String("type", matchType.String()),
		zap.Stringer("team_a", candidate.TeamA),
		zap.Stringer("team_b", candidate.TeamB))

	return true
}

// anyPlayableCandidate checks whether some pool still holds a candidate whose players
// could all play in a new round
func (a *Allocator) anyPlayableCandidate() bool {
	for _, matchType := range AllMatchTypes {
		for _, c := range a.state.Pools[matchType] {
			if canEverPlay(a.state, c) {
				return true
			}
		}
	}
	return false
}

// buildOutcome creates the final allocation outcome report
func (a *Allocator) buildOutcome() *AllocationOutcome {
	state := a.state
	matches := Repack(state.committed, state.CourtCount)

	// Initialize with empty maps and slices (not nil) for easier consumption
	outcome := &AllocationOutcome{
		State:            state,
		Matches:          matches,
		PlayerGames:      make(map[string]int, len(state.Players)),
		PartnerCounts:    make(map[PairKey]int, len(state.PartnerCounts)),
		TypeCounts:       make(map[MatchType]int, len(AllMatchTypes)),
		Requested:        state.Requested,
		ValidationErrors: []MatchValidationError{},
	}

	for name, ps := range state.Players {
		outcome.PlayerGames[name] = ps.Games
	}
	for pair, count := range state.PartnerCounts {
		outcome.PartnerCounts[pair] = count
	}
	for _, matchType := range AllMatchTypes {
		outcome.TypeCounts[matchType] = state.TypeCounts[matchType]
	}

	outcome.Complete = len(matches) == state.Requested

	// Run validation
	outcome.ValidationErrors = append(outcome.ValidationErrors, ValidateSchedule(state, matches, a.criteria)...)

	a.logger.Debug("Allocation finished",
		zap.Int("matches", len(matches)),
		zap.Int("rounds", outcome.Rounds()),
		zap.Bool("complete", outcome.Complete),
		zap.Int("validation_errors", len(outcome.ValidationErrors)))

	return outcome
}
