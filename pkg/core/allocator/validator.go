package allocator

import "fmt"

// CoreCriterionName is reported for violations of the built-in scheduling rules
const CoreCriterionName = "Core"

// ValidateSchedule validates the final schedule against the built-in rules and all provided criteria.
// Returns a slice of validation errors for any constraint violations.
// An empty slice indicates the schedule is valid.
func ValidateSchedule(state *SchedulerState, matches []ScheduledMatch, criteria []Criterion) []MatchValidationError {
	var errors []MatchValidationError

	errors = append(errors, validateRounds(matches, state.CourtCount)...)
	errors = append(errors, validatePlayers(state, matches)...)

	// Run validation for each criterion
	for _, criterion := range criteria {
		criterionErrors := criterion.ValidateSchedule(state, matches)
		errors = append(errors, criterionErrors...)
	}

	return errors
}

// validateRounds checks that nobody plays twice in a round and that only the last round is short
func validateRounds(matches []ScheduledMatch, courtCount int) []MatchValidationError {
	var errors []MatchValidationError

	roundSizes := make(map[int]int)
	roundPlayers := make(map[int]map[string]bool)
	lastRound := 0

	for _, m := range matches {
		roundSizes[m.Round]++
		lastRound = max(lastRound, m.Round)

		if roundPlayers[m.Round] == nil {
			roundPlayers[m.Round] = make(map[string]bool)
		}
		for _, name := range m.Players() {
			if roundPlayers[m.Round][name] {
				errors = append(errors, MatchValidationError{
					Round:         m.Round,
					Court:         m.Court,
					CriterionName: CoreCriterionName,
					Description:   fmt.Sprintf("%s plays more than once in round %d", name, m.Round),
				})
			}
			roundPlayers[m.Round][name] = true
		}
	}

	for round := 1; round < lastRound; round++ {
		if roundSizes[round] != courtCount {
			errors = append(errors, MatchValidationError{
				Round:         round,
				CriterionName: CoreCriterionName,
				Description:   fmt.Sprintf("round %d has %d matches, expected %d", round, roundSizes[round], courtCount),
			})
		}
	}

	return errors
}

// validatePlayers checks max games, fixed quotas and the women's-doubles-only restriction
func validatePlayers(state *SchedulerState, matches []ScheduledMatch) []MatchValidationError {
	var errors []MatchValidationError

	games := make(map[string]int)
	for _, m := range matches {
		for _, name := range m.Players() {
			games[name]++

			ps, ok := state.Players[name]
			if !ok {
				errors = append(errors, MatchValidationError{
					Round:         m.Round,
					Court:         m.Court,
					CriterionName: CoreCriterionName,
					Description:   fmt.Sprintf("%s is not on the roster", name),
				})
				continue
			}
			if !EligibleForType(ps.Player, m.Type) {
				errors = append(errors, MatchValidationError{
					Round:         m.Round,
					Court:         m.Court,
					CriterionName: CoreCriterionName,
					Description:   fmt.Sprintf("%s may only play women's doubles but is scheduled for %s", name, m.Type.DisplayName()),
				})
			}
		}
	}

	for _, name := range state.PlayerOrder {
		ps := state.Players[name]
		if games[name] > state.MaxGamesPerPlayer {
			errors = append(errors, MatchValidationError{
				CriterionName: CoreCriterionName,
				Description:   fmt.Sprintf("%s plays %d games, max is %d", name, games[name], state.MaxGamesPerPlayer),
			})
		}
		if ps.Player.HasQuota() && games[name] > ps.Player.FixedGameQuota {
			errors = append(errors, MatchValidationError{
				CriterionName: CoreCriterionName,
				Description:   fmt.Sprintf("%s plays %d games, quota is %d", name, games[name], ps.Player.FixedGameQuota),
			})
		}
	}

	return errors
}
