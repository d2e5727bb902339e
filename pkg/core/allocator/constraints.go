package allocator

// EligibleForType returns false if the player may not play the given match type
func EligibleForType(p *Player, matchType MatchType) bool {
	if p.OnlyWomensDoubles && matchType != WomensDoubles {
		return false
	}
	return true
}

// HasCapacity returns false once a player has reached max games or their fixed quota
func HasCapacity(state *SchedulerState, name string) bool {
	ps, ok := state.Players[name]
	if !ok {
		return false
	}
	if ps.Games >= state.MaxGamesPerPlayer {
		return false
	}
	if ps.Player.HasQuota() && ps.Games >= ps.Player.FixedGameQuota {
		return false
	}
	return true
}

// InOpenRound returns true if the player already plays in the open round
func InOpenRound(state *SchedulerState, name string) bool {
	return state.roundPlayers[name]
}

// LegalInRound returns true if every player of the candidate can be added to the open round
func LegalInRound(state *SchedulerState, c *CandidateMatch) bool {
	for _, name := range c.Players() {
		if InOpenRound(state, name) {
			return false
		}
		if !HasCapacity(state, name) {
			return false
		}
		if !EligibleForType(state.Players[name].Player, c.Type) {
			return false
		}
	}
	return true
}

// IsCandidateLegal combines the built-in round rules with every criterion's veto
func IsCandidateLegal(state *SchedulerState, c *CandidateMatch, criteria []Criterion) bool {
	if !LegalInRound(state, c) {
		return false
	}
	for _, criterion := range criteria {
		if !criterion.IsCandidateValid(state, c) {
			return false
		}
	}
	return true
}

// canEverPlay returns true if every player of the candidate still has capacity and eligibility,
// ignoring who already plays in the open round
func canEverPlay(state *SchedulerState, c *CandidateMatch) bool {
	for _, name := range c.Players() {
		if !HasCapacity(state, name) || !EligibleForType(state.Players[name].Player, c.Type) {
			return false
		}
	}
	return true
}
