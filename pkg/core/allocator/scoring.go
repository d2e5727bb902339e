package allocator

import "math"

// PlayerContribution calculates how much a single player adds to a candidate's score.
//
// Quota players who are still owed games pull the score down by their remaining quota.
// Everyone else is compared against the target:
//   - below target pulls the score down per missing game
//   - at or above max games adds the saturation penalty
//   - otherwise each game over target pushes the score up
func PlayerContribution(state *SchedulerState, name string, weights ScoringWeights) float64 {
	ps := state.Players[name]

	if remaining := ps.RemainingQuota(); remaining > 0 {
		return -float64(remaining) * weights.Quota
	}

	played := ps.Games
	switch {
	case played < weights.TargetGames:
		return -float64(weights.TargetGames-played) * weights.BelowTarget
	case played >= state.MaxGamesPerPlayer:
		return weights.Saturated
	default:
		return float64(played-weights.TargetGames) * weights.AboveTarget
	}
}

// ScoreCandidate calculates the desirability of a candidate. Lower is better.
// Candidates that cannot be added to the open round score +Inf.
func ScoreCandidate(state *SchedulerState, c *CandidateMatch, weights ScoringWeights, criteria []Criterion) float64 {
	if !IsCandidateLegal(state, c, criteria) {
		return math.Inf(1)
	}

	// Base score: mean of the four player contributions
	var sum float64
	for _, name := range c.Players() {
		sum += PlayerContribution(state, name, weights)
	}
	score := sum / 4

	// Preferred partnerships are a flat bonus per team
	for _, team := range c.Teams() {
		if bond := state.PartnerBond(team); bond > 0 {
			score -= bond * weights.Partner
		}
	}

	for _, criterion := range criteria {
		score += criterion.ScoreCandidate(state, c) * criterion.Weight()
	}

	return score
}

// BestCandidate returns the index of the lowest-scoring legal candidate in the pool, or -1.
// Ties go to the candidate encountered first.
func BestCandidate(state *SchedulerState, pool []*CandidateMatch, weights ScoringWeights, criteria []Criterion) int {
	best := -1
	bestScore := math.Inf(1)

	for i, c := range pool {
		score := ScoreCandidate(state, c, weights, criteria)
		if math.IsInf(score, 1) {
			continue
		}
		if best == -1 || score < bestScore {
			best = i
			bestScore = score
		}
	}

	return best
}
