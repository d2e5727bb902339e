package criteria

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yyw794/badminton-score/pkg/core/allocator"
)

func TestPartnerVarietyCriterion_Name(t *testing.T) {
	criterion := NewPartnerVarietyCriterion(50, 2)
	assert.Equal(t, "PartnerVariety", criterion.Name())
	assert.Equal(t, 50.0, criterion.Weight())
}

func TestPartnerVarietyCriterion_AlwaysValid(t *testing.T) {
	state := newState(fourMen()...)
	state.PartnerCounts[NewPairKey("a", "b")] = 10

	candidate := &CandidateMatch{Type: allocator.MensDoubles, TeamA: Team{"a", "b"}, TeamB: Team{"c", "d"}}
	assert.True(t, NewPartnerVarietyCriterion(1, 0).IsCandidateValid(state, candidate))
}

func TestPartnerVarietyCriterion_ScoreCandidate(t *testing.T) {
	state := newState(fourMen()...)
	criterion := NewPartnerVarietyCriterion(1, 0)

	candidate := &CandidateMatch{Type: allocator.MensDoubles, TeamA: Team{"a", "b"}, TeamB: Team{"c", "d"}}

	// Fresh partnerships cost nothing
	assert.Equal(t, 0.0, criterion.ScoreCandidate(state, candidate))

	// a/b partnered once: 1/2 for that team, averaged over two teams
	state.PartnerCounts[NewPairKey("a", "b")] = 1
	assert.InDelta(t, 0.25, criterion.ScoreCandidate(state, candidate), 1e-9)

	// Repeating more costs more
	state.PartnerCounts[NewPairKey("a", "b")] = 3
	assert.InDelta(t, 0.375, criterion.ScoreCandidate(state, candidate), 1e-9)

	// Bonded pairs are exempt
	state.PartnerBonds[NewPairKey("a", "b")] = 2
	assert.Equal(t, 0.0, criterion.ScoreCandidate(state, candidate))
}

func TestPartnerVarietyCriterion_ValidateSchedule(t *testing.T) {
	state := newState(fourMen()...)
	state.PartnerBonds[NewPairKey("c", "d")] = 1

	matches := []ScheduledMatch{
		{Round: 1, Court: 1, TeamA: Team{"a", "b"}, TeamB: Team{"c", "d"}},
		{Round: 2, Court: 1, TeamA: Team{"b", "a"}, TeamB: Team{"d", "c"}},
		{Round: 3, Court: 1, TeamA: Team{"a", "b"}, TeamB: Team{"c", "d"}},
	}

	errs := NewPartnerVarietyCriterion(1, 2).ValidateSchedule(state, matches)
	require.Len(t, errs, 1, "bonded c/d may repeat freely")
	assert.Equal(t, "a/b partnered 3 times (max 2)", errs[0].Description)

	assert.Empty(t, NewPartnerVarietyCriterion(1, 0).ValidateSchedule(state, matches))
}
