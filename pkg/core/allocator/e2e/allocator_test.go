package e2e

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertNoPlayerTwiceInRound checks that each round lists every player at most once
func assertNoPlayerTwiceInRound(t *testing.T, matches []ScheduledMatch) {
	t.Helper()
	seen := make(map[int]map[string]bool)
	for _, m := range matches {
		if seen[m.Round] == nil {
			seen[m.Round] = make(map[string]bool)
		}
		for _, name := range m.Players() {
			assert.False(t, seen[m.Round][name], "%s plays twice in round %d", name, m.Round)
			seen[m.Round][name] = true
		}
	}
}

func gamesPerPlayer(matches []ScheduledMatch) map[string]int {
	games := make(map[string]int)
	for _, m := range matches {
		for _, name := range m.Players() {
			games[name]++
		}
	}
	return games
}

func TestAllocator_FourAndFourMixed(t *testing.T) {
	// 4 mixed-eligible men and 4 women on 2 courts, 10 matches requested
	males := []string{"Alan", "Bill", "Chen", "Dave"}
	females := []string{"Emma", "Fang", "Gwen", "Hui"}

	for seed := int64(1); seed <= 20; seed++ {
		outcome, err := Allocate(AllocationConfig{
			Roster:               Roster{Males: males, Females: females},
			MixedDoublesEligible: males,
			CourtCount:           2,
			MatchesPerCourt:      5,
			MaxGamesPerPlayer:    5,
			RandomSeed:           seed,
		})
		require.NoError(t, err)

		assert.LessOrEqual(t, len(outcome.Matches), 10)
		for name, games := range gamesPerPlayer(outcome.Matches) {
			assert.LessOrEqual(t, games, 5, "%s with seed %d", name, seed)
		}
		assertNoPlayerTwiceInRound(t, outcome.Matches)
		assert.Empty(t, outcome.ValidationErrors, "seed %d", seed)
	}
}

func TestAllocator_MixedEligibilityListsMenOnly(t *testing.T) {
	// Women are not listed; all of them may still play mixed
	males := []string{"Alan", "Bill", "Chen", "Dave"}
	females := []string{"Emma", "Fang", "Gwen", "Hui"}

	outcome, err := Allocate(AllocationConfig{
		Roster:               Roster{Males: males, Females: females},
		MixedDoublesEligible: males,
		CourtCount:           2,
		MatchesPerCourt:      4,
		MaxGamesPerPlayer:    4,
		RandomSeed:           1,
	})
	require.NoError(t, err)

	// C(4,2) male pairs * C(4,2) female pairs, one arrangement each
	assert.Equal(t, 36, len(outcome.State.Pools[MixedDoubles])+outcome.TypeCounts[MixedDoubles])
	assert.Positive(t, outcome.TypeCounts[MixedDoubles])
}

func TestAllocator_StopsWhenRoundCannotBeFilled(t *testing.T) {
	// After one men's match the two idle men can't fill the second court of round 1
	outcome, err := Allocate(AllocationConfig{
		Roster:            Roster{Males: []string{"Alan", "Bill", "Chen", "Dave", "Ed", "Fred"}},
		CourtCount:        2,
		MatchesPerCourt:   3,
		MaxGamesPerPlayer: 3,
		RandomSeed:        5,
	})
	require.NoError(t, err)

	assert.Equal(t, 6, outcome.Requested)
	require.Len(t, outcome.Matches, 1)
	assert.Equal(t, 1, outcome.Matches[0].Round)
	assert.Equal(t, 1, outcome.Matches[0].Court)
	assert.False(t, outcome.Complete)
}

func TestAllocator_FixedQuotaHonoured(t *testing.T) {
	// One player entitled to exactly 3 games among 8
	males := []string{"Alan", "Bill", "Chen", "Dave"}
	females := []string{"Emma", "Fang", "Gwen", "Hui"}

	for seed := int64(1); seed <= 10; seed++ {
		outcome, err := Allocate(AllocationConfig{
			Roster:               Roster{Males: males, Females: females},
			MixedDoublesEligible: males,
			Constraints:          map[string]PlayerConstraint{"Hui": {FixedGameQuota: 3}},
			CourtCount:           1,
			MatchesPerCourt:      8,
			MaxGamesPerPlayer:    6,
			RandomSeed:           seed,
		})
		require.NoError(t, err)

		games := 0
		for _, m := range outcome.Matches {
			if m.Involves("Hui") {
				games++
			}
		}
		assert.Equal(t, 3, games, "seed %d", seed)
		assert.Equal(t, 3, outcome.PlayerGames["Hui"])
	}
}

func TestAllocator_PartnerBondFavoured(t *testing.T) {
	// Bond of weight 5 between two of six men, 6 men's matches requested
	males := []string{"Alan", "Bill", "Chen", "Dave", "Ed", "Fred"}
	bonded := NewPairKey("Chen", "Ed")

	for seed := int64(1); seed <= 10; seed++ {
		outcome, err := Allocate(AllocationConfig{
			Roster:            Roster{Males: males},
			PartnerBonds:      map[PairKey]float64{bonded: 5},
			CourtCount:        1,
			MatchesPerCourt:   6,
			MaxGamesPerPlayer: 6,
			RandomSeed:        seed,
		})
		require.NoError(t, err)
		require.Len(t, outcome.Matches, 6)

		pairCounts := make(map[PairKey]int)
		for _, m := range outcome.Matches {
			assert.Equal(t, MensDoubles, m.Type)
			pairCounts[m.TeamA.Key()]++
			pairCounts[m.TeamB.Key()]++
		}

		// Mean over every other pair, including pairs that never partnered
		otherPairs := 0
		otherTotal := 0
		for i := 0; i < len(males); i++ {
			for j := i + 1; j < len(males); j++ {
				key := NewPairKey(males[i], males[j])
				if key == bonded {
					continue
				}
				otherPairs++
				otherTotal += pairCounts[key]
			}
		}
		mean := float64(otherTotal) / float64(otherPairs)

		assert.Greater(t, float64(pairCounts[bonded]), mean, "seed %d", seed)
	}
}

func TestAllocator_TooFewWomen(t *testing.T) {
	males := []string{"Alan", "Bill", "Chen", "Dave", "Ed", "Fred"}
	females := []string{"Emma", "Fang", "Gwen"}

	outcome, err := Allocate(AllocationConfig{
		Roster:               Roster{Males: males, Females: females},
		MixedDoublesEligible: males,
		CourtCount:           2,
		MatchesPerCourt:      6,
		MaxGamesPerPlayer:    6,
		RandomSeed:           7,
	})
	require.NoError(t, err)

	assert.Empty(t, outcome.State.Pools[WomensDoubles])
	assert.Equal(t, 0, outcome.TypeCounts[WomensDoubles])
	for _, m := range outcome.Matches {
		assert.NotEqual(t, WomensDoubles, m.Type)
	}
	assert.NotEmpty(t, outcome.Matches)
}

func TestAllocator_Deterministic(t *testing.T) {
	config := func() AllocationConfig {
		males := []string{"Alan", "Bill", "Chen", "Dave", "Ed"}
		females := []string{"Emma", "Fang", "Gwen", "Hui", "Ivy"}
		return AllocationConfig{
			Roster:               Roster{Males: males, Females: females},
			MixedDoublesEligible: []string{"Alan", "Bill", "Chen"},
			Constraints:          map[string]PlayerConstraint{"Ivy": {OnlyWomensDoubles: true}},
			PartnerBonds:         map[PairKey]float64{NewPairKey("Alan", "Emma"): 2},
			CourtCount:           2,
			MatchesPerCourt:      6,
			MaxGamesPerPlayer:    6,
			RandomSeed:           2026,
		}
	}

	first, err := Allocate(config())
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Allocate(config())
		require.NoError(t, err)
		assert.Equal(t, first.Matches, again.Matches)
	}
}

func TestAllocator_WithCriteria(t *testing.T) {
	males := []string{"Alan", "Bill", "Chen", "Dave", "Ed", "Fred"}
	females := []string{"Emma", "Fang", "Gwen", "Hui", "Ivy", "Jo"}

	for seed := int64(1); seed <= 10; seed++ {
		outcome, err := Allocate(AllocationConfig{
			Roster:               Roster{Males: males, Females: females},
			MixedDoublesEligible: males,
			Constraints: map[string]PlayerConstraint{
				"Alan": {EarlyDeparture: true},
				"Jo":   {EarlyDeparture: true, FixedGameQuota: 2},
			},
			CourtCount:        2,
			MatchesPerCourt:   6,
			MaxGamesPerPlayer: 5,
			RandomSeed:        seed,
			Criteria: []Criterion{
				NewEarlyDepartureCriterion(3, 10),
				NewPartnerVarietyCriterion(50, 0),
			},
		})
		require.NoError(t, err)

		for _, m := range outcome.Matches {
			if m.Round > 3 {
				assert.False(t, m.Involves("Alan"), "Alan left after round 3, seed %d", seed)
				assert.False(t, m.Involves("Jo"), "Jo left after round 3, seed %d", seed)
			}
		}
		assert.LessOrEqual(t, outcome.PlayerGames["Jo"], 2)
		assertNoPlayerTwiceInRound(t, outcome.Matches)
		assert.Empty(t, outcome.ValidationErrors, "seed %d", seed)
	}
}

func TestAllocator_NoIdlePlayersReported(t *testing.T) {
	// Four men and one woman who can't play any match type
	outcome, err := Allocate(AllocationConfig{
		Roster:            Roster{Males: []string{"Alan", "Bill", "Chen", "Dave"}, Females: []string{"Emma"}},
		CourtCount:        1,
		MatchesPerCourt:   2,
		MaxGamesPerPlayer: 4,
		Criteria:          []Criterion{NewNoIdlePlayersCriterion()},
	})
	require.NoError(t, err)

	require.Len(t, outcome.ValidationErrors, 1)
	assert.Equal(t, "NoIdlePlayers", outcome.ValidationErrors[0].CriterionName)
	assert.True(t, outcome.Complete)
}
