package allocator

import "math/rand/v2"

// GenerateCandidatesInput contains the eligible players for each pool
type GenerateCandidatesInput struct {
	// Males in roster order
	Males []string

	// Females in roster order
	Females []string

	// MixedEligible is the set of males allowed to play mixed doubles.
	// Every female not restricted to women's doubles may play mixed.
	MixedEligible map[string]bool

	// OnlyWomens is the set of players restricted to women's doubles
	OnlyWomens map[string]bool
}

// GenerateCandidates enumerates every legal pairing for each match type.
// Pools for types without enough eligible players are empty.
func GenerateCandidates(input GenerateCandidatesInput) map[MatchType][]*CandidateMatch {
	pools := map[MatchType][]*CandidateMatch{
		MixedDoubles:  nil,
		MensDoubles:   nil,
		WomensDoubles: nil,
	}

	// Mixed: eligible males, and every female who is not women's-only
	var mixedMales, mixedFemales []string
	for _, m := range input.Males {
		if input.MixedEligible[m] && !input.OnlyWomens[m] {
			mixedMales = append(mixedMales, m)
		}
	}
	for _, f := range input.Females {
		if !input.OnlyWomens[f] {
			mixedFemales = append(mixedFemales, f)
		}
	}
	pools[MixedDoubles] = mixedCandidates(mixedMales, mixedFemales)

	// Men's: every male not restricted to women's doubles
	var mens []string
	for _, m := range input.Males {
		if !input.OnlyWomens[m] {
			mens = append(mens, m)
		}
	}
	pools[MensDoubles] = sameGenderCandidates(MensDoubles, mens)

	// Women's: every female, including women's-only players
	pools[WomensDoubles] = sameGenderCandidates(WomensDoubles, input.Females)

	return pools
}

// mixedCandidates builds one match for each pair of males and pair of females: (m1,f1) v (m2,f2).
// The crossed pairing (m1,f2) v (m2,f1) involves the same four players and is not generated.
func mixedCandidates(males, females []string) []*CandidateMatch {
	if len(males) < 2 || len(females) < 2 {
		return nil
	}

	var pool []*CandidateMatch
	for i := 0; i < len(males); i++ {
		for j := i + 1; j < len(males); j++ {
			for k := 0; k < len(females); k++ {
				for l := k + 1; l < len(females); l++ {
					pool = append(pool, &CandidateMatch{
						Type:  MixedDoubles,
						TeamA: Team{males[i], females[k]},
						TeamB: Team{males[j], females[l]},
					})
				}
			}
		}
	}
	return pool
}

// sameGenderCandidates builds every split of every four players into two disjoint teams.
// Team A always holds the player that comes first in roster order, so each split appears once.
func sameGenderCandidates(matchType MatchType, players []string) []*CandidateMatch {
	if len(players) < 4 {
		return nil
	}

	var pool []*CandidateMatch
	n := len(players)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			for k := i + 1; k < n; k++ {
				if k == j {
					continue
				}
				for l := k + 1; l < n; l++ {
					if l == j {
						continue
					}
					pool = append(pool, &CandidateMatch{
						Type:  matchType,
						TeamA: Team{players[i], players[j]},
						TeamB: Team{players[k], players[l]},
					})
				}
			}
		}
	}
	return pool
}

// ShufflePools shuffles each pool in place with a generator seeded from seed.
// Pools are shuffled in a fixed type order so a seed always yields the same pools.
func ShufflePools(pools map[MatchType][]*CandidateMatch, seed int64) {
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
	for _, t := range AllMatchTypes {
		pool := pools[t]
		rng.Shuffle(len(pool), func(i, j int) {
			pool[i], pool[j] = pool[j], pool[i]
		})
	}
}
