package criteria

import (
	"github.com/yyw794/badminton-score/pkg/core/allocator"
)

// Type aliases for test readability - shared across all criterion tests
type (
	SchedulerState = allocator.SchedulerState
	PlayerState    = allocator.PlayerState
	Player         = allocator.Player
	CandidateMatch = allocator.CandidateMatch
	ScheduledMatch = allocator.ScheduledMatch
	Team           = allocator.Team
	PairKey        = allocator.PairKey
)

var NewPairKey = allocator.NewPairKey

// newState builds a minimal state with the given players, all with zero games
func newState(players ...*Player) *SchedulerState {
	state := &SchedulerState{
		Players:       make(map[string]*PlayerState),
		PartnerBonds:  make(map[PairKey]float64),
		PartnerCounts: make(map[PairKey]int),
	}
	for _, p := range players {
		state.Players[p.Name] = &PlayerState{Player: p, TypeGames: map[allocator.MatchType]int{}}
		state.PlayerOrder = append(state.PlayerOrder, p.Name)
	}
	return state
}

func fourMen() []*Player {
	return []*Player{
		{Name: "a", Gender: allocator.GenderMale},
		{Name: "b", Gender: allocator.GenderMale},
		{Name: "c", Gender: allocator.GenderMale},
		{Name: "d", Gender: allocator.GenderMale},
	}
}
