package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yyw794/badminton-score/pkg/core/allocator"
)

func TestSummarise(t *testing.T) {
	roster := allocator.Roster{
		Males:   []string{"Zed", "Alan", "Bill"},
		Females: []string{"Emma", "Fang", "Idle"},
	}
	matches := []allocator.ScheduledMatch{
		{Round: 1, Court: 1, Type: allocator.MixedDoubles, TeamA: allocator.Team{"Alan", "Emma"}, TeamB: allocator.Team{"Bill", "Fang"}},
		{Round: 2, Court: 1, Type: allocator.MensDoubles, TeamA: allocator.Team{"Alan", "Bill"}, TeamB: allocator.Team{"Zed", "Guest"}},
	}

	summary := Summarise(matches, roster)

	assert.Equal(t, 2, summary.Matches)
	assert.Equal(t, 2, summary.Rounds)
	assert.Equal(t, 1, summary.TypeCounts[allocator.MixedDoubles])
	assert.Equal(t, 1, summary.TypeCounts[allocator.MensDoubles])
	assert.Equal(t, 0, summary.TypeCounts[allocator.WomensDoubles])

	names := make([]string, 0, len(summary.Players))
	for _, p := range summary.Players {
		names = append(names, p.Name)
	}
	// Males by name, then females by name, then anyone off the roster
	assert.Equal(t, []string{"Alan", "Bill", "Zed", "Emma", "Fang", "Idle", "Guest"}, names)

	alan, ok := summary.Player("Alan")
	require.True(t, ok)
	assert.Equal(t, 2, alan.Total)
	assert.Equal(t, 1, alan.ByType[allocator.MixedDoubles])
	assert.Equal(t, 1, alan.ByType[allocator.MensDoubles])

	idle, ok := summary.Player("Idle")
	require.True(t, ok)
	assert.Equal(t, 0, idle.Total)
	assert.Equal(t, 0, idle.ByType[allocator.WomensDoubles])

	_, ok = summary.Player("Nobody")
	assert.False(t, ok)
}
