package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignIDs(t *testing.T) {
	event := &Event{Name: "训练"}
	matches := []Match{{Round: 1, Court: 1}, {ID: "keep", Round: 1, Court: 2, Status: StatusFinished}}

	AssignIDs(event, matches)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, 2, event.TotalMatches)
	assert.NotEmpty(t, matches[0].ID)
	assert.Equal(t, "keep", matches[1].ID)
	assert.Equal(t, event.ID, matches[0].EventID)
	assert.Equal(t, event.ID, matches[1].EventID)
	assert.Equal(t, StatusPending, matches[0].Status)
	assert.Equal(t, StatusFinished, matches[1].Status)
}

func TestParticipations(t *testing.T) {
	ids := map[string]string{"a": "p-a", "b": "p-b", "c": "p-c", "d": "p-d"}

	tests := []struct {
		name   string
		scoreA [2]int
		scoreB [2]int
		winsA  bool
		winsB  bool
	}{
		{"team A wins on total", [2]int{15, 12}, [2]int{10, 15}, true, false},
		{"team B wins", [2]int{8, 9}, [2]int{15, 15}, false, true},
		{"tie has no winner", [2]int{15, 10}, [2]int{10, 15}, false, false},
		{"unplayed has no winner", [2]int{}, [2]int{}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := []Match{{
				ID: "m1", EventID: "e1", Type: "男双",
				TeamA: [2]string{"a", "b"}, TeamB: [2]string{"c", "d"},
				ScoreA: tt.scoreA, ScoreB: tt.scoreB,
			}}

			parts, err := Participations(matches, ids)
			require.NoError(t, err)
			require.Len(t, parts, 4)

			for _, p := range parts {
				assert.Equal(t, "e1", p.EventID)
				assert.Equal(t, "m1", p.MatchID)
				assert.Equal(t, "男双", p.MatchType)
				if p.Team == TeamA {
					assert.Equal(t, tt.winsA, p.IsWinner)
					assert.Equal(t, tt.scoreA[0]+tt.scoreA[1], p.ScoreTeam)
				} else {
					assert.Equal(t, tt.winsB, p.IsWinner)
					assert.Equal(t, tt.scoreB[0]+tt.scoreB[1], p.ScoreTeam)
				}
			}
			assert.Equal(t, "p-a", parts[0].PlayerID)
			assert.Equal(t, "p-d", parts[3].PlayerID)
		})
	}
}

func TestParticipations_UnknownPlayer(t *testing.T) {
	matches := []Match{{ID: "m1", TeamA: [2]string{"a", "b"}, TeamB: [2]string{"c", "x"}}}
	_, err := Participations(matches, map[string]string{"a": "1", "b": "2", "c": "3"})
	assert.ErrorContains(t, err, "no player record for x")
}

func TestMatchPlayers(t *testing.T) {
	matches := []Match{
		{TeamA: [2]string{"a", "b"}, TeamB: [2]string{"c", "d"}},
		{TeamA: [2]string{"c", "e"}, TeamB: [2]string{"a", "f"}},
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f"}, MatchPlayers(matches))
}

func TestWinRate(t *testing.T) {
	assert.Equal(t, 0.0, PlayerStats{}.WinRate())
	assert.Equal(t, 0.75, PlayerStats{Matches: 4, Wins: 3}.WinRate())
}
