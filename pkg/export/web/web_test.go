package web

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yyw794/badminton-score/pkg/core/allocator"
	"github.com/yyw794/badminton-score/pkg/core/stats"
)

func testSchedule() []allocator.ScheduledMatch {
	return []allocator.ScheduledMatch{
		{Round: 1, Court: 1, Type: allocator.MixedDoubles, TeamA: allocator.Team{"林锋", "田茜"}, TeamB: allocator.Team{"王小波", "高洁"}},
		{Round: 1, Court: 2, Type: allocator.MensDoubles, TeamA: allocator.Team{"罗蒙", "江锐"}, TeamB: allocator.Team{"苏大哲", "陈小洪"}},
	}
}

func TestFromSchedule(t *testing.T) {
	matches := testSchedule()
	roster := allocator.Roster{Males: []string{"林锋", "王小波", "罗蒙", "江锐", "苏大哲", "陈小洪", "闲人"}, Females: []string{"田茜", "高洁"}}
	exported := time.Date(2026, 1, 3, 9, 30, 0, 0, time.UTC)

	lineup := FromSchedule("2026-01-03 周六训练", 2, matches, stats.Summarise(matches, roster), exported)

	assert.Equal(t, "2026-01-03 周六训练", lineup.EventName)
	assert.Equal(t, 2, lineup.CourtCount)
	assert.Equal(t, "2026-01-03T09:30:00Z", lineup.ExportTime)

	require.Len(t, lineup.Matches, 2)
	first := lineup.Matches[0]
	assert.Equal(t, "m1", first.ID)
	assert.Equal(t, "混双", first.Type)
	assert.Equal(t, []string{"林锋", "田茜"}, first.TeamA)
	assert.Equal(t, [2]int{0, 0}, first.ScoreA)
	assert.Equal(t, StatusPending, first.Status)
	assert.Equal(t, "m2", lineup.Matches[1].ID)

	assert.Equal(t, PlayerStats{Total: 1, Mixed: 1}, lineup.PlayerStats["林锋"])
	assert.Equal(t, PlayerStats{Total: 1, Mens: 1}, lineup.PlayerStats["罗蒙"])
	_, idleListed := lineup.PlayerStats["闲人"]
	assert.False(t, idleListed)
}

func TestWrite_KeepsNamesReadable(t *testing.T) {
	lineup := FromSchedule("训练", 2, testSchedule(), nil, time.Unix(0, 0).UTC())

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, lineup))

	out := buf.String()
	assert.Contains(t, out, `"type": "混双"`)
	assert.Contains(t, out, `"林锋"`)
	assert.Contains(t, out, `"scoreA": [`)
	assert.Contains(t, out, `"status": "pending"`)
}

func TestRead_WithScores(t *testing.T) {
	doc := `{
  "eventName": "2026-01-10 训练",
  "courtCount": 2,
  "matches": [
    {"id": "m1", "round": 1, "court": 1, "type": "男双", "teamA": ["a", "b"], "teamB": ["c", "d"],
     "scoreA": [15, 12], "scoreB": [10, 15], "status": "finished"}
  ],
  "playerStats": {"a": {"total": 1, "男双": 1, "女双": 0, "混双": 0}},
  "exportTime": "2026-01-10T08:00:00"
}`

	lineup, err := Read(strings.NewReader(doc))
	require.NoError(t, err)

	require.Len(t, lineup.Matches, 1)
	m := lineup.Matches[0]
	assert.Equal(t, 27, m.TotalA())
	assert.Equal(t, 25, m.TotalB())
	assert.True(t, m.HasScore())
	assert.Equal(t, PlayerStats{Total: 1, Mens: 1}, lineup.PlayerStats["a"])

	scheduled, err := lineup.ScheduledMatches()
	require.NoError(t, err)
	assert.Equal(t, allocator.MensDoubles, scheduled[0].Type)
	assert.Equal(t, allocator.Team{"c", "d"}, scheduled[0].TeamB)
}

func TestScheduledMatches_Invalid(t *testing.T) {
	lineup := &Lineup{Matches: []Match{{ID: "m1", Type: "单打", TeamA: []string{"a"}, TeamB: []string{"b"}}}}
	_, err := lineup.ScheduledMatches()
	assert.Error(t, err)

	lineup.Matches[0].Type = "混双"
	_, err = lineup.ScheduledMatches()
	assert.ErrorContains(t, err, "exactly two players")
}

func TestRead_Malformed(t *testing.T) {
	_, err := Read(strings.NewReader("{not json"))
	assert.Error(t, err)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	lineup := FromSchedule("训练", 2, testSchedule(), nil, time.Unix(0, 0).UTC())

	require.NoError(t, Save(path, lineup))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, lineup.Matches, loaded.Matches)
	assert.Equal(t, "训练", loaded.EventName)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
