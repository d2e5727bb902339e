// Package stats summarises a schedule per player for exporters and reports.
package stats

import (
	"sort"

	"github.com/yyw794/badminton-score/pkg/core/allocator"
)

// PlayerSummary is the number of scheduled matches for one player
type PlayerSummary struct {
	Name   string
	Gender allocator.Gender
	Total  int
	ByType map[allocator.MatchType]int
}

// Summary aggregates a schedule
type Summary struct {
	// Players lists males first, then females, each sorted by name
	Players []PlayerSummary

	// TypeCounts is the number of matches per type
	TypeCounts map[allocator.MatchType]int

	Matches int
	Rounds  int
}

// Player returns the summary for the named player
func (s *Summary) Player(name string) (PlayerSummary, bool) {
	for _, p := range s.Players {
		if p.Name == name {
			return p, true
		}
	}
	return PlayerSummary{}, false
}

// Summarise counts matches per player and per type.
// Every rostered player is listed, including those with no matches.
func Summarise(matches []allocator.ScheduledMatch, roster allocator.Roster) *Summary {
	byName := make(map[string]*PlayerSummary, roster.Size())
	add := func(name string, gender allocator.Gender) {
		if _, ok := byName[name]; ok {
			return
		}
		byName[name] = &PlayerSummary{
			Name:   name,
			Gender: gender,
			ByType: map[allocator.MatchType]int{
				allocator.MixedDoubles:  0,
				allocator.MensDoubles:   0,
				allocator.WomensDoubles: 0,
			},
		}
	}
	for _, m := range roster.Males {
		add(m, allocator.GenderMale)
	}
	for _, f := range roster.Females {
		add(f, allocator.GenderFemale)
	}

	summary := &Summary{
		TypeCounts: make(map[allocator.MatchType]int, len(allocator.AllMatchTypes)),
		Matches:    len(matches),
	}
	for _, t := range allocator.AllMatchTypes {
		summary.TypeCounts[t] = 0
	}

	for _, m := range matches {
		summary.TypeCounts[m.Type]++
		summary.Rounds = max(summary.Rounds, m.Round)
		for _, name := range m.Players() {
			// Players missing from the roster still get counted
			add(name, "")
			ps := byName[name]
			ps.Total++
			ps.ByType[m.Type]++
		}
	}

	for _, ps := range byName {
		summary.Players = append(summary.Players, *ps)
	}
	sort.Slice(summary.Players, func(i, j int) bool {
		gi, gj := genderRank(summary.Players[i].Gender), genderRank(summary.Players[j].Gender)
		if gi != gj {
			return gi < gj
		}
		return summary.Players[i].Name < summary.Players[j].Name
	})

	return summary
}

func genderRank(g allocator.Gender) int {
	switch g {
	case allocator.GenderMale:
		return 0
	case allocator.GenderFemale:
		return 1
	}
	return 2
}
