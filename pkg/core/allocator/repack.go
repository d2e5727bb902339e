package allocator

// Repack flattens committed matches in commit order and assigns contiguous round and court numbers.
// Every round but the last holds exactly courtCount matches.
func Repack(committed []*CandidateMatch, courtCount int) []ScheduledMatch {
	matches := make([]ScheduledMatch, 0, len(committed))
	for i, c := range committed {
		round, court := SlotFor(i+1, courtCount)
		matches = append(matches, ScheduledMatch{
			Round: round,
			Court: court,
			Type:  c.Type,
			TeamA: c.TeamA,
			TeamB: c.TeamB,
		})
	}
	return matches
}

// SlotFor returns the round and court of the 1-based match index
func SlotFor(index, courtCount int) (round, court int) {
	round = (index + courtCount - 1) / courtCount
	court = (index-1)%courtCount + 1
	return round, court
}
