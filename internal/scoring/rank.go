package scoring

import (
	"sort"
	"time"
)

// RankItem is one scored candidate eligible for ranking. Rank is filled
// in by Rank; input values are ignored.
type RankItem struct {
	ID          string
	TotalScore  int
	SubmittedAt time.Time
	Rank        int
}

// Rank orders items by total score descending, breaking ties by earlier
// submission time, then by ID so the order is total. Ranks are assigned
// 1..n in the sorted order. The sort is deterministic: ranking the same
// set twice yields the same sequence.
func Rank(items []RankItem) []RankItem {
	out := make([]RankItem, len(items))
	copy(out, items)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalScore != out[j].TotalScore {
			return out[i].TotalScore > out[j].TotalScore
		}
		if !out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].SubmittedAt.Before(out[j].SubmittedAt)
		}
		return out[i].ID < out[j].ID
	})

	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
