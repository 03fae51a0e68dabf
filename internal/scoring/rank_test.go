package scoring

import (
	"reflect"
	"testing"
	"time"
)

func TestRankOrdering(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	items := []RankItem{
		{ID: "c", TotalScore: 72, SubmittedAt: base.Add(2 * time.Hour)},
		{ID: "a", TotalScore: 91, SubmittedAt: base.Add(3 * time.Hour)},
		{ID: "d", TotalScore: 72, SubmittedAt: base.Add(1 * time.Hour)},
		{ID: "b", TotalScore: 55, SubmittedAt: base},
	}

	ranked := Rank(items)

	wantOrder := []string{"a", "d", "c", "b"}
	for i, want := range wantOrder {
		if ranked[i].ID != want {
			t.Fatalf("position %d = %s, want %s (ranked %+v)", i, ranked[i].ID, want, ranked)
		}
		if ranked[i].Rank != i+1 {
			t.Fatalf("rank for %s = %d, want %d", ranked[i].ID, ranked[i].Rank, i+1)
		}
	}
	// input must be untouched
	if items[0].Rank != 0 {
		t.Fatal("Rank mutated its input slice")
	}
}

func TestRankTieBreakByID(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	ranked := Rank([]RankItem{
		{ID: "zeta", TotalScore: 80, SubmittedAt: at},
		{ID: "alpha", TotalScore: 80, SubmittedAt: at},
	})
	if ranked[0].ID != "alpha" || ranked[1].ID != "zeta" {
		t.Fatalf("equal score and time should fall back to ID order, got %+v", ranked)
	}
}

func TestRankIdempotent(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	items := []RankItem{
		{ID: "a", TotalScore: 64, SubmittedAt: base},
		{ID: "b", TotalScore: 64, SubmittedAt: base.Add(time.Minute)},
		{ID: "c", TotalScore: 88, SubmittedAt: base},
	}
	first := Rank(items)
	second := Rank(first)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("re-ranking changed the order:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestRankEmpty(t *testing.T) {
	if got := Rank(nil); len(got) != 0 {
		t.Fatalf("Rank(nil) = %v, want empty", got)
	}
}
