package curate

import (
	"testing"
	"time"

	"github.com/KacperZiemski-fixtra/company-news-api/internal/model"
)

func TestRank_ScoreThenDateDescending(t *testing.T) {
	in := []model.Candidate{
		{URL: "a", Score: 0.5, PublishedAt: date(2025, 1, 1)},
		{URL: "b", Score: 1.0, PublishedAt: date(2024, 1, 1)},
		{URL: "c", Score: 0.5, PublishedAt: date(2025, 3, 1)},
	}

	out := Rank(in, 9)
	want := []string{"b", "c", "a"}
	for i, url := range want {
		if out[i].URL != url {
			t.Errorf("position %d: got %q, want %q", i, out[i].URL, url)
		}
	}
}

func TestRank_StableForExactTies(t *testing.T) {
	ts := date(2025, 1, 1)
	in := []model.Candidate{
		{URL: "first", Score: 0.5, PublishedAt: ts},
		{URL: "second", Score: 0.5, PublishedAt: ts},
		{URL: "third", Score: 0.5, PublishedAt: ts},
	}

	out := Rank(in, 9)
	for i, url := range []string{"first", "second", "third"} {
		if out[i].URL != url {
			t.Errorf("tie order not preserved at %d: got %q", i, out[i].URL)
		}
	}
}

func TestRank_TruncatesToCap(t *testing.T) {
	in := make([]model.Candidate, 12)
	for i := range in {
		in[i] = model.Candidate{
			URL:         string(rune('a' + i)),
			Score:       float64(i) / 12,
			PublishedAt: date(2025, 1, 1).Add(time.Duration(i) * time.Hour),
		}
	}

	out := Rank(in, 9)
	if len(out) != 9 {
		t.Fatalf("expected 9 candidates, got %d", len(out))
	}
	// The highest-scored candidate must lead and the lowest three are gone.
	if out[0].Score != 11.0/12 {
		t.Errorf("top score = %v", out[0].Score)
	}
	for _, c := range out {
		if c.Score < 3.0/12 {
			t.Errorf("low-scored candidate %q should have been truncated", c.URL)
		}
	}
}

func TestRank_OutputMonotonic(t *testing.T) {
	in := []model.Candidate{
		{URL: "a", Score: 0.2, PublishedAt: date(2025, 2, 1)},
		{URL: "b", Score: 0.9, PublishedAt: date(2023, 5, 1)},
		{URL: "c", Score: 0.9, PublishedAt: date(2024, 8, 1)},
		{URL: "d", Score: 0.0, PublishedAt: date(2025, 4, 1)},
	}

	out := Rank(in, 9)
	for i := 1; i < len(out); i++ {
		prev, cur := out[i-1], out[i]
		if prev.Score < cur.Score {
			t.Fatalf("score order violated at %d", i)
		}
		if prev.Score == cur.Score && prev.PublishedAt.Before(cur.PublishedAt) {
			t.Fatalf("date tie-break violated at %d", i)
		}
	}
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	in := []model.Candidate{
		{URL: "a", Score: 0.1},
		{URL: "b", Score: 0.9},
	}

	Rank(in, 9)
	if in[0].URL != "a" || in[1].URL != "b" {
		t.Error("Rank must sort a copy, not the caller's slice")
	}
}
