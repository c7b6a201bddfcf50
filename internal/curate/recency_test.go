package curate

import (
	"testing"
	"time"

	"github.com/KacperZiemski-fixtra/company-news-api/internal/model"
)

func TestRecencyFilter_Boundary(t *testing.T) {
	now := date(2025, 6, 1)
	filter := NewRecencyFilter(730)

	atCutoff := now.Add(-730 * 24 * time.Hour)
	in := []model.Candidate{
		{URL: "https://x.com/exact", PublishedAt: atCutoff},
		{URL: "https://x.com/newer", PublishedAt: atCutoff.Add(24 * time.Hour)},
	}

	kept, skips := filter.Apply(in, now)
	if len(kept) != 1 || kept[0].URL != "https://x.com/newer" {
		t.Fatalf("expected only the newer candidate, got %+v", kept)
	}
	if len(skips) != 1 || skips[0].URL != "https://x.com/exact" {
		t.Errorf("expected a skip for the exactly-at-cutoff candidate, got %+v", skips)
	}
}

func TestRecencyFilter_ReparsesRawDate(t *testing.T) {
	now := date(2025, 6, 1)
	filter := NewRecencyFilter(730)

	in := []model.Candidate{
		{URL: "https://x.com/a", RawDate: "05/08/2025, 07:00 AM, +0000 UTC"},
	}

	kept, skips := filter.Apply(in, now)
	if len(skips) != 0 {
		t.Fatalf("unexpected skips: %+v", skips)
	}
	if len(kept) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(kept))
	}
	if want := date(2025, 5, 8); !kept[0].PublishedAt.Equal(want) {
		t.Errorf("publication date = %s, want %s", kept[0].PublishedAt, want)
	}
}

func TestRecencyFilter_FutureRawDateRollsBack(t *testing.T) {
	now := date(2025, 6, 1)
	filter := NewRecencyFilter(730)

	in := []model.Candidate{{URL: "https://x.com/a", RawDate: "01/01/2026"}}

	kept, _ := filter.Apply(in, now)
	if len(kept) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(kept))
	}
	if want := date(2025, 1, 1); !kept[0].PublishedAt.Equal(want) {
		t.Errorf("publication date = %s, want %s", kept[0].PublishedAt, want)
	}
}

func TestRecencyFilter_UnparseableDateDropsOnlyThatCandidate(t *testing.T) {
	now := date(2025, 6, 1)
	filter := NewRecencyFilter(730)

	in := []model.Candidate{
		{URL: "https://x.com/bad", RawDate: "sometime last week"},
		{URL: "https://x.com/good", PublishedAt: date(2025, 5, 1)},
	}

	kept, skips := filter.Apply(in, now)
	if len(kept) != 1 || kept[0].URL != "https://x.com/good" {
		t.Fatalf("expected only the dated candidate, got %+v", kept)
	}
	if len(skips) != 1 || skips[0].Stage != "recency" {
		t.Errorf("expected a recency skip, got %+v", skips)
	}
}
