package curate

import (
	"context"
	"errors"
	"testing"

	"github.com/KacperZiemski-fixtra/company-news-api/internal/model"
)

type mapFetcher struct {
	texts map[string]string
	err   error
}

func (f *mapFetcher) ArticleText(ctx context.Context, url string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.texts[url], nil
}

func TestRelatednessFilter_KeepsByTitleOrBody(t *testing.T) {
	fetcher := &mapFetcher{texts: map[string]string{
		"https://x.com/body":  "A long piece mentioning Acme Corp in passing.",
		"https://x.com/miss":  "Nothing about the company at all.",
	}}
	filter := NewRelatednessFilter(fetcher)

	in := []model.Candidate{
		{URL: "https://x.com/title", Title: "Acme Corp raises funding"},
		{URL: "https://x.com/body", Title: "Industry roundup"},
		{URL: "https://x.com/miss", Title: "Industry roundup"},
	}

	kept, skips := filter.Apply(context.Background(), in, "Acme Corp")
	if len(kept) != 2 {
		t.Fatalf("expected 2 kept, got %d (%+v)", len(kept), kept)
	}
	if len(skips) != 1 || skips[0].URL != "https://x.com/miss" {
		t.Errorf("expected a skip for the unrelated candidate, got %+v", skips)
	}
}

func TestRelatednessFilter_MatchIsCaseSensitive(t *testing.T) {
	filter := NewRelatednessFilter(&mapFetcher{})

	in := []model.Candidate{
		{URL: "https://x.com/a", Title: "ACME CORP raises funding"},
	}

	kept, _ := filter.Apply(context.Background(), in, "Acme Corp")
	if len(kept) != 0 {
		t.Errorf("substring match is case-sensitive; expected no matches, got %+v", kept)
	}
}

func TestRelatednessFilter_AttachesFetchedContent(t *testing.T) {
	fetcher := &mapFetcher{texts: map[string]string{
		"https://x.com/a": "Body text mentioning Acme Corp today.",
	}}
	filter := NewRelatednessFilter(fetcher)

	kept, _ := filter.Apply(context.Background(), []model.Candidate{
		{URL: "https://x.com/a", Title: "Roundup"},
	}, "Acme Corp")

	if len(kept) != 1 {
		t.Fatalf("expected 1 kept, got %d", len(kept))
	}
	if kept[0].Content == "" {
		t.Error("fetched text must be attached so scoring does not re-fetch")
	}
}

func TestRelatednessFilter_FetchFailureJudgedOnTitle(t *testing.T) {
	filter := NewRelatednessFilter(&mapFetcher{err: errors.New("timeout")})

	in := []model.Candidate{
		{URL: "https://x.com/a", Title: "Acme Corp expands"},
		{URL: "https://x.com/b", Title: "Unrelated"},
	}

	kept, skips := filter.Apply(context.Background(), in, "Acme Corp")
	if len(kept) != 1 || kept[0].URL != "https://x.com/a" {
		t.Fatalf("fetch failure is non-fatal; title match must survive, got %+v", kept)
	}
	if len(skips) != 1 {
		t.Errorf("unrelated candidate should be skipped, got %+v", skips)
	}
}

func TestRelatednessFilter_DoesNotRefetchExistingContent(t *testing.T) {
	fetcher := &mapFetcher{err: errors.New("should not be called")}
	filter := NewRelatednessFilter(fetcher)

	in := []model.Candidate{
		{URL: "https://x.com/a", Title: "Roundup", Content: "Acme Corp did a thing."},
	}

	kept, _ := filter.Apply(context.Background(), in, "Acme Corp")
	if len(kept) != 1 {
		t.Fatalf("expected pre-fetched content to be used, got %+v", kept)
	}
}
