package content

import (
	"errors"
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func testArticles() []Article {
	return []Article{
		{SlugAsParams: "authentication-nextjs", Slug: "/articles/authentication-nextjs", Title: "Auth", Date: day("2023-09-19"), TimeToRead: 5, Published: true},
		{SlugAsParams: "guides/deploy", Slug: "/articles/guides/deploy", Title: "Deploy", Date: day("2024-02-01"), TimeToRead: 3, Published: true},
		{SlugAsParams: "draft", Slug: "/articles/draft", Title: "Draft", Date: day("2025-01-01"), Published: false},
		{SlugAsParams: "authentication-nextjs", Slug: "/articles/authentication-nextjs", Title: "Auth duplicate", Date: day("2026-01-01"), Published: true},
	}
}

func TestResolveFound(t *testing.T) {
	c := NewCollection(testArticles())

	tests := []struct {
		segments []string
		want     string
	}{
		{[]string{"authentication-nextjs"}, "Auth"},
		{[]string{"guides", "deploy"}, "Deploy"},
		{[]string{"draft"}, "Draft"},
	}
	for _, tt := range tests {
		got, err := c.Resolve(tt.segments)
		if err != nil {
			t.Fatalf("Resolve(%v) failed: %v", tt.segments, err)
		}
		if got.Title != tt.want {
			t.Errorf("Resolve(%v).Title = %q, want %q", tt.segments, got.Title, tt.want)
		}
	}
}

func TestResolveNotFound(t *testing.T) {
	c := NewCollection(testArticles())

	for _, segs := range [][]string{
		nil,
		{},
		{"missing"},
		{"guides"},
		{"deploy"},
		{"guides", "deploy", "extra"},
	} {
		if _, err := c.Resolve(segs); !errors.Is(err, ErrArticleNotFound) {
			t.Errorf("Resolve(%v) error = %v, want ErrArticleNotFound", segs, err)
		}
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	c := NewCollection(testArticles())
	segs := []string{"guides", "deploy"}

	first, err1 := c.Resolve(segs)
	second, err2 := c.Resolve(segs)
	if err1 != nil || err2 != nil {
		t.Fatalf("Resolve errors: %v, %v", err1, err2)
	}
	if first.Slug != second.Slug || first.Title != second.Title {
		t.Errorf("Resolve results differ: %+v vs %+v", first, second)
	}
}

func TestResolveFirstDuplicateWins(t *testing.T) {
	c := NewCollection(testArticles())

	got, err := c.Resolve([]string{"authentication-nextjs"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got.Title != "Auth" {
		t.Errorf("Title = %q, want first record %q", got.Title, "Auth")
	}
	dups := c.Duplicates()
	if len(dups) != 1 || dups[0] != "authentication-nextjs" {
		t.Errorf("Duplicates = %v, want [authentication-nextjs]", dups)
	}
}

func TestPublishedOrderAndFiltering(t *testing.T) {
	c := NewCollection(testArticles())

	got := c.Published()
	if len(got) != 2 {
		t.Fatalf("Published count = %d, want 2 (drafts and shadowed duplicates excluded)", len(got))
	}
	if got[0].Title != "Deploy" || got[1].Title != "Auth" {
		t.Errorf("Published order = [%s %s], want [Deploy Auth]", got[0].Title, got[1].Title)
	}
	if c.Len() != 4 {
		t.Errorf("Len = %d, want 4", c.Len())
	}
}

func TestCollectionReturnsCopies(t *testing.T) {
	c := NewCollection(testArticles())

	all := c.All()
	all[0].Title = "mutated"
	got, _ := c.Lookup("authentication-nextjs")
	if got.Title != "Auth" {
		t.Errorf("collection was mutated through All(): Title = %q", got.Title)
	}
}

func TestLookupOnNilCollection(t *testing.T) {
	var c *Collection
	if _, err := c.Lookup("anything"); !errors.Is(err, ErrArticleNotFound) {
		t.Errorf("nil collection Lookup error = %v, want ErrArticleNotFound", err)
	}
}
