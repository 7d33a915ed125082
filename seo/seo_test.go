package seo

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/eringen/folio/content"
)

var testSite = Site{
	Name:          "Notes",
	URL:           "https://example.com/",
	Description:   "Writing about the web.",
	Author:        "Ada",
	TwitterHandle: "@ada",
}

func testArticle() *content.Article {
	return &content.Article{
		Slug:         "/articles/authentication-nextjs",
		SlugAsParams: "authentication-nextjs",
		Title:        "Authentication in Next.js",
		Description:  "Build auth with a framework, an ORM and a database.",
		Date:         time.Date(2023, 9, 19, 0, 0, 0, 0, time.UTC),
		TimeToRead:   5,
		Tags:         []string{"nextjs", "auth"},
	}
}

func TestBuildMetadataNil(t *testing.T) {
	if got := BuildMetadata(nil, testSite); got != nil {
		t.Errorf("BuildMetadata(nil) = %+v, want nil", got)
	}
}

func TestBuildMetadata(t *testing.T) {
	m := BuildMetadata(testArticle(), testSite)
	if m == nil {
		t.Fatal("BuildMetadata returned nil")
	}

	wantURL := "https://example.com/articles/authentication-nextjs"
	if m.Canonical != wantURL {
		t.Errorf("Canonical = %q, want %q", m.Canonical, wantURL)
	}
	if !strings.HasSuffix(m.OpenGraph.URL, "/articles/authentication-nextjs") {
		t.Errorf("OpenGraph.URL = %q", m.OpenGraph.URL)
	}
	if m.Title != "Authentication in Next.js" || m.OpenGraph.Title != m.Title || m.Twitter.Title != m.Title {
		t.Errorf("titles do not mirror the article: %+v", m)
	}
	if m.Description != m.OpenGraph.Description || m.Description != m.Twitter.Description {
		t.Errorf("descriptions do not mirror the article: %+v", m)
	}
	if m.OpenGraph.Type != "article" {
		t.Errorf("OpenGraph.Type = %q, want article", m.OpenGraph.Type)
	}
	if m.OpenGraph.PublishedTime != "2023-09-19T00:00:00.000Z" {
		t.Errorf("PublishedTime = %q", m.OpenGraph.PublishedTime)
	}
	if m.Twitter.Card != "summary_large_image" {
		t.Errorf("Twitter.Card = %q, want summary_large_image", m.Twitter.Card)
	}
	if m.OpenGraph.Image != "https://example.com/og/authentication-nextjs.png" {
		t.Errorf("OpenGraph.Image = %q", m.OpenGraph.Image)
	}
}

func TestBuildMetadataNestedSlug(t *testing.T) {
	a := testArticle()
	a.SlugAsParams = "guides/deploy"
	m := BuildMetadata(a, Site{URL: "https://example.com"})
	if m.Canonical != "https://example.com/articles/guides/deploy" {
		t.Errorf("Canonical = %q", m.Canonical)
	}
}

func TestTagsSkipEmpty(t *testing.T) {
	a := testArticle()
	a.Description = ""
	m := BuildMetadata(a, Site{URL: "https://example.com"})

	seen := map[string]string{}
	for _, tag := range m.Tags() {
		key := tag.Name + tag.Property
		seen[key] = tag.Content
		if tag.Content == "" {
			t.Errorf("empty tag emitted: %+v", tag)
		}
	}
	if _, ok := seen["description"]; ok {
		t.Error("description tag should be omitted when empty")
	}
	if seen["og:type"] != "article" {
		t.Errorf("og:type = %q", seen["og:type"])
	}
	if seen["twitter:card"] != "summary_large_image" {
		t.Errorf("twitter:card = %q", seen["twitter:card"])
	}
	var nilMeta *Metadata
	if nilMeta.Tags() != nil {
		t.Error("nil metadata should produce no tags")
	}
}

func TestDefault(t *testing.T) {
	m := Default(testSite)
	if m.Title != "Notes" || m.OpenGraph.Type != "website" {
		t.Errorf("Default = %+v", m)
	}
	if m.Canonical != "https://example.com/" {
		t.Errorf("Canonical = %q", m.Canonical)
	}
}

func TestArticleJSONLD(t *testing.T) {
	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(ArticleJSONLD(*testArticle(), testSite)), &doc); err != nil {
		t.Fatalf("invalid JSON-LD: %v", err)
	}
	if doc["@type"] != "Article" {
		t.Errorf("@type = %v", doc["@type"])
	}
	if doc["headline"] != "Authentication in Next.js" {
		t.Errorf("headline = %v", doc["headline"])
	}
	if doc["keywords"] != "nextjs, auth" {
		t.Errorf("keywords = %v", doc["keywords"])
	}
	author, ok := doc["author"].(map[string]interface{})
	if !ok || author["name"] != "Ada" {
		t.Errorf("author = %v", doc["author"])
	}
}
