// Package seo builds page metadata for article pages: title, description,
// canonical URL, Open Graph and Twitter card fields, and JSON-LD.
package seo

import (
	"encoding/json"
	"strings"

	"github.com/eringen/folio/content"
)

const (
	// ArticlesSegment is the path segment under which article pages live.
	ArticlesSegment = "articles"

	TypeArticle        = "article"
	TypeWebsite        = "website"
	CardSummaryLarge   = "summary_large_image"
	publishedTimeStamp = "2006-01-02T15:04:05.000Z"
)

// Site carries the site-wide values metadata is derived from.
type Site struct {
	Name          string
	URL           string // origin, e.g. "https://example.com"
	Description   string
	Author        string
	TwitterHandle string
}

// OpenGraph holds og:* properties.
type OpenGraph struct {
	Title         string
	Description   string
	Type          string
	URL           string
	SiteName      string
	PublishedTime string
	Image         string
}

// Twitter holds twitter:* card fields.
type Twitter struct {
	Card        string
	Title       string
	Description string
	Image       string
	Creator     string
}

// Metadata is the metadata bag for a single page.
type Metadata struct {
	Title       string
	Description string
	Canonical   string
	OpenGraph   OpenGraph
	Twitter     Twitter
}

// Tag is a single <meta> element. Exactly one of Name or Property is set.
type Tag struct {
	Name     string
	Property string
	Content  string
}

// Origin trims trailing slashes from the configured site URL.
func (s Site) Origin() string {
	return strings.TrimRight(s.URL, "/")
}

// ArticleURL returns the absolute URL of the article page for slugAsParams.
func ArticleURL(site Site, slugAsParams string) string {
	return site.Origin() + "/" + ArticlesSegment + "/" + slugAsParams
}

// ImageURL returns the absolute URL of the generated Open Graph card.
func ImageURL(site Site, slugAsParams string) string {
	return site.Origin() + "/og/" + slugAsParams + ".png"
}

// BuildMetadata returns the metadata bag for article, or nil when there is
// no article so the caller falls back to Default.
func BuildMetadata(article *content.Article, site Site) *Metadata {
	if article == nil {
		return nil
	}
	url := ArticleURL(site, article.SlugAsParams)
	image := ImageURL(site, article.SlugAsParams)
	return &Metadata{
		Title:       article.Title,
		Description: article.Description,
		Canonical:   url,
		OpenGraph: OpenGraph{
			Title:         article.Title,
			Description:   article.Description,
			Type:          TypeArticle,
			URL:           url,
			SiteName:      site.Name,
			PublishedTime: article.Date.UTC().Format(publishedTimeStamp),
			Image:         image,
		},
		Twitter: Twitter{
			Card:        CardSummaryLarge,
			Title:       article.Title,
			Description: article.Description,
			Image:       image,
			Creator:     site.TwitterHandle,
		},
	}
}

// Default is the site-wide metadata used when a page supplies none.
func Default(site Site) *Metadata {
	return &Metadata{
		Title:       site.Name,
		Description: site.Description,
		Canonical:   site.Origin() + "/",
		OpenGraph: OpenGraph{
			Title:       site.Name,
			Description: site.Description,
			Type:        TypeWebsite,
			URL:         site.Origin() + "/",
			SiteName:    site.Name,
		},
		Twitter: Twitter{
			Card:        "summary",
			Title:       site.Name,
			Description: site.Description,
			Creator:     site.TwitterHandle,
		},
	}
}

// Tags flattens the metadata into <meta> elements, skipping empty values.
func (m *Metadata) Tags() []Tag {
	if m == nil {
		return nil
	}
	var tags []Tag
	add := func(tag Tag) {
		if tag.Content != "" {
			tags = append(tags, tag)
		}
	}
	add(Tag{Name: "description", Content: m.Description})
	add(Tag{Property: "og:title", Content: m.OpenGraph.Title})
	add(Tag{Property: "og:description", Content: m.OpenGraph.Description})
	add(Tag{Property: "og:type", Content: m.OpenGraph.Type})
	add(Tag{Property: "og:url", Content: m.OpenGraph.URL})
	add(Tag{Property: "og:site_name", Content: m.OpenGraph.SiteName})
	add(Tag{Property: "og:image", Content: m.OpenGraph.Image})
	add(Tag{Property: "article:published_time", Content: m.OpenGraph.PublishedTime})
	add(Tag{Name: "twitter:card", Content: m.Twitter.Card})
	add(Tag{Name: "twitter:title", Content: m.Twitter.Title})
	add(Tag{Name: "twitter:description", Content: m.Twitter.Description})
	add(Tag{Name: "twitter:image", Content: m.Twitter.Image})
	add(Tag{Name: "twitter:creator", Content: m.Twitter.Creator})
	return tags
}

// ArticleJSONLD returns a Schema.org Article document for the page.
func ArticleJSONLD(article content.Article, site Site) string {
	url := ArticleURL(site, article.SlugAsParams)
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "Article",
		"headline":      article.Title,
		"datePublished": article.Date.UTC().Format(publishedTimeStamp),
		"url":           url,
		"image":         ImageURL(site, article.SlugAsParams),
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   url,
		},
	}
	if article.Description != "" {
		data["description"] = article.Description
	}
	if site.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  site.Author,
		}
	}
	if len(article.Tags) > 0 {
		data["keywords"] = strings.Join(article.Tags, ", ")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
