package content

import (
	"sort"
	"strings"
)

// Collection is an immutable set of articles indexed by SlugAsParams.
// It is safe for concurrent reads.
type Collection struct {
	articles   []Article
	bySlug     map[string]int
	published  []Article
	duplicates []string
	skipped    []string
}

// NewCollection indexes articles in the given order. When two articles share
// a SlugAsParams the first one wins and the slug is reported by Duplicates.
func NewCollection(articles []Article) *Collection {
	c := &Collection{
		articles: append([]Article(nil), articles...),
		bySlug:   make(map[string]int, len(articles)),
	}
	seenDup := make(map[string]struct{})
	for i, a := range c.articles {
		if _, ok := c.bySlug[a.SlugAsParams]; ok {
			if _, reported := seenDup[a.SlugAsParams]; !reported {
				c.duplicates = append(c.duplicates, a.SlugAsParams)
				seenDup[a.SlugAsParams] = struct{}{}
			}
			continue
		}
		c.bySlug[a.SlugAsParams] = i
		if a.Published {
			c.published = append(c.published, a)
		}
	}
	sort.SliceStable(c.published, func(i, j int) bool {
		if !c.published[i].Date.Equal(c.published[j].Date) {
			return c.published[i].Date.After(c.published[j].Date)
		}
		return c.published[i].Title < c.published[j].Title
	})
	return c
}

// Resolve joins the request path segments with "/" and returns the matching
// article, or ErrArticleNotFound.
func (c *Collection) Resolve(segments []string) (Article, error) {
	if len(segments) == 0 {
		return Article{}, ErrArticleNotFound
	}
	return c.Lookup(strings.Join(segments, "/"))
}

// Lookup returns the article whose SlugAsParams equals slug.
func (c *Collection) Lookup(slug string) (Article, error) {
	if c == nil || slug == "" {
		return Article{}, ErrArticleNotFound
	}
	i, ok := c.bySlug[slug]
	if !ok {
		return Article{}, ErrArticleNotFound
	}
	return c.articles[i], nil
}

// All returns every article in load order, including drafts and duplicates.
func (c *Collection) All() []Article {
	return append([]Article(nil), c.articles...)
}

// Published returns published, resolvable articles, newest first.
func (c *Collection) Published() []Article {
	return append([]Article(nil), c.published...)
}

// Len reports the number of loaded articles.
func (c *Collection) Len() int {
	return len(c.articles)
}

// Duplicates lists slugs claimed by more than one article.
func (c *Collection) Duplicates() []string {
	return append([]string(nil), c.duplicates...)
}

// Skipped lists source files the loader ignored because they map to no slug.
func (c *Collection) Skipped() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.skipped...)
}
