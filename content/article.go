// Package content builds the immutable article collection served by the site.
//
// Articles are Markdown or MDX files with a YAML frontmatter block. They are
// loaded and compiled once at startup; nothing in this package mutates a
// record after the collection has been built.
package content

import (
	"errors"
	"time"
)

var (
	// ErrArticleNotFound is returned when no article matches a requested slug.
	ErrArticleNotFound = errors.New("article not found")
	// ErrDuplicateSlug is returned by a strict load when two files map to the same slug.
	ErrDuplicateSlug = errors.New("duplicate article slug")
	// ErrNoSlug is returned for a file that maps to no article path, such as
	// an index file at the collection root.
	ErrNoSlug = errors.New("file has no article slug")
)

// Body holds the source and compiled forms of an article body.
type Body struct {
	Raw  string // Markdown without frontmatter
	Code string // compiled HTML
}

// Article is a single compiled content record.
type Article struct {
	Slug         string // "/" + flattened path, e.g. "/articles/authentication-nextjs"
	SlugAsParams string // flattened path without its first segment
	Title        string
	Description  string
	Date         time.Time
	TimeToRead   int // minutes
	Published    bool
	Tags         []string
	Body         Body
	SourcePath   string
}

// Link returns the site-relative URL of the article page.
func (a Article) Link() string {
	return a.Slug
}
