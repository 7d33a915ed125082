package views

import (
	"html/template"
	"time"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/seo"
)

// layoutData feeds the shared <head> and page chrome.
type layoutData struct {
	Site   seo.Site
	Meta   *seo.Metadata
	JSONLD template.JS
	Year   int
}

// listData feeds the home page and the article index.
type listData struct {
	Site     seo.Site
	Articles []content.Article
	Now      time.Time
}

// articleData feeds the article header.
type articleData struct {
	Article content.Article
	Now     time.Time
}
