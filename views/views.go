// Package views renders site pages as templ components backed by embedded
// HTML templates.
package views

import (
	"context"
	"embed"
	"html/template"
	"io"
	"time"

	"github.com/a-h/templ"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/markdown"
	"github.com/eringen/folio/seo"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.New("").Funcs(template.FuncMap{
	"relativeDate": RelativeDate,
	"readingTime":  ReadingTime,
	"isoDate":      ISODate,
	"longDate":     LongDate,
}).ParseFS(templateFS, "templates/*.html"))

func execute(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return pages.ExecuteTemplate(w, name, data)
	})
}

// Layout wraps body in the document shell. A nil meta falls back to the
// site defaults; now stamps the footer.
func Layout(site seo.Site, meta *seo.Metadata, jsonLD string, now time.Time, body templ.Component) templ.Component {
	if meta == nil {
		meta = seo.Default(site)
	}
	data := layoutData{
		Site:   site,
		Meta:   meta,
		JSONLD: template.JS(jsonLD),
		Year:   now.Year(),
	}
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := pages.ExecuteTemplate(w, "layout_head", data); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		return pages.ExecuteTemplate(w, "layout_foot", data)
	})
}

// Article renders the article body block: back link, title, description,
// date and reading time, then the compiled content.
func Article(a content.Article, now time.Time) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := pages.ExecuteTemplate(w, "article_header", articleData{Article: a, Now: now}); err != nil {
			return err
		}
		if err := markdown.HTML(a.Body.Code).Render(ctx, w); err != nil {
			return err
		}
		return pages.ExecuteTemplate(w, "article_footer", nil)
	})
}

// ArticlePage is the full document for a resolved article.
func ArticlePage(site seo.Site, meta *seo.Metadata, a content.Article, now time.Time) templ.Component {
	return Layout(site, meta, seo.ArticleJSONLD(a, site), now, Article(a, now))
}

// Home lists the most recent articles under the site introduction.
func Home(site seo.Site, latest []content.Article, now time.Time) templ.Component {
	return Layout(site, nil, "", now, execute("home", listData{Site: site, Articles: latest, Now: now}))
}

// ArticleList renders the full article index.
func ArticleList(site seo.Site, articles []content.Article, now time.Time) templ.Component {
	meta := seo.Default(site)
	meta.Title = "Articles"
	meta.Canonical = site.Origin() + "/" + seo.ArticlesSegment
	meta.OpenGraph.URL = meta.Canonical
	return Layout(site, meta, "", now, execute("article_list", listData{Site: site, Articles: articles, Now: now}))
}

// NotFound is the terminal page for unknown routes and unresolved articles.
func NotFound(site seo.Site, now time.Time) templ.Component {
	meta := seo.Default(site)
	meta.Title = "Not found"
	return Layout(site, meta, "", now, execute("not_found", nil))
}

// ServerError is shown for unexpected failures.
func ServerError(site seo.Site, now time.Time) templ.Component {
	meta := seo.Default(site)
	meta.Title = "Something went wrong"
	return Layout(site, meta, "", now, execute("server_error", nil))
}
