package folio

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/seo"
	"github.com/eringen/folio/views"
)

// homeLimit is the number of recent articles listed on the home page.
const homeLimit = 5

func (a *App) handleHome(c echo.Context) error {
	latest := a.Articles.Published()
	if len(latest) > homeLimit {
		latest = latest[:homeLimit]
	}
	return Render(c, views.Home(a.Config.Site(), latest, a.now()))
}

func (a *App) handleArticles(c echo.Context) error {
	articles := FilterByTag(a.Articles.Published(), c.QueryParam("tag"))
	return Render(c, views.ArticleList(a.Config.Site(), articles, a.now()))
}

func (a *App) handleArticle(c echo.Context) error {
	article, err := a.resolve(c.Param("*"))
	if err != nil {
		if errors.Is(err, content.ErrArticleNotFound) {
			return RenderStatus(c, http.StatusNotFound, views.NotFound(a.Config.Site(), a.now()))
		}
		return err
	}

	site := a.Config.Site()
	meta := seo.BuildMetadata(&article, site)
	if err := Render(c, views.ArticlePage(site, meta, article, a.now())); err != nil {
		return err
	}
	if a.analytics != nil {
		a.analytics.Record(c, article.SlugAsParams)
	}
	return nil
}

func (a *App) handleOGImage(c echo.Context) error {
	p := c.Param("*")
	if !strings.HasSuffix(p, ".png") {
		return echo.ErrNotFound
	}
	article, err := a.resolve(strings.TrimSuffix(p, ".png"))
	if err != nil {
		if errors.Is(err, content.ErrArticleNotFound) {
			return echo.ErrNotFound
		}
		return err
	}
	img, err := a.Images.Get(article)
	if err != nil {
		return fmt.Errorf("render og image %q: %w", article.SlugAsParams, err)
	}
	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	return c.Blob(http.StatusOK, "image/png", img)
}

func (a *App) handleViews(c echo.Context) error {
	article, err := a.resolve(c.Param("*"))
	if err != nil {
		if errors.Is(err, content.ErrArticleNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "article not found"})
		}
		return err
	}
	return a.analytics.Views(c, article.SlugAsParams)
}

func (a *App) handleSitemap(c echo.Context) error {
	return a.renderSitemap(c, a.Articles.Published())
}

func (a *App) handleFeed(c echo.Context) error {
	return a.renderRSS(c, a.Articles.Published())
}

// handleRobots generates robots.txt using the configured site URL.
func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /api/\n\nSitemap: %s\n", BuildURL(a.Config.URL, "sitemap.xml"))
	return c.String(http.StatusOK, body)
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status    string `json:"status"`
	Articles  int    `json:"articles"`
	Analytics string `json:"analytics"`
}

func (a *App) handleHealth(c echo.Context) error {
	resp := HealthResponse{Status: "ok", Articles: a.Articles.Len(), Analytics: "disabled"}
	if a.analytics != nil {
		resp.Analytics = "ok"
		if err := a.analyticsStore.Ping(c.Request().Context()); err != nil {
			a.Log.Warn().Err(err).Msg("analytics health check failed")
			resp.Status = "degraded"
			resp.Analytics = "unavailable"
			return c.JSON(http.StatusServiceUnavailable, resp)
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// resolve unescapes a wildcard path and looks the article up, counting the
// outcome.
func (a *App) resolve(raw string) (content.Article, error) {
	if p, err := url.PathUnescape(raw); err == nil {
		raw = p
	}
	article, err := a.Articles.Resolve(splitSegments(raw))
	switch {
	case err == nil:
		a.resolves.WithLabelValues("found").Inc()
	case errors.Is(err, content.ErrArticleNotFound):
		a.resolves.WithLabelValues("not_found").Inc()
	}
	return article, err
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	site := a.Config.Site()
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound(site, a.now()))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Log.Error().
			Err(err).
			Str("uri", c.Request().RequestURI).
			Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
			Msg("server error")
		_ = RenderStatus(c, code, views.ServerError(site, a.now()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
