// Package folio serves a personal article site built with Go, Echo, and templ.
// Articles are compiled from Markdown once at startup into an immutable
// collection; requests resolve a slug, build social metadata and render the
// page, or fall through to a 404.
package folio

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/eringen/folio/analytics"
	"github.com/eringen/folio/content"
	"github.com/eringen/folio/seo"
)

// dedupeWindow is how long a visitor's read of an article is counted once.
const dedupeWindow = 30 * time.Minute

// App is the central folio application. It wires together the article
// collection, analytics, metrics, middleware and routes.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Articles *content.Collection
	Images   *ImageCache
	Log      zerolog.Logger

	analyticsStore *analytics.Store
	analytics      *analytics.Handler
	registry       *prometheus.Registry
	resolves       *prometheus.CounterVec
	staticDir      string
	now            func() time.Time
}

// New creates a folio App serving articles. Routes and middleware are
// registered immediately so the App can be exercised with httptest.
func New(cfg SiteConfig, articles *content.Collection, opts ...Option) *App {
	cfg.setDefaults()
	if articles == nil {
		articles = content.NewCollection(nil)
	}

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Articles:  articles,
		Images:    NewImageCache(cfg.Name),
		Log:       NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat),
		registry:  prometheus.NewRegistry(),
		staticDir: "public",
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(a)
	}

	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	a.resolves = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "folio",
		Name:      "article_resolves_total",
		Help:      "Article lookups by outcome.",
	}, []string{"outcome"})
	a.registry.MustRegister(
		a.resolves,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if a.analyticsStore != nil {
		a.analytics = analytics.NewHandler(a.analyticsStore, dedupeWindow, a.Log)
	}

	a.setupMiddleware()
	a.setupRoutes()
	return a
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Embedded stylesheet first; everything else under /public comes from
	// the user's static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/styles.css", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))
	e.Static("/public", a.staticDir)

	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/healthz", a.handleHealth)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: a.registry,
	}))

	e.GET("/", a.handleHome)
	e.GET("/"+seo.ArticlesSegment, a.handleArticles)
	e.GET("/"+seo.ArticlesSegment+"/*", a.handleArticle)
	e.GET("/og/*", a.handleOGImage)

	if a.analytics != nil {
		api := e.Group("/api")
		api.GET("/views/*", a.handleViews)
		api.GET("/popular", a.analytics.Popular)
	}
}

// ArticleMetadata resolves segments and builds the page metadata for the
// match. It returns nil when no article resolves.
func (a *App) ArticleMetadata(segments []string) *seo.Metadata {
	article, err := a.Articles.Resolve(segments)
	if err != nil {
		return nil
	}
	return seo.BuildMetadata(&article, a.Config.Site())
}

// Start runs the HTTP server until ctx is cancelled, then shuts it down
// gracefully within Config.ShutdownTimeout.
func (a *App) Start(ctx context.Context) error {
	if a.analyticsStore != nil {
		stopCleanup := a.analyticsStore.StartCleanupScheduler(a.Config.AnalyticsRetentionDays, 24*time.Hour, a.Log)
		defer stopCleanup()
	}

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info().
			Str("addr", a.Config.Addr).
			Int("articles", a.Articles.Len()).
			Msg("server started")
		if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("folio: serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.Log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.ShutdownTimeout)
	defer cancel()
	if err := a.Echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("folio: shutdown: %w", err)
	}
	return nil
}

// Close cleans up resources owned by the App. The analytics store passed via
// WithAnalytics is closed by its owner.
func (a *App) Close() error {
	if a.analytics != nil {
		a.analytics.Close()
	}
	return nil
}

// splitSegments turns a wildcard path into slug segments, dropping empty ones.
func splitSegments(p string) []string {
	var out []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
