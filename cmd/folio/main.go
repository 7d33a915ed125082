package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/eringen/folio"
	"github.com/eringen/folio/analytics"
	"github.com/eringen/folio/content"
)

// version is set at build time via ldflags.
var version = "dev"

const storeOpenMaxElapsed = 30 * time.Second

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := run(serve); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "check":
		if err := run(check); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("folio %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`folio - A personal article site built with Go, Echo, and templ

Usage:
  folio <command>

Commands:
  serve         Load articles and start the HTTP server
  check         Load and validate articles, then exit
  version       Print the folio version
  help          Show this help message

Configuration is read from the environment and an optional .env file.`)
}

// run loads configuration and invokes cmd with a context cancelled on
// SIGINT or SIGTERM.
func run(cmd func(context.Context, folio.SiteConfig, zerolog.Logger) error) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	cfg, err := folio.LoadConfig()
	if err != nil {
		return err
	}
	log := folio.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return cmd(ctx, cfg, log)
}

func loadArticles(ctx context.Context, cfg folio.SiteConfig, log zerolog.Logger) (*content.Collection, error) {
	articles, err := content.Load(ctx, os.DirFS(cfg.ContentDir), content.LoadOptions{Strict: cfg.StrictSlugs})
	if err != nil {
		return nil, err
	}
	for _, slug := range articles.Duplicates() {
		log.Warn().Str("slug", slug).Msg("duplicate article slug, first file wins")
	}
	for _, p := range articles.Skipped() {
		log.Warn().Str("path", p).Msg("skipped file with no article slug")
	}
	log.Info().
		Int("articles", articles.Len()).
		Int("published", len(articles.Published())).
		Str("dir", cfg.ContentDir).
		Msg("articles loaded")
	return articles, nil
}

func check(ctx context.Context, cfg folio.SiteConfig, log zerolog.Logger) error {
	articles, err := loadArticles(ctx, cfg, log)
	if err != nil {
		return err
	}
	for _, a := range articles.All() {
		state := "published"
		if !a.Published {
			state = "draft"
		}
		fmt.Printf("%-9s %-40s %s\n", state, a.Slug, a.SourcePath)
	}
	if dups := articles.Duplicates(); len(dups) > 0 {
		return fmt.Errorf("%d duplicate slug(s): %w", len(dups), content.ErrDuplicateSlug)
	}
	return nil
}

func serve(ctx context.Context, cfg folio.SiteConfig, log zerolog.Logger) error {
	articles, err := loadArticles(ctx, cfg, log)
	if err != nil {
		return err
	}

	opts := []folio.Option{folio.WithLogger(log)}
	if cfg.AnalyticsEnabled {
		store, err := openAnalytics(ctx, cfg.AnalyticsDatabasePath, log)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := analytics.InitSalt(store); err != nil {
			return fmt.Errorf("init analytics salt: %w", err)
		}
		opts = append(opts, folio.WithAnalytics(store))
	}

	app := folio.New(cfg, articles, opts...)
	defer app.Close()
	return app.Start(ctx)
}

// openAnalytics retries opening the database while another process may
// still hold its lock.
func openAnalytics(ctx context.Context, path string, log zerolog.Logger) (*analytics.Store, error) {
	operation := func() (*analytics.Store, error) {
		store, err := analytics.NewStore(path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("failed to open analytics database")
			return nil, err
		}
		if err := store.Ping(ctx); err != nil {
			store.Close()
			log.Warn().Err(err).Msg("failed to ping analytics database")
			return nil, err
		}
		return store, nil
	}

	store, err := backoff.Retry(ctx, operation, backoff.WithMaxElapsedTime(storeOpenMaxElapsed))
	if err != nil {
		return nil, fmt.Errorf("open analytics: %w", err)
	}
	log.Info().Str("path", path).Msg("analytics database ready")
	return store, nil
}
