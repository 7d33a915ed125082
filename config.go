package folio

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"

	"github.com/eringen/folio/analytics"
	"github.com/eringen/folio/seo"
)

// SiteConfig holds all configuration for a folio site.
type SiteConfig struct {
	Name        string `env:"SITE_NAME" envDefault:"Folio"`                // Site name
	URL         string `env:"SITE_URL" envDefault:"http://localhost:3000"` // Canonical origin
	Description string `env:"SITE_DESCRIPTION"`                            // Default meta description
	Author      string `env:"SITE_AUTHOR"`                                 // Author for JSON-LD and the feed
	Twitter     string `env:"SITE_TWITTER"`                                // twitter:creator handle

	Addr            string        `env:"ADDR" envDefault:":3000"`
	ContentDir      string        `env:"CONTENT_DIR" envDefault:"."` // Root holding the articles/ tree
	StrictSlugs     bool          `env:"STRICT_SLUGS"`               // Fail startup on duplicate slugs
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	AnalyticsEnabled       bool   `env:"ANALYTICS_ENABLED" envDefault:"true"`
	AnalyticsDatabasePath  string `env:"ANALYTICS_DB" envDefault:"data/analytics.db"`
	AnalyticsRetentionDays int    `env:"ANALYTICS_RETENTION_DAYS" envDefault:"365"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"` // "json" or "console"
}

// LoadConfig reads SiteConfig from the environment.
func LoadConfig() (SiteConfig, error) {
	var cfg SiteConfig
	if err := env.Parse(&cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.setDefaults()
	return cfg, nil
}

// setDefaults fills zero values for configs built in code rather than read
// from the environment.
func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Folio"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ContentDir == "" {
		c.ContentDir = "."
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
	if c.AnalyticsDatabasePath == "" {
		c.AnalyticsDatabasePath = "data/analytics.db"
	}
	if c.AnalyticsRetentionDays <= 0 {
		c.AnalyticsRetentionDays = 365
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "json"
	}
}

// Site returns the subset of the config used for page metadata.
func (c SiteConfig) Site() seo.Site {
	return seo.Site{
		Name:          c.Name,
		URL:           c.URL,
		Description:   c.Description,
		Author:        c.Author,
		TwitterHandle: c.Twitter,
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithAnalytics records article reads into store and enables the analytics
// API. The App does not take ownership of the store.
func WithAnalytics(store *analytics.Store) Option {
	return func(a *App) {
		a.analyticsStore = store
	}
}

// WithLogger replaces the logger built from the config.
func WithLogger(log zerolog.Logger) Option {
	return func(a *App) {
		a.Log = log
	}
}

// WithClock overrides the time source used for relative dates.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}
