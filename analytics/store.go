package analytics

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// currentSchemaVersion is the latest schema version. Increment when adding migrations.
const currentSchemaVersion = 1

// Store persists article views in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the analytics database at path.
func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create analytics dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open analytics db: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure analytics db: %w", err)
	}

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS article_views (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			slug TEXT NOT NULL,
			visitor_id TEXT NOT NULL,
			session_id TEXT NOT NULL,
			referrer TEXT NOT NULL DEFAULT '',
			ts INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS bot_views (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			slug TEXT NOT NULL,
			bot_name TEXT NOT NULL,
			ip_hash TEXT NOT NULL,
			ts INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_article_views_slug ON article_views(slug);
		CREATE INDEX IF NOT EXISTS idx_article_views_ts ON article_views(ts);
		CREATE INDEX IF NOT EXISTS idx_bot_views_ts ON bot_views(ts);

		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	return err
}

// migrate applies incremental schema migrations based on a version stored in the settings table.
func (s *Store) migrate() error {
	verStr, err := s.GetSetting("schema_version")
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	version := 0
	if verStr != "" {
		version, err = strconv.Atoi(verStr)
		if err != nil {
			return fmt.Errorf("parse schema version %q: %w", verStr, err)
		}
	}
	if version < currentSchemaVersion {
		version = currentSchemaVersion
	}
	return s.SetSetting("schema_version", strconv.Itoa(version))
}

// GetSetting retrieves a setting value by key. Returns empty string if not found.
func (s *Store) GetSetting(key string) (string, error) {
	var val string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return val, err
}

// SetSetting stores a setting value by key (upsert).
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// SaveView records a human article view.
func (s *Store) SaveView(ctx context.Context, v View) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO article_views (slug, visitor_id, session_id, referrer, ts) VALUES (?, ?, ?, ?, ?)`,
		v.Slug, v.VisitorID, v.SessionID, v.Referrer, v.Timestamp.UTC().Unix())
	if err != nil {
		return fmt.Errorf("save view: %w", err)
	}
	return nil
}

// SaveBotView records a crawler fetch.
func (s *Store) SaveBotView(ctx context.Context, v BotView) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bot_views (slug, bot_name, ip_hash, ts) VALUES (?, ?, ?, ?)`,
		v.Slug, v.BotName, v.IPHash, v.Timestamp.UTC().Unix())
	if err != nil {
		return fmt.Errorf("save bot view: %w", err)
	}
	return nil
}

// ArticleViews returns the total human views recorded for slug.
func (s *Store) ArticleViews(ctx context.Context, slug string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM article_views WHERE slug = ?`, slug).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count views: %w", err)
	}
	return n, nil
}

// BotViews returns the total crawler fetches recorded for slug.
func (s *Store) BotViews(ctx context.Context, slug string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bot_views WHERE slug = ?`, slug).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count bot views: %w", err)
	}
	return n, nil
}

// TopArticles returns the most viewed articles since the given time.
func (s *Store) TopArticles(ctx context.Context, since time.Time, limit int) ([]ArticleCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT slug, COUNT(*) AS views
		FROM article_views
		WHERE ts >= ?
		GROUP BY slug
		ORDER BY views DESC, slug ASC
		LIMIT ?`, since.UTC().Unix(), limit)
	if err != nil {
		return nil, fmt.Errorf("top articles: %w", err)
	}
	defer rows.Close()

	out := []ArticleCount{}
	for rows.Next() {
		var c ArticleCount
		if err := rows.Scan(&c.Slug, &c.Views); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CleanupOlderThan removes views and bot views older than the retention period.
func (s *Store) CleanupOlderThan(ctx context.Context, retentionDays int) error {
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays).Unix()
	if _, err := s.db.ExecContext(ctx, `DELETE FROM article_views WHERE ts < ?`, cutoff); err != nil {
		return fmt.Errorf("cleanup article_views: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM bot_views WHERE ts < ?`, cutoff); err != nil {
		return fmt.Errorf("cleanup bot_views: %w", err)
	}
	return nil
}

// StartCleanupScheduler runs periodic cleanup of old data. Returns a stop function.
func (s *Store) StartCleanupScheduler(retentionDays int, interval time.Duration, log zerolog.Logger) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	var once sync.Once

	go func() {
		for {
			select {
			case <-ticker.C:
				if err := s.CleanupOlderThan(context.Background(), retentionDays); err != nil {
					log.Error().Err(err).Msg("analytics cleanup failed")
				}
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() { once.Do(func() { close(done) }) }
}
