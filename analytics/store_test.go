package analytics

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "data", "analytics.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewStoreSetsSchemaVersion(t *testing.T) {
	s := setupTestStore(t)

	v, err := s.GetSetting("schema_version")
	if err != nil {
		t.Fatalf("GetSetting failed: %v", err)
	}
	if v != "1" {
		t.Errorf("schema_version = %q, want %q", v, "1")
	}
	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestSettingsUpsert(t *testing.T) {
	s := setupTestStore(t)

	if got, err := s.GetSetting("missing"); err != nil || got != "" {
		t.Fatalf("GetSetting(missing) = %q, %v; want empty, nil", got, err)
	}
	if err := s.SetSetting("k", "one"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	if err := s.SetSetting("k", "two"); err != nil {
		t.Fatalf("SetSetting update failed: %v", err)
	}
	if got, _ := s.GetSetting("k"); got != "two" {
		t.Errorf("GetSetting(k) = %q, want %q", got, "two")
	}
}

func TestInitSaltPersists(t *testing.T) {
	s := setupTestStore(t)
	if err := InitSalt(s); err != nil {
		t.Fatalf("InitSalt failed: %v", err)
	}
	if HashIP("198.51.100.7") == HashIP("198.51.100.8") {
		t.Error("different IPs should hash differently")
	}
	if len(HashIP("198.51.100.7")) != 16 {
		t.Error("hash should be truncated to 16 hex chars")
	}
}

func TestSaveAndCountViews(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	views := []View{
		{Slug: "authentication-nextjs", VisitorID: "v1", SessionID: "s1", Timestamp: now},
		{Slug: "authentication-nextjs", VisitorID: "v2", SessionID: "s2", Timestamp: now},
		{Slug: "guides/deploy", VisitorID: "v1", SessionID: "s1", Timestamp: now},
		{Slug: "old-post", VisitorID: "v3", SessionID: "s3", Timestamp: now.AddDate(0, 0, -90)},
	}
	for _, v := range views {
		if err := s.SaveView(ctx, v); err != nil {
			t.Fatalf("SaveView failed: %v", err)
		}
	}
	if err := s.SaveBotView(ctx, BotView{Slug: "authentication-nextjs", BotName: "Googlebot", IPHash: "x", Timestamp: now}); err != nil {
		t.Fatalf("SaveBotView failed: %v", err)
	}

	n, err := s.ArticleViews(ctx, "authentication-nextjs")
	if err != nil {
		t.Fatalf("ArticleViews failed: %v", err)
	}
	if n != 2 {
		t.Errorf("ArticleViews = %d, want 2 (bot views excluded)", n)
	}
	if n, _ := s.BotViews(ctx, "authentication-nextjs"); n != 1 {
		t.Errorf("BotViews = %d, want 1", n)
	}

	top, err := s.TopArticles(ctx, now.AddDate(0, 0, -30), 10)
	if err != nil {
		t.Fatalf("TopArticles failed: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("TopArticles count = %d, want 2", len(top))
	}
	if top[0].Slug != "authentication-nextjs" || top[0].Views != 2 {
		t.Errorf("top[0] = %+v", top[0])
	}

	if err := s.CleanupOlderThan(ctx, 30); err != nil {
		t.Fatalf("CleanupOlderThan failed: %v", err)
	}
	if n, _ := s.ArticleViews(ctx, "old-post"); n != 0 {
		t.Errorf("old views should be removed, got %d", n)
	}
	if n, _ := s.ArticleViews(ctx, "guides/deploy"); n != 1 {
		t.Errorf("recent views should survive cleanup, got %d", n)
	}
}

func TestTopArticlesEmpty(t *testing.T) {
	s := setupTestStore(t)
	top, err := s.TopArticles(context.Background(), time.Now().AddDate(0, 0, -1), 5)
	if err != nil {
		t.Fatalf("TopArticles failed: %v", err)
	}
	if top == nil || len(top) != 0 {
		t.Errorf("TopArticles = %v, want empty non-nil slice", top)
	}
}
