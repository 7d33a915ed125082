package analytics

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const (
	defaultPopularDays  = 30
	defaultPopularLimit = 5
	maxPopularDays      = 365
	maxPopularLimit     = 50
)

// Handler records article reads and serves view counts.
type Handler struct {
	store  *Store
	dedupe *rateLimiter
	log    zerolog.Logger
}

// NewHandler creates a Handler that counts a visitor at most once per
// article within window.
func NewHandler(store *Store, window time.Duration, log zerolog.Logger) *Handler {
	return &Handler{
		store:  store,
		dedupe: newRateLimiter(1, window),
		log:    log.With().Str("component", "analytics").Logger(),
	}
}

// Close stops background work owned by the handler.
func (h *Handler) Close() {
	h.dedupe.stop()
}

// Record stores a read of slug for the current request. Failures are logged
// and never affect the response.
func (h *Handler) Record(c echo.Context, slug string) {
	req := c.Request()
	if req.Header.Get("DNT") == "1" {
		return
	}
	ctx := req.Context()
	ua := req.UserAgent()
	ip := c.RealIP()
	now := time.Now().UTC()

	if IsBot(ua) {
		err := h.store.SaveBotView(ctx, BotView{
			Slug:      slug,
			BotName:   BotName(ua),
			IPHash:    HashIP(ip),
			Timestamp: now,
		})
		if err != nil {
			h.log.Error().Err(err).Str("slug", slug).Msg("failed to save bot view")
		}
		return
	}

	visitorID := VisitorID(ip, ua)
	if !h.dedupe.allow(visitorID + "|" + slug) {
		return
	}
	err := h.store.SaveView(ctx, View{
		Slug:      slug,
		VisitorID: visitorID,
		SessionID: sessionID(visitorID, now),
		Referrer:  CleanReferrer(req.Referer()),
		Timestamp: now,
	})
	if err != nil {
		h.log.Error().Err(err).Str("slug", slug).Msg("failed to save view")
	}
}

// ViewsResponse is the JSON body for a single article's view count. Crawler
// reads are reported apart from human views.
type ViewsResponse struct {
	Slug     string `json:"slug"`
	Views    int    `json:"views"`
	BotViews int    `json:"bot_views"`
}

// Views writes the view and bot view counts for slug.
func (h *Handler) Views(c echo.Context, slug string) error {
	ctx := c.Request().Context()
	n, err := h.store.ArticleViews(ctx, slug)
	if err != nil {
		return err
	}
	bots, err := h.store.BotViews(ctx, slug)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ViewsResponse{Slug: slug, Views: n, BotViews: bots})
}

// PopularResponse is the JSON body for the popular articles endpoint.
type PopularResponse struct {
	Days     int            `json:"days"`
	Articles []ArticleCount `json:"articles"`
}

// Popular writes the most read articles over the last ?days= days.
func (h *Handler) Popular(c echo.Context) error {
	days := boundedInt(c.QueryParam("days"), defaultPopularDays, maxPopularDays)
	limit := boundedInt(c.QueryParam("limit"), defaultPopularLimit, maxPopularLimit)
	since := time.Now().UTC().AddDate(0, 0, -days)

	top, err := h.store.TopArticles(c.Request().Context(), since, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, PopularResponse{Days: days, Articles: top})
}

// boundedInt parses raw, falling back to def when it is missing, invalid or
// outside 1..max.
func boundedInt(raw string, def, max int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > max {
		return def
	}
	return n
}

// sessionID derives a per-day session identifier from the visitor ID.
func sessionID(visitorID string, now time.Time) string {
	h := sha256.New()
	h.Write([]byte(visitorID + "|" + now.Format("2006-01-02")))
	return hex.EncodeToString(h.Sum(nil))[:16]
}
