package folio

import (
	"bytes"
	"sync"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/ogimage"
	"github.com/eringen/folio/views"
)

// ImageCache holds rendered Open Graph cards keyed by article slug. Articles
// never change after startup, so entries live for the life of the process.
type ImageCache struct {
	mu       sync.RWMutex
	images   map[string][]byte
	siteName string
}

// NewImageCache creates an empty cache for cards branded with siteName.
func NewImageCache(siteName string) *ImageCache {
	return &ImageCache{images: make(map[string][]byte), siteName: siteName}
}

// Get returns the PNG card for a, rendering it on first use.
// It tries a read lock first; only takes a write lock if a render is needed.
func (c *ImageCache) Get(a content.Article) ([]byte, error) {
	c.mu.RLock()
	img, ok := c.images[a.SlugAsParams]
	c.mu.RUnlock()
	if ok {
		return img, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if img, ok := c.images[a.SlugAsParams]; ok {
		return img, nil
	}
	var buf bytes.Buffer
	err := ogimage.Render(&buf, ogimage.Card{
		Title:    a.Title,
		Subtitle: views.LongDate(a.Date) + " - " + views.ReadingTime(a.TimeToRead),
		SiteName: c.siteName,
	})
	if err != nil {
		return nil, err
	}
	c.images[a.SlugAsParams] = buf.Bytes()
	return buf.Bytes(), nil
}

// Len reports the number of cached cards.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}
