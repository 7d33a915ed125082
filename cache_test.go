package folio

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/eringen/folio/content"
)

func TestImageCacheRendersOnce(t *testing.T) {
	c := NewImageCache("Example")
	a := content.Article{
		SlugAsParams: "post",
		Title:        "A post",
		Date:         time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		TimeToRead:   4,
	}

	first, err := c.Get(a)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !bytes.HasPrefix(first, []byte("\x89PNG")) {
		t.Error("expected PNG data")
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			img, err := c.Get(a)
			if err != nil {
				t.Errorf("Get failed: %v", err)
				return
			}
			if !bytes.Equal(img, first) {
				t.Error("cached image changed between calls")
			}
		}()
	}
	wg.Wait()

	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}
