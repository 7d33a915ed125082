package views

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// RelativeDate formats t relative to now, e.g. "3 months ago".
func RelativeDate(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}

// ReadingTime formats a reading estimate, e.g. "5 min read".
func ReadingTime(minutes int) string {
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes)
}

// ISODate formats t as YYYY-MM-DD.
func ISODate(t time.Time) string {
	return t.Format("2006-01-02")
}

// LongDate formats t for humans, e.g. "September 19, 2023".
func LongDate(t time.Time) string {
	return t.Format("January 2, 2006")
}
