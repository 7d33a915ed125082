// Package ogimage renders the Open Graph preview card for an article.
package ogimage

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	Width  = 1200
	Height = 630

	// The card is drawn at 1/scale resolution with the 7x13 bitmap face and
	// upscaled with nearest-neighbour sampling so glyphs stay crisp.
	scale    = 5
	margin   = 12
	lineStep = 16
	maxLines = 4
)

var (
	background = color.RGBA{R: 0x1c, G: 0x19, B: 0x17, A: 0xff}
	foreground = color.RGBA{R: 0xfa, G: 0xfa, B: 0xf9, A: 0xff}
	muted      = color.RGBA{R: 0xa8, G: 0xa2, B: 0x9e, A: 0xff}
	accent     = color.RGBA{R: 0xf5, G: 0x9e, B: 0x0b, A: 0xff}
)

// Card is the text shown on a preview image.
type Card struct {
	Title    string
	Subtitle string // e.g. "5 min read"
	SiteName string
}

// Render draws card as a Width x Height PNG.
func Render(w io.Writer, card Card) error {
	small := image.NewRGBA(image.Rect(0, 0, Width/scale, Height/scale))
	draw.Draw(small, small.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	draw.Draw(small, image.Rect(0, 0, Width/scale, 3), image.NewUniform(accent), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	cols := (Width/scale - 2*margin) / face.Advance

	y := margin + lineStep
	for _, line := range Wrap(card.Title, cols, maxLines) {
		drawText(small, face, foreground, margin, y, line)
		y += lineStep
	}
	if card.Subtitle != "" {
		drawText(small, face, muted, margin, y+lineStep/2, truncate(card.Subtitle, cols))
	}
	if card.SiteName != "" {
		drawText(small, face, accent, margin, Height/scale-margin, truncate(card.SiteName, cols))
	}

	dst := image.NewRGBA(image.Rect(0, 0, Width, Height))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), small, small.Bounds(), draw.Src, nil)

	if err := png.Encode(w, dst); err != nil {
		return fmt.Errorf("encode og image: %w", err)
	}
	return nil
}

func drawText(dst draw.Image, face font.Face, c color.Color, x, y int, s string) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// Wrap breaks s into at most maxLines lines of at most cols characters,
// splitting on spaces. Overflowing text is cut with "...".
func Wrap(s string, cols, maxLines int) []string {
	words := strings.Fields(s)
	if len(words) == 0 || cols <= 0 || maxLines <= 0 {
		return nil
	}

	var lines []string
	var cur string
	for _, word := range words {
		word = truncate(word, cols)
		switch {
		case cur == "":
			cur = word
		case runeLen(cur)+1+runeLen(word) <= cols:
			cur += " " + word
		default:
			lines = append(lines, cur)
			cur = word
		}
	}
	lines = append(lines, cur)

	if len(lines) > maxLines {
		lines = lines[:maxLines]
		last := []rune(lines[maxLines-1])
		keep := cols - 3
		if keep < 0 {
			keep = 0
		}
		if len(last) > keep {
			last = last[:keep]
		}
		lines[maxLines-1] = string(last) + "..."
	}
	return lines
}

// truncate cuts s to cols runes, marking the cut with "..." when it fits.
func truncate(s string, cols int) string {
	r := []rune(s)
	if len(r) <= cols {
		return s
	}
	if cols <= 3 {
		return string(r[:cols])
	}
	return string(r[:cols-3]) + "..."
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
