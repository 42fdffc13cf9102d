package renderer

import (
	"image"
	"image/color"
	"math"
	"strings"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// ellipsis replaces the tail of text that had to be cropped.
const ellipsis = "..."

// baseline selects where the y coordinate of a text draw sits.
type baseline int

const (
	alphabetic baseline = iota // y is the baseline
	top                        // y is the top of the em box
)

// metrics of a measured string: advance width and the height of its ink.
type metrics struct {
	Width  float64
	Height float64
}

// measure returns the advance width and ink height (ascent plus descent
// of the actual glyphs) of text.
func measure(face font.Face, text string) metrics {
	bounds, advance := font.BoundString(face, text)
	return metrics{
		Width:  fixedToFloat(advance),
		Height: math.Abs(fixedToFloat(bounds.Min.Y)) + math.Abs(fixedToFloat(bounds.Max.Y)),
	}
}

// CropTextToFit shortens text to at most maxWidth pixels. Text that already
// fits is returned unchanged. Otherwise the widest fitting prefix is kept,
// trailing space trimmed, and its last three characters swapped for "...".
func CropTextToFit(face font.Face, text string, maxWidth float64) string {
	var (
		kept      []rune
		width     float64
		truncated bool
	)
	for _, r := range text {
		adv, ok := face.GlyphAdvance(r)
		if !ok {
			adv, _ = face.GlyphAdvance('\ufffd')
		}
		w := fixedToFloat(adv)
		if width+w > maxWidth {
			truncated = true
			break
		}
		kept = append(kept, r)
		width += w
	}
	if !truncated {
		return text
	}

	cropped := []rune(strings.TrimRightFunc(string(kept), unicode.IsSpace))
	if len(cropped) <= 3 {
		return ellipsis
	}
	return string(cropped[:len(cropped)-3]) + ellipsis
}

// textMask renders text into an alpha mask positioned on the canvas.
func textMask(face font.Face, text string, x, y float64, b baseline) *image.Alpha {
	dot := fixed.Point26_6{X: floatToFixed(x), Y: floatToFixed(y)}
	if b == top {
		dot.Y += face.Metrics().Ascent
	}

	d := &font.Drawer{Src: image.Opaque, Face: face, Dot: dot}
	bounds, _ := d.BoundString(text)
	r := image.Rect(bounds.Min.X.Floor(), bounds.Min.Y.Floor(), bounds.Max.X.Ceil(), bounds.Max.Y.Ceil())

	mask := image.NewAlpha(r)
	d.Dst = mask
	d.DrawString(text)
	return mask
}

// drawText draws text once with the given fill and shadow.
func drawText(dst *image.RGBA, face font.Face, text string, x, y float64, b baseline, fill color.Color, s shadow) {
	fillMask(dst, textMask(face, text, x, y, b), fill, s)
}

// drawGlowText is the layered legibility treatment: two transparent passes
// that leave only a wide glow, then the opaque fill with a tight dark shadow.
func drawGlowText(dst *image.RGBA, face font.Face, text string, x, y float64, b baseline, fill, glowColor color.Color) {
	mask := textMask(face, text, x, y, b)
	g := glow(glowColor)
	fillMask(dst, mask, color.Transparent, g)
	fillMask(dst, mask, color.Transparent, g)
	fillMask(dst, mask, fill, dropShadow())
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}
