package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/linuxmatters/osuthumb/internal/config"
	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// kappa places cubic control points so a quarter circle is approximated.
const kappa = 0.5522847498

// shadow is a canvas style drop shadow. It is passed per draw call, so no
// shadow outlives the element it was meant for.
type shadow struct {
	Color   color.Color
	OffsetX int
	OffsetY int
	Blur    float64 // shadow blur b is a Gaussian with sigma b/2
}

// noShadow draws the shape alone.
var noShadow = shadow{}

func (s shadow) visible() bool {
	if s.Color == nil {
		return false
	}
	_, _, _, a := s.Color.RGBA()
	return a != 0 && (s.Blur > 0 || s.OffsetX != 0 || s.OffsetY != 0)
}

// rectMask is a fully opaque mask covering r.
func rectMask(r image.Rectangle) *image.Alpha {
	m := image.NewAlpha(r)
	draw.Draw(m, r, image.Opaque, image.Point{}, draw.Src)
	return m
}

// roundRectMask rasterises a rectangle with rounded corners. Coordinates
// may be fractional; edges are anti-aliased.
func roundRectMask(x, y, w, h, radius float64) *image.Alpha {
	bounds := image.Rect(
		int(math.Floor(x)), int(math.Floor(y)),
		int(math.Ceil(x+w)), int(math.Ceil(y+h)),
	)
	m := image.NewAlpha(bounds)
	if bounds.Empty() {
		return m
	}

	radius = math.Min(radius, math.Min(w, h)/2)
	// Rasteriser space starts at bounds.Min.
	ox := float32(x - float64(bounds.Min.X))
	oy := float32(y - float64(bounds.Min.Y))
	fw, fh, r := float32(w), float32(h), float32(radius)
	c := r * (1 - kappa)

	z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	z.MoveTo(ox+r, oy)
	z.LineTo(ox+fw-r, oy)
	z.CubeTo(ox+fw-c, oy, ox+fw, oy+c, ox+fw, oy+r)
	z.LineTo(ox+fw, oy+fh-r)
	z.CubeTo(ox+fw, oy+fh-c, ox+fw-c, oy+fh, ox+fw-r, oy+fh)
	z.LineTo(ox+r, oy+fh)
	z.CubeTo(ox+c, oy+fh, ox, oy+fh-c, ox, oy+fh-r)
	z.LineTo(ox, oy+r)
	z.CubeTo(ox, oy+c, ox+c, oy, ox+r, oy)
	z.ClosePath()
	z.Draw(m, bounds, image.Opaque, image.Point{})
	return m
}

// fillMask paints fill through mask onto dst, with an optional shadow
// underneath. A nil or transparent fill draws only the shadow.
func fillMask(dst *image.RGBA, mask *image.Alpha, fill color.Color, s shadow) {
	if mask.Bounds().Empty() {
		return
	}
	if s.visible() {
		drawShadow(dst, mask, s)
	}
	if fill == nil {
		return
	}
	if _, _, _, a := fill.RGBA(); a == 0 {
		return
	}
	r := mask.Bounds()
	draw.DrawMask(dst, r, image.NewUniform(fill), image.Point{}, mask, r.Min, draw.Over)
}

func drawShadow(dst *image.RGBA, mask *image.Alpha, s shadow) {
	sigma := s.Blur / 2
	pad := int(math.Ceil(3 * sigma))
	shifted := mask.Bounds().Add(image.Pt(s.OffsetX, s.OffsetY))
	r := shifted.Inset(-pad).Intersect(dst.Bounds())
	if r.Empty() {
		return
	}

	layer := image.NewAlpha(r)
	draw.Draw(layer, shifted, mask, mask.Bounds().Min, draw.Src)
	if sigma > 0 {
		blurAlpha(layer, sigma)
	}
	draw.DrawMask(dst, r, image.NewUniform(s.Color), image.Point{}, layer, r.Min, draw.Over)
}

// drawRounded draws img scaled into the rectangle, clipped to rounded corners.
func drawRounded(dst *image.RGBA, img image.Image, x, y, w, h, radius int) {
	clip := roundRectMask(float64(x), float64(y), float64(w), float64(h), float64(radius))
	r := image.Rect(x, y, x+w, y+h)
	scaled := image.NewRGBA(r)
	draw.CatmullRom.Scale(scaled, r, img, img.Bounds(), draw.Src, nil)
	draw.DrawMask(dst, r, scaled, r.Min, clip, r.Min, draw.Over)
}

// dropShadow is the tight dark shadow behind solid text.
func dropShadow() shadow {
	return shadow{
		Color:   color.Black,
		OffsetX: config.DefaultShadowOffset,
		OffsetY: config.DefaultShadowOffset,
		Blur:    config.DefaultShadowBlur,
	}
}

// glow is the wide coloured halo drawn behind text and accent bars.
func glow(c color.Color) shadow {
	return shadow{
		Color:   c,
		OffsetX: config.DefaultShadowOffset,
		OffsetY: config.DefaultShadowOffset,
		Blur:    config.GlowBlur,
	}
}
