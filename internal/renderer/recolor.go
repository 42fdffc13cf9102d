package renderer

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// RecolorFilter paints every visible pixel of an image a flat colour while
// keeping its alpha, so anti-aliased edges survive the recolour. Fully
// transparent pixels are left untouched.
// The recoloured copy is cached until the colour changes.
type RecolorFilter struct {
	src   image.Image
	color color.RGBA
	cache *image.NRGBA
}

// NewRecolorFilter wraps src with the default colour, white.
func NewRecolorFilter(src image.Image) *RecolorFilter {
	return &RecolorFilter{src: src, color: color.RGBA{R: 255, G: 255, B: 255, A: 255}}
}

// SetColor changes the target colour and drops the cached image.
func (f *RecolorFilter) SetColor(c color.RGBA) *RecolorFilter {
	f.color = c
	f.cache = nil
	return f
}

// Color returns the current target colour.
func (f *RecolorFilter) Color() color.RGBA {
	return f.color
}

// Image returns the recoloured copy, generating it on first use.
// The copy has the source's dimensions with its origin at (0, 0).
func (f *RecolorFilter) Image() *image.NRGBA {
	if f.cache == nil {
		f.cache = f.generate()
	}
	return f.cache
}

func (f *RecolorFilter) generate() *image.NRGBA {
	img := imaging.Clone(f.src)
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i+3] == 0 {
			continue
		}
		img.Pix[i] = f.color.R
		img.Pix[i+1] = f.color.G
		img.Pix[i+2] = f.color.B
	}
	return img
}

// Render composites the recoloured image onto dst with its top-left at (x, y).
func (f *RecolorFilter) Render(dst draw.Image, x, y int) {
	img := f.Image()
	r := img.Bounds().Add(image.Pt(x, y))
	draw.Draw(dst, r, img, image.Point{}, draw.Over)
}
