package renderer

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/golang/freetype/truetype"
	"github.com/linuxmatters/osuthumb/internal/config"
	"github.com/linuxmatters/osuthumb/internal/palette"
	"github.com/linuxmatters/osuthumb/internal/score"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/vector"

	// Extra decoders for user supplied artwork
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Procedural artwork sizes
const (
	cornerSize = 220
	starSize   = 64
	badgeSize  = 400
)

// Assets holds the fonts and artwork the pipeline draws with. Artwork found
// in Dir replaces the built-in procedural version.
type Assets struct {
	Dir string

	bold    *truetype.Font
	regular *truetype.Font
	medium  *truetype.Font

	mu     sync.Mutex
	images map[string]image.Image
}

// LoadAssets parses the embedded fonts. dir may be empty.
func LoadAssets(dir string) (*Assets, error) {
	a := &Assets{Dir: dir, images: make(map[string]image.Image)}

	var err error
	if a.bold, err = truetype.Parse(gobold.TTF); err != nil {
		return nil, fmt.Errorf("failed to parse bold font: %w", err)
	}
	if a.regular, err = truetype.Parse(goregular.TTF); err != nil {
		return nil, fmt.Errorf("failed to parse regular font: %w", err)
	}
	if a.medium, err = truetype.Parse(gomedium.TTF); err != nil {
		return nil, fmt.Errorf("failed to parse medium font: %w", err)
	}
	return a, nil
}

func newFace(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// BoldFace is used for the beatmap title.
func (a *Assets) BoldFace(size float64) font.Face { return newFace(a.bold, size) }

// RegularFace is used for the difficulty, player and score labels.
func (a *Assets) RegularFace(size float64) font.Face { return newFace(a.regular, size) }

// MediumFace is used for the beatmap stats and the comment.
func (a *Assets) MediumFace(size float64) font.Face { return newFace(a.medium, size) }

// Corner is the top-left decoration, recoloured to the accent at draw time.
func (a *Assets) Corner() (image.Image, error) {
	return a.image(config.CornerAsset, cornerImage)
}

// Star is the star rating icon.
func (a *Assets) Star() (image.Image, error) {
	return a.image(config.StarAsset, starImage)
}

// Badge returns the artwork for a grade. F shares the D artwork.
func (a *Assets) Badge(g score.Grade) (image.Image, error) {
	asset := g.Asset()
	name := fmt.Sprintf(config.RankAssetFormat, asset)
	return a.image(name, func() image.Image { return a.badgeImage(score.Grade(asset)) })
}

// FallbackBackground returns encoded image bytes to use when no cover art
// can be downloaded: the file from Dir if present, else a generated gradient.
func (a *Assets) FallbackBackground() ([]byte, error) {
	if a.Dir != "" {
		data, err := os.ReadFile(filepath.Join(a.Dir, config.FallbackBGAsset))
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, gradientImage()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// image loads name from Dir once, falling back to gen when it is absent.
func (a *Assets) image(name string, gen func() image.Image) (image.Image, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if img, ok := a.images[name]; ok {
		return img, nil
	}

	var img image.Image
	if a.Dir != "" {
		path := filepath.Join(a.Dir, name)
		if _, err := os.Stat(path); err == nil {
			img, err = imaging.Open(path)
			if err != nil {
				return nil, fmt.Errorf("failed to load asset %s: %w", name, err)
			}
		}
	}
	if img == nil {
		img = gen()
	}

	a.images[name] = img
	return img, nil
}

// cornerImage is a white triangle with a detached stripe along its edge.
func cornerImage() image.Image {
	const s = float32(cornerSize)
	z := vector.NewRasterizer(cornerSize, cornerSize)

	z.MoveTo(0, 0)
	z.LineTo(s*0.6, 0)
	z.LineTo(0, s*0.6)
	z.ClosePath()

	z.MoveTo(s*0.72, 0)
	z.LineTo(s, 0)
	z.LineTo(0, s)
	z.LineTo(0, s*0.72)
	z.ClosePath()

	dst := image.NewNRGBA(image.Rect(0, 0, cornerSize, cornerSize))
	z.Draw(dst, dst.Bounds(), image.White, image.Point{})
	return dst
}

// starImage is a white five-pointed star.
func starImage() image.Image {
	const (
		outer = starSize / 2.0
		inner = outer * 0.42
	)
	z := vector.NewRasterizer(starSize, starSize)
	for i := 0; i < 10; i++ {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		angle := -math.Pi/2 + float64(i)*math.Pi/5
		x := float32(outer + r*math.Cos(angle))
		y := float32(outer + r*math.Sin(angle))
		if i == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	z.ClosePath()

	dst := image.NewNRGBA(image.Rect(0, 0, starSize, starSize))
	z.Draw(dst, dst.Bounds(), image.White, image.Point{})
	return dst
}

// Badge letter and colour per grade asset name
var badgeStyles = map[score.Grade]struct {
	letter string
	color  string
}{
	score.GradeXH: {"SS", "#E6E6F0"},
	score.GradeX:  {"SS", "#FFDF40"},
	score.GradeSH: {"S", "#E6E6F0"},
	score.GradeS:  {"S", "#FFDF40"},
	score.GradeA:  {"A", "#7CE35C"},
	score.GradeB:  {"B", "#4FA8FF"},
	score.GradeC:  {"C", "#C87CFF"},
	score.GradeD:  {"D", "#FF4040"},
}

// badgeImage draws the grade letters with a glow in the grade's colour.
func (a *Assets) badgeImage(g score.Grade) image.Image {
	style, ok := badgeStyles[g]
	if !ok {
		style = badgeStyles[score.GradeD]
	}
	c, ok := palette.HexToRGB(style.color)
	if !ok {
		c = palette.White
	}

	dst := image.NewRGBA(image.Rect(0, 0, badgeSize, badgeSize))
	face := a.BoldFace(badgeSize * 0.6)
	defer face.Close()

	m := measure(face, style.letter)
	x := (badgeSize - m.Width) / 2
	y := (badgeSize + m.Height) / 2
	drawGlowText(dst, face, style.letter, x, y, alphabetic, c, c)
	return dst
}

// gradientImage is a dark diagonal gradient at canvas size.
func gradientImage() image.Image {
	from := color.RGBA{R: 0x2a, G: 0x1b, B: 0x3d, A: 255}
	to := color.RGBA{R: 0x0c, G: 0x4a, B: 0x6e, A: 255}

	dst := image.NewRGBA(image.Rect(0, 0, config.Width, config.Height))
	span := float64(config.Width + config.Height)
	for y := 0; y < config.Height; y++ {
		for x := 0; x < config.Width; x++ {
			t := float64(x+y) / span
			dst.SetRGBA(x, y, color.RGBA{
				R: lerp(from.R, to.R, t),
				G: lerp(from.G, to.G, t),
				B: lerp(from.B, to.B, t),
				A: 255,
			})
		}
	}
	return dst
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}

// scaleImage resizes img to w×h with a Lanczos filter.
func scaleImage(img image.Image, w, h int) *image.NRGBA {
	return imaging.Resize(img, w, h, imaging.Lanczos)
}

// drawImage composites img with its top-left at (x, y).
func drawImage(dst *image.RGBA, img image.Image, x, y int) {
	b := img.Bounds()
	draw.Draw(dst, b.Sub(b.Min).Add(image.Pt(x, y)), img, b.Min, draw.Over)
}
