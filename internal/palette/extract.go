package palette

import (
	"image"
	"image/color"
	"math"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Default extractor settings
const (
	DefaultMaxSwatches   = 8
	DefaultSampleCount   = 16384
	DefaultMergeDistance = 0.12 // CIE Lab distance (go-colorful scale, L in 0..1)

	// AccentIndex is the swatch used as the theme colour: the 4th most dominant.
	AccentIndex = 3
)

// Extractor finds the dominant colours of an image.
// The zero value uses the defaults above.
type Extractor struct {
	MaxSwatches   int
	SampleCount   int
	MergeDistance float64
}

type bucket struct {
	key     int
	count   int
	r, g, b int
}

type swatch struct {
	lab     colorful.Color
	count   int
	r, g, b int
}

func (s *swatch) color() color.RGBA {
	return color.RGBA{
		R: uint8(s.r / s.count),
		G: uint8(s.g / s.count),
		B: uint8(s.b / s.count),
		A: 255,
	}
}

// Extract returns up to MaxSwatches colours, most dominant first.
// Images with few distinct colours yield fewer swatches; fully transparent
// or empty images yield none.
func (e Extractor) Extract(img image.Image) []color.RGBA {
	maxSwatches := e.MaxSwatches
	if maxSwatches <= 0 {
		maxSwatches = DefaultMaxSwatches
	}
	samples := e.SampleCount
	if samples <= 0 {
		samples = DefaultSampleCount
	}
	distance := e.MergeDistance
	if distance <= 0 {
		distance = DefaultMergeDistance
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return nil
	}

	step := int(math.Sqrt(float64(bounds.Dx()*bounds.Dy()) / float64(samples)))
	if step < 1 {
		step = 1
	}

	// 4 bits per channel histogram
	var histogram [4096]bucket
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.A < 128 {
				continue
			}
			key := int(c.R>>4)<<8 | int(c.G>>4)<<4 | int(c.B>>4)
			h := &histogram[key]
			h.key = key
			h.count++
			h.r += int(c.R)
			h.g += int(c.G)
			h.b += int(c.B)
		}
	}

	buckets := make([]bucket, 0, 256)
	for _, h := range histogram {
		if h.count > 0 {
			buckets = append(buckets, h)
		}
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].count != buckets[j].count {
			return buckets[i].count > buckets[j].count
		}
		return buckets[i].key < buckets[j].key
	})

	var swatches []*swatch
	for _, h := range buckets {
		avg := colorful.Color{
			R: float64(h.r) / float64(h.count) / 255,
			G: float64(h.g) / float64(h.count) / 255,
			B: float64(h.b) / float64(h.count) / 255,
		}

		var target *swatch
		for _, s := range swatches {
			if s.lab.DistanceLab(avg) < distance {
				target = s
				break
			}
		}
		if target == nil {
			target = &swatch{lab: avg}
			swatches = append(swatches, target)
		}
		target.count += h.count
		target.r += h.r
		target.g += h.g
		target.b += h.b
	}

	sort.SliceStable(swatches, func(i, j int) bool {
		return swatches[i].count > swatches[j].count
	})

	if len(swatches) > maxSwatches {
		swatches = swatches[:maxSwatches]
	}

	result := make([]color.RGBA, len(swatches))
	for i, s := range swatches {
		result[i] = s.color()
	}
	return result
}

// Accent picks swatches[index], clamping to the last available swatch
// when fewer are present. With no swatches at all it returns White.
func Accent(swatches []color.RGBA, index int) color.RGBA {
	if len(swatches) == 0 {
		return White
	}
	if index < 0 {
		index = 0
	}
	if index >= len(swatches) {
		index = len(swatches) - 1
	}
	return swatches[index]
}
