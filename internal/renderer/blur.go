package renderer

import (
	"fmt"
	"image"
	"math"
)

// Kernel builds the normalised size×size Gaussian weight matrix.
// The mean sits at size/2, so even sizes are slightly off-centre.
func Kernel(size int, sigma float64) [][]float64 {
	if size <= 0 || sigma <= 0 {
		panic(fmt.Sprintf("renderer: invalid kernel size=%d sigma=%v", size, sigma))
	}

	mean := float64(size) / 2
	k := make([][]float64, size)
	var sum float64
	for i := range k {
		k[i] = make([]float64, size)
		for j := range k[i] {
			di := (float64(i) - mean) / sigma
			dj := (float64(j) - mean) / sigma
			k[i][j] = math.Exp(-0.5*(di*di+dj*dj)) / (2 * math.Pi * sigma * sigma)
			sum += k[i][j]
		}
	}
	for i := range k {
		for j := range k[i] {
			k[i][j] /= sum
		}
	}
	return k
}

// weights1D is one axis of Kernel. The 2D kernel is the outer product of
// this vector with itself, which is what makes the two-pass blur exact.
func weights1D(size int, sigma float64) []float64 {
	mean := float64(size) / 2
	w := make([]float64, size)
	var sum float64
	for i := range w {
		d := (float64(i) - mean) / sigma
		w[i] = math.Exp(-0.5 * d * d)
		sum += w[i]
	}
	for i := range w {
		w[i] /= sum
	}
	return w
}

// GaussianBlur convolves a rectangle of a canvas with a Gaussian kernel.
// Samples outside the canvas are replaced by the nearest edge pixel.
type GaussianBlur struct {
	Rect  image.Rectangle
	Size  int
	Sigma float64
}

// Apply blurs g.Rect of dst in place. Every output pixel is computed from
// the pre-blur canvas; results are only copied back once the whole
// rectangle is done. Invalid geometry panics.
func (g GaussianBlur) Apply(dst *image.RGBA) {
	bounds := dst.Bounds()
	switch {
	case g.Rect.Dx() <= 0 || g.Rect.Dy() <= 0:
		panic(fmt.Sprintf("renderer: blur rectangle %v is empty", g.Rect))
	case g.Size <= 0 || g.Sigma <= 0:
		panic(fmt.Sprintf("renderer: invalid blur size=%d sigma=%v", g.Size, g.Sigma))
	case !g.Rect.In(bounds):
		panic(fmt.Sprintf("renderer: blur rectangle %v outside canvas %v", g.Rect, bounds))
	}

	w := weights1D(g.Size, g.Sigma)
	half := g.Size / 2
	r := g.Rect

	// Rows the vertical pass will read, clamped to the canvas.
	rowLo := clamp(r.Min.Y-half, bounds.Min.Y, bounds.Max.Y-1)
	rowHi := clamp(r.Max.Y-1+g.Size-1-half, bounds.Min.Y, bounds.Max.Y-1)

	// Horizontal pass into a float buffer covering rowLo..rowHi.
	width := r.Dx()
	rows := rowHi - rowLo + 1
	tmp := make([]float64, width*rows*4)
	for y := rowLo; y <= rowHi; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			var acc [4]float64
			for k, wk := range w {
				ix := clamp(x+k-half, bounds.Min.X, bounds.Max.X-1)
				p := dst.PixOffset(ix, y)
				acc[0] += float64(dst.Pix[p]) * wk
				acc[1] += float64(dst.Pix[p+1]) * wk
				acc[2] += float64(dst.Pix[p+2]) * wk
				acc[3] += float64(dst.Pix[p+3]) * wk
			}
			t := ((y-rowLo)*width + (x - r.Min.X)) * 4
			copy(tmp[t:t+4], acc[:])
		}
	}

	// Vertical pass into the output buffer.
	out := image.NewRGBA(r)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			var acc [4]float64
			for k, wk := range w {
				iy := clamp(y+k-half, bounds.Min.Y, bounds.Max.Y-1)
				t := ((iy-rowLo)*width + (x - r.Min.X)) * 4
				acc[0] += tmp[t] * wk
				acc[1] += tmp[t+1] * wk
				acc[2] += tmp[t+2] * wk
				acc[3] += tmp[t+3] * wk
			}
			o := out.PixOffset(x, y)
			for c := 0; c < 4; c++ {
				out.Pix[o+c] = toByte(acc[c])
			}
		}
	}

	// Commit.
	for y := r.Min.Y; y < r.Max.Y; y++ {
		copy(dst.Pix[dst.PixOffset(r.Min.X, y):dst.PixOffset(r.Max.X, y)],
			out.Pix[out.PixOffset(r.Min.X, y):out.PixOffset(r.Max.X, y)])
	}
}

// blurAlpha softens a shadow mask in place. Unlike GaussianBlur the mask
// fades to nothing past its edges, the way a drop shadow does.
func blurAlpha(m *image.Alpha, sigma float64) {
	radius := int(math.Ceil(3 * sigma))
	if radius < 1 {
		return
	}
	w := make([]float64, 2*radius+1)
	var sum float64
	for i := range w {
		d := float64(i-radius) / sigma
		w[i] = math.Exp(-0.5 * d * d)
		sum += w[i]
	}
	for i := range w {
		w[i] /= sum
	}

	b := m.Bounds()
	width, height := b.Dx(), b.Dy()
	tmp := make([]float64, width*height)

	for y := 0; y < height; y++ {
		row := m.Pix[y*m.Stride : y*m.Stride+width]
		for x := 0; x < width; x++ {
			var acc float64
			for k, wk := range w {
				ix := x + k - radius
				if ix >= 0 && ix < width {
					acc += float64(row[ix]) * wk
				}
			}
			tmp[y*width+x] = acc
		}
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var acc float64
			for k, wk := range w {
				iy := y + k - radius
				if iy >= 0 && iy < height {
					acc += tmp[iy*width+x] * wk
				}
			}
			m.Pix[y*m.Stride+x] = toByte(acc)
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func toByte(v float64) uint8 {
	v = math.RoundToEven(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
