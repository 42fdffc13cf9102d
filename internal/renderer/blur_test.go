package renderer

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func TestKernel_Normalised(t *testing.T) {
	testCases := []struct {
		name  string
		size  int
		sigma float64
	}{
		{name: "single tap", size: 1, sigma: 1},
		{name: "small odd", size: 5, sigma: 1.5},
		{name: "pipeline blur", size: 30, sigma: 7},
		{name: "narrow sigma", size: 9, sigma: 0.3},
		{name: "wide sigma", size: 7, sigma: 50},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			k := Kernel(tc.size, tc.sigma)
			if len(k) != tc.size {
				t.Fatalf("len(Kernel) = %d, want %d", len(k), tc.size)
			}
			var sum float64
			for _, row := range k {
				for _, v := range row {
					sum += v
				}
			}
			if math.Abs(sum-1) > 1e-6 {
				t.Errorf("kernel sum = %.9f, want 1", sum)
			}
		})
	}
}

// noise fills a canvas with a deterministic pattern.
func noise(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(x * 7),
				G: uint8(y * 13),
				B: uint8((x*y + 31) % 256),
				A: 255,
			})
		}
	}
	return img
}

// reference2D is the direct O(size²) convolution, clamped to the canvas.
func reference2D(src *image.RGBA, r image.Rectangle, size int, sigma float64) *image.RGBA {
	k := Kernel(size, sigma)
	b := src.Bounds()
	out := image.NewRGBA(b)
	copy(out.Pix, src.Pix)
	for cy := r.Min.Y; cy < r.Max.Y; cy++ {
		for cx := r.Min.X; cx < r.Max.X; cx++ {
			var acc [4]float64
			for kx := 0; kx < size; kx++ {
				for ky := 0; ky < size; ky++ {
					ix := clamp(cx+kx-size/2, b.Min.X, b.Max.X-1)
					iy := clamp(cy+ky-size/2, b.Min.Y, b.Max.Y-1)
					p := src.PixOffset(ix, iy)
					for c := 0; c < 4; c++ {
						acc[c] += float64(src.Pix[p+c]) * k[kx][ky]
					}
				}
			}
			o := out.PixOffset(cx, cy)
			for c := 0; c < 4; c++ {
				out.Pix[o+c] = toByte(acc[c])
			}
		}
	}
	return out
}

func TestGaussianBlur_MatchesDirectConvolution(t *testing.T) {
	testCases := []struct {
		name  string
		rect  image.Rectangle
		size  int
		sigma float64
	}{
		{name: "interior", rect: image.Rect(10, 10, 30, 30), size: 5, sigma: 1.2},
		{name: "top-left corner", rect: image.Rect(0, 0, 12, 12), size: 30, sigma: 7},
		{name: "bottom band", rect: image.Rect(0, 20, 48, 40), size: 8, sigma: 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			src := noise(48, 40)
			want := reference2D(src, tc.rect, tc.size, tc.sigma)

			got := noise(48, 40)
			GaussianBlur{Rect: tc.rect, Size: tc.size, Sigma: tc.sigma}.Apply(got)

			for i := range got.Pix {
				d := int(got.Pix[i]) - int(want.Pix[i])
				if d < -1 || d > 1 {
					x := (i / 4) % 48
					y := (i / 4) / 48
					t.Fatalf("pixel (%d,%d) channel %d = %d, want %d", x, y, i%4, got.Pix[i], want.Pix[i])
				}
			}
		})
	}
}

func TestGaussianBlur_FlatColourIsFixedPoint(t *testing.T) {
	c := color.RGBA{R: 200, G: 90, B: 17, A: 255}
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}

	GaussianBlur{Rect: image.Rect(0, 10, 64, 48), Size: 30, Sigma: 7}.Apply(img)

	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			if got := img.RGBAAt(x, y); got != c {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, c)
			}
		}
	}
}

func TestGaussianBlur_LeavesOutsideUntouched(t *testing.T) {
	img := noise(40, 40)
	before := noise(40, 40)
	r := image.Rect(5, 5, 20, 20)

	GaussianBlur{Rect: r, Size: 9, Sigma: 3}.Apply(img)

	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			if image.Pt(x, y).In(r) {
				continue
			}
			if img.RGBAAt(x, y) != before.RGBAAt(x, y) {
				t.Fatalf("pixel (%d,%d) outside the blur rectangle changed", x, y)
			}
		}
	}
}

func TestGaussianBlur_InvalidGeometryPanics(t *testing.T) {
	testCases := []struct {
		name string
		blur GaussianBlur
	}{
		{name: "empty rect", blur: GaussianBlur{Rect: image.Rect(0, 0, 0, 10), Size: 3, Sigma: 1}},
		{name: "zero size", blur: GaussianBlur{Rect: image.Rect(0, 0, 5, 5), Size: 0, Sigma: 1}},
		{name: "zero sigma", blur: GaussianBlur{Rect: image.Rect(0, 0, 5, 5), Size: 3, Sigma: 0}},
		{name: "outside canvas", blur: GaussianBlur{Rect: image.Rect(-1, 0, 5, 5), Size: 3, Sigma: 1}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("Apply did not panic")
				}
			}()
			tc.blur.Apply(image.NewRGBA(image.Rect(0, 0, 10, 10)))
		})
	}
}

func TestBlurAlpha_Spreads(t *testing.T) {
	m := image.NewAlpha(image.Rect(100, 100, 161, 161))
	for y := 128; y <= 132; y++ {
		for x := 128; x <= 132; x++ {
			m.SetAlpha(x, y, color.Alpha{A: 255})
		}
	}

	blurAlpha(m, 4)

	centre := m.AlphaAt(130, 130).A
	if centre == 0 || centre == 255 {
		t.Errorf("centre alpha = %d, want spread out", centre)
	}
	if m.AlphaAt(134, 130).A == 0 {
		t.Error("neighbour stayed transparent")
	}
	if m.AlphaAt(100, 100).A != 0 {
		t.Error("far corner picked up alpha")
	}
}

func BenchmarkGaussianBlur(b *testing.B) {
	img := noise(1280, 720)
	blur := GaussianBlur{Rect: image.Rect(0, 100, 1280, 720), Size: 30, Sigma: 7}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		blur.Apply(img)
	}
}
