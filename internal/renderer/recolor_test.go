package renderer

import (
	"image"
	"image/color"
	"testing"
)

// silhouette has an opaque core, a soft edge and a transparent surround.
func silhouette() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			var a uint8
			switch {
			case x >= 2 && x < 6 && y >= 2 && y < 6:
				a = 255
			case x >= 1 && x < 7 && y >= 1 && y < 7:
				a = 96
			}
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 30), G: 10, B: uint8(y * 30), A: a})
		}
	}
	return img
}

func TestRecolorFilter_PreservesAlpha(t *testing.T) {
	src := silhouette()
	target := color.RGBA{R: 12, G: 200, B: 99, A: 255}

	out := NewRecolorFilter(src).SetColor(target).Image()

	if out.Bounds() != src.Bounds() {
		t.Fatalf("bounds = %v, want %v", out.Bounds(), src.Bounds())
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			in := src.NRGBAAt(x, y)
			got := out.NRGBAAt(x, y)
			if got.A != in.A {
				t.Fatalf("(%d,%d) alpha = %d, want %d", x, y, got.A, in.A)
			}
			if in.A == 0 {
				if got != in {
					t.Errorf("(%d,%d) = %v, want untouched %v", x, y, got, in)
				}
				continue
			}
			if got.R != target.R || got.G != target.G || got.B != target.B {
				t.Errorf("(%d,%d) = %v, want colour %v", x, y, got, target)
			}
		}
	}
}

func TestRecolorFilter_Pixels(t *testing.T) {
	target := color.RGBA{R: 9, G: 8, B: 7, A: 255}

	testCases := []struct {
		name string
		in   color.NRGBA
		want color.NRGBA
	}{
		{
			name: "transparent pixel keeps its colour",
			in:   color.NRGBA{R: 200, G: 10, B: 30, A: 0},
			want: color.NRGBA{R: 200, G: 10, B: 30, A: 0},
		},
		{
			name: "partial alpha is recoloured",
			in:   color.NRGBA{R: 1, G: 2, B: 3, A: 77},
			want: color.NRGBA{R: 9, G: 8, B: 7, A: 77},
		},
		{
			name: "opaque pixel is recoloured",
			in:   color.NRGBA{R: 255, G: 255, B: 255, A: 255},
			want: color.NRGBA{R: 9, G: 8, B: 7, A: 255},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			src := image.NewNRGBA(image.Rect(0, 0, 1, 1))
			src.SetNRGBA(0, 0, tc.in)

			got := NewRecolorFilter(src).SetColor(target).Image().NRGBAAt(0, 0)
			if got != tc.want {
				t.Errorf("recoloured %v = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestRecolorFilter_DefaultsToWhite(t *testing.T) {
	f := NewRecolorFilter(silhouette())
	if got := f.Image().NRGBAAt(3, 3); got != (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("default colour pixel = %v, want opaque white", got)
	}
}

func TestRecolorFilter_Cache(t *testing.T) {
	f := NewRecolorFilter(silhouette())
	first := f.Image()
	if f.Image() != first {
		t.Error("Image() regenerated without a colour change")
	}

	red := color.RGBA{R: 255, A: 255}
	if f.SetColor(red) != f {
		t.Error("SetColor did not return the filter")
	}
	second := f.Image()
	if second == first {
		t.Fatal("SetColor did not invalidate the cached image")
	}
	if got := second.NRGBAAt(3, 3); got.R != 255 || got.G != 0 || got.B != 0 {
		t.Errorf("recoloured pixel = %v, want red", got)
	}
}

func TestRecolorFilter_Render(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 20, 20))
	blue := color.RGBA{B: 255, A: 255}

	NewRecolorFilter(silhouette()).SetColor(blue).Render(dst, 10, 5)

	if got := dst.RGBAAt(13, 8); got != blue {
		t.Errorf("core pixel = %v, want %v", got, blue)
	}
	if got := dst.RGBAAt(10, 5); got != (color.RGBA{}) {
		t.Errorf("transparent corner drew %v", got)
	}
	if got := dst.RGBAAt(3, 3); got != (color.RGBA{}) {
		t.Errorf("pixel outside the offset drew %v", got)
	}
}
