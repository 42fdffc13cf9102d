package ui

import (
	"fmt"
	"image"
	"image/color"
	"strings"
)

// PreviewConfig holds configuration for the thumbnail preview
type PreviewConfig struct {
	Width  int // Width in terminal cells
	Height int // Height in terminal cells
}

// DefaultPreviewConfig returns a sensible default preview size
// 64x18 cells keeps roughly the 16:9 aspect of the thumbnail, since
// terminal cells are about twice as tall as they are wide.
func DefaultPreviewConfig() PreviewConfig {
	return PreviewConfig{
		Width:  64,
		Height: 18,
	}
}

// DownsampleFrame averages each cell-sized region of frame into one colour.
func DownsampleFrame(frame *image.RGBA, config PreviewConfig) [][]color.RGBA {
	bounds := frame.Bounds()
	srcWidth := bounds.Dx()
	srcHeight := bounds.Dy()

	cellWidth := max(1, srcWidth/config.Width)
	cellHeight := max(1, srcHeight/config.Height)

	preview := make([][]color.RGBA, config.Height)
	for row := 0; row < config.Height; row++ {
		preview[row] = make([]color.RGBA, config.Width)
		for col := 0; col < config.Width; col++ {
			srcX := bounds.Min.X + col*cellWidth
			srcY := bounds.Min.Y + row*cellHeight

			var sumR, sumG, sumB uint32
			pixelCount := 0

			for y := srcY; y < srcY+cellHeight && y < bounds.Max.Y; y++ {
				for x := srcX; x < srcX+cellWidth && x < bounds.Max.X; x++ {
					c := frame.RGBAAt(x, y)
					sumR += uint32(c.R)
					sumG += uint32(c.G)
					sumB += uint32(c.B)
					pixelCount++
				}
			}

			if pixelCount > 0 {
				preview[row][col] = color.RGBA{
					R: uint8(sumR / uint32(pixelCount)),
					G: uint8(sumG / uint32(pixelCount)),
					B: uint8(sumB / uint32(pixelCount)),
					A: 255,
				}
			}
		}
	}

	return preview
}

// RenderPreview draws the grid with ANSI 24-bit background colours
// Format: \x1b[48;2;R;G;Bm for background color, space character as pixel, \x1b[0m to reset
func RenderPreview(preview [][]color.RGBA) string {
	if len(preview) == 0 {
		return ""
	}

	border := strings.Repeat("─", len(preview[0]))

	var b strings.Builder
	b.WriteString("  Thumbnail Preview:\n")
	b.WriteString("  ┌" + border + "┐\n")
	for _, row := range preview {
		b.WriteString("  │")
		for _, pixel := range row {
			fmt.Fprintf(&b, "\x1b[48;2;%d;%d;%dm \x1b[0m", pixel.R, pixel.G, pixel.B)
		}
		b.WriteString("│\n")
	}
	b.WriteString("  └" + border + "┘")

	return b.String()
}
