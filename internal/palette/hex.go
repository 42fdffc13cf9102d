package palette

import (
	"errors"
	"image/color"
	"math"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ErrChannelRange is returned by RGBToHex when a channel is outside 0-255.
var ErrChannelRange = errors.New("rgb channel must be between 0 and 255")

// White is used wherever a colour cannot be derived.
var White = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// RGB holds unrounded channels so darkening stays exact until drawing.
type RGB struct {
	R, G, B float64
}

// RGBA rounds the channels into an opaque colour.
func (c RGB) RGBA() color.RGBA {
	return color.RGBA{R: roundChannel(c.R), G: roundChannel(c.G), B: roundChannel(c.B), A: 255}
}

func roundChannel(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// HexToRGB parses "#rrggbb", "rrggbb" or the 3-digit shorthand.
// Malformed input reports ok=false instead of an error, since the value
// usually comes from user settings.
func HexToRGB(hex string) (c color.RGBA, ok bool) {
	hex = strings.TrimPrefix(hex, "#")

	if len(hex) == 3 {
		var sb strings.Builder
		for i := 0; i < 3; i++ {
			sb.WriteByte(hex[i])
			sb.WriteByte(hex[i])
		}
		hex = sb.String()
	}

	if len(hex) != 6 {
		return color.RGBA{}, false
	}
	for i := 0; i < len(hex); i++ {
		if !isHexDigit(hex[i]) {
			return color.RGBA{}, false
		}
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}

	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, true
}

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

// RGBToHex formats channels as lowercase "#rrggbb".
func RGBToHex(r, g, b int) (string, error) {
	if r < 0 || r > 255 || g < 0 || g > 255 || b < 0 || b > 255 {
		return "", ErrChannelRange
	}

	c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	return c.Hex(), nil
}

// Hex formats an 8-bit colour, ignoring alpha.
func Hex(c color.RGBA) string {
	s, _ := RGBToHex(int(c.R), int(c.G), int(c.B))
	return s
}

// Mesh darkens c by multiplying every channel with percentage.
// It is not a blend with a second colour.
func Mesh(c color.RGBA, percentage float64) RGB {
	return RGB{
		R: float64(c.R) * percentage,
		G: float64(c.G) * percentage,
		B: float64(c.B) * percentage,
	}
}
