// Package colorutil provides shared color helpers for PaintField.
package colorutil

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Common colors.
var (
	Black = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// ParseHex parses "#rrggbb" or "#rrggbbaa" (the "#" is optional) into a
// premultiplied color.
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 && len(h) != 8 {
		return color.RGBA{}, fmt.Errorf("color %q: want 6 or 8 hex digits", s)
	}
	c, err := colorful.Hex("#" + h[:6])
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	alpha := uint64(0xff)
	if len(h) == 8 {
		alpha, err = strconv.ParseUint(h[6:], 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("color %q: alpha: %w", s, err)
		}
	}
	r, g, b := c.RGB255()
	n := color.NRGBA{R: r, G: g, B: b, A: uint8(alpha)}
	return color.RGBAModel.Convert(n).(color.RGBA), nil
}

// Hex formats c as "#rrggbbaa" with straight (non-premultiplied) alpha.
func Hex(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	rgb := colorful.Color{R: float64(n.R) / 255, G: float64(n.G) / 255, B: float64(n.B) / 255}
	return fmt.Sprintf("%s%02x", rgb.Hex(), n.A)
}
