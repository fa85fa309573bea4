package render

import (
	"strings"

	"github.com/gogpu/gg"
)

// parseColor converts a CSS-style hex color to gg.RGBA with its alpha
// multiplied by opacity. Empty and "transparent" yield a fully transparent
// color.
func parseColor(s string, opacity float64) gg.RGBA {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "transparent" || s == "none" {
		return gg.RGBA{}
	}
	c := gg.Hex(s)
	c.A *= opacity
	return c
}

// visible reports whether painting c would change any pixel.
func visible(c gg.RGBA) bool {
	return c.A > 0
}
