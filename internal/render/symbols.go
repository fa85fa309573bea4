package render

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/qr"

	"github.com/roach88/cardsmith/internal/shape"
)

// qrImage encodes p as a QR symbol scaled to w×h pixels.
func qrImage(p *shape.QRProps, w, h int) (image.Image, error) {
	if p.Data == "" {
		return nil, fmt.Errorf("qr: empty data")
	}
	code, err := qr.Encode(p.Data, qrLevel(p.ErrorLevel), qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("qr: %w", err)
	}
	side := min(w, h)
	scaled, err := barcode.Scale(code, side, side)
	if err != nil {
		return nil, fmt.Errorf("qr: %w", err)
	}
	return recolor(scaled, p.Foreground, p.Background), nil
}

func qrLevel(s string) qr.ErrorCorrectionLevel {
	switch strings.ToUpper(s) {
	case "L":
		return qr.L
	case "Q":
		return qr.Q
	case "H":
		return qr.H
	}
	return qr.M
}

// barcodeImage encodes p as a linear barcode scaled to w×h pixels.
// Only code128 is supported.
func barcodeImage(p *shape.BarcodeProps, w, h int) (image.Image, error) {
	if p.Data == "" {
		return nil, fmt.Errorf("barcode: empty data")
	}
	if f := strings.ToLower(p.Format); f != "" && f != "code128" {
		return nil, fmt.Errorf("barcode: unsupported format %q", p.Format)
	}
	code, err := code128.Encode(p.Data)
	if err != nil {
		return nil, fmt.Errorf("barcode: %w", err)
	}
	scaled, err := barcode.Scale(code, w, h)
	if err != nil {
		return nil, fmt.Errorf("barcode: %w", err)
	}
	return recolor(scaled, p.Foreground, p.Background), nil
}

// recolor maps the black and white modules of a symbol onto fg and bg.
func recolor(src image.Image, fg, bg string) image.Image {
	dark := parseColor(defaultString(fg, "#000000"), 1).Color()
	light := parseColor(defaultString(bg, "#ffffff"), 1).Color()

	b := src.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := light
			if isDark(src.At(x, y)) {
				c = dark
			}
			out.Set(x-b.Min.X, y-b.Min.Y, c)
		}
	}
	return out
}

func isDark(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return (r+g+b)/3 < 0x8000
}

func defaultString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
