package project

import (
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/cardsmith/internal/shape"
)

// NormalizeText returns s in Unicode NFC so visually identical names and
// labels compare and hash equal.
func NormalizeText(s string) string {
	return norm.NFC.String(s)
}

// NormalizeShape returns a copy of s with its user-visible text in NFC.
func NormalizeShape(s shape.Shape) shape.Shape {
	s = shape.Clone(s)
	switch p := s.Props.(type) {
	case *shape.TextProps:
		p.Text = NormalizeText(p.Text)
		p.FontFamily = NormalizeText(p.FontFamily)
	case *shape.PersonProps:
		p.Label = NormalizeText(p.Label)
	case *shape.QRProps:
		p.Data = NormalizeText(p.Data)
	case *shape.BarcodeProps:
		p.Data = NormalizeText(p.Data)
	case *shape.RectProps, *shape.CircleProps, *shape.TriangleProps, *shape.ImageProps:
	}
	return s
}
