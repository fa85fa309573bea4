package shape

import "fmt"

// Default styling shared by the factories.
const (
	DefaultFill        = "#3b82f6"
	DefaultStroke      = "#1e40af"
	DefaultStrokeWidth = 2
	DefaultTextColor   = "#111827"
	DefaultFontFamily  = "Arial"
	DefaultFontSize    = 18
)

func base(x, y, w, h float64, p Props) Shape {
	return Shape{
		X:       x,
		Y:       y,
		Width:   w,
		Height:  h,
		Opacity: 1,
		Visible: true,
		Props:   p,
	}
}

// DefaultRect returns a 120×80 rounded rectangle at (x, y).
func DefaultRect(x, y float64) Shape {
	return base(x, y, 120, 80, &RectProps{
		Fill:         DefaultFill,
		Stroke:       DefaultStroke,
		StrokeWidth:  DefaultStrokeWidth,
		CornerRadius: 8,
	})
}

// DefaultCircle returns a circle of radius 50 whose box starts at (x, y).
func DefaultCircle(x, y float64) Shape {
	return base(x, y, 100, 100, &CircleProps{
		Fill:        "#10b981",
		Stroke:      "#047857",
		StrokeWidth: DefaultStrokeWidth,
	})
}

// DefaultText returns a centered 18pt text box.
func DefaultText(x, y float64) Shape {
	return base(x, y, 200, 30, &TextProps{
		Text:       "Text",
		FontSize:   DefaultFontSize,
		FontFamily: DefaultFontFamily,
		Align:      "center",
		Fill:       DefaultTextColor,
		LineHeight: 1.2,
	})
}

// DefaultTriangle returns an isosceles triangle with its apex centered on
// the top edge.
func DefaultTriangle(x, y float64) Shape {
	return base(x, y, 100, 100, &TriangleProps{
		Points:      []Point{{X: 50, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100}},
		Fill:        "#f59e0b",
		Stroke:      "#b45309",
		StrokeWidth: DefaultStrokeWidth,
	})
}

// DefaultImage returns an empty 150×150 image frame.
func DefaultImage(x, y float64) Shape {
	return base(x, y, 150, 150, &ImageProps{})
}

// DefaultPerson returns a portrait placeholder sized for a card photo.
func DefaultPerson(x, y float64) Shape {
	return base(x, y, 100, 120, &PersonProps{
		Fill:        "#e5e7eb",
		Stroke:      "#9ca3af",
		StrokeWidth: 1,
		Label:       "Photo",
	})
}

// DefaultQR returns a 100×100 QR code.
func DefaultQR(x, y float64) Shape {
	return base(x, y, 100, 100, &QRProps{
		Data:       "https://example.com",
		Foreground: "#000000",
		Background: "#ffffff",
		ErrorLevel: "M",
	})
}

// DefaultBarcode returns a 200×80 Code 128 barcode.
func DefaultBarcode(x, y float64) Shape {
	return base(x, y, 200, 80, &BarcodeProps{
		Data:       "123456789012",
		Format:     "code128",
		Foreground: "#000000",
		Background: "#ffffff",
		ShowText:   true,
	})
}

// Default dispatches to the factory for kind.
func Default(kind Kind, x, y float64) (Shape, error) {
	switch kind {
	case KindRect:
		return DefaultRect(x, y), nil
	case KindCircle:
		return DefaultCircle(x, y), nil
	case KindText:
		return DefaultText(x, y), nil
	case KindTriangle:
		return DefaultTriangle(x, y), nil
	case KindImage:
		return DefaultImage(x, y), nil
	case KindPerson:
		return DefaultPerson(x, y), nil
	case KindQR:
		return DefaultQR(x, y), nil
	case KindBarcode:
		return DefaultBarcode(x, y), nil
	}
	return Shape{}, fmt.Errorf("unknown shape kind %q", kind)
}
