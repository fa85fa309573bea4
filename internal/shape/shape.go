package shape

import "fmt"

// Kind discriminates the Props payload of a Shape.
type Kind string

const (
	KindRect     Kind = "rect"
	KindCircle   Kind = "circle"
	KindText     Kind = "text"
	KindTriangle Kind = "triangle"
	KindImage    Kind = "image"
	KindPerson   Kind = "person"
	KindQR       Kind = "qr"
	KindBarcode  Kind = "barcode"
)

// Kinds lists every shape kind in toolbar order.
var Kinds = []Kind{
	KindRect, KindCircle, KindText, KindTriangle,
	KindImage, KindPerson, KindQR, KindBarcode,
}

// Valid reports whether k names a known shape kind.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// ParseKind converts a string to a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown shape kind %q", s)
	}
	return k, nil
}

// Shape is a single drawable primitive.
//
// ID is unique within a side and stable for the shape's lifetime.
// ZIndex orders painting low-to-high; equal keys paint in slice order.
type Shape struct {
	ID       string
	X        float64
	Y        float64
	Width    float64
	Height   float64
	Rotation float64 // degrees
	Opacity  float64 // 0..1
	Visible  bool
	Locked   bool
	ZIndex   int64
	Props    Props
}

// Kind returns the discriminator derived from the payload.
// A shape without a payload has an empty kind.
func (s Shape) Kind() Kind {
	if s.Props == nil {
		return ""
	}
	return s.Props.Kind()
}

// Props is the variant payload of a Shape. The set of implementations is
// closed to this package.
type Props interface {
	Kind() Kind
	clone() Props
}

// Point is a 2D coordinate in document pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RectProps styles a rectangle.
type RectProps struct {
	Fill         string  `json:"fill"`
	Stroke       string  `json:"stroke"`
	StrokeWidth  float64 `json:"strokeWidth"`
	CornerRadius float64 `json:"cornerRadius"`
}

// CircleProps styles a circle. The radius is half the smaller side of the
// owning shape's box.
type CircleProps struct {
	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"`
}

// TextProps holds a text run and its typography.
type TextProps struct {
	Text       string  `json:"text"`
	FontSize   float64 `json:"fontSize"`
	FontFamily string  `json:"fontFamily"`
	FontWeight string  `json:"fontWeight,omitempty"`
	FontStyle  string  `json:"fontStyle,omitempty"`
	Align      string  `json:"align"` // left | center | right
	Fill       string  `json:"fill"`
	LineHeight float64 `json:"lineHeight,omitempty"`
}

// TriangleProps holds a closed polygon relative to the shape origin.
type TriangleProps struct {
	Points      []Point `json:"points"`
	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"`
}

// ImageProps references a bitmap by URL, data-URL or file path.
type ImageProps struct {
	Src  string `json:"src"`
	Crop *Rect  `json:"crop,omitempty"`
}

// PersonProps draws a portrait placeholder where a photo will be placed.
type PersonProps struct {
	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"`
	Label       string  `json:"label,omitempty"`
}

// QRProps encodes Data as a QR symbol.
type QRProps struct {
	Data       string `json:"data"`
	Foreground string `json:"foreground"`
	Background string `json:"background"`
	ErrorLevel string `json:"errorLevel"` // L | M | Q | H
}

// BarcodeProps encodes Data as a linear barcode.
type BarcodeProps struct {
	Data       string `json:"data"`
	Format     string `json:"format"` // code128
	Foreground string `json:"foreground"`
	Background string `json:"background"`
	ShowText   bool   `json:"showText"`
}

func (*RectProps) Kind() Kind     { return KindRect }
func (*CircleProps) Kind() Kind   { return KindCircle }
func (*TextProps) Kind() Kind     { return KindText }
func (*TriangleProps) Kind() Kind { return KindTriangle }
func (*ImageProps) Kind() Kind    { return KindImage }
func (*PersonProps) Kind() Kind   { return KindPerson }
func (*QRProps) Kind() Kind       { return KindQR }
func (*BarcodeProps) Kind() Kind  { return KindBarcode }

func (p *RectProps) clone() Props    { c := *p; return &c }
func (p *CircleProps) clone() Props  { c := *p; return &c }
func (p *TextProps) clone() Props    { c := *p; return &c }
func (p *PersonProps) clone() Props  { c := *p; return &c }
func (p *QRProps) clone() Props      { c := *p; return &c }
func (p *BarcodeProps) clone() Props { c := *p; return &c }

func (p *TriangleProps) clone() Props {
	c := *p
	c.Points = append([]Point(nil), p.Points...)
	return &c
}

func (p *ImageProps) clone() Props {
	c := *p
	if p.Crop != nil {
		crop := *p.Crop
		c.Crop = &crop
	}
	return &c
}

// newProps returns an empty payload for kind.
func newProps(k Kind) (Props, error) {
	switch k {
	case KindRect:
		return &RectProps{}, nil
	case KindCircle:
		return &CircleProps{}, nil
	case KindText:
		return &TextProps{}, nil
	case KindTriangle:
		return &TriangleProps{}, nil
	case KindImage:
		return &ImageProps{}, nil
	case KindPerson:
		return &PersonProps{}, nil
	case KindQR:
		return &QRProps{}, nil
	case KindBarcode:
		return &BarcodeProps{}, nil
	default:
		return nil, fmt.Errorf("unknown shape kind %q", k)
	}
}

// Clone returns a deep copy of s. Mutating the copy, including its payload,
// never affects s.
func Clone(s Shape) Shape {
	c := s
	if s.Props != nil {
		c.Props = s.Props.clone()
	}
	return c
}

// CloneAll deep-copies a slice of shapes. A nil input yields an empty,
// non-nil slice so snapshots always marshal as [].
func CloneAll(shapes []Shape) []Shape {
	out := make([]Shape, len(shapes))
	for i, s := range shapes {
		out[i] = Clone(s)
	}
	return out
}

// IndexOf returns the position of the shape with id, or -1.
func IndexOf(shapes []Shape, id string) int {
	for i := range shapes {
		if shapes[i].ID == id {
			return i
		}
	}
	return -1
}
