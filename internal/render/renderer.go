package render

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"math"

	"github.com/gogpu/gg"

	"github.com/roach88/cardsmith/internal/document"
	"github.com/roach88/cardsmith/internal/layout"
	"github.com/roach88/cardsmith/internal/shape"
)

// Options controls one render pass.
type Options struct {
	// Scale multiplies document pixels. Zero means 1.
	Scale float64

	// Grid draws the editing grid when the side's ShowGrid is on. Exports
	// leave it off.
	Grid bool

	// Selection outlines the shape with this id.
	Selection string
}

// MaxPixels bounds the raster size of a single render.
const MaxPixels = 1 << 26

func (o Options) scale() float64 {
	if o.Scale <= 0 {
		return 1
	}
	return o.Scale
}

// Renderer paints sides into images.
type Renderer struct {
	images ImageSource
	logger *slog.Logger
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithImageSource sets how image shapes and backgrounds are resolved.
func WithImageSource(src ImageSource) RendererOption {
	return func(r *Renderer) { r.images = src }
}

// WithLogger sets the logger for unresolvable images and symbols.
func WithLogger(l *slog.Logger) RendererOption {
	return func(r *Renderer) { r.logger = l }
}

// NewRenderer creates a renderer. By default images resolve relative to the
// working directory.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{}
	for _, opt := range opts {
		opt(r)
	}
	if r.images == nil {
		r.images = NewLocalImages("")
	}
	if r.logger == nil {
		r.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r
}

// Render paints side and returns the finished image. Shapes that cannot be
// drawn (missing image, unencodable symbol) are replaced by a placeholder
// and logged; they do not fail the render.
func (r *Renderer) Render(side document.Side, opts Options) (image.Image, error) {
	dc, err := r.paint(side, opts)
	if err != nil {
		return nil, err
	}
	defer dc.Close()
	_ = dc.FlushGPU()
	return dc.Image(), nil
}

func (r *Renderer) paint(side document.Side, opts Options) (*gg.Context, error) {
	fs, err := loadFonts()
	if err != nil {
		return nil, err
	}
	settings := side.Settings
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("render %s: %w", side.Name, err)
	}

	k := opts.scale()
	w := int(math.Ceil(settings.Width * k))
	h := int(math.Ceil(settings.Height * k))
	if float64(w)*float64(h) > MaxPixels {
		return nil, fmt.Errorf("render %s: %dx%d exceeds %d pixels", side.Name, w, h, MaxPixels)
	}
	dc := gg.NewContext(w, h)
	dc.Scale(k, k)

	r.paintBackground(dc, settings)
	if opts.Grid && settings.ShowGrid {
		paintGrid(dc, settings)
	}
	tf := typeface{fonts: fs, scale: k}
	for _, s := range shape.PaintOrder(side.Shapes) {
		if !s.Visible || s.Opacity <= 0 {
			continue
		}
		r.paintShape(dc, tf, s)
		if s.ID == opts.Selection {
			paintSelection(dc, s)
		}
	}
	return dc, nil
}

func (r *Renderer) paintBackground(dc *gg.Context, s document.Settings) {
	alpha := s.BackgroundOpacity
	if bg := parseColor(s.BackgroundColor, alpha); visible(bg) {
		dc.SetColor(bg.Color())
		dc.DrawRectangle(0, 0, s.Width, s.Height)
		_ = dc.Fill()
	}

	if s.BackgroundImage != "" {
		img, err := r.images.Load(s.BackgroundImage)
		if err != nil {
			r.logger.Warn("background image unavailable", "error", err)
		} else {
			drawCover(dc, img, 0, 0, s.Width, s.Height, 1)
		}
	}

	switch s.BackgroundPattern {
	case "dots":
		dc.SetColor(parseColor("#000000", 0.08).Color())
		for y := 10.0; y < s.Height; y += 20 {
			for x := 10.0; x < s.Width; x += 20 {
				dc.DrawCircle(x, y, 1.5)
			}
		}
		_ = dc.Fill()
	case "stripes":
		dc.SetColor(parseColor("#000000", 0.05).Color())
		dc.SetLineWidth(6)
		for x := -s.Height; x < s.Width; x += 24 {
			dc.DrawLine(x, s.Height, x+s.Height, 0)
		}
		_ = dc.Stroke()
	}
}

func paintGrid(dc *gg.Context, s document.Settings) {
	grid := layout.GridLines(s.Width, s.Height, s.GridSize)
	dc.SetColor(parseColor(s.GridColor, 1).Color())

	if s.GridType == document.GridDots {
		for _, v := range grid.Vertical {
			for _, hl := range grid.Horizontal {
				dc.DrawCircle(v.X1, hl.Y1, 1)
			}
		}
		_ = dc.Fill()
		return
	}

	dc.SetLineWidth(0.5)
	for _, l := range append(grid.Vertical, grid.Horizontal...) {
		dc.DrawLine(l.X1, l.Y1, l.X2, l.Y2)
	}
	_ = dc.Stroke()
}

func paintSelection(dc *gg.Context, s shape.Shape) {
	dc.Push()
	defer dc.Pop()
	rotate(dc, s)
	dc.SetColor(parseColor("#2563eb", 1).Color())
	dc.SetLineWidth(1)
	dc.SetDash(4, 4)
	dc.DrawRectangle(s.X-2, s.Y-2, s.Width+4, s.Height+4)
	_ = dc.Stroke()
	dc.ClearDash()
}

// rotate turns the context about the shape's center.
func rotate(dc *gg.Context, s shape.Shape) {
	if s.Rotation == 0 {
		return
	}
	cx, cy := s.X+s.Width/2, s.Y+s.Height/2
	dc.RotateAbout(s.Rotation*math.Pi/180, cx, cy)
}

// paintShape draws one shape. Every kind has a case; adding a kind without
// one falls through to the placeholder.
func (r *Renderer) paintShape(dc *gg.Context, tf typeface, s shape.Shape) {
	dc.Push()
	defer dc.Pop()
	rotate(dc, s)

	switch p := s.Props.(type) {
	case *shape.RectProps:
		radius := math.Min(p.CornerRadius, math.Min(s.Width, s.Height)/2)
		fillStroke(dc, s.Opacity, p.Fill, p.Stroke, p.StrokeWidth, func() {
			if radius > 0 {
				roundedRect(dc, s.X, s.Y, s.Width, s.Height, radius)
			} else {
				dc.DrawRectangle(s.X, s.Y, s.Width, s.Height)
			}
		})

	case *shape.CircleProps:
		fillStroke(dc, s.Opacity, p.Fill, p.Stroke, p.StrokeWidth, func() {
			dc.DrawCircle(s.X+s.Width/2, s.Y+s.Height/2, math.Min(s.Width, s.Height)/2)
		})

	case *shape.TriangleProps:
		if len(p.Points) < 3 {
			return
		}
		fillStroke(dc, s.Opacity, p.Fill, p.Stroke, p.StrokeWidth, func() {
			sx, sy := pointScale(p.Points, s.Width, s.Height)
			for i, pt := range p.Points {
				x, y := s.X+pt.X*sx, s.Y+pt.Y*sy
				if i == 0 {
					dc.MoveTo(x, y)
				} else {
					dc.LineTo(x, y)
				}
			}
			dc.ClosePath()
		})

	case *shape.TextProps:
		paintText(dc, tf, s, p)

	case *shape.PersonProps:
		paintPerson(dc, tf, s, p)

	case *shape.ImageProps:
		img, err := r.images.Load(p.Src)
		if err != nil {
			r.logger.Warn("image unavailable", "shape", s.ID, "error", err)
			paintPlaceholder(dc, s)
			return
		}
		if p.Crop != nil {
			img = crop(img, *p.Crop)
		}
		drawStretch(dc, img, s.X, s.Y, s.Width, s.Height, s.Opacity)

	case *shape.QRProps:
		img, err := qrImage(p, int(s.Width), int(s.Height))
		if err != nil {
			r.logger.Warn("qr not drawn", "shape", s.ID, "error", err)
			paintPlaceholder(dc, s)
			return
		}
		side := math.Min(s.Width, s.Height)
		drawStretch(dc, img, s.X+(s.Width-side)/2, s.Y+(s.Height-side)/2, side, side, s.Opacity)

	case *shape.BarcodeProps:
		paintBarcode(r, dc, tf, s, p)

	default:
		paintPlaceholder(dc, s)
	}
}

// fillStroke fills then strokes the path built by path.
func fillStroke(dc *gg.Context, opacity float64, fill, stroke string, strokeWidth float64, path func()) {
	if c := parseColor(fill, opacity); visible(c) {
		path()
		dc.SetColor(c.Color())
		_ = dc.Fill()
	}
	if c := parseColor(stroke, opacity); visible(c) && strokeWidth > 0 {
		path()
		dc.SetColor(c.Color())
		dc.SetLineWidth(strokeWidth)
		_ = dc.Stroke()
	}
}

// roundedRect builds a rounded rectangle path through the current
// transform.
func roundedRect(dc *gg.Context, x, y, w, h, r float64) {
	const k = 0.5522847498307936
	o := r * k
	dc.MoveTo(x+r, y)
	dc.LineTo(x+w-r, y)
	dc.CubicTo(x+w-r+o, y, x+w, y+r-o, x+w, y+r)
	dc.LineTo(x+w, y+h-r)
	dc.CubicTo(x+w, y+h-r+o, x+w-r+o, y+h, x+w-r, y+h)
	dc.LineTo(x+r, y+h)
	dc.CubicTo(x+r-o, y+h, x, y+h-r+o, x, y+h-r)
	dc.LineTo(x, y+r)
	dc.CubicTo(x, y+r-o, x+r-o, y, x+r, y)
	dc.ClosePath()
}

// pointScale maps triangle points, authored against the default 100×100
// box, onto the shape's current size.
func pointScale(pts []shape.Point, w, h float64) (sx, sy float64) {
	var maxX, maxY float64
	for _, p := range pts {
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	sx, sy = 1, 1
	if maxX > 0 {
		sx = w / maxX
	}
	if maxY > 0 {
		sy = h / maxY
	}
	return sx, sy
}

func paintText(dc *gg.Context, tf typeface, s shape.Shape, p *shape.TextProps) {
	if p.Text == "" || p.FontSize <= 0 {
		return
	}
	tf.use(dc, p.FontWeight, p.FontStyle, p.FontSize)
	dc.SetColor(parseColor(p.Fill, s.Opacity).Color())

	var x, ax float64
	switch p.Align {
	case "center":
		x, ax = s.X+s.Width/2, 0.5
	case "right":
		x, ax = s.X+s.Width, 1
	default:
		x, ax = s.X, 0
	}
	lineHeight := p.LineHeight
	if lineHeight <= 0 {
		lineHeight = 1.2
	}
	lines := splitLines(p.Text)
	step := p.FontSize * lineHeight
	top := s.Y + (s.Height-step*float64(len(lines)))/2
	for i, line := range lines {
		tf.draw(dc, line, x, top+step*float64(i)+step/2, ax, 0.35)
	}
}

// typeface draws text in document coordinates. The drawing library places
// glyphs in device pixels, so the anchor is mapped through the current
// transform and sizes are multiplied by the render scale. Glyphs are not
// rotated.
type typeface struct {
	fonts *fontSet
	scale float64
}

func (t typeface) use(dc *gg.Context, weight, style string, size float64) {
	dc.SetFont(t.fonts.face(weight, style, size*t.scale))
}

func (t typeface) draw(dc *gg.Context, s string, x, y, ax, ay float64) {
	dx, dy := dc.TransformPoint(x, y)
	dc.DrawStringAnchored(s, dx, dy, ax, ay)
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return append(lines, s[start:])
}

// paintPerson draws a head-and-shoulders silhouette inside a framed box.
func paintPerson(dc *gg.Context, tf typeface, s shape.Shape, p *shape.PersonProps) {
	fillStroke(dc, s.Opacity, p.Fill, p.Stroke, p.StrokeWidth, func() {
		dc.DrawRectangle(s.X, s.Y, s.Width, s.Height)
	})

	silhouette := parseColor(p.Stroke, s.Opacity*0.6)
	if !visible(silhouette) {
		silhouette = parseColor("#6b7280", s.Opacity)
	}
	dc.SetColor(silhouette.Color())
	cx := s.X + s.Width/2
	headR := math.Min(s.Width, s.Height) * 0.18
	dc.DrawCircle(cx, s.Y+s.Height*0.35, headR)
	_ = dc.Fill()
	dc.DrawEllipse(cx, s.Y+s.Height, s.Width*0.38, s.Height*0.32)
	_ = dc.Fill()

	if p.Label != "" {
		tf.use(dc, "", "", math.Max(8, s.Height*0.1))
		dc.SetColor(parseColor("#111827", s.Opacity).Color())
		tf.draw(dc, p.Label, cx, s.Y+s.Height*0.08, 0.5, 1)
	}
}

func paintBarcode(r *Renderer, dc *gg.Context, tf typeface, s shape.Shape, p *shape.BarcodeProps) {
	barHeight := s.Height
	if p.ShowText {
		barHeight = s.Height * 0.78
	}
	img, err := barcodeImage(p, int(s.Width), int(barHeight))
	if err != nil {
		r.logger.Warn("barcode not drawn", "shape", s.ID, "error", err)
		paintPlaceholder(dc, s)
		return
	}
	drawStretch(dc, img, s.X, s.Y, s.Width, barHeight, s.Opacity)
	if p.ShowText {
		tf.use(dc, "", "", (s.Height-barHeight)*0.8)
		dc.SetColor(parseColor(defaultString(p.Foreground, "#000000"), s.Opacity).Color())
		tf.draw(dc, p.Data, s.X+s.Width/2, s.Y+s.Height-(s.Height-barHeight)/2, 0.5, 0.35)
	}
}

// paintPlaceholder marks a shape that could not be drawn with a crossed
// box.
func paintPlaceholder(dc *gg.Context, s shape.Shape) {
	dc.SetColor(parseColor("#e5e7eb", s.Opacity).Color())
	dc.DrawRectangle(s.X, s.Y, s.Width, s.Height)
	_ = dc.Fill()
	dc.SetColor(parseColor("#9ca3af", s.Opacity).Color())
	dc.SetLineWidth(1)
	dc.DrawRectangle(s.X, s.Y, s.Width, s.Height)
	dc.DrawLine(s.X, s.Y, s.X+s.Width, s.Y+s.Height)
	dc.DrawLine(s.X+s.Width, s.Y, s.X, s.Y+s.Height)
	_ = dc.Stroke()
}

// drawStretch draws img scaled to exactly w×h.
func drawStretch(dc *gg.Context, img image.Image, x, y, w, h, opacity float64) {
	if w <= 0 || h <= 0 || opacity <= 0 {
		return
	}
	dc.DrawImageEx(gg.ImageBufFromImage(img), gg.DrawImageOptions{
		X:         x,
		Y:         y,
		DstWidth:  w,
		DstHeight: h,
		Opacity:   opacity,
	})
}

// drawCover scales img to cover the w×h box, cropping the overflow from the
// center.
func drawCover(dc *gg.Context, img image.Image, x, y, w, h, opacity float64) {
	b := img.Bounds()
	iw, ih := float64(b.Dx()), float64(b.Dy())
	if iw == 0 || ih == 0 {
		return
	}
	scale := math.Max(w/iw, h/ih)
	cw, ch := w/scale, h/scale
	src := image.Rect(
		b.Min.X+int((iw-cw)/2), b.Min.Y+int((ih-ch)/2),
		b.Min.X+int((iw+cw)/2), b.Min.Y+int((ih+ch)/2),
	)
	dc.DrawImageEx(gg.ImageBufFromImage(img), gg.DrawImageOptions{
		X:         x,
		Y:         y,
		DstWidth:  w,
		DstHeight: h,
		SrcRect:   &src,
		Opacity:   opacity,
	})
}

// crop returns the part of img inside r, clamped to its bounds.
func crop(img image.Image, r shape.Rect) image.Image {
	b := img.Bounds()
	rect := image.Rect(
		b.Min.X+int(r.X), b.Min.Y+int(r.Y),
		b.Min.X+int(r.X+r.Width), b.Min.Y+int(r.Y+r.Height),
	).Intersect(b)
	if rect.Empty() {
		return img
	}
	out := image.NewNRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			out.Set(x-rect.Min.X, y-rect.Min.Y, img.At(x, y))
		}
	}
	return out
}
