package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cardsmith/internal/document"
	"github.com/roach88/cardsmith/internal/shape"
)

// plainSide is a 200×100 white side with no grid.
func plainSide() document.Side {
	side := document.NewSide("front")
	side.Settings.Width = 200
	side.Settings.Height = 100
	side.Settings.ShowGrid = false
	return side
}

func rectShape(id string, x, y, w, h float64, fill string) shape.Shape {
	return shape.Shape{
		ID: id, X: x, Y: y, Width: w, Height: h,
		Opacity: 1, Visible: true,
		Props: &shape.RectProps{Fill: fill},
	}
}

func rgb(img image.Image, x, y int) [3]uint8 {
	c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	return [3]uint8{c.R, c.G, c.B}
}

func pngBytes(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestParseColor(t *testing.T) {
	c := parseColor("#ff0000", 0.5)
	assert.InDelta(t, 1.0, c.R, 1e-9)
	assert.InDelta(t, 0.5, c.A, 1e-9)

	for _, s := range []string{"", "transparent", "none", " TRANSPARENT "} {
		assert.False(t, visible(parseColor(s, 1)), "color %q", s)
	}
	assert.False(t, visible(parseColor("#000000", 0)))
}

func TestIsBold(t *testing.T) {
	assert.True(t, isBold("bold"))
	assert.True(t, isBold("700"))
	assert.True(t, isBold("600"))
	assert.False(t, isBold("500"))
	assert.False(t, isBold("normal"))
	assert.False(t, isBold(""))
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"a"}, splitLines("a"))
	assert.Equal(t, []string{"a", "b", ""}, splitLines("a\nb\n"))
}

func TestRender_Size(t *testing.T) {
	r := NewRenderer()

	img, err := r.Render(plainSide(), Options{})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 200, 100), img.Bounds())

	img, err = r.Render(plainSide(), Options{Scale: 2})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 400, 200), img.Bounds())
}

func TestRender_InvalidSettings(t *testing.T) {
	side := plainSide()
	side.Settings.Width = 0

	_, err := NewRenderer().Render(side, Options{})
	assert.Error(t, err)
}

func TestRender_RejectsOversizedRaster(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*document.Settings)
		scale  float64
	}{
		{"huge canvas", func(s *document.Settings) { s.Width, s.Height = 1e8, 1e8 }, 1},
		{"tiny grid", func(s *document.Settings) { s.GridSize, s.ShowGrid = 1e-300, true }, 1},
		{"huge scale", func(s *document.Settings) {}, 1e4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			side := plainSide()
			tt.mutate(&side.Settings)
			_, err := NewRenderer().Render(side, Options{Scale: tt.scale, Grid: true})
			assert.Error(t, err)
		})
	}
}

func TestRender_Background(t *testing.T) {
	side := plainSide()
	side.Settings.BackgroundColor = "#ff0000"

	img, err := NewRenderer().Render(side, Options{})
	require.NoError(t, err)
	assert.Equal(t, [3]uint8{255, 0, 0}, rgb(img, 100, 50))
}

func TestRender_ShapesInPaintOrder(t *testing.T) {
	side := plainSide()
	top := rectShape("top", 50, 25, 100, 50, "#0000ff")
	top.ZIndex = 2
	bottom := rectShape("bottom", 0, 0, 200, 100, "#00ff00")
	bottom.ZIndex = 1
	side.Shapes = []shape.Shape{top, bottom}

	img, err := NewRenderer().Render(side, Options{})
	require.NoError(t, err)
	assert.Equal(t, [3]uint8{0, 0, 255}, rgb(img, 100, 50), "higher zIndex paints on top")
	assert.Equal(t, [3]uint8{0, 255, 0}, rgb(img, 10, 10))
}

func TestRender_SkipsHiddenShapes(t *testing.T) {
	side := plainSide()
	hidden := rectShape("hidden", 0, 0, 200, 100, "#000000")
	hidden.Visible = false
	clear := rectShape("clear", 0, 0, 200, 100, "#000000")
	clear.Opacity = 0
	side.Shapes = []shape.Shape{hidden, clear}

	img, err := NewRenderer().Render(side, Options{})
	require.NoError(t, err)
	assert.Equal(t, [3]uint8{255, 255, 255}, rgb(img, 100, 50))
}

func TestRender_Scale(t *testing.T) {
	side := plainSide()
	side.Shapes = []shape.Shape{rectShape("r", 0, 0, 50, 50, "#000000")}

	img, err := NewRenderer().Render(side, Options{Scale: 2})
	require.NoError(t, err)
	assert.Equal(t, [3]uint8{0, 0, 0}, rgb(img, 90, 90), "rect covers 100×100 device pixels")
	assert.Equal(t, [3]uint8{255, 255, 255}, rgb(img, 110, 110))
}

func TestRender_RotatedShape(t *testing.T) {
	side := plainSide()
	r := rectShape("r", 50, 40, 100, 20, "#000000")
	r.Rotation = 90
	side.Shapes = []shape.Shape{r}

	img, err := NewRenderer().Render(side, Options{})
	require.NoError(t, err)
	// Turned about its center (100,50), the bar now runs vertically.
	assert.Equal(t, [3]uint8{0, 0, 0}, rgb(img, 100, 10))
	assert.Equal(t, [3]uint8{255, 255, 255}, rgb(img, 60, 50))
}

func TestRender_EveryKind(t *testing.T) {
	side := plainSide()
	side.Settings.Width = 856
	side.Settings.Height = 540
	x := 0.0
	for _, k := range shape.Kinds {
		s, err := shape.Default(k, x, 10)
		require.NoError(t, err)
		s.ID = string(k)
		side.Shapes = append(side.Shapes, s)
		x += 100
	}

	_, err := NewRenderer().Render(side, Options{Grid: true, Selection: "rect"})
	assert.NoError(t, err)
}

func TestRender_UnresolvableShapesUsePlaceholder(t *testing.T) {
	side := plainSide()
	side.Shapes = []shape.Shape{
		{ID: "img", X: 0, Y: 0, Width: 100, Height: 100, Opacity: 1, Visible: true,
			Props: &shape.ImageProps{Src: "https://example.com/a.png"}},
		{ID: "qr", X: 100, Y: 0, Width: 100, Height: 100, Opacity: 1, Visible: true,
			Props: &shape.QRProps{}},
	}

	img, err := NewRenderer().Render(side, Options{})
	require.NoError(t, err)
	assert.NotEqual(t, [3]uint8{255, 255, 255}, rgb(img, 20, 50), "placeholder drawn for image")
	assert.NotEqual(t, [3]uint8{255, 255, 255}, rgb(img, 120, 50), "placeholder drawn for qr")
}

func TestRender_ImageFromFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "red.png"), pngBytes(t, 10, 10, color.NRGBA{255, 0, 0, 255}), 0o600))

	side := plainSide()
	side.Shapes = []shape.Shape{{
		ID: "img", X: 0, Y: 0, Width: 100, Height: 100, Opacity: 1, Visible: true,
		Props: &shape.ImageProps{Src: "red.png"},
	}}

	img, err := NewRenderer(WithImageSource(NewLocalImages(dir))).Render(side, Options{})
	require.NoError(t, err)
	assert.Equal(t, [3]uint8{255, 0, 0}, rgb(img, 50, 50))
	assert.Equal(t, [3]uint8{255, 255, 255}, rgb(img, 150, 50))
}

func TestLocalImages(t *testing.T) {
	dir := t.TempDir()
	data := pngBytes(t, 4, 3, color.White)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "w.png"), data, 0o600))
	src := NewLocalImages(dir)

	t.Run("data url", func(t *testing.T) {
		img, err := src.Load(DataURL("image/png", data))
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 4, 3), img.Bounds())
	})

	t.Run("relative path", func(t *testing.T) {
		img, err := src.Load("w.png")
		require.NoError(t, err)
		assert.Equal(t, 4, img.Bounds().Dx())
	})

	t.Run("file url", func(t *testing.T) {
		_, err := src.Load("file://" + filepath.Join(dir, "w.png"))
		assert.NoError(t, err)
	})

	t.Run("remote refused", func(t *testing.T) {
		_, err := src.Load("http://example.com/x.png")
		assert.Error(t, err)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := src.Load("nope.png")
		assert.Error(t, err)
	})

	t.Run("not base64", func(t *testing.T) {
		_, err := src.Load("data:image/png,abc")
		assert.Error(t, err)
	})
}

func TestSymbols(t *testing.T) {
	img, err := qrImage(&shape.QRProps{Data: "ID-0042", ErrorLevel: "H"}, 120, 100)
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx(), "qr is square on the shorter side")
	assert.Equal(t, 100, img.Bounds().Dy())

	img, err = barcodeImage(&shape.BarcodeProps{Data: "ID-0042", Format: "code128"}, 300, 60)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 300, 60), img.Bounds())

	_, err = barcodeImage(&shape.BarcodeProps{Data: "1234", Format: "ean13"}, 300, 60)
	assert.Error(t, err)

	_, err = barcodeImage(&shape.BarcodeProps{}, 300, 60)
	assert.Error(t, err)
}

func TestRecolor(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 2, 1))
	src.SetGray(0, 0, color.Gray{Y: 0})
	src.SetGray(1, 0, color.Gray{Y: 255})

	out := recolor(src, "#ff0000", "#00ff00")
	assert.Equal(t, [3]uint8{255, 0, 0}, rgb(out, 0, 0))
	assert.Equal(t, [3]uint8{0, 255, 0}, rgb(out, 1, 0))
}

func TestEncode(t *testing.T) {
	r := NewRenderer()

	var buf bytes.Buffer
	require.NoError(t, r.Encode(&buf, plainSide(), PNG, Options{}, 0))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))

	buf.Reset()
	require.NoError(t, r.Encode(&buf, plainSide(), JPEG, Options{}, 80))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte{0xFF, 0xD8}))

	assert.Error(t, r.Encode(&buf, plainSide(), Format("gif"), Options{}, 0))
}

func TestThumbnail(t *testing.T) {
	side := plainSide()
	side.Settings.Width = 856
	side.Settings.Height = 540

	url, err := NewRenderer().Thumbnail(side)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "data:image/png;base64,"))

	img, err := NewLocalImages("").Load(url)
	require.NoError(t, err)
	assert.Equal(t, 214, img.Bounds().Dx())
	assert.Equal(t, 135, img.Bounds().Dy())
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("jpg")
	require.NoError(t, err)
	assert.Equal(t, JPEG, f)

	f, err = ParseFormat("png")
	require.NoError(t, err)
	assert.Equal(t, PNG, f)

	_, err = ParseFormat("bmp")
	assert.Error(t, err)
}
