package render

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// fontSet holds the embedded Go fonts. Every font family maps onto them;
// weight and style pick the variant.
type fontSet struct {
	regular, bold, italic, boldItalic *text.FontSource
}

var (
	fontsOnce sync.Once
	fonts     *fontSet
	fontsErr  error
)

func loadFonts() (*fontSet, error) {
	fontsOnce.Do(func() {
		var fs fontSet
		for _, f := range []struct {
			name string
			data []byte
			dst  **text.FontSource
		}{
			{"regular", goregular.TTF, &fs.regular},
			{"bold", gobold.TTF, &fs.bold},
			{"italic", goitalic.TTF, &fs.italic},
			{"bold italic", gobolditalic.TTF, &fs.boldItalic},
		} {
			src, err := text.NewFontSource(f.data)
			if err != nil {
				fontsErr = fmt.Errorf("load %s font: %w", f.name, err)
				return
			}
			*f.dst = src
		}
		fonts = &fs
	})
	return fonts, fontsErr
}

// face returns a face for the given weight, style and size in pixels.
func (fs *fontSet) face(weight, style string, size float64) text.Face {
	bold := isBold(weight)
	italic := strings.EqualFold(style, "italic") || strings.EqualFold(style, "oblique")
	switch {
	case bold && italic:
		return fs.boldItalic.Face(size)
	case bold:
		return fs.bold.Face(size)
	case italic:
		return fs.italic.Face(size)
	}
	return fs.regular.Face(size)
}

// isBold accepts CSS keywords and numeric weights.
func isBold(weight string) bool {
	if strings.EqualFold(weight, "bold") || strings.EqualFold(weight, "bolder") {
		return true
	}
	n, err := strconv.Atoi(weight)
	return err == nil && n >= 600
}
