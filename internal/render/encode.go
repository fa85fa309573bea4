package render

import (
	"bytes"
	"fmt"
	"io"

	"github.com/roach88/cardsmith/internal/document"
)

// Format names an encoded image format.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
)

// DefaultJPEGQuality is used when an encode asks for quality 0.
const DefaultJPEGQuality = 92

// ParseFormat accepts png, jpeg and jpg.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "png":
		return PNG, nil
	case "jpeg", "jpg":
		return JPEG, nil
	}
	return "", fmt.Errorf("unknown image format %q", s)
}

// Encode renders side and writes it to w in format f.
func (r *Renderer) Encode(w io.Writer, side document.Side, f Format, opts Options, quality int) error {
	dc, err := r.paint(side, opts)
	if err != nil {
		return err
	}
	defer dc.Close()
	_ = dc.FlushGPU()

	switch f {
	case PNG:
		return dc.EncodePNG(w)
	case JPEG:
		if quality <= 0 {
			quality = DefaultJPEGQuality
		}
		return dc.EncodeJPEG(w, quality)
	}
	return fmt.Errorf("unknown image format %q", f)
}

// ThumbnailScale shrinks a card to roughly 200px wide for design listings.
const ThumbnailScale = 0.25

// Thumbnail renders side at ThumbnailScale and returns it as a PNG data URL.
func (r *Renderer) Thumbnail(side document.Side) (string, error) {
	var buf bytes.Buffer
	if err := r.Encode(&buf, side, PNG, Options{Scale: ThumbnailScale}, 0); err != nil {
		return "", err
	}
	return DataURL("image/png", buf.Bytes()), nil
}
