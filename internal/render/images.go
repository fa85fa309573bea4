package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "golang.org/x/image/webp"
)

// ImageSource resolves the src of image shapes and background images.
type ImageSource interface {
	Load(src string) (image.Image, error)
}

// LocalImages decodes data-URLs and files under Dir. Remote URLs are not
// fetched. Decoded images are cached by src.
//
// Thread-safety: LocalImages is safe for concurrent use.
type LocalImages struct {
	Dir string

	mu    sync.Mutex
	cache map[string]image.Image
}

// NewLocalImages creates a source resolving relative paths against dir.
func NewLocalImages(dir string) *LocalImages {
	return &LocalImages{Dir: dir, cache: make(map[string]image.Image)}
}

// Load decodes src. Supported forms are data:image/...;base64 URLs,
// file:// URLs and filesystem paths (PNG, JPEG, WebP).
func (l *LocalImages) Load(src string) (image.Image, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if img, ok := l.cache[src]; ok {
		return img, nil
	}

	img, err := l.decode(src)
	if err != nil {
		return nil, err
	}
	if l.cache == nil {
		l.cache = make(map[string]image.Image)
	}
	l.cache[src] = img
	return img, nil
}

func (l *LocalImages) decode(src string) (image.Image, error) {
	switch {
	case src == "":
		return nil, fmt.Errorf("empty image source")
	case strings.HasPrefix(src, "data:"):
		data, err := decodeDataURL(src)
		if err != nil {
			return nil, err
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode data URL: %w", err)
		}
		return img, nil
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return nil, fmt.Errorf("remote image %q is not fetched", src)
	}

	path := src
	if u, err := url.Parse(src); err == nil && u.Scheme == "file" {
		path = u.Path
	}
	if !filepath.IsAbs(path) && l.Dir != "" {
		path = filepath.Join(l.Dir, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// decodeDataURL extracts the payload of a base64 data URL.
func decodeDataURL(src string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(src, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("data URL has no payload")
	}
	if !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("data URL is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode data URL: %w", err)
	}
	return data, nil
}

// DataURL encodes PNG bytes as a data URL.
func DataURL(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
