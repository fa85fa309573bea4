package export

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/roach88/cardsmith/internal/document"
	"github.com/roach88/cardsmith/internal/failure"
	"github.com/roach88/cardsmith/internal/render"
)

// Format is an export target.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	PDF  Format = "pdf"
)

// ParseFormat accepts png, jpeg, jpg and pdf.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "png":
		return PNG, nil
	case "jpeg", "jpg":
		return JPEG, nil
	case "pdf":
		return PDF, nil
	}
	return "", failure.Malformed(fmt.Sprintf("unknown export format %q: must be png, jpeg or pdf", s), nil)
}

// Ext returns the file extension for f, without the dot.
func (f Format) Ext() string {
	if f == JPEG {
		return "jpg"
	}
	return string(f)
}

// DefaultScale renders exports at twice document resolution.
const DefaultScale = 2

// Options controls an export.
type Options struct {
	Format  Format
	Scale   float64 // zero means DefaultScale
	Quality int     // JPEG only; zero means render.DefaultJPEGQuality
	Sides   []document.SideID
	Title   string // PDF metadata
}

func (o Options) scale() float64 {
	if o.Scale <= 0 {
		return DefaultScale
	}
	return o.Scale
}

func (o Options) checkSides() error {
	for _, id := range o.Sides {
		if _, err := document.ParseSide(string(id)); err != nil {
			return failure.Malformed(err.Error(), err)
		}
	}
	return nil
}

func (o Options) sides() []document.SideID {
	if len(o.Sides) == 0 {
		return []document.SideID{document.Front, document.Back}
	}
	return o.Sides
}

// Exporter renders documents to files.
type Exporter struct {
	renderer *render.Renderer
	now      func() time.Time
	logger   *slog.Logger
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithNow sets the PDF creation timestamp source.
func WithNow(now func() time.Time) Option {
	return func(e *Exporter) { e.now = now }
}

// WithLogger sets the exporter's logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Exporter) { e.logger = l }
}

// New creates an exporter that paints with r.
func New(r *render.Renderer, opts ...Option) *Exporter {
	e := &Exporter{renderer: r, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if e.renderer == nil {
		e.renderer = render.NewRenderer(render.WithLogger(e.logger))
	}
	return e
}

// Image writes one side as PNG or JPEG.
func (e *Exporter) Image(w io.Writer, side document.Side, opts Options) error {
	var f render.Format
	switch opts.Format {
	case PNG, "":
		f = render.PNG
	case JPEG:
		f = render.JPEG
	default:
		return failure.Malformed(fmt.Sprintf("format %q is not a raster format", opts.Format), nil)
	}
	if err := e.renderer.Encode(w, side, f, render.Options{Scale: opts.scale()}, opts.Quality); err != nil {
		return failure.External("encode "+side.Name, err)
	}
	return nil
}

// PDF writes the requested sides of doc as pages of one PDF. Each page is
// the side's physical size, so a landscape front and portrait back yield
// pages of different orientation.
func (e *Exporter) PDF(w io.Writer, doc document.Document, opts Options) error {
	if err := opts.checkSides(); err != nil {
		return err
	}
	sides := opts.sides()
	first := doc.Side(sides[0])

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           pageSize(first.Settings),
	})
	pdf.SetCreationDate(e.now())
	pdf.SetCatalogSort(true)
	pdf.SetCreator("cardsmith", true)
	if opts.Title != "" {
		pdf.SetTitle(opts.Title, true)
	}
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)

	for _, id := range sides {
		side := doc.Side(id)
		var buf bytes.Buffer
		if err := e.renderer.Encode(&buf, *side, render.PNG, render.Options{Scale: opts.scale()}, 0); err != nil {
			return failure.External("render "+string(id), err)
		}

		size := pageSize(side.Settings)
		pdf.AddPageFormat("P", size)
		name := "side-" + string(id)
		imgOpts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(name, imgOpts, &buf)
		pdf.ImageOptions(name, 0, 0, size.Wd, size.Ht, false, imgOpts, 0, "")
		e.logger.Debug("pdf page added", "side", id, "width_mm", size.Wd, "height_mm", size.Ht)
	}

	if err := pdf.Output(w); err != nil {
		return failure.External("write pdf", err)
	}
	return nil
}

func pageSize(s document.Settings) gofpdf.SizeType {
	return gofpdf.SizeType{Wd: s.Width / document.PixelsPerMM, Ht: s.Height / document.PixelsPerMM}
}

// WriteFiles exports doc into dir and returns the paths written. Raster
// formats produce one file per side named <base>-<side>.<ext>; PDF
// produces <base>.pdf.
func (e *Exporter) WriteFiles(dir, base string, doc document.Document, opts Options) ([]string, error) {
	if opts.Format == "" {
		opts.Format = PNG
	}
	if err := opts.checkSides(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, failure.External("create export dir", err)
	}

	if opts.Format == PDF {
		path := filepath.Join(dir, base+".pdf")
		if err := writeFile(path, func(w io.Writer) error { return e.PDF(w, doc, opts) }); err != nil {
			return nil, err
		}
		return []string{path}, nil
	}

	paths := make([]string, 0, len(opts.sides()))
	for _, id := range opts.sides() {
		side := doc.Side(id)
		path := filepath.Join(dir, fmt.Sprintf("%s-%s.%s", base, id, opts.Format.Ext()))
		if err := writeFile(path, func(w io.Writer) error { return e.Image(w, *side, opts) }); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// writeFile writes through a temp file and renames it into place, so a
// failed export never leaves a truncated file at path.
func writeFile(path string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*")
	if err != nil {
		return failure.External("create export file", err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return failure.External("close export file", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return failure.External("rename export file", err)
	}
	return nil
}
