package export

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cardsmith/internal/document"
	"github.com/roach88/cardsmith/internal/failure"
	"github.com/roach88/cardsmith/internal/shape"
	"github.com/roach88/cardsmith/internal/testutil"
)

func testDocument() document.Document {
	doc := document.New()
	r := shape.DefaultRect(40, 40)
	r.ID = "r1"
	doc.Front.Shapes = []shape.Shape{r}
	doc.Back.Settings = doc.Back.Settings.ToggleOrientation()
	return doc
}

func newTestExporter() *Exporter {
	return New(nil, WithNow(testutil.NewStepClock(time.Time{}, time.Second).Now))
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"png": PNG, "jpg": JPEG, "jpeg": JPEG, "pdf": PDF} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseFormat("svg")
	assert.True(t, failure.IsMalformed(err))
	assert.Equal(t, "jpg", JPEG.Ext())
	assert.Equal(t, "pdf", PDF.Ext())
}

func TestImage_ScaledPNG(t *testing.T) {
	doc := testDocument()

	var buf bytes.Buffer
	require.NoError(t, newTestExporter().Image(&buf, doc.Front, Options{Format: PNG}))

	cfg, format, err := image.DecodeConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, int(doc.Front.Settings.Width*DefaultScale), cfg.Width)
	assert.Equal(t, int(doc.Front.Settings.Height*DefaultScale), cfg.Height)
}

func TestImage_JPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newTestExporter().Image(&buf, testDocument().Back, Options{Format: JPEG, Scale: 1}))

	cfg, format, err := image.DecodeConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Less(t, cfg.Width, cfg.Height, "back side is portrait")
}

func TestImage_RejectsPDF(t *testing.T) {
	err := newTestExporter().Image(&bytes.Buffer{}, testDocument().Front, Options{Format: PDF})
	assert.True(t, failure.IsMalformed(err))
}

func TestPDF_OnePagePerSide(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newTestExporter().PDF(&buf, testDocument(), Options{Scale: 1, Title: "Badge"}))

	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Equal(t, 2, bytes.Count(out, []byte("<</Type /Page\n")))
}

func TestPDF_SelectedSides(t *testing.T) {
	var buf bytes.Buffer
	opts := Options{Scale: 1, Sides: []document.SideID{document.Back}}
	require.NoError(t, newTestExporter().PDF(&buf, testDocument(), opts))
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("<</Type /Page\n")))
}

func TestPDF_UnknownSide(t *testing.T) {
	opts := Options{Sides: []document.SideID{"middle"}}
	err := newTestExporter().PDF(&bytes.Buffer{}, testDocument(), opts)
	assert.True(t, failure.IsMalformed(err))
}

func TestPageSize(t *testing.T) {
	size := pageSize(document.DefaultSettings())
	assert.InDelta(t, 85.6, size.Wd, 0.01)
	assert.InDelta(t, 54.0, size.Ht, 0.01)
}

func TestWriteFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	e := newTestExporter()

	paths, err := e.WriteFiles(dir, "badge", testDocument(), Options{Format: JPEG, Scale: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "badge-front.jpg"),
		filepath.Join(dir, "badge-back.jpg"),
	}, paths)
	for _, p := range paths {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}

	paths, err = e.WriteFiles(dir, "badge", testDocument(), Options{Format: PDF, Scale: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "badge.pdf")}, paths)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3, "no temp files left behind")
}
