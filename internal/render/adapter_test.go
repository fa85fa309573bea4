package render

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cardsmith/internal/document"
	"github.com/roach88/cardsmith/internal/editor"
	"github.com/roach88/cardsmith/internal/shape"
	"github.com/roach88/cardsmith/internal/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type frameRecorder struct {
	mu     sync.Mutex
	frames []Frame
	ch     chan Frame
}

func newFrameRecorder() *frameRecorder {
	return &frameRecorder{ch: make(chan Frame, 16)}
}

func (r *frameRecorder) record(f Frame) {
	r.mu.Lock()
	r.frames = append(r.frames, f)
	r.mu.Unlock()
	r.ch <- f
}

func (r *frameRecorder) next(t *testing.T) Frame {
	t.Helper()
	select {
	case f := <-r.ch:
		return f
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for frame")
		return Frame{}
	}
}

func (r *frameRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

func TestAdapter_QueuesBeforeReady(t *testing.T) {
	rec := newFrameRecorder()
	a := NewAdapter(NewRenderer(), WithAdapterLogger(discardLogger()), WithOnFrame(rec.record))
	defer a.Close()

	assert.Equal(t, StateNotReady, a.State())
	assert.False(t, a.Ready())

	side := plainSide()
	for rev := uint64(1); rev <= 3; rev++ {
		require.NoError(t, a.Submit(document.Front, rev, side))
	}
	assert.Equal(t, 1, a.Pending(), "repeated submissions for a side coalesce")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a.Start(ctx)
	require.NoError(t, a.WaitReady(ctx))
	assert.True(t, a.Ready())

	f := rec.next(t)
	assert.Equal(t, document.Front, f.Side)
	assert.Equal(t, uint64(3), f.Revision)
	assert.Equal(t, 200, f.Image.Bounds().Dx())

	latest, ok := a.Latest(document.Front)
	require.True(t, ok)
	assert.Equal(t, uint64(3), latest.Revision)
	_, ok = a.Latest(document.Back)
	assert.False(t, ok)
}

func TestAdapter_SubmitCopiesSide(t *testing.T) {
	rec := newFrameRecorder()
	a := NewAdapter(nil, WithOnFrame(rec.record))
	defer a.Close()

	side := plainSide()
	side.Shapes = []shape.Shape{rectShape("r", 0, 0, 200, 100, "#000000")}
	require.NoError(t, a.Submit(document.Front, 1, side))
	side.Shapes[0].Visible = false

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a.Start(ctx)

	f := rec.next(t)
	assert.Equal(t, [3]uint8{0, 0, 0}, rgb(f.Image, 100, 50))
}

func TestAdapter_FollowsEditor(t *testing.T) {
	rec := newFrameRecorder()
	a := NewAdapter(NewRenderer(), WithOnFrame(rec.record), WithAdapterNow(testutil.NewStepClock(time.Time{}, time.Second).Now))
	defer a.Close()

	ed := editor.New(testutil.NewSequenceGenerator("shape"))
	ed.OnChange(a.Follow(ed))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a.Start(ctx)
	require.NoError(t, a.WaitReady(ctx))

	ed.AddShape(shape.DefaultRect(10, 10))
	f := rec.next(t)
	assert.Equal(t, document.Front, f.Side)
	assert.Equal(t, ed.Revision(), f.Revision)
	assert.Equal(t, testutil.Epoch, f.RenderedAt)
}

func TestAdapter_CloseBeforeStart(t *testing.T) {
	a := NewAdapter(NewRenderer())
	a.Close()
	a.Close()

	assert.Equal(t, StateClosed, a.State())
	assert.ErrorIs(t, a.WaitReady(context.Background()), ErrClosed)
	assert.ErrorIs(t, a.Submit(document.Front, 1, plainSide()), ErrClosed)

	a.Start(context.Background())
	assert.Equal(t, StateClosed, a.State(), "start after close is a no-op")
}

func TestAdapter_CloseDrainsQueue(t *testing.T) {
	rec := newFrameRecorder()
	a := NewAdapter(NewRenderer(), WithOnFrame(rec.record))

	require.NoError(t, a.Submit(document.Front, 1, plainSide()))
	require.NoError(t, a.Submit(document.Back, 1, plainSide()))
	a.Start(context.Background())
	a.Close()

	assert.Equal(t, 2, rec.count())
	assert.Equal(t, StateClosed, a.State())
}

func TestAdapter_ContextCancelStops(t *testing.T) {
	a := NewAdapter(NewRenderer())
	ctx, cancel := context.WithCancel(context.Background())
	a.Start(ctx)
	require.NoError(t, a.WaitReady(ctx))

	cancel()
	a.Close()
	assert.ErrorIs(t, a.Submit(document.Front, 1, plainSide()), ErrClosed)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "not-ready", StateNotReady.String())
	assert.Equal(t, "ready", StateReady.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "closed", StateClosed.String())
}
