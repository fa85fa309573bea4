package render

import (
	"context"
	"errors"
	"image"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/gogpu/gg"

	"github.com/roach88/cardsmith/internal/document"
)

// Frame is a finished render of one side.
type Frame struct {
	Side       document.SideID
	Revision   uint64
	Image      image.Image
	RenderedAt time.Time
}

// State is the adapter's initialization phase.
type State int32

const (
	StateNotReady State = iota
	StateReady
	StateFailed
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateNotReady:
		return "not-ready"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// ErrClosed is returned by Submit and WaitReady after Close.
var ErrClosed = errors.New("render adapter closed")

// Adapter paints sides in the background. Submissions are accepted before
// the renderer has finished initializing; they queue and paint once it is
// ready. Only the newest submission per side is painted.
type Adapter struct {
	renderer *Renderer
	opts     Options
	logger   *slog.Logger
	onFrame  func(Frame)
	now      func() time.Time

	queue *frameQueue
	ready chan struct{}

	mu      sync.Mutex
	state   State
	initErr error
	frames  map[document.SideID]Frame
	done    chan struct{}
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithRenderOptions sets the options used for every frame.
func WithRenderOptions(opts Options) AdapterOption {
	return func(a *Adapter) { a.opts = opts }
}

// WithAdapterLogger sets the adapter's logger. It is also installed as the
// drawing library's logger when the adapter starts.
func WithAdapterLogger(l *slog.Logger) AdapterOption {
	return func(a *Adapter) { a.logger = l }
}

// WithOnFrame registers a callback run on the adapter goroutine after each
// frame.
func WithOnFrame(fn func(Frame)) AdapterOption {
	return func(a *Adapter) { a.onFrame = fn }
}

// WithAdapterNow overrides the frame timestamp source.
func WithAdapterNow(now func() time.Time) AdapterOption {
	return func(a *Adapter) { a.now = now }
}

// NewAdapter creates an adapter around r. Nothing is painted until Start.
func NewAdapter(r *Renderer, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		renderer: r,
		queue:    newFrameQueue(),
		ready:    make(chan struct{}),
		frames:   make(map[document.SideID]Frame),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if a.renderer == nil {
		a.renderer = NewRenderer(WithLogger(a.logger))
	}
	return a
}

// Start initializes the renderer and begins painting queued frames. It
// returns immediately; use Ready or WaitReady to observe initialization.
// Cancelling ctx stops the adapter.
func (a *Adapter) Start(ctx context.Context) {
	a.mu.Lock()
	if a.done != nil || a.state == StateClosed {
		a.mu.Unlock()
		return
	}
	a.done = make(chan struct{})
	a.mu.Unlock()

	go func() {
		defer close(a.done)
		if err := a.init(); err != nil {
			a.logger.Error("renderer init failed", "error", err)
			return
		}
		a.run(ctx)
	}()
}

func (a *Adapter) init() error {
	gg.SetLogger(a.logger)
	_, err := loadFonts()

	a.mu.Lock()
	defer a.mu.Unlock()
	if err != nil {
		a.state = StateFailed
		a.initErr = err
	} else if a.state == StateNotReady {
		a.state = StateReady
	}
	close(a.ready)
	return err
}

func (a *Adapter) run(ctx context.Context) {
	a.logger.Debug("render adapter running")
	for {
		if j, ok := a.queue.TryDequeue(); ok {
			a.paint(j)
			continue
		}

		select {
		case <-ctx.Done():
			a.logger.Debug("render adapter stopping: context cancelled")
			a.queue.Close()
			return
		case _, open := <-a.queue.Wait():
			if !open && a.queue.Len() == 0 {
				a.logger.Debug("render adapter stopping: closed")
				return
			}
		}
	}
}

func (a *Adapter) paint(j job) {
	img, err := a.renderer.Render(j.content, a.opts)
	if err != nil {
		a.logger.Warn("frame not rendered", "side", j.side, "revision", j.revision, "error", err)
		return
	}
	f := Frame{Side: j.side, Revision: j.revision, Image: img, RenderedAt: a.now()}

	a.mu.Lock()
	a.frames[j.side] = f
	a.mu.Unlock()

	a.logger.Debug("frame rendered", "side", j.side, "revision", j.revision)
	if a.onFrame != nil {
		a.onFrame(f)
	}
}

// Submit queues side for painting under id, replacing any pending frame for
// the same id. The side is copied; callers may keep mutating theirs.
func (a *Adapter) Submit(id document.SideID, revision uint64, side document.Side) error {
	if !a.queue.Enqueue(job{side: id, revision: revision, content: side.Clone()}) {
		return ErrClosed
	}
	return nil
}

// State reports the current initialization phase.
func (a *Adapter) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Ready reports whether the renderer has initialized successfully.
func (a *Adapter) Ready() bool {
	return a.State() == StateReady
}

// WaitReady blocks until initialization finishes or ctx is done. It returns
// the initialization error, if any.
func (a *Adapter) WaitReady(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-a.ready:
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state == StateClosed {
		return ErrClosed
	}
	return a.initErr
}

// Pending returns the number of sides waiting to be painted.
func (a *Adapter) Pending() int {
	return a.queue.Len()
}

// Latest returns the newest finished frame for id.
func (a *Adapter) Latest(id document.SideID) (Frame, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	f, ok := a.frames[id]
	return f, ok
}

// Close stops accepting submissions, paints what is already queued and
// waits for the adapter goroutine to exit.
func (a *Adapter) Close() {
	a.queue.Close()

	a.mu.Lock()
	done := a.done
	if done == nil && a.state != StateClosed {
		// Never started: release WaitReady callers.
		a.state = StateClosed
		close(a.ready)
	}
	a.mu.Unlock()

	if done != nil {
		<-done
	}
	a.mu.Lock()
	a.state = StateClosed
	a.mu.Unlock()
}

// SideSource is the read side of an editor.
type SideSource interface {
	Side(id document.SideID) document.Side
	Revision() uint64
}

// Follow returns a change hook that submits every changed side of src.
func (a *Adapter) Follow(src SideSource) func(document.SideID) {
	return func(id document.SideID) {
		if err := a.Submit(id, src.Revision(), src.Side(id)); err != nil {
			a.logger.Debug("frame dropped", "side", id, "error", err)
		}
	}
}
