package render

import (
	"sync"

	"github.com/roach88/cardsmith/internal/document"
)

// job is one side waiting to be painted.
type job struct {
	side     document.SideID
	revision uint64
	content  document.Side
}

// frameQueue holds at most one pending job per side. Submitting a side that
// is already pending replaces it, so a slow renderer only ever paints the
// newest state.
//
// Jobs come out in first-submitted order across sides. The signal channel
// has a buffer of one and coalesces wakeups; the Run loop drains the queue
// with TryDequeue after each wakeup.
type frameQueue struct {
	mu      sync.Mutex
	order   []document.SideID
	pending map[document.SideID]job
	closed  bool
	signal  chan struct{}
}

func newFrameQueue() *frameQueue {
	return &frameQueue{
		pending: make(map[document.SideID]job),
		signal:  make(chan struct{}, 1),
	}
}

// Enqueue stores j as the pending job for its side. Returns false if the
// queue is closed.
func (q *frameQueue) Enqueue(j job) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	if _, ok := q.pending[j.side]; !ok {
		q.order = append(q.order, j.side)
	}
	q.pending[j.side] = j

	select {
	case q.signal <- struct{}{}:
	default:
	}
	return true
}

// TryDequeue removes the oldest pending side without blocking.
func (q *frameQueue) TryDequeue() (job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.order) == 0 {
		return job{}, false
	}
	side := q.order[0]
	q.order = q.order[1:]
	if len(q.order) == 0 {
		q.order = nil
	}
	j := q.pending[side]
	delete(q.pending, side)
	return j, true
}

// Wait returns a channel that signals when jobs may be available. It is
// closed by Close.
func (q *frameQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the number of sides waiting.
func (q *frameQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.order)
}

// Close stops accepting jobs and wakes any waiter.
func (q *frameQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.signal)
}
