// Package clock provides frame clocks: one-shot callback schedulers that
// fire roughly once per display refresh, in the manner of a browser's
// requestAnimationFrame.
//
// A callback requested during a frame runs on the next frame, never the
// current one, so a callback that re-requests itself runs exactly once per
// frame. Callbacks of one clock never overlap.
package clock

import (
	"sync"
	"time"
)

// DefaultFPS is the frame rate used when none is given.
const DefaultFPS = 60

// Handle identifies a pending request. The zero Handle is never issued.
type Handle uint64

// Callback receives the frame timestamp.
type Callback func(now time.Time)

// Clock schedules one-shot frame callbacks.
type Clock interface {
	// Request schedules fn for the next frame.
	Request(fn Callback) Handle

	// Cancel revokes a pending request. Cancelling a request that already
	// ran, or the zero Handle, is a no-op.
	Cancel(h Handle)
}

// Interval returns the frame period for fps, using DefaultFPS when fps <= 0.
func Interval(fps int) time.Duration {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return time.Second / time.Duration(fps)
}

type request struct {
	h  Handle
	fn Callback
}

// queue is the request bookkeeping shared by the clocks.
type queue struct {
	mu      sync.Mutex
	next    Handle
	pending []request
}

func (q *queue) request(fn Callback) Handle {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.next++
	q.pending = append(q.pending, request{h: q.next, fn: fn})
	return q.next
}

func (q *queue) cancel(h Handle) {
	if h == 0 {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, r := range q.pending {
		if r.h == h {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
}

// take removes and returns the batch due on this frame.
func (q *queue) take() []request {
	q.mu.Lock()
	defer q.mu.Unlock()

	batch := q.pending
	q.pending = nil
	return batch
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.pending)
}

// fire runs batch in request order. A request cancelled by an earlier
// callback of the same batch is skipped.
func (q *queue) fire(batch []request, now time.Time, cancelled func(Handle) bool) int {
	n := 0
	for _, r := range batch {
		if cancelled(r.h) {
			continue
		}
		r.fn(now)
		n++
	}
	return n
}
