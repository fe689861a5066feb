package clock

import (
	"sync"
	"time"
)

// Manual is a Clock that only advances when Step is called. Headless
// rendering and tests use it to drive playback deterministically.
type Manual struct {
	q        queue
	interval time.Duration

	mu        sync.Mutex
	now       time.Time
	cancelled map[Handle]struct{}
}

// NewManual returns a Manual clock starting at start whose frames are
// interval apart.
func NewManual(start time.Time, interval time.Duration) *Manual {
	return &Manual{
		interval:  interval,
		now:       start,
		cancelled: make(map[Handle]struct{}),
	}
}

// Request implements Clock.
func (m *Manual) Request(fn Callback) Handle {
	return m.q.request(fn)
}

// Cancel implements Clock.
func (m *Manual) Cancel(h Handle) {
	m.mu.Lock()
	if h != 0 {
		m.cancelled[h] = struct{}{}
	}
	m.mu.Unlock()
	m.q.cancel(h)
}

// Step advances one frame and runs the callbacks that were pending when it
// was called. It returns how many ran.
func (m *Manual) Step() int {
	m.mu.Lock()
	m.now = m.now.Add(m.interval)
	now := m.now
	m.mu.Unlock()

	batch := m.q.take()
	n := m.q.fire(batch, now, m.isCancelled)

	m.mu.Lock()
	clear(m.cancelled)
	m.mu.Unlock()
	return n
}

// Run steps until no request is pending or limit frames have run, and
// returns the number of frames stepped. A limit <= 0 means no limit.
func (m *Manual) Run(limit int) int {
	frames := 0
	for m.Pending() > 0 && (limit <= 0 || frames < limit) {
		m.Step()
		frames++
	}
	return frames
}

// Pending returns the number of requests waiting for the next frame.
func (m *Manual) Pending() int {
	return m.q.len()
}

// Now returns the timestamp of the last frame.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.now
}

func (m *Manual) isCancelled(h Handle) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.cancelled[h]
	return ok
}
