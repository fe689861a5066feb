package clock

import (
	"sync"
	"time"
)

// Ticker is a real-time Clock. Callbacks run serially on the ticker's own
// goroutine, one batch per period.
type Ticker struct {
	q      queue
	ticker *time.Ticker

	mu        sync.Mutex
	cancelled map[Handle]struct{}

	done chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

// NewTicker starts a clock firing fps times per second.
func NewTicker(fps int) *Ticker {
	t := &Ticker{
		ticker:    time.NewTicker(Interval(fps)),
		cancelled: make(map[Handle]struct{}),
		done:      make(chan struct{}),
	}
	t.wg.Add(1)
	go t.loop()
	return t
}

// Request implements Clock.
func (t *Ticker) Request(fn Callback) Handle {
	return t.q.request(fn)
}

// Cancel implements Clock.
func (t *Ticker) Cancel(h Handle) {
	t.mu.Lock()
	if h != 0 {
		t.cancelled[h] = struct{}{}
	}
	t.mu.Unlock()
	t.q.cancel(h)
}

// Close stops the clock and waits for a running batch to finish. Pending
// requests are dropped. Close must not be called from a callback.
func (t *Ticker) Close() {
	t.once.Do(func() {
		close(t.done)
		t.ticker.Stop()
	})
	t.wg.Wait()
}

func (t *Ticker) loop() {
	defer t.wg.Done()
	for {
		select {
		case <-t.done:
			return
		case now := <-t.ticker.C:
			t.q.fire(t.q.take(), now, t.isCancelled)

			t.mu.Lock()
			clear(t.cancelled)
			t.mu.Unlock()
		}
	}
}

func (t *Ticker) isCancelled(h Handle) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, ok := t.cancelled[h]
	return ok
}
