package clock

import (
	"sync/atomic"
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestInterval(t *testing.T) {
	if got := Interval(0); got != time.Second/60 {
		t.Errorf("Interval(0) = %v, want 1/60s", got)
	}
	if got := Interval(50); got != 20*time.Millisecond {
		t.Errorf("Interval(50) = %v, want 20ms", got)
	}
}

func TestManual_RequestRunsOnNextStep(t *testing.T) {
	m := NewManual(epoch, time.Second)
	var got time.Time
	m.Request(func(now time.Time) { got = now })

	if n := m.Step(); n != 1 {
		t.Fatalf("Step() = %d, want 1", n)
	}
	if !got.Equal(epoch.Add(time.Second)) {
		t.Errorf("callback time = %v, want %v", got, epoch.Add(time.Second))
	}
	if n := m.Step(); n != 0 {
		t.Errorf("second Step() = %d, want 0 (one-shot)", n)
	}
}

func TestManual_ReRequestDefersToNextFrame(t *testing.T) {
	m := NewManual(epoch, time.Millisecond)
	calls := 0
	var loop Callback
	loop = func(time.Time) {
		calls++
		if calls < 3 {
			m.Request(loop)
		}
	}
	m.Request(loop)

	m.Step()
	if calls != 1 {
		t.Fatalf("calls after one Step = %d, want 1", calls)
	}
	if frames := m.Run(0); frames != 2 || calls != 3 {
		t.Errorf("Run = %d frames, calls = %d; want 2, 3", frames, calls)
	}
}

func TestManual_Cancel(t *testing.T) {
	m := NewManual(epoch, time.Millisecond)
	ran := false
	h := m.Request(func(time.Time) { ran = true })
	m.Cancel(h)
	m.Cancel(h)
	m.Cancel(0)

	if m.Pending() != 0 {
		t.Errorf("Pending() = %d after cancel", m.Pending())
	}
	m.Step()
	if ran {
		t.Error("cancelled callback ran")
	}
}

func TestManual_CancelWithinBatch(t *testing.T) {
	m := NewManual(epoch, time.Millisecond)
	var second Handle
	ran := false
	m.Request(func(time.Time) { m.Cancel(second) })
	second = m.Request(func(time.Time) { ran = true })

	if n := m.Step(); n != 1 {
		t.Errorf("Step() = %d, want 1", n)
	}
	if ran {
		t.Error("callback cancelled earlier in the same frame still ran")
	}
}

func TestManual_RunLimit(t *testing.T) {
	m := NewManual(epoch, time.Millisecond)
	var loop Callback
	loop = func(time.Time) { m.Request(loop) }
	m.Request(loop)

	if frames := m.Run(5); frames != 5 {
		t.Errorf("Run(5) = %d", frames)
	}
	if m.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", m.Pending())
	}
}

func TestTicker_FiresAndCloses(t *testing.T) {
	tk := NewTicker(200)
	defer tk.Close()

	var calls atomic.Int32
	done := make(chan struct{})
	var loop Callback
	loop = func(time.Time) {
		if calls.Add(1) == 3 {
			close(done)
			return
		}
		tk.Request(loop)
	}
	tk.Request(loop)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("ticker fired %d times before timeout", calls.Load())
	}
}

func TestTicker_Cancel(t *testing.T) {
	tk := NewTicker(200)
	var ran atomic.Bool
	h := tk.Request(func(time.Time) { ran.Store(true) })
	tk.Cancel(h)
	time.Sleep(30 * time.Millisecond)
	tk.Close()
	tk.Close()

	if ran.Load() {
		t.Error("cancelled callback ran")
	}
}
